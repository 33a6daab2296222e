package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/w1nReach/w1nReachBotik/internal/button"
	"github.com/w1nReach/w1nReachBotik/internal/metrics"
)

// renderPost удаляет исходный пост и публикует его заново с inline-кнопками.
// Текст шлём без parse mode: содержимое пользовательское.
func (b *Bot) renderPost(post *tgbotapi.Message, clean string, defs []button.Definition) {
	kb := buttonsKeyboard(defs)
	chatID := post.Chat.ID

	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, post.MessageID)); err != nil {
		b.log.Warn().Err(err).Int64("chat_id", chatID).Int("message_id", post.MessageID).Msg("delete post failed")
	}

	var err error
	switch {
	case len(post.Photo) > 0:
		// последний элемент — самое крупное разрешение
		fileID := post.Photo[len(post.Photo)-1].FileID
		msg := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(fileID))
		msg.Caption = clean
		msg.ReplyMarkup = kb
		_, err = b.api.Send(msg)
	case post.Video != nil:
		msg := tgbotapi.NewVideo(chatID, tgbotapi.FileID(post.Video.FileID))
		msg.Caption = clean
		msg.ReplyMarkup = kb
		_, err = b.api.Send(msg)
	default:
		msg := tgbotapi.NewMessage(chatID, clean)
		msg.ReplyMarkup = kb
		_, err = b.api.Send(msg)
	}
	if err != nil {
		b.log.Error().Err(err).Int64("chat_id", chatID).Msg("repost failed")
		return
	}

	metrics.ButtonsParsed.Add(float64(len(defs)))
	metrics.MessagesRendered.Inc()
}

package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/w1nReach/w1nReachBotik/internal/button"
)

// handleLinkForward привязывает канал по форварду из него. Требования:
// бот — админ канала, приславший — владелец или админ канала.
func (b *Bot) handleLinkForward(ctx context.Context, m *tgbotapi.Message, sess *session, now int64) {
	fc := m.ForwardFromChat
	if fc == nil || !fc.IsChannel() {
		b.send(m.Chat.ID, "Это не похоже на пост из канала. Перешли сообщение именно из канала.\n\n/cancel — отмена")
		return
	}

	botMember, err := b.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{ChatID: fc.ID, UserID: b.api.Self.ID},
	})
	if err != nil || !(botMember.IsAdministrator() || botMember.IsCreator()) {
		b.send(m.Chat.ID, "Сначала добавь бота администратором канала (публикация и удаление сообщений).")
		return
	}

	userMember, err := b.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{ChatID: fc.ID, UserID: m.From.ID},
	})
	if err != nil || !(userMember.IsAdministrator() || userMember.IsCreator()) {
		b.send(m.Chat.ID, "Привязать канал может только его владелец или администратор.")
		return
	}

	if err := b.channels.Bind(ctx, m.From.ID, fc.ID, fc.Title, fc.UserName, now); err != nil {
		b.log.Error().Err(err).Int64("chat_id", fc.ID).Msg("bind channel failed")
		b.send(m.Chat.ID, "Не получилось привязать канал, попробуй позже.")
		return
	}
	b.sessions.clear(m.Chat.ID)
	b.send(m.Chat.ID, fmt.Sprintf("✅ Канал <b>%s</b> привязан. Пиши в него посты с <code>/button Текст \"https://…\"</code>.", fc.Title))
}

func (b *Bot) sendMyChannels(ctx context.Context, chatID, ownerID int64) {
	chs, err := b.channels.ByOwner(ctx, ownerID)
	if err != nil {
		b.log.Error().Err(err).Msg("channels by owner failed")
		return
	}
	if len(chs) == 0 {
		b.send(chatID, "Привязанных каналов нет. Нажми «"+btnLinkChannel+"».")
		return
	}
	var sb strings.Builder
	sb.WriteString("📋 <b>Твои каналы</b>\n")
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(chs))
	for _, ch := range chs {
		sb.WriteString(fmt.Sprintf("\n• %s (<code>%d</code>)", ch.Title, ch.ChatID))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 "+ch.Title, fmt.Sprintf("unlink:%d", ch.ChatID)),
		))
	}
	b.sendWithKeyboard(chatID, sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (b *Bot) unlinkChannel(ctx context.Context, q *tgbotapi.CallbackQuery, chatID int64) {
	ch, err := b.channels.Get(ctx, chatID)
	if err != nil || ch == nil {
		b.alertCallback(q.ID, "Канал уже отвязан.")
		return
	}
	if ch.OwnerID != q.From.ID && !b.users.IsAdmin(q.From.ID, q.From.UserName) {
		b.alertCallback(q.ID, "Этот канал привязан не тобой.")
		return
	}
	if err := b.channels.Unbind(ctx, chatID); err != nil {
		b.log.Error().Err(err).Int64("chat_id", chatID).Msg("unbind channel failed")
		b.alertCallback(q.ID, "Не получилось, попробуй позже.")
		return
	}
	if _, err := b.api.Request(tgbotapi.LeaveChatConfig{ChatID: chatID}); err != nil {
		b.log.Warn().Err(err).Int64("chat_id", chatID).Msg("leave chat failed")
	}
	b.answerCallback(q.ID, "Канал отвязан")
	if q.Message != nil {
		b.send(q.Message.Chat.ID, fmt.Sprintf("🗑 Канал <b>%s</b> отвязан, бот вышел из него.", ch.Title))
	}
}

// handleChannelPost — рабочий цикл в канале: пост с директивами удаляется
// и публикуется заново с кнопками.
func (b *Bot) handleChannelPost(ctx context.Context, post *tgbotapi.Message) {
	allowed, err := b.channels.IsAllowed(ctx, post.Chat.ID)
	if err != nil {
		b.log.Error().Err(err).Int64("chat_id", post.Chat.ID).Msg("channel lookup failed")
		return
	}
	if !allowed {
		return
	}

	text := post.Text
	if text == "" {
		text = post.Caption
	}
	if !containsTrigger(text, b.triggers()) {
		return
	}

	// подписка проверяется по владельцу привязки, не по автору поста
	ch, err := b.channels.Get(ctx, post.Chat.ID)
	if err != nil || ch == nil {
		return
	}
	if ch.OwnerID != b.cfg.AdminID {
		hasSub, err := b.subs.HasActive(ctx, ch.OwnerID, int64(post.Date))
		if err != nil || !hasSub {
			return
		}
	}

	clean, defs := button.Extract(text, b.triggers())
	if len(defs) == 0 {
		return
	}
	b.renderPost(post, clean, defs)
}

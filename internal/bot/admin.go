package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/w1nReach/w1nReachBotik/internal/metrics"
	"github.com/w1nReach/w1nReachBotik/internal/subscription"
)

func (b *Bot) handleAdminCallback(ctx context.Context, q *tgbotapi.CallbackQuery, action string) {
	chatID := q.Message.Chat.ID
	sess := b.sessions.get(chatID)

	switch action {
	case "bindinfo":
		b.answerCallback(q.ID, "")
		b.send(chatID, "Добавь бота администратором канала и перешли сюда любой пост из него (кнопка «"+btnLinkChannel+"»).")
	case "listch":
		b.answerCallback(q.ID, "")
		b.sendAllChannels(ctx, chatID)
	case "unbindask":
		sess.State = stateAdminUnbind
		b.answerCallback(q.ID, "")
		b.send(chatID, "Пришли ID канала (вида <code>-100…</code>) или его @username.\n\n/cancel — отмена")
	case "grant":
		sess.State = stateAdminGrantUser
		b.answerCallback(q.ID, "")
		b.send(chatID, "Кому выдать подписку? @username или числовой ID.\n\n/cancel — отмена")
	case "broadcast":
		sess.State = stateAdminBroadcast
		b.answerCallback(q.ID, "")
		b.send(chatID, "Пришли текст рассылки. Уйдёт всем, кто писал боту.\n\n/cancel — отмена")
	case "stats":
		b.answerCallback(q.ID, "")
		b.sendStats(ctx, chatID)
	case "makebtn":
		sess.State = stateCreateText
		b.answerCallback(q.ID, "")
		b.send(chatID, "✍️ Пришли текст сообщения, к которому добавим кнопку.\n\n/cancel — отмена")
	default:
		b.answerCallback(q.ID, "")
	}
}

func (b *Bot) handleAdminStep(ctx context.Context, m *tgbotapi.Message, sess *session, now int64) {
	switch sess.State {
	case stateAdminUnbind:
		b.adminUnbind(ctx, m)
	case stateAdminBroadcast:
		text := m.Text
		b.sessions.clear(m.Chat.ID)
		b.broadcast(ctx, m.Chat.ID, text)
	case stateAdminGrantUser:
		ref := parseTarget(m, m.Text)
		var uid int64
		switch ref.Kind {
		case targetReply, targetID:
			uid = ref.UserID
		case targetHandle:
			id, err := b.users.LookupIDByUsername(ctx, ref.Username)
			if err != nil {
				b.send(m.Chat.ID, "Такой пользователь боту ещё не писал. Пришли числовой ID или другой @username.")
				return
			}
			uid = id
		default:
			b.send(m.Chat.ID, "Пришли @username или числовой ID.")
			return
		}
		sess.TargetID = uid
		sess.State = stateAdminGrantPlan
		b.send(m.Chat.ID, "Какой план? week / month / year / forever")
	case stateAdminGrantPlan:
		plan, ok := subscription.NormalizePlan(m.Text)
		if !ok {
			b.send(m.Chat.ID, "Не знаю такой план. Доступны: week, month, year, forever.")
			return
		}
		targetID := sess.TargetID
		b.sessions.clear(m.Chat.ID)
		g, err := b.subs.Grant(ctx, targetID, plan, now, nil)
		if err != nil {
			b.log.Error().Err(err).Int64("user_id", targetID).Msg("admin grant failed")
			b.send(m.Chat.ID, "Не получилось выдать подписку.")
			return
		}
		metrics.GrantsIssued.WithLabelValues(string(g.Plan)).Inc()
		b.send(m.Chat.ID, fmt.Sprintf("✅ Выдал <b>%s</b> пользователю <code>%d</code>.", g.Plan.Human(), targetID))
		b.send(targetID, fmt.Sprintf("🎉 Тебе выдали подписку <b>%s</b>! Жми /start.", g.Plan.Human()))
	}
}

func (b *Bot) adminUnbind(ctx context.Context, m *tgbotapi.Message) {
	id, uname := parseChatRef(m.Text)
	if id == 0 && uname == "" {
		b.send(m.Chat.ID, "Пришли ID вида <code>-100…</code> или @username канала.")
		return
	}
	if id == 0 {
		chs, err := b.channels.All(ctx)
		if err != nil {
			b.log.Error().Err(err).Msg("list channels failed")
			return
		}
		for _, ch := range chs {
			if strings.EqualFold(ch.Username, uname) {
				id = ch.ChatID
				break
			}
		}
		if id == 0 {
			b.send(m.Chat.ID, "Не нашёл такой канал среди привязанных.")
			return
		}
	}
	b.sessions.clear(m.Chat.ID)
	if err := b.channels.Unbind(ctx, id); err != nil {
		b.log.Error().Err(err).Int64("chat_id", id).Msg("unbind channel failed")
		b.send(m.Chat.ID, "Не получилось отвязать канал.")
		return
	}
	if _, err := b.api.Request(tgbotapi.LeaveChatConfig{ChatID: id}); err != nil {
		b.log.Warn().Err(err).Int64("chat_id", id).Msg("leave chat failed")
	}
	b.send(m.Chat.ID, fmt.Sprintf("🗑 Канал <code>%d</code> отвязан.", id))
}

func (b *Bot) sendAllChannels(ctx context.Context, chatID int64) {
	chs, err := b.channels.All(ctx)
	if err != nil {
		b.log.Error().Err(err).Msg("list channels failed")
		return
	}
	if len(chs) == 0 {
		b.send(chatID, "Привязанных каналов нет.")
		return
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 <b>Каналы</b> (%d)\n", len(chs)))
	for _, ch := range chs {
		sb.WriteString(fmt.Sprintf("\n• %s (<code>%d</code>), владелец <code>%d</code>", ch.Title, ch.ChatID, ch.OwnerID))
	}
	b.send(chatID, sb.String())
}

func (b *Bot) sendStats(ctx context.Context, chatID int64) {
	now := time.Now().Unix()
	usersTotal, err := b.users.Count(ctx)
	if err != nil {
		b.log.Error().Err(err).Msg("count users failed")
	}
	active, err := b.subs.CountActiveUsers(ctx, now)
	if err != nil {
		b.log.Error().Err(err).Msg("count active failed")
	}
	chs, err := b.channels.All(ctx)
	if err != nil {
		b.log.Error().Err(err).Msg("list channels failed")
	}
	b.send(chatID, fmt.Sprintf(
		"🧮 <b>Статистика</b>\n\n👥 Пользователей: %d\n✅ Активных подписок: %d\n📣 Каналов: %d",
		usersTotal, active, len(chs)))
}

// broadcast шлёт текст всем известным пользователям. Сама доставка уходит
// в горутину: цикл обновлений не должен стоять, пока рассылаются тысячи
// сообщений — платежи и pre-checkout важнее.
func (b *Bot) broadcast(ctx context.Context, adminChatID int64, text string) {
	ids, err := b.users.AllIDs(ctx)
	if err != nil {
		b.log.Error().Err(err).Msg("list user ids failed")
		b.send(adminChatID, "Не получилось собрать получателей.")
		return
	}
	b.send(adminChatID, fmt.Sprintf("📣 Начал рассылку: %d получателей.", len(ids)))

	go func() {
		okCount, failCount := deliverAll(ids, func(id int64) error {
			msg := tgbotapi.NewMessage(id, text)
			msg.ParseMode = tgbotapi.ModeHTML
			_, err := b.api.Send(msg)
			return err
		}, 50*time.Millisecond)
		b.send(adminChatID, fmt.Sprintf("📣 Рассылка готова: доставлено %d, не доставлено %d.", okCount, failCount))
	}()
}

// deliverAll прогоняет send по всем id с паузой между отправками, чтобы не
// упереться в лимиты Bot API, и возвращает счётчики доставлено/не доставлено.
func deliverAll(ids []int64, send func(int64) error, pause time.Duration) (int, int) {
	var okCount, failCount int
	for _, id := range ids {
		if err := send(id); err != nil {
			failCount++
			metrics.BroadcastMessages.WithLabelValues("fail").Inc()
			continue
		}
		okCount++
		metrics.BroadcastMessages.WithLabelValues("ok").Inc()
		time.Sleep(pause)
	}
	return okCount, failCount
}

package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/w1nReach/w1nReachBotik/internal/subscription"
)

func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	if q.Message == nil || q.From == nil {
		return
	}
	chatID := q.Message.Chat.ID
	now := time.Now().Unix()

	switch {
	case strings.HasPrefix(q.Data, "buy:"):
		plan, ok := subscription.NormalizePlan(strings.TrimPrefix(q.Data, "buy:"))
		if !ok {
			b.alertCallback(q.ID, "Неизвестный план")
			return
		}
		b.answerCallback(q.ID, "")
		b.sendSubscriptionInvoice(ctx, chatID, q.From.ID, plan, subscription.InvoicePayload{
			Kind: subscription.PayloadKindSubscription,
			Type: subscription.PayloadTypeSelf,
			Plan: plan,
		}, now)

	case strings.HasPrefix(q.Data, "gift:"):
		plan, ok := subscription.NormalizePlan(strings.TrimPrefix(q.Data, "gift:"))
		if !ok {
			b.alertCallback(q.ID, "Неизвестный план")
			return
		}
		sess := b.sessions.get(chatID)
		sess.State = stateGiftTarget
		sess.Plan = plan
		b.answerCallback(q.ID, "")
		b.send(chatID, fmt.Sprintf(textGiftAsk, plan.Human()))

	case strings.HasPrefix(q.Data, "unlink:"):
		id, err := strconv.ParseInt(strings.TrimPrefix(q.Data, "unlink:"), 10, 64)
		if err != nil {
			b.alertCallback(q.ID, "Некорректный канал")
			return
		}
		b.unlinkChannel(ctx, q, id)

	case strings.HasPrefix(q.Data, "admin:"):
		if !b.users.IsAdmin(q.From.ID, q.From.UserName) {
			b.alertCallback(q.ID, "Нет прав")
			return
		}
		b.handleAdminCallback(ctx, q, strings.TrimPrefix(q.Data, "admin:"))

	default:
		b.answerCallback(q.ID, "")
	}
}

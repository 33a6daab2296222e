package bot

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/w1nReach/w1nReachBotik/internal/metrics"
	"github.com/w1nReach/w1nReachBotik/internal/subscription"
)

// sendSubscriptionInvoice выставляет счёт в Telegram Stars.
// Провайдер-токен пустой: для XTR он не нужен.
func (b *Bot) sendSubscriptionInvoice(ctx context.Context, chatID, buyerID int64, plan subscription.Plan, payload subscription.InvoicePayload, now int64) {
	hasActive, err := b.subs.HasActive(ctx, buyerID, now)
	if err != nil {
		b.log.Error().Err(err).Msg("has active failed")
		b.send(chatID, "Не получилось выставить счёт, попробуй позже.")
		return
	}
	price, err := subscription.Price(plan, payload.IsGift(), hasActive, b.prices, b.cfg.GiftDiscountPct)
	if err != nil {
		b.send(chatID, "Не знаю такой план.")
		return
	}
	encoded := subscription.EncodePayload(payload)

	title := fmt.Sprintf("Подписка: %s", plan.Human())
	desc := "Доступ к кнопкам-ссылкам под сообщениями."
	if payload.IsGift() {
		title = fmt.Sprintf("Подарок: %s", plan.Human())
		desc = "Подарочная подписка. После оплаты она уйдёт получателю."
	}

	inv := tgbotapi.NewInvoice(chatID, title, desc, encoded,
		"", "subscription", "XTR",
		[]tgbotapi.LabeledPrice{{Label: plan.Human(), Amount: price}})
	// иначе Bot API отклоняет счёт: поле сериализуется как null
	inv.SuggestedTipAmounts = []int{}

	if _, err := b.api.Send(inv); err != nil {
		b.log.Error().Err(err).Int64("chat_id", chatID).Msg("send invoice failed")
		b.send(chatID, "Не получилось выставить счёт, попробуй позже.")
		return
	}
	metrics.InvoicesIssued.WithLabelValues(string(plan), payload.Type).Inc()
}

// handlePreCheckout всегда подтверждает: валидность заказа проверена при
// выставлении счёта, а разбор payload происходит уже после оплаты.
func (b *Bot) handlePreCheckout(q *tgbotapi.PreCheckoutQuery) {
	_, err := b.api.Request(tgbotapi.PreCheckoutConfig{
		PreCheckoutQueryID: q.ID,
		OK:                 true,
	})
	if err != nil {
		b.log.Error().Err(err).Str("query_id", q.ID).Msg("answer pre checkout failed")
	}
}

func (b *Bot) handleSuccessfulPayment(ctx context.Context, m *tgbotapi.Message, now int64) {
	sp := m.SuccessfulPayment
	buyerID := m.From.ID

	payload, ok := subscription.DecodePayload(sp.InvoicePayload)
	if !ok {
		// деньги списаны, заказ не распознан: не молчим, зовём оператора
		metrics.PaymentsConfirmed.WithLabelValues("unknown").Inc()
		b.log.Error().
			Int64("user_id", buyerID).
			Str("payload", sp.InvoicePayload).
			Str("charge_id", sp.TelegramPaymentChargeID).
			Msg("payment with unreadable payload")
		b.send(m.Chat.ID, fmt.Sprintf("Оплата прошла, но я не смог распознать заказ. Напиши @%s — разберёмся и всё активируем.", b.cfg.AdminUsername))
		return
	}
	metrics.PaymentsConfirmed.WithLabelValues(payload.Type).Inc()

	if !payload.IsGift() {
		g, err := b.subs.Grant(ctx, buyerID, payload.Plan, now, nil)
		if err != nil {
			b.log.Error().Err(err).Msg("grant after payment failed")
			b.send(m.Chat.ID, fmt.Sprintf("Оплата прошла, но подписка не записалась. Напиши @%s.", b.cfg.AdminUsername))
			return
		}
		metrics.GrantsIssued.WithLabelValues(string(g.Plan)).Inc()
		isAdmin := b.users.IsAdmin(buyerID, m.From.UserName)
		b.sendWithKeyboard(m.Chat.ID,
			fmt.Sprintf("🎉 Подписка <b>%s</b> активна! Жми «%s» или привязывай канал.", g.Plan.Human(), btnCreate),
			b.mainKeyboard(true, isAdmin))
		return
	}

	if payload.GiftToUserID != 0 {
		giftedBy := buyerID
		g, err := b.subs.Grant(ctx, payload.GiftToUserID, payload.Plan, now, &giftedBy)
		if err != nil {
			b.log.Error().Err(err).Msg("gift grant failed")
			b.send(m.Chat.ID, fmt.Sprintf("Оплата прошла, но подарок не записался. Напиши @%s.", b.cfg.AdminUsername))
			return
		}
		metrics.GrantsIssued.WithLabelValues(string(g.Plan)).Inc()
		b.send(m.Chat.ID, fmt.Sprintf("✅ Подарок отправлен! Подписка <b>%s</b> уже у получателя.", g.Plan.Human()))
		b.send(payload.GiftToUserID, fmt.Sprintf(textGiftReceived, g.Plan.Human(), payerRef(m.From)))
		return
	}

	// получатель известен только по @username и ещё не писал боту:
	// подписка временно остаётся у дарителя, gifted_by указывает на него же
	giftedBy := buyerID
	g, err := b.subs.Grant(ctx, buyerID, payload.Plan, now, &giftedBy)
	if err != nil {
		b.log.Error().Err(err).Msg("provisional gift grant failed")
		b.send(m.Chat.ID, fmt.Sprintf("Оплата прошла, но подарок не записался. Напиши @%s.", b.cfg.AdminUsername))
		return
	}
	metrics.GrantsIssued.WithLabelValues(string(g.Plan)).Inc()
	b.send(m.Chat.ID, fmt.Sprintf(textGiftProvisional,
		g.Plan.Human(), payload.GiftToUsername, payload.GiftToUsername))
}

func payerRef(u *tgbotapi.User) string {
	if u.UserName != "" {
		return "@" + u.UserName
	}
	return strconv.FormatInt(u.ID, 10)
}

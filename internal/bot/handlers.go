package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/w1nReach/w1nReachBotik/internal/button"
	"github.com/w1nReach/w1nReachBotik/internal/metrics"
	"github.com/w1nReach/w1nReachBotik/internal/subscription"
	userservice "github.com/w1nReach/w1nReachBotik/internal/user/service"
)

func (b *Bot) handleMessage(ctx context.Context, m *tgbotapi.Message) {
	if m.Chat == nil {
		return
	}
	// сообщения из привязанных групп идут тем же путём, что посты каналов
	if !m.Chat.IsPrivate() {
		b.handleChannelPost(ctx, m)
		return
	}
	if m.From == nil {
		return
	}
	now := time.Now().Unix()
	if err := b.users.Ensure(ctx, m.From.ID, m.From.UserName, now); err != nil {
		b.log.Error().Err(err).Int64("user_id", m.From.ID).Msg("ensure user failed")
	}

	if m.SuccessfulPayment != nil {
		b.handleSuccessfulPayment(ctx, m, now)
		return
	}

	isAdmin := b.users.IsAdmin(m.From.ID, m.From.UserName)

	if m.IsCommand() {
		b.sessions.clear(m.Chat.ID)
		b.handleCommand(ctx, m, now, isAdmin)
		return
	}

	sess := b.sessions.get(m.Chat.ID)
	if sess.State != stateNone {
		b.handleSessionStep(ctx, m, sess, now, isAdmin)
		return
	}

	switch m.Text {
	case btnHowto:
		b.send(m.Chat.ID, fmt.Sprintf(textHowto, b.username))
	case btnPlans:
		b.sendPlans(m.Chat.ID)
	case btnCreate:
		if !b.requireSub(ctx, m, now, isAdmin) {
			return
		}
		sess.State = stateCreateText
		b.send(m.Chat.ID, "✍️ Пришли текст сообщения, к которому добавим кнопку.\n\n/cancel — отмена")
	case btnLinkChannel:
		if !b.requireSub(ctx, m, now, isAdmin) {
			return
		}
		sess.State = stateLinkForward
		b.send(m.Chat.ID, textLinkAsk)
	case btnMyChannels:
		b.sendMyChannels(ctx, m.Chat.ID, m.From.ID)
	case btnAdminPanel:
		if isAdmin {
			b.sendWithKeyboard(m.Chat.ID, "⚙️ Админ панель", adminKeyboard())
		}
	default:
		b.previewButtons(ctx, m, now, isAdmin)
	}
}

func (b *Bot) handleCommand(ctx context.Context, m *tgbotapi.Message, now int64, isAdmin bool) {
	switch m.Command() {
	case "start":
		hasSub, err := b.subs.HasActive(ctx, m.From.ID, now)
		if err != nil {
			b.log.Error().Err(err).Msg("has active failed")
		}
		b.sendWithKeyboard(m.Chat.ID, textStart, b.mainKeyboard(hasSub, isAdmin))
	case "howto":
		b.send(m.Chat.ID, fmt.Sprintf(textHowto, b.username))
	case "plans":
		b.sendPlans(m.Chat.ID)
	case "status":
		b.sendStatus(ctx, m.Chat.ID, m.From.ID, now)
	case "buy":
		plan, ok := subscription.NormalizePlan(m.CommandArguments())
		if !ok {
			b.sendPlans(m.Chat.ID)
			return
		}
		b.sendSubscriptionInvoice(ctx, m.Chat.ID, m.From.ID, plan, subscription.InvoicePayload{
			Kind: subscription.PayloadKindSubscription,
			Type: subscription.PayloadTypeSelf,
			Plan: plan,
		}, now)
	case "gift":
		b.handleGiftCommand(ctx, m, now)
	case "activategift":
		b.handleActivateGift(ctx, m, now)
	case "cancel":
		b.send(m.Chat.ID, textCancelled)
	case "button":
		// директива в личке — это превью, не команда
		b.previewButtons(ctx, m, now, isAdmin)
	case "admin":
		if isAdmin {
			b.sendWithKeyboard(m.Chat.ID, "⚙️ Админ панель", adminKeyboard())
		}
	}
}

// handleGiftCommand разбирает «/gift <план> [@кому|id]»; без получателя
// уходит в диалоговый шаг.
func (b *Bot) handleGiftCommand(ctx context.Context, m *tgbotapi.Message, now int64) {
	args := strings.Fields(m.CommandArguments())
	if len(args) == 0 {
		b.sendPlans(m.Chat.ID)
		return
	}
	plan, ok := subscription.NormalizePlan(args[0])
	if !ok {
		b.send(m.Chat.ID, "Не знаю такой план. Доступны: week, month, year, forever.")
		return
	}

	rest := strings.Join(args[1:], " ")
	ref := parseTarget(m, rest)
	if ref.Kind == targetNone {
		sess := b.sessions.get(m.Chat.ID)
		sess.State = stateGiftTarget
		sess.Plan = plan
		b.send(m.Chat.ID, fmt.Sprintf(textGiftAsk, plan.Human()))
		return
	}
	b.issueGiftInvoice(ctx, m.Chat.ID, m.From.ID, plan, ref, now)
}

// issueGiftInvoice резолвит получателя и выставляет счёт. Если @username
// ещё не писал боту, счёт всё равно выставляется: после оплаты подписка
// временно останется у дарителя.
func (b *Bot) issueGiftInvoice(ctx context.Context, chatID, buyerID int64, plan subscription.Plan, ref targetRef, now int64) {
	payload := subscription.InvoicePayload{
		Kind: subscription.PayloadKindSubscription,
		Type: subscription.PayloadTypeGift,
		Plan: plan,
	}
	switch ref.Kind {
	case targetReply, targetID:
		payload.GiftToUserID = ref.UserID
		payload.GiftToUsername = ref.Username
	case targetHandle:
		id, err := b.users.LookupIDByUsername(ctx, ref.Username)
		switch {
		case err == nil:
			payload.GiftToUserID = id
			payload.GiftToUsername = ref.Username
		case errors.Is(err, userservice.ErrUserNotFound):
			payload.GiftToUsername = ref.Username
		default:
			b.log.Error().Err(err).Str("username", ref.Username).Msg("lookup username failed")
			b.send(chatID, "Не получилось найти получателя, попробуй ещё раз.")
			return
		}
	default:
		b.send(chatID, "Укажи получателя: @username, ID или ответь на его сообщение.")
		return
	}
	b.sendSubscriptionInvoice(ctx, chatID, buyerID, plan, payload, now)
}

// handleActivateGift: даритель переносит свой отложенный подарок на
// получателя, который уже запустил бота. Команду может выполнить только
// владелец гранта — чужой подарок так не увести.
func (b *Bot) handleActivateGift(ctx context.Context, m *tgbotapi.Message, now int64) {
	ref := parseTarget(m, m.CommandArguments())
	var recipientID int64
	switch ref.Kind {
	case targetReply, targetID:
		recipientID = ref.UserID
	case targetHandle:
		id, err := b.users.LookupIDByUsername(ctx, ref.Username)
		if err != nil {
			b.send(m.Chat.ID, "Получатель ещё не писал боту. Пусть сначала нажмёт /start.")
			return
		}
		recipientID = id
	default:
		b.send(m.Chat.ID, "Использование: <code>/activategift @получатель</code>")
		return
	}
	if recipientID == m.From.ID {
		b.send(m.Chat.ID, "Самому себе подарок не активируется.")
		return
	}

	g, err := b.subs.LatestGrant(ctx, m.From.ID)
	if err != nil || !g.Provisional() {
		b.send(m.Chat.ID, "У тебя нет отложенного подарка.")
		return
	}
	moved, err := b.subs.Transfer(ctx, g.ID, recipientID, m.From.ID)
	if err != nil {
		b.log.Error().Err(err).Int64("grant_id", g.ID).Msg("transfer failed")
		b.send(m.Chat.ID, "Не получилось передать подарок, попробуй позже.")
		return
	}
	b.send(m.Chat.ID, fmt.Sprintf("✅ Подарок передан! Подписка <b>%s</b> теперь у получателя.", moved.Plan.Human()))
	b.send(recipientID, fmt.Sprintf(textGiftReceived, moved.Plan.Human(), payerRef(m.From)))
}

func (b *Bot) handleSessionStep(ctx context.Context, m *tgbotapi.Message, sess *session, now int64, isAdmin bool) {
	switch sess.State {
	case stateGiftTarget:
		ref := parseTarget(m, m.Text)
		if ref.Kind == targetNone {
			b.send(m.Chat.ID, "Пришли @username, числовой ID или ответь на сообщение получателя.\n\n/cancel — отмена")
			return
		}
		plan := sess.Plan
		b.sessions.clear(m.Chat.ID)
		b.issueGiftInvoice(ctx, m.Chat.ID, m.From.ID, plan, ref, now)

	case stateLinkForward:
		b.handleLinkForward(ctx, m, sess, now)

	case stateCreateText:
		if strings.TrimSpace(m.Text) == "" {
			b.send(m.Chat.ID, "Нужен текст. Пришли текст сообщения.")
			return
		}
		sess.Text = m.Text
		sess.State = stateCreateLabel
		b.send(m.Chat.ID, "Теперь пришли подпись кнопки.")
	case stateCreateLabel:
		if strings.TrimSpace(m.Text) == "" {
			b.send(m.Chat.ID, "Подпись не может быть пустой.")
			return
		}
		sess.Label = strings.TrimSpace(m.Text)
		sess.State = stateCreateURL
		b.send(m.Chat.ID, "И ссылку (http, https или tg).")
	case stateCreateURL:
		raw := strings.TrimSpace(m.Text)
		if !button.IsAllowedURL(raw) {
			b.send(m.Chat.ID, "Такая ссылка не подойдёт. Нужна http, https или tg ссылка.")
			return
		}
		text, label := sess.Text, sess.Label
		b.sessions.clear(m.Chat.ID)
		b.sendWithKeyboard(m.Chat.ID, text, buttonsKeyboard([]button.Definition{{Label: label, URL: raw}}))
		metrics.MessagesRendered.Inc()

	case stateAdminUnbind, stateAdminBroadcast, stateAdminGrantUser, stateAdminGrantPlan:
		if !isAdmin {
			b.sessions.clear(m.Chat.ID)
			return
		}
		b.handleAdminStep(ctx, m, sess, now)
	}
}

// previewButtons — свободный текст в личке с директивами превращается
// в превью: так автор проверяет разметку до публикации в канале.
func (b *Bot) previewButtons(ctx context.Context, m *tgbotapi.Message, now int64, isAdmin bool) {
	if !containsTrigger(m.Text, b.triggers()) {
		return
	}
	if !b.requireSub(ctx, m, now, isAdmin) {
		return
	}
	clean, defs := button.Extract(m.Text, b.triggers())
	if len(defs) == 0 {
		b.send(m.Chat.ID, "Директивы есть, а кнопок не вышло. Проверь кавычки и ссылку: <code>/button Текст \"https://example.com\"</code>")
		return
	}
	metrics.ButtonsParsed.Add(float64(len(defs)))
	metrics.MessagesRendered.Inc()
	b.sendWithKeyboard(m.Chat.ID, clean, buttonsKeyboard(defs))
}

func containsTrigger(text string, triggers []string) bool {
	lower := strings.ToLower(text)
	for _, t := range triggers {
		if strings.Contains(lower, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

// requireSub пускает дальше только с активной подпиской (или админа).
func (b *Bot) requireSub(ctx context.Context, m *tgbotapi.Message, now int64, isAdmin bool) bool {
	if isAdmin {
		return true
	}
	hasSub, err := b.subs.HasActive(ctx, m.From.ID, now)
	if err != nil {
		b.log.Error().Err(err).Msg("has active failed")
		return false
	}
	if !hasSub {
		b.send(m.Chat.ID, textNoSub)
	}
	return hasSub
}

func (b *Bot) sendPlans(chatID int64) {
	b.sendWithKeyboard(chatID, fmt.Sprintf(textPlans, b.cfg.GiftDiscountPct), b.plansKeyboard())
}

func (b *Bot) sendStatus(ctx context.Context, chatID, userID, now int64) {
	g, err := b.subs.CurrentGrant(ctx, userID, now)
	if err != nil {
		b.log.Error().Err(err).Msg("current grant failed")
		return
	}
	if g == nil {
		b.send(chatID, textNoSub)
		return
	}
	until := "навсегда"
	if g.ExpiresAt != nil {
		until = "до " + time.Unix(*g.ExpiresAt, 0).Format("02.01.2006")
	}
	text := fmt.Sprintf("✅ Подписка: <b>%s</b>, %s", g.Plan.Human(), until)
	if g.GiftedBy != nil && *g.GiftedBy != g.UserID {
		text += fmt.Sprintf("\n🎁 Подарок от пользователя <code>%d</code>", *g.GiftedBy)
	}
	b.send(chatID, text)
}

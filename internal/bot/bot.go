package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	channelservice "github.com/w1nReach/w1nReachBotik/internal/channel/service"
	"github.com/w1nReach/w1nReachBotik/internal/config"
	"github.com/w1nReach/w1nReachBotik/internal/metrics"
	"github.com/w1nReach/w1nReachBotik/internal/subscription"
	subservice "github.com/w1nReach/w1nReachBotik/internal/subscription/service"
	userservice "github.com/w1nReach/w1nReachBotik/internal/user/service"
)

// Bot связывает Telegram-транспорт с журналом подписок и парсером кнопок.
type Bot struct {
	api      *tgbotapi.BotAPI
	log      zerolog.Logger
	cfg      *config.Config
	users    *userservice.UserService
	subs     *subservice.Service
	channels *channelservice.Service
	sessions *sessionStore

	// username бота без @, резолвится один раз при старте
	username string
	prices   subscription.PriceTable
}

func New(
	api *tgbotapi.BotAPI,
	log zerolog.Logger,
	cfg *config.Config,
	users *userservice.UserService,
	subs *subservice.Service,
	channels *channelservice.Service,
) *Bot {
	return &Bot{
		api:      api,
		log:      log,
		cfg:      cfg,
		users:    users,
		subs:     subs,
		channels: channels,
		sessions: newSessionStore(),
		username: api.Self.UserName,
		prices: subscription.PriceTable{
			subscription.PlanWeek:    cfg.PriceWeek,
			subscription.PlanMonth:   cfg.PriceMonth,
			subscription.PlanYear:    cfg.PriceYear,
			subscription.PlanForever: cfg.PriceForever,
		},
	}
}

// triggers возвращает набор триггеров директив для этого бота.
func (b *Bot) triggers() []string {
	t := []string{"/button"}
	if b.username != "" {
		t = append(t, "@"+b.username)
	}
	return t
}

// Run крутит long polling до отмены контекста.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.registerCommands(); err != nil {
		b.log.Warn().Err(err).Msg("set my commands failed")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	b.log.Info().Str("username", b.username).Msg("bot started")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.dispatch(ctx, update)
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.PreCheckoutQuery != nil:
		metrics.UpdatesTotal.WithLabelValues("pre_checkout").Inc()
		b.handlePreCheckout(update.PreCheckoutQuery)
	case update.CallbackQuery != nil:
		metrics.UpdatesTotal.WithLabelValues("callback").Inc()
		b.handleCallback(ctx, update.CallbackQuery)
	case update.ChannelPost != nil:
		metrics.UpdatesTotal.WithLabelValues("channel_post").Inc()
		b.handleChannelPost(ctx, update.ChannelPost)
	case update.Message != nil:
		metrics.UpdatesTotal.WithLabelValues("message").Inc()
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) registerCommands() error {
	_, err := b.api.Request(tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Запуск"},
		tgbotapi.BotCommand{Command: "howto", Description: "Как подключить к Business"},
		tgbotapi.BotCommand{Command: "plans", Description: "Планы и оплата"},
		tgbotapi.BotCommand{Command: "buy", Description: "Купить подписку"},
		tgbotapi.BotCommand{Command: "gift", Description: "Подарить подписку (-25%)"},
		tgbotapi.BotCommand{Command: "status", Description: "Статус подписки"},
		tgbotapi.BotCommand{Command: "admin", Description: "Админ панель"},
	))
	return err
}

// send шлёт HTML-сообщение, ошибки только логируются: доставка best-effort.
func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		b.log.Warn().Err(err).Int64("chat_id", chatID).Msg("send failed")
	}
}

func (b *Bot) sendWithKeyboard(chatID int64, text string, kb interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = kb
	if _, err := b.api.Send(msg); err != nil {
		b.log.Warn().Err(err).Int64("chat_id", chatID).Msg("send failed")
	}
}

// answerCallback закрывает "часики" на кнопке.
func (b *Bot) answerCallback(id, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		b.log.Warn().Err(err).Msg("answer callback failed")
	}
}

func (b *Bot) alertCallback(id, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallbackWithAlert(id, text)); err != nil {
		b.log.Warn().Err(err).Msg("answer callback failed")
	}
}

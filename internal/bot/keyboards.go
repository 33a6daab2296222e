package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/w1nReach/w1nReachBotik/internal/button"
	"github.com/w1nReach/w1nReachBotik/internal/subscription"
)

const (
	btnHowto       = "Как подключить"
	btnCreate      = "Создать кнопку"
	btnPlans       = "Планы и оплата"
	btnLinkChannel = "Привязать канал"
	btnMyChannels  = "Мои каналы"
	btnAdminPanel  = "Админ панель"
)

// mainKeyboard собирает клавиатуру лички с учётом подписки и прав.
func (b *Bot) mainKeyboard(hasSub, isAdmin bool) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{
		{tgbotapi.NewKeyboardButton(btnHowto)},
		{tgbotapi.NewKeyboardButton(btnPlans)},
	}
	if hasSub || isAdmin {
		rows = [][]tgbotapi.KeyboardButton{
			{tgbotapi.NewKeyboardButton(btnHowto)},
			{tgbotapi.NewKeyboardButton(btnCreate)},
			{tgbotapi.NewKeyboardButton(btnPlans)},
			{tgbotapi.NewKeyboardButton(btnLinkChannel)},
			{tgbotapi.NewKeyboardButton(btnMyChannels)},
		}
	}
	if isAdmin {
		rows = append(rows, []tgbotapi.KeyboardButton{tgbotapi.NewKeyboardButton(btnAdminPanel)})
	}
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}

// plansKeyboard — тарифы с кнопками купить/подарить.
func (b *Bot) plansKeyboard() tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(subscription.Plans))
	for _, p := range subscription.Plans {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("💳 %s — %d⭐", p.Human(), b.prices[p]),
				"buy:"+string(p),
			),
			tgbotapi.NewInlineKeyboardButtonData("🎁 Подарить", "gift:"+string(p)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func adminKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔗 Привязать канал (инструкция)", "admin:bindinfo")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 Каналы (все)", "admin:listch")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Отвязать канал (по ID)", "admin:unbindask")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎁 Выдать подписку", "admin:grant")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📣 Рассылка", "admin:broadcast")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🧮 Статистика", "admin:stats")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🧩 Сделать кнопку (мастер)", "admin:makebtn")),
	)
}

// buttonsKeyboard превращает извлечённые директивы в inline-клавиатуру,
// по одной кнопке на строку.
func buttonsKeyboard(defs []button.Definition) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(defs))
	for _, d := range defs {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(d.Label, d.URL),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

package bot

import (
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type targetKind int

const (
	targetNone targetKind = iota
	targetReply
	targetHandle
	targetID
)

// targetRef — явный разбор «на кого указали»: reply, @username или числовой id.
// Разбирается один раз на границе транспорта.
type targetRef struct {
	Kind     targetKind
	UserID   int64  // targetReply, targetID
	Username string // targetReply (может быть пустым), targetHandle (без @)
}

// parseTarget принимает сообщение и его текстовый аргумент.
// Reply имеет приоритет над текстом.
func parseTarget(m *tgbotapi.Message, arg string) targetRef {
	if m.ReplyToMessage != nil && m.ReplyToMessage.From != nil {
		return targetRef{
			Kind:     targetReply,
			UserID:   m.ReplyToMessage.From.ID,
			Username: m.ReplyToMessage.From.UserName,
		}
	}

	arg = strings.TrimSpace(arg)
	if arg == "" {
		return targetRef{Kind: targetNone}
	}
	if strings.HasPrefix(arg, "@") {
		name := strings.TrimPrefix(arg, "@")
		if name == "" {
			return targetRef{Kind: targetNone}
		}
		return targetRef{Kind: targetHandle, Username: name}
	}
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil && id > 0 {
		return targetRef{Kind: targetID, UserID: id}
	}
	return targetRef{Kind: targetNone}
}

// parseChatRef разбирает ссылку на канал: -100... id или @username.
func parseChatRef(s string) (int64, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ""
	}
	if strings.HasPrefix(s, "@") {
		return 0, strings.ToLower(strings.TrimPrefix(s, "@"))
	}
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, ""
	}
	return 0, ""
}

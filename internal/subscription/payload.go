package subscription

import "encoding/json"

const (
	PayloadKindSubscription = "subscription"
	PayloadTypeSelf         = "self"
	PayloadTypeGift         = "gift"
)

// InvoicePayload — данные счёта, которые Telegram прокидывает через оплату
// как непрозрачную строку. Должен переживать round-trip без потерь.
type InvoicePayload struct {
	Kind           string `json:"kind"`
	Type           string `json:"type"`
	Plan           Plan   `json:"plan"`
	GiftToUserID   int64  `json:"gift_to_user_id,omitempty"`
	GiftToUsername string `json:"gift_to_username,omitempty"`
}

// IsGift сообщает, подарочный ли это счёт.
func (p InvoicePayload) IsGift() bool {
	return p.Type == PayloadTypeGift
}

// EncodePayload сериализует payload в компактную строку.
func EncodePayload(p InvoicePayload) string {
	b, err := json.Marshal(p)
	if err != nil {
		// структура из примитивов, marshal не падает
		return ""
	}
	return string(b)
}

// DecodePayload разбирает строку payload. При любом мусоре возвращает
// ok=false: платёж пришёл, но атрибутировать его нельзя — решает вызывающий.
func DecodePayload(s string) (InvoicePayload, bool) {
	var p InvoicePayload
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return InvoicePayload{}, false
	}
	if p.Kind != PayloadKindSubscription {
		return InvoicePayload{}, false
	}
	return p, true
}

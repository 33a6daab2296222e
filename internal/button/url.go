package button

import "net/url"

// Разрешённые схемы для кнопок-ссылок
var allowedSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"tg":    true,
}

// IsAllowedURL проверяет, что ссылка пригодна для inline-кнопки.
// Для http/https обязателен хост, tg:// пропускаем как есть (deep links).
func IsAllowedURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if !allowedSchemes[u.Scheme] {
		return false
	}
	if u.Scheme == "http" || u.Scheme == "https" {
		return u.Host != ""
	}
	return true
}

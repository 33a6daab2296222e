package channel

// Channel — привязанный канал. Бот работает только в привязанных каналах.
type Channel struct {
	ChatID   int64
	Title    string
	Username string
	OwnerID  int64
	AddedAt  int64 // unix seconds
}

package user

type User struct {
	ID        int64
	Username  string
	IsAdmin   bool
	CreatedAt int64 // unix seconds
}

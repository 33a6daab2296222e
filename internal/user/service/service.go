package service

import (
	"context"
	"errors"
	"strings"

	"github.com/w1nReach/w1nReachBotik/internal/user"
)

var ErrUserNotFound = errors.New("пользователь ещё не писал боту")

type UserRepository interface {
	Upsert(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id int64) (*user.User, error)
	GetByUsername(ctx context.Context, username string) (*user.User, error)
	AllIDs(ctx context.Context) ([]int64, error)
	Count(ctx context.Context) (int, error)
}

type UserService struct {
	repo          UserRepository
	adminID       int64
	adminUsername string // без @, в нижнем регистре
}

func NewUserService(repo UserRepository, adminID int64, adminUsername string) *UserService {
	return &UserService{
		repo:          repo,
		adminID:       adminID,
		adminUsername: strings.ToLower(strings.TrimPrefix(adminUsername, "@")),
	}
}

// Ensure заводит/обновляет пользователя при любом контакте с ботом.
func (s *UserService) Ensure(ctx context.Context, id int64, username string, now int64) error {
	return s.repo.Upsert(ctx, &user.User{
		ID:        id,
		Username:  username,
		IsAdmin:   id == s.adminID,
		CreatedAt: now,
	})
}

// IsAdmin проверяет админа по id из конфига или по username.
func (s *UserService) IsAdmin(id int64, username string) bool {
	if s.adminID != 0 && id == s.adminID {
		return true
	}
	return username != "" && s.adminUsername != "" &&
		strings.ToLower(username) == s.adminUsername
}

// LookupIDByUsername находит user_id по @username. Работает только для тех,
// кто уже писал боту — Telegram не даёт резолвить произвольные имена.
func (s *UserService) LookupIDByUsername(ctx context.Context, username string) (int64, error) {
	u, err := s.repo.GetByUsername(ctx, strings.TrimPrefix(username, "@"))
	if err != nil {
		return 0, err
	}
	if u == nil {
		return 0, ErrUserNotFound
	}
	return u.ID, nil
}

func (s *UserService) AllIDs(ctx context.Context) ([]int64, error) {
	return s.repo.AllIDs(ctx)
}

func (s *UserService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

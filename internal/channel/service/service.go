package service

import (
	"context"

	"github.com/w1nReach/w1nReachBotik/internal/channel"
)

type ChannelRepository interface {
	Upsert(ctx context.Context, c *channel.Channel) error
	Delete(ctx context.Context, chatID int64) error
	GetByChatID(ctx context.Context, chatID int64) (*channel.Channel, error)
	ByOwner(ctx context.Context, ownerID int64) ([]*channel.Channel, error)
	All(ctx context.Context) ([]*channel.Channel, error)
}

type Service struct {
	repo ChannelRepository
}

func NewService(repo ChannelRepository) *Service {
	return &Service{repo: repo}
}

// Bind привязывает канал к владельцу (повторная привязка обновляет данные).
func (s *Service) Bind(ctx context.Context, ownerID, chatID int64, title, username string, now int64) error {
	return s.repo.Upsert(ctx, &channel.Channel{
		ChatID:   chatID,
		Title:    title,
		Username: username,
		OwnerID:  ownerID,
		AddedAt:  now,
	})
}

func (s *Service) Unbind(ctx context.Context, chatID int64) error {
	return s.repo.Delete(ctx, chatID)
}

// IsAllowed сообщает, привязан ли канал: бот работает только в привязанных.
func (s *Service) IsAllowed(ctx context.Context, chatID int64) (bool, error) {
	c, err := s.repo.GetByChatID(ctx, chatID)
	if err != nil {
		return false, err
	}
	return c != nil, nil
}

func (s *Service) Get(ctx context.Context, chatID int64) (*channel.Channel, error) {
	return s.repo.GetByChatID(ctx, chatID)
}

func (s *Service) ByOwner(ctx context.Context, ownerID int64) ([]*channel.Channel, error) {
	return s.repo.ByOwner(ctx, ownerID)
}

func (s *Service) All(ctx context.Context) ([]*channel.Channel, error) {
	return s.repo.All(ctx)
}

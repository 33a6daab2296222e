package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/w1nReach/w1nReachBotik/internal/subscription"
)

var (
	ErrGrantNotFound  = errors.New("грант не найден")
	ErrNoSubscription = errors.New("у пользователя нет подписки")
)

type GrantRepository interface {
	Insert(ctx context.Context, g *subscription.Grant) error
	ActiveByUserID(ctx context.Context, userID, now int64) (*subscription.Grant, error)
	LatestByUserID(ctx context.Context, userID int64) (*subscription.Grant, error)
	Transfer(ctx context.Context, grantID, toUserID, by int64) (*subscription.Grant, error)
	CountActiveUsers(ctx context.Context, now int64) (int, error)
}

// Service — журнал подписок. Строки только добавляются; «активность»
// вычисляется по времени запроса, флага статуса нет.
type Service struct {
	repo GrantRepository
}

func NewService(repo GrantRepository) *Service {
	return &Service{repo: repo}
}

// HasActive сообщает, есть ли у пользователя действующий грант в момент now.
func (s *Service) HasActive(ctx context.Context, userID, now int64) (bool, error) {
	g, err := s.repo.ActiveByUserID(ctx, userID, now)
	if err != nil {
		return false, err
	}
	return g != nil, nil
}

// CurrentGrant возвращает действующий грант с самым поздним сроком
// (бессрочный побеждает любой ограниченный) или nil.
func (s *Service) CurrentGrant(ctx context.Context, userID, now int64) (*subscription.Grant, error) {
	return s.repo.ActiveByUserID(ctx, userID, now)
}

// Grant выдаёт подписку. Срок считается от now, переданного вызывающим:
// каждое обращение фиксирует своё время в момент вызова, не в момент коммита.
func (s *Service) Grant(ctx context.Context, userID int64, plan subscription.Plan, now int64, giftedBy *int64) (*subscription.Grant, error) {
	if !plan.Valid() {
		return nil, fmt.Errorf("%w: %q", subscription.ErrUnknownPlan, plan)
	}

	var expiresAt *int64
	if d := plan.Duration(); d > 0 {
		exp := now + d
		expiresAt = &exp
	}

	g := &subscription.Grant{
		UserID:    userID,
		Plan:      plan,
		CreatedAt: now,
		ExpiresAt: expiresAt,
		GiftedBy:  giftedBy,
	}
	if err := s.repo.Insert(ctx, g); err != nil {
		return nil, fmt.Errorf("insert grant: %w", err)
	}
	return g, nil
}

// Transfer переносит грант новому владельцу (отложенный подарок),
// сохраняя created_at/expires_at и записывая дарителя.
func (s *Service) Transfer(ctx context.Context, grantID, toUserID, by int64) (*subscription.Grant, error) {
	g, err := s.repo.Transfer(ctx, grantID, toUserID, by)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGrantNotFound
		}
		return nil, err
	}
	return g, nil
}

// LatestGrant возвращает последний выданный грант пользователя — кандидата
// на перенос при /activategift.
func (s *Service) LatestGrant(ctx context.Context, userID int64) (*subscription.Grant, error) {
	g, err := s.repo.LatestByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrNoSubscription
	}
	return g, nil
}

// CountActiveUsers — для админской статистики.
func (s *Service) CountActiveUsers(ctx context.Context, now int64) (int, error) {
	return s.repo.CountActiveUsers(ctx, now)
}

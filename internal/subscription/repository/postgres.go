package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/w1nReach/w1nReachBotik/internal/subscription"
)

// maxInt64 подставляется вместо NULL expires_at при сортировке:
// бессрочный грант всегда «последний по сроку».
const maxInt64 = int64(1<<63 - 1)

type GrantRepository struct {
	db *sql.DB
}

func NewGrantRepository(db *sql.DB) *GrantRepository {
	return &GrantRepository{db: db}
}

func (r *GrantRepository) Insert(ctx context.Context, g *subscription.Grant) error {
	return r.db.QueryRowContext(ctx,
		`INSERT INTO subscriptions (user_id, plan, created_at, expires_at, gifted_by)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		g.UserID, string(g.Plan), g.CreatedAt, g.ExpiresAt, g.GiftedBy).Scan(&g.ID)
}

// ActiveByUserID возвращает действующий на момент now грант с самым поздним
// сроком (NULL = бессрочно = самый поздний), при равенстве — с большим id.
func (r *GrantRepository) ActiveByUserID(ctx context.Context, userID, now int64) (*subscription.Grant, error) {
	g := &subscription.Grant{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, plan, created_at, expires_at, gifted_by
		 FROM subscriptions
		 WHERE user_id = $1 AND (expires_at IS NULL OR expires_at > $2)
		 ORDER BY COALESCE(expires_at, $3) DESC, id DESC
		 LIMIT 1`,
		userID, now, maxInt64).Scan(&g.ID, &g.UserID, &g.Plan, &g.CreatedAt, &g.ExpiresAt, &g.GiftedBy)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return g, nil
}

// LatestByUserID возвращает последний по id грант пользователя вне
// зависимости от срока. Нужен для переноса подарка.
func (r *GrantRepository) LatestByUserID(ctx context.Context, userID int64) (*subscription.Grant, error) {
	g := &subscription.Grant{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, plan, created_at, expires_at, gifted_by
		 FROM subscriptions
		 WHERE user_id = $1
		 ORDER BY id DESC
		 LIMIT 1`,
		userID).Scan(&g.ID, &g.UserID, &g.Plan, &g.CreatedAt, &g.ExpiresAt, &g.GiftedBy)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return g, nil
}

// Transfer атомарно переносит грант новому владельцу: удаляет строку и
// вставляет эквивалентную с сохранением created_at/expires_at/plan.
func (r *GrantRepository) Transfer(ctx context.Context, grantID, toUserID, by int64) (*subscription.Grant, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	g := &subscription.Grant{}
	err = tx.QueryRowContext(ctx,
		`DELETE FROM subscriptions WHERE id = $1
		 RETURNING id, user_id, plan, created_at, expires_at, gifted_by`,
		grantID).Scan(&g.ID, &g.UserID, &g.Plan, &g.CreatedAt, &g.ExpiresAt, &g.GiftedBy)
	if err != nil {
		return nil, err // sql.ErrNoRows = гранта нет
	}

	moved := &subscription.Grant{
		UserID:    toUserID,
		Plan:      g.Plan,
		CreatedAt: g.CreatedAt,
		ExpiresAt: g.ExpiresAt,
		GiftedBy:  &by,
	}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO subscriptions (user_id, plan, created_at, expires_at, gifted_by)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		moved.UserID, string(moved.Plan), moved.CreatedAt, moved.ExpiresAt, moved.GiftedBy).Scan(&moved.ID)
	if err != nil {
		return nil, fmt.Errorf("reinsert transferred grant: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return moved, nil
}

// CountActiveUsers считает пользователей хотя бы с одним действующим грантом.
func (r *GrantRepository) CountActiveUsers(ctx context.Context, now int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT user_id) FROM subscriptions
		 WHERE expires_at IS NULL OR expires_at > $1`,
		now).Scan(&n)
	return n, err
}

package repository

import (
	"context"
	"database/sql"

	"github.com/w1nReach/w1nReachBotik/internal/channel"
)

type ChannelRepository struct {
	db *sql.DB
}

func NewChannelRepository(db *sql.DB) *ChannelRepository {
	return &ChannelRepository{db: db}
}

func (r *ChannelRepository) Upsert(ctx context.Context, c *channel.Channel) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO channels (chat_id, title, username, owner_id, added_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (chat_id) DO UPDATE
		 SET title = EXCLUDED.title, username = EXCLUDED.username, owner_id = EXCLUDED.owner_id`,
		c.ChatID, c.Title, c.Username, c.OwnerID, c.AddedAt)
	return err
}

func (r *ChannelRepository) Delete(ctx context.Context, chatID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM channels WHERE chat_id = $1`, chatID)
	return err
}

func (r *ChannelRepository) GetByChatID(ctx context.Context, chatID int64) (*channel.Channel, error) {
	c := &channel.Channel{}
	err := r.db.QueryRowContext(ctx,
		`SELECT chat_id, title, username, COALESCE(owner_id, 0), added_at
		 FROM channels WHERE chat_id = $1`,
		chatID).Scan(&c.ChatID, &c.Title, &c.Username, &c.OwnerID, &c.AddedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (r *ChannelRepository) ByOwner(ctx context.Context, ownerID int64) ([]*channel.Channel, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT chat_id, title, username, COALESCE(owner_id, 0), added_at
		 FROM channels WHERE owner_id = $1 ORDER BY added_at DESC`,
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanChannels(rows)
}

func (r *ChannelRepository) All(ctx context.Context) ([]*channel.Channel, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT chat_id, title, username, COALESCE(owner_id, 0), added_at
		 FROM channels ORDER BY added_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanChannels(rows)
}

func scanChannels(rows *sql.Rows) ([]*channel.Channel, error) {
	var out []*channel.Channel
	for rows.Next() {
		c := &channel.Channel{}
		if err := rows.Scan(&c.ChatID, &c.Title, &c.Username, &c.OwnerID, &c.AddedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

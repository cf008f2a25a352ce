package storage

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"github.com/kovalyov-valentin/competition-feed-bot/internal/model"
)

// SubscriberPostgresStorage is the durable subscriber registry. Keeping it
// in the database means subscriptions survive restarts.
type SubscriberPostgresStorage struct {
	db *sqlx.DB
}

func NewSubscriberStorage(db *sqlx.DB) *SubscriberPostgresStorage {
	return &SubscriberPostgresStorage{db: db}
}

// Subscribe adds a chat to the registry. Subscribing an already-present
// chat is a no-op, not an error.
func (s *SubscriberPostgresStorage) Subscribe(ctx context.Context, chatID int64) error {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	_, err = conn.ExecContext(
		ctx,
		`INSERT INTO subscribers (chat_id, created_at) VALUES ($1, $2) ON CONFLICT (chat_id) DO NOTHING`,
		chatID,
		time.Now().UTC(),
	)

	return err
}

// Unsubscribe removes a chat. Removing an absent chat is a no-op.
func (s *SubscriberPostgresStorage) Unsubscribe(ctx context.Context, chatID int64) error {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	_, err = conn.ExecContext(ctx, `DELETE FROM subscribers WHERE chat_id = $1`, chatID)

	return err
}

// All returns a snapshot of every subscriber.
func (s *SubscriberPostgresStorage) All(ctx context.Context) ([]model.Subscriber, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var subscribers []dbSubscriber
	if err := conn.SelectContext(ctx, &subscribers, `SELECT * FROM subscribers ORDER BY created_at`); err != nil {
		return nil, err
	}

	return lo.Map(subscribers, func(sub dbSubscriber, _ int) model.Subscriber {
		return model.Subscriber(sub)
	}), nil
}

type dbSubscriber struct {
	ChatID    int64     `db:"chat_id"`
	CreatedAt time.Time `db:"created_at"`
}

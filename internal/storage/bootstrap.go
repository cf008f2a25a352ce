package storage

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Bootstrap creates the schema when it does not exist yet. The id uniqueness
// constraint on announcements is what makes dedup admission atomic.
func Bootstrap(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS announcements (
			id                  TEXT PRIMARY KEY,
			title               TEXT NOT NULL,
			url                 TEXT NOT NULL,
			registration_window TEXT NOT NULL,
			eligibility         TEXT NOT NULL,
			organizer           TEXT NOT NULL,
			co_organizer        TEXT NOT NULL,
			platform            TEXT NOT NULL,
			discovered_at       TIMESTAMP NOT NULL
		);

		CREATE TABLE IF NOT EXISTS subscribers (
			chat_id    BIGINT PRIMARY KEY,
			created_at TIMESTAMP NOT NULL
		);
	`)

	return err
}

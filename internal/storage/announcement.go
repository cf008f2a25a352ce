package storage

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"github.com/kovalyov-valentin/competition-feed-bot/internal/model"
)

type AnnouncementPostgresStorage struct {
	db *sqlx.DB
}

func NewAnnouncementStorage(db *sqlx.DB) *AnnouncementPostgresStorage {
	return &AnnouncementPostgresStorage{db: db}
}

// InsertIfAbsent is the dedup admission gate. It returns true when the
// announcement id was seen for the first time and false on a conflict,
// leaving the existing row untouched. The unique constraint makes the
// check-and-insert atomic under concurrent attempts.
func (s *AnnouncementPostgresStorage) InsertIfAbsent(ctx context.Context, a model.Announcement) (bool, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	res, err := conn.ExecContext(
		ctx,
		`INSERT INTO announcements
			(id, title, url, registration_window, eligibility, organizer, co_organizer, platform, discovered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`,
		a.ID,
		a.Title,
		a.URL,
		a.RegistrationWindow,
		a.Eligibility,
		a.Organizer,
		a.CoOrganizer,
		a.Platform,
		a.DiscoveredAt,
	)
	if err != nil {
		return false, err
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return inserted > 0, nil
}

// LastDiscovered returns up to limit announcements, newest first.
func (s *AnnouncementPostgresStorage) LastDiscovered(ctx context.Context, limit uint64) ([]model.Announcement, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var announcements []dbAnnouncement
	if err := conn.SelectContext(
		ctx,
		&announcements,
		`SELECT * FROM announcements ORDER BY discovered_at DESC LIMIT $1`,
		limit,
	); err != nil {
		return nil, err
	}

	return lo.Map(announcements, func(a dbAnnouncement, _ int) model.Announcement {
		return model.Announcement(a)
	}), nil
}

// Internal row model mapping announcement columns.
type dbAnnouncement struct {
	ID                 string    `db:"id"`
	Title              string    `db:"title"`
	URL                string    `db:"url"`
	RegistrationWindow string    `db:"registration_window"`
	Eligibility        string    `db:"eligibility"`
	Organizer          string    `db:"organizer"`
	CoOrganizer        string    `db:"co_organizer"`
	Platform           string    `db:"platform"`
	DiscoveredAt       time.Time `db:"discovered_at"`
}

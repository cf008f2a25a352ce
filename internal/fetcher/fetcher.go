package fetcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/samber/lo"

	"github.com/kovalyov-valentin/competition-feed-bot/internal/matcher"
	"github.com/kovalyov-valentin/competition-feed-bot/internal/model"
)

type EntryLister interface {
	Fetch(ctx context.Context) ([]model.ListingEntry, error)
}

type ContentExtractor interface {
	Extract(ctx context.Context, url string) (model.ExtractedContent, error)
}

type AnnouncementStorage interface {
	InsertIfAbsent(ctx context.Context, announcement model.Announcement) (bool, error)
}

type AnnouncementNotifier interface {
	Notify(ctx context.Context, announcement model.Announcement) error
}

// Fetcher is the pipeline worker: on a fixed interval it pulls the listing,
// extracts content for the competition-relevant entries, admits net-new
// announcements through the dedup store and pushes them to subscribers.
type Fetcher struct {
	entries   EntryLister
	extractor ContentExtractor
	storage   AnnouncementStorage
	notifier  AnnouncementNotifier

	families matcher.Families

	fetchInterval time.Duration
	platform      string
	// Policy for entries whose detail page could not be fetched: push a
	// bare announcement (fields sentinel-valued, nothing stored) or skip.
	notifyOnExtractFailure bool
}

func New(
	entryLister EntryLister,
	contentExtractor ContentExtractor,
	announcementStorage AnnouncementStorage,
	announcementNotifier AnnouncementNotifier,
	families matcher.Families,
	fetchInterval time.Duration,
	platform string,
	notifyOnExtractFailure bool,
) *Fetcher {
	return &Fetcher{
		entries:                entryLister,
		extractor:              contentExtractor,
		storage:                announcementStorage,
		notifier:               announcementNotifier,
		families:               families,
		fetchInterval:          fetchInterval,
		platform:               platform,
		notifyOnExtractFailure: notifyOnExtractFailure,
	}
}

// Start runs one pass immediately and then one per tick until the context
// is cancelled. A failed pass is logged and swallowed: nothing that happens
// inside a pass may stop the worker. Missed ticks are not caught up.
func (f *Fetcher) Start(ctx context.Context) error {
	ticker := time.NewTicker(f.fetchInterval)
	defer ticker.Stop()

	if err := f.Fetch(ctx); err != nil {
		log.Printf("[ERROR] fetch pass failed: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := f.Fetch(ctx); err != nil {
				log.Printf("[ERROR] fetch pass failed: %v", err)
			}
		}
	}
}

// Fetch executes a single pipeline pass. Entries are processed one at a
// time in listing order; a single entry's failure never aborts the rest.
func (f *Fetcher) Fetch(ctx context.Context) error {
	entries, err := f.entries.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch listing entries: %w", err)
	}

	relevant := lo.Filter(entries, func(entry model.ListingEntry, _ int) bool {
		return entry.IsRelevant
	})

	log.Printf("listing fetched: %d entries, %d relevant", len(entries), len(relevant))

	// The site occasionally repeats a row; one detail page per pass is enough.
	relevant = lo.UniqBy(relevant, func(entry model.ListingEntry) string {
		return entry.URL
	})

	for _, entry := range relevant {
		if err := f.processEntry(ctx, entry); err != nil {
			log.Printf("[ERROR] failed to process entry %q: %v", entry.Title, err)
		}
	}

	return nil
}

func (f *Fetcher) processEntry(ctx context.Context, entry model.ListingEntry) error {
	content, err := f.extractor.Extract(ctx, entry.URL)
	if err != nil {
		if !f.notifyOnExtractFailure {
			return fmt.Errorf("extract content: %w", err)
		}

		// Surface the entry with sentinel fields but do not admit it to
		// the store, so it is retried on the next pass.
		log.Printf("[WARN] content unavailable for %q, pushing bare announcement: %v", entry.Title, err)

		return f.notifier.Notify(ctx, f.newAnnouncement(entry, f.sentinelContent()))
	}

	announcement := f.newAnnouncement(entry, content)

	inserted, err := f.storage.InsertIfAbsent(ctx, announcement)
	if err != nil {
		return fmt.Errorf("store announcement: %w", err)
	}

	// Already notified on an earlier pass.
	if !inserted {
		return nil
	}

	return f.notifier.Notify(ctx, announcement)
}

func (f *Fetcher) newAnnouncement(entry model.ListingEntry, content model.ExtractedContent) model.Announcement {
	return model.Announcement{
		ID:                 announcementID(entry.URL),
		Title:              entry.Title,
		URL:                entry.URL,
		RegistrationWindow: content.RegistrationWindow,
		Eligibility:        content.Eligibility,
		Organizer:          content.Organizer,
		CoOrganizer:        content.CoOrganizer,
		Platform:           f.platform,
		DiscoveredAt:       time.Now().UTC(),
	}
}

func (f *Fetcher) sentinelContent() model.ExtractedContent {
	return model.ExtractedContent{
		RegistrationWindow: f.families.RegistrationWindow.Sentinel,
		Eligibility:        f.families.Eligibility.Sentinel,
		Organizer:          f.families.Organizer.Sentinel,
		CoOrganizer:        f.families.CoOrganizer.Sentinel,
	}
}

// The listing ordinal is not stable between fetches, so identity is derived
// from the detail-page URL instead.
func announcementID(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

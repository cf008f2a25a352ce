package model

import "time"

// ListingEntry is one row parsed from the announcements index page.
// Entries are rebuilt on every fetch and never persisted.
type ListingEntry struct {
	// Ordinal position on the page, starting from 1. Only stable within
	// a single fetch.
	Index int
	Title string
	// Site-provided publication date, kept as an opaque string.
	PublishedDate string
	// Absolute link to the detail page.
	URL string
	// True when the title contains any configured relevance keyword.
	IsRelevant bool
}

// ExtractedContent is the result of processing one detail page.
// Field values are never empty: a category that did not match holds its
// "not found" sentinel.
type ExtractedContent struct {
	// All recognized image text plus page text, in appearance order.
	RawText            string
	RegistrationWindow string
	Eligibility        string
	Organizer          string
	CoOrganizer        string
}

// Announcement is the persisted unit of dedup and notification.
type Announcement struct {
	// Hex digest of the detail-page URL. Unique in the store; a second
	// insert with the same ID is rejected, never overwritten.
	ID                 string
	Title              string
	URL                string
	RegistrationWindow string
	Eligibility        string
	Organizer          string
	CoOrganizer        string
	// Constant site label, e.g. 大广赛.
	Platform     string
	DiscoveredAt time.Time
}

// Subscriber is one chat receiving announcement pushes.
type Subscriber struct {
	ChatID    int64
	CreatedAt time.Time
}

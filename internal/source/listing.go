package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/kovalyov-valentin/competition-feed-bot/internal/model"
)

// ListingSource fetches and parses the announcements index page.
type ListingSource struct {
	client *http.Client
	// Base for resolving relative links, e.g. https://www.sun-ada.net
	baseURL    *url.URL
	listingURL string
	// Closed keyword list; a title containing any of them is relevant.
	keywords []string
}

func NewListingSource(client *http.Client, baseURL, listingPath string, keywords []string) (*ListingSource, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	return &ListingSource{
		client:     client,
		baseURL:    base,
		listingURL: strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(listingPath, "/"),
		keywords:   keywords,
	}, nil
}

// Fetch loads the index page and parses every row of the news list.
// Rows missing a title or link are skipped. A transport or HTTP error fails
// the whole fetch; the caller retries on the next cycle.
func (s *ListingSource) Fetch(ctx context.Context) ([]model.ListingEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.listingURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build listing request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch listing page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch listing page: unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse listing page: %w", err)
	}

	var entries []model.ListingEntry

	doc.Find("ul.list_news li").Each(func(i int, li *goquery.Selection) {
		link := li.Find("a").First()
		if link.Length() == 0 {
			return
		}

		title := strings.TrimSpace(link.Find("h3").First().Text())
		href, _ := link.Attr("href")
		if title == "" || href == "" {
			return
		}

		entries = append(entries, model.ListingEntry{
			Index:         i + 1,
			Title:         title,
			PublishedDate: strings.TrimSpace(link.Find("em").First().Text()),
			URL:           s.resolveURL(href),
			IsRelevant:    s.titleIsRelevant(title),
		})
	})

	return entries, nil
}

func (s *ListingSource) resolveURL(href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}

	return s.baseURL.ResolveReference(ref).String()
}

// Case-sensitive substring match against the keyword list.
func (s *ListingSource) titleIsRelevant(title string) bool {
	for _, keyword := range s.keywords {
		if strings.Contains(title, keyword) {
			return true
		}
	}

	return false
}

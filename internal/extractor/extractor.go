// Package extractor turns one announcement detail page into structured fields.
package extractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/samber/lo"

	"github.com/kovalyov-valentin/competition-feed-bot/internal/matcher"
	"github.com/kovalyov-valentin/competition-feed-bot/internal/model"
	"github.com/kovalyov-valentin/competition-feed-bot/internal/ocr"
)

// Extractor fetches a detail page, recognizes text from its images and runs
// the field pattern families over everything it collected.
type Extractor struct {
	client     *http.Client
	recognizer ocr.Recognizer
	families   matcher.Families
	// Relative image paths are resolved against the site base.
	baseURL *url.URL
}

func New(client *http.Client, recognizer ocr.Recognizer, families matcher.Families, baseURL string) (*Extractor, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	return &Extractor{
		client:     client,
		recognizer: recognizer,
		families:   families,
		baseURL:    base,
	}, nil
}

// Extract processes one detail page. A failed page fetch fails the whole
// extraction; a failed image download or recognition only loses that image.
// Every field of the result is populated, with the family sentinel standing
// in for categories that did not match.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (model.ExtractedContent, error) {
	body, err := e.fetch(ctx, pageURL)
	if err != nil {
		return model.ExtractedContent{}, err
	}

	rawText := e.recognizeImages(ctx, body)

	// Field patterns run over the recognized image text plus whatever
	// readable text the page itself carries.
	searchText := rawText
	if pageText := extractPageText(body); pageText != "" {
		searchText += "\n" + pageText
	}

	return model.ExtractedContent{
		RawText:            rawText,
		RegistrationWindow: e.families.RegistrationWindow.Match(searchText),
		Eligibility:        e.families.Eligibility.Match(searchText),
		Organizer:          e.families.Organizer.Match(searchText),
		CoOrganizer:        e.families.CoOrganizer.Match(searchText),
	}, nil
}

// recognizeImages collects every image reference in document order and
// concatenates the text recognized from each. One broken image must not
// abort the page, so failures are logged and skipped.
func (e *Extractor) recognizeImages(ctx context.Context, page []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		log.Printf("[WARN] failed to parse detail page html: %v", err)
		return ""
	}

	var imageURLs []string

	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		src, ok := img.Attr("src")
		if !ok || src == "" {
			return
		}

		imageURLs = append(imageURLs, e.resolveURL(src))
	})

	var sb strings.Builder

	for _, imageURL := range lo.Uniq(imageURLs) {
		data, mimeType, err := e.fetchImage(ctx, imageURL)
		if err != nil {
			log.Printf("[WARN] failed to download image %s: %v", imageURL, err)
			continue
		}

		text, err := e.recognizer.Recognize(ctx, data, mimeType)
		if err != nil {
			log.Printf("[WARN] failed to recognize image %s: %v", imageURL, err)
			continue
		}

		if text != "" {
			sb.WriteString("\n")
			sb.WriteString(text)
		}
	}

	return sb.String()
}

func (e *Extractor) fetch(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch detail page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch detail page: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read detail page: %w", err)
	}

	return body, nil
}

func (e *Extractor) fetchImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}

	mimeType := resp.Header.Get("Content-Type")
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}

	return data, mimeType, nil
}

func (e *Extractor) resolveURL(src string) string {
	ref, err := url.Parse(src)
	if err != nil {
		return src
	}

	return e.baseURL.ResolveReference(ref).String()
}

// readability leaves runs of blank lines behind once tags are stripped;
// collapse them so the pattern families see compact text.
var redundantNewLines = regexp.MustCompile(`\n{3,}`)

func extractPageText(page []byte) string {
	doc, err := readability.FromReader(bytes.NewReader(page), nil)
	if err != nil {
		// Absent or unexpected structure counts for nothing, not an error.
		return ""
	}

	return strings.TrimSpace(redundantNewLines.ReplaceAllString(doc.TextContent, "\n"))
}

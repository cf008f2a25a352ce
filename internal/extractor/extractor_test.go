package extractor_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kovalyov-valentin/competition-feed-bot/internal/extractor"
	"github.com/kovalyov-valentin/competition-feed-bot/internal/matcher"
)

// fakeRecognizer maps raw image bytes to canned text.
type fakeRecognizer struct {
	mu    sync.Mutex
	texts map[string]string
	calls int
}

func (r *fakeRecognizer) Recognize(_ context.Context, image []byte, _ string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls++

	return r.texts[string(image)], nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/home/news/1.html", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<img src="/upload/a.jpg">
			<img src="upload/b.jpg">
			<img src="/upload/missing.jpg">
			<p>详情见海报。</p>
		</body></html>`))
	})
	mux.HandleFunc("/home/news/2.html", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>普通新闻内容</p></body></html>`))
	})
	mux.HandleFunc("/upload/a.jpg", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("IMG_A"))
	})
	mux.HandleFunc("/upload/b.jpg", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("IMG_B"))
	})
	mux.HandleFunc("/upload/missing.jpg", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	return httptest.NewServer(mux)
}

func TestExtractCollectsImageTextAndFields(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	recognizer := &fakeRecognizer{texts: map[string]string{
		"IMG_A": "主办：中国广告协会",
		"IMG_B": "报名时间：2024年3月1日至2024年5月31日",
	}}

	e, err := extractor.New(srv.Client(), recognizer, matcher.DefaultFamilies(), srv.URL)
	require.NoError(t, err)

	content, err := e.Extract(context.Background(), srv.URL+"/home/news/1.html")
	require.NoError(t, err)

	// The broken third image is skipped; both healthy ones survive.
	require.Contains(t, content.RawText, "主办：中国广告协会")
	require.Contains(t, content.RawText, "报名时间：2024年3月1日至2024年5月31日")
	require.Equal(t, 2, recognizer.calls)

	require.Equal(t, "中国广告协会", content.Organizer)
	require.Equal(t, "2024年3月1日至2024年5月31日", content.RegistrationWindow)
	require.Equal(t, "未找到参赛要求", content.Eligibility)
	require.Equal(t, "未找到承办方", content.CoOrganizer)
}

func TestExtractPageWithoutImages(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	recognizer := &fakeRecognizer{texts: map[string]string{}}

	e, err := extractor.New(srv.Client(), recognizer, matcher.DefaultFamilies(), srv.URL)
	require.NoError(t, err)

	content, err := e.Extract(context.Background(), srv.URL+"/home/news/2.html")
	require.NoError(t, err)

	require.Empty(t, content.RawText)
	require.Equal(t, 0, recognizer.calls)
	require.Equal(t, "未找到报名日期", content.RegistrationWindow)
	require.Equal(t, "未找到参赛要求", content.Eligibility)
	require.Equal(t, "未找到主办方", content.Organizer)
	require.Equal(t, "未找到承办方", content.CoOrganizer)
}

func TestExtractDuplicateImagesRecognizedOnce(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/page.html", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<img src="/upload/a.jpg"><img src="/upload/a.jpg">
		</body></html>`))
	})
	mux.HandleFunc("/upload/a.jpg", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("IMG_A"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	recognizer := &fakeRecognizer{texts: map[string]string{"IMG_A": "作品要求见图"}}

	e, err := extractor.New(srv.Client(), recognizer, matcher.DefaultFamilies(), srv.URL)
	require.NoError(t, err)

	_, err = e.Extract(context.Background(), srv.URL+"/page.html")
	require.NoError(t, err)
	require.Equal(t, 1, recognizer.calls)
}

func TestExtractPageFetchFailure(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	e, err := extractor.New(srv.Client(), &fakeRecognizer{}, matcher.DefaultFamilies(), srv.URL)
	require.NoError(t, err)

	_, err = e.Extract(context.Background(), srv.URL+"/home/news/does-not-exist.html")
	require.Error(t, err)
}

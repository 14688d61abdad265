package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScraper() *Scraper {
	opts := DefaultOptions()
	opts.BrowserEnabled = false
	return NewScraper(opts)
}

func TestExtract_JobDescriptionSelector(t *testing.T) {
	description := strings.Repeat("Build and operate distributed systems in Go. ", 10)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `
		<html>
			<body>
				<nav>Site navigation</nav>
				<div class="sidebar">Related jobs</div>
				<div class="job-description">
					<h2>Senior Backend Engineer</h2>
					<p>%s</p>
				</div>
				<footer>Copyright</footer>
			</body>
		</html>`, description)
	}))
	defer server.Close()

	text, err := newTestScraper().Extract(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, text, "Senior Backend Engineer")
	assert.Contains(t, text, "distributed systems in Go")
	assert.NotContains(t, text, "Site navigation")
	assert.NotContains(t, text, "Related jobs")
	assert.NotContains(t, text, "Copyright")
}

func TestExtract_FallbackToBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `
		<html>
			<body>
				<div>%s</div>
			</body>
		</html>`, strings.Repeat("We are hiring a platform engineer. ", 10))
	}))
	defer server.Close()

	text, err := newTestScraper().Extract(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, text, "platform engineer")
}

func TestExtract_PrefersSubstantialMatch(t *testing.T) {
	long := strings.Repeat("Responsibilities include API design and on-call rotation. ", 8)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `
		<html>
			<body>
				<div class="job-description">Short teaser</div>
				<main>%s</main>
			</body>
		</html>`, long)
	}))
	defer server.Close()

	text, err := newTestScraper().Extract(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, text, "API design")
}

func TestExtract_TruncatesLongDescriptions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `<html><body><main>%s</main></body></html>`,
			strings.Repeat("duties ", 2000))
	}))
	defer server.Close()

	text, err := newTestScraper().Extract(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Len(t, text, MaxDescriptionLength+3)
	assert.True(t, strings.HasSuffix(text, "..."))
}

func TestExtract_TruncationKeepsValidUTF8(t *testing.T) {
	// A multi-byte rune straddles the truncation boundary.
	body := strings.Repeat("a", MaxDescriptionLength-1) + strings.Repeat("日", 40)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `<html><body><main>%s</main></body></html>`, body)
	}))
	defer server.Close()

	text, err := newTestScraper().Extract(context.Background(), server.URL)
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(text))
	assert.True(t, strings.HasSuffix(text, "..."))
	assert.LessOrEqual(t, len(text), MaxDescriptionLength+3)
}

func TestExtract_TooShortFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><main>tiny</main></body></html>`))
	}))
	defer server.Close()

	_, err := newTestScraper().Extract(context.Background(), server.URL)
	require.Error(t, err)

	var scrapeErr *Error
	assert.ErrorAs(t, err, &scrapeErr)
	assert.Contains(t, err.Error(), "meaningful job description")
}

func TestExtract_InvalidURL(t *testing.T) {
	_, err := newTestScraper().Extract(context.Background(), "not-a-valid-url")
	require.Error(t, err)

	var scrapeErr *Error
	assert.ErrorAs(t, err, &scrapeErr)
	assert.Contains(t, err.Error(), "invalid URL")
}

func TestExtract_RejectsNonHTTPScheme(t *testing.T) {
	_, err := newTestScraper().Extract(context.Background(), "ftp://example.com/job")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported URL scheme")
}

func TestExtract_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := newTestScraper().Extract(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestExtract_SetsUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprintf(w, `<html><body><main>%s</main></body></html>`,
			strings.Repeat("content ", 50))
	}))
	defer server.Close()

	_, err := newTestScraper().Extract(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, DefaultUserAgent, gotUA)
}

func TestCleanWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", cleanWhitespace("  a\n\n b\t\tc  "))
	assert.Equal(t, "", cleanWhitespace("   \n\t "))
}

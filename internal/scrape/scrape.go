// Package scrape retrieves job posting pages and extracts their description
// text for downstream generation.
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// MaxDescriptionLength caps the extracted text passed to generation.
const MaxDescriptionLength = 5000

// MinDescriptionLength is the shortest extraction considered usable.
const MinDescriptionLength = 50

// substantialLength is the threshold at which a selector match is taken
// without consulting later selectors.
const substantialLength = 200

// Error represents a failure to retrieve or extract a job description.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("scrape error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("scrape error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the scraper.
type Options struct {
	Timeout        time.Duration
	UserAgent      string
	BrowserEnabled bool
	// Client overrides the HTTP client, used by tests.
	Client *http.Client
}

// DefaultOptions returns sensible defaults for scraping.
func DefaultOptions() *Options {
	return &Options{
		Timeout:        DefaultTimeout,
		UserAgent:      DefaultUserAgent,
		BrowserEnabled: true,
	}
}

// Scraper extracts job descriptions from posting URLs.
type Scraper struct {
	opts *Options
}

// NewScraper creates a Scraper with the given options. Nil options select
// defaults.
func NewScraper(opts *Options) *Scraper {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Scraper{opts: opts}
}

// descriptionSelectors are tried in order against the cleaned document.
// The first match with substantial text wins; otherwise the longest match
// is kept as a candidate.
func descriptionSelectors() []string {
	return []string{
		".job-description",
		".job-content",
		"#job-description",
		"#job-content",
		"[class*=\"job-description\"]",
		"[class*=\"jobDescription\"]",
		"[data-testid='job-description']",
		".posting-content",
		".job-details",
		"main",
		"article",
		".content",
		"#content",
	}
}

// Extract fetches a job posting URL and returns the description text.
// When the plain HTTP fetch yields too little text and browser rendering is
// enabled, the page is re-fetched through a headless browser before
// extraction is retried.
func (s *Scraper) Extract(ctx context.Context, urlStr string) (string, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return "", &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return "", &Error{URL: urlStr, Message: fmt.Sprintf("unsupported URL scheme %q", parsedURL.Scheme)}
	}

	html, err := s.fetch(ctx, urlStr)
	if err != nil {
		return "", err
	}

	text, err := extractDescription(html)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "failed to parse HTML", Cause: err}
	}

	if shouldUseBrowser(text) && s.opts.BrowserEnabled {
		rendered, berr := renderWithBrowser(ctx, urlStr, s.opts.Timeout)
		if berr == nil {
			if renderedText, perr := extractDescription(rendered); perr == nil && len(renderedText) > len(text) {
				text = renderedText
			}
		}
	}

	if len(text) < MinDescriptionLength {
		return "", &Error{URL: urlStr, Message: "could not extract a meaningful job description"}
	}

	if len(text) > MaxDescriptionLength {
		// Back off to a rune boundary so the cut never splits UTF-8.
		cut := MaxDescriptionLength
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "..."
	}

	return text, nil
}

func (s *Scraper) fetch(ctx context.Context, urlStr string) (string, error) {
	client := s.opts.Client
	if client == nil {
		client = &http.Client{Timeout: s.opts.Timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", s.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := client.Do(req)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &Error{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	return string(body), nil
}

// extractDescription parses HTML, removes noise elements, and returns the
// text of the best-matching description container.
func extractDescription(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	doc.Find("nav, footer, header, script, style, noscript, iframe, .ad, .advertisement, .ads, .sidebar, .cookie-banner, .popup").Remove()

	var best string
	for _, selector := range descriptionSelectors() {
		selection := doc.Find(selector)
		if selection.Length() == 0 {
			continue
		}
		text := cleanWhitespace(selection.First().Text())
		if len(text) > substantialLength {
			return text, nil
		}
		if len(text) > len(best) {
			best = text
		}
	}

	if bodyText := cleanWhitespace(doc.Find("body").Text()); len(bodyText) > len(best) {
		best = bodyText
	}

	return best, nil
}

// cleanWhitespace collapses runs of whitespace into single spaces.
func cleanWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// shouldUseBrowser reports whether the extracted text is too short,
// indicating a JavaScript-rendered page.
func shouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < minRenderedLength
}

package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
)

const (
	// DefaultFetchTimeout bounds a single job posting download
	DefaultFetchTimeout = 30 * time.Second
	defaultUserAgent    = "Mozilla/5.0 (compatible; ATSBuilder/1.0)"
	maxPageSize         = 5 * 1024 * 1024
)

var (
	pageNoise = "nav, footer, header, script, style, noscript, form, iframe, svg, .ad, .ads, .sidebar, .cookie-banner, .popup"

	jobPostingSelectors = []string{
		".job-description",
		"#job-description",
		".jobDescriptionContent",
		".description__text",
		"[data-testid=jobDescriptionText]",
		".posting-page",
		".job-content",
		"main",
		"article",
		"#content",
		".content",
	}

	blockElements = "p, div, section, h1, h2, h3, h4, h5, h6, ul, ol, tr, dt, dd, br"
)

// Fetcher downloads job posting pages
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher returns a fetcher using client, or a client with DefaultFetchTimeout when nil
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	return &Fetcher{client: client, userAgent: defaultUserAgent}
}

// FetchJobDescription downloads a posting with the default fetcher
func FetchJobDescription(ctx context.Context, rawURL string) (string, error) {
	return NewFetcher(nil).FetchJobDescription(ctx, rawURL)
}

// FetchJobDescription downloads rawURL and returns the posting's main text
func (f *Fetcher) FetchJobDescription(ctx context.Context, rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", errors.NewValidationError(errors.ErrCodeInvalidInput, "job description URL must be an absolute http(s) URL", err).
			WithContext("url", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", errors.NewNetworkError(errors.ErrCodeFetchFailed, "failed to create request", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", errors.NewNetworkError(errors.ErrCodeNetworkTimeout, "job description fetch timed out", err).
				WithContext("url", rawURL)
		}
		return "", errors.NewNetworkError(errors.ErrCodeFetchFailed, "job description fetch failed", err).
			WithContext("url", rawURL)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", errors.NewNetworkError(errors.ErrCodeFetchFailed, fmt.Sprintf("job description fetch returned HTTP %d", resp.StatusCode), nil).
			WithContext("url", rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return "", errors.NewNetworkError(errors.ErrCodeFetchFailed, "failed to read job description page", err).
			WithContext("url", rawURL)
	}

	var text string
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain") {
		text = decodeText(body)
	} else if text, err = MainText(string(body)); err != nil {
		return "", errors.NewValidationError(errors.ErrCodeInvalidFormat, "job description page is not valid HTML", err).
			WithContext("url", rawURL)
	}

	text = Normalize(text)
	if text == "" {
		return "", errors.NewValidationError(errors.ErrCodeInvalidInput, "job description page has no text", nil).
			WithContext("url", rawURL)
	}
	return text, nil
}

// MainText extracts the readable posting text from an HTML page. Block
// elements become lines, list items become "-" bullets and blank lines are dropped
func MainText(page string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(pageNoise).Remove()

	content := doc.Find("body")
	for _, selector := range jobPostingSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 && strings.TrimSpace(sel.First().Text()) != "" {
			content = sel.First()
			break
		}
	}

	content.Find("li").Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("\n- ")
	})
	content.Find(blockElements).Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "br" {
			s.ReplaceWithHtml("\n")
			return
		}
		s.PrependHtml("\n")
		s.AppendHtml("\n")
	})

	var lines []string
	for _, line := range strings.Split(content.Text(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// Package google scrapes a web search results page and extracts result links.
package google

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/aretw0/errand/pkg/domain"
)

const (
	DefaultBaseURL   = "https://www.google.com/search"
	DefaultLimit     = 10
	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// Searcher implements ports.Searcher.
type Searcher struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

type Option func(*Searcher)

// WithBaseURL points the searcher at a different results endpoint.
func WithBaseURL(u string) Option {
	return func(s *Searcher) {
		s.baseURL = u
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Searcher) {
		s.client = c
	}
}

// WithUserAgent overrides the browser-like User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *Searcher) {
		s.userAgent = ua
	}
}

// New creates a Searcher.
func New(opts ...Option) *Searcher {
	s := &Searcher{
		client:    &http.Client{Timeout: 30 * time.Second},
		baseURL:   DefaultBaseURL,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search fetches the results page for query and returns up to limit links.
func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	u, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid search base url: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("num", strconv.Itoa(limit+2)) // ads and widgets eat a couple of slots
	q.Set("hl", "en")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search request: unexpected status %s", resp.Status)
	}

	return ParseResults(resp.Body, u.Hostname(), limit)
}

// ParseResults extracts result links from a results page. Redirect links of
// the form /url?q=<target> are unwrapped; links to engineHost itself,
// non-http links and duplicates are dropped.
func ParseResults(r io.Reader, engineHost string, limit int) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse results page: %w", err)
	}

	engine := strings.TrimPrefix(engineHost, "www.")
	seen := make(map[string]bool)
	results := []string{}

	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		link := resultLink(href, engine)
		if link == "" || seen[link] {
			return true
		}
		seen[link] = true
		results = append(results, link)
		return limit <= 0 || len(results) < limit
	})

	return results, nil
}

func resultLink(href, engine string) string {
	if strings.HasPrefix(href, "/url?") {
		u, err := url.Parse(href)
		if err != nil {
			return ""
		}
		href = u.Query().Get("q")
		if href == "" {
			href = u.Query().Get("url")
		}
	}

	u, err := url.Parse(href)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	if host := u.Hostname(); engine != "" && (host == engine || strings.HasSuffix(host, "."+engine)) {
		return ""
	}
	u.Fragment = ""
	return u.String()
}

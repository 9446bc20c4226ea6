package transit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/bluele/gcache"
	"github.com/klauspost/compress/gzhttp"
	"golang.org/x/time/rate"
)

var baseURL = "https://fahrplan.search.ch/api"

const userAgent = "stationboard/1.0 (LED departure board)"

// Client interacts with the search.ch stationboard API
type Client struct {
	httpClient *http.Client
	baseURL    string
	limit      int
	limiter    *rate.Limiter
	cache      gcache.Cache
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at another API root, e.g. from the config file.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLimit sets how many departures are requested per stop.
func WithLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.limit = n
		}
	}
}

// WithRateLimit paces requests to the API.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(limit, burst) }
}

// WithCache keeps successful stationboards for ttl, keyed by stop name.
// A ttl of zero or less disables caching.
func WithCache(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl <= 0 {
			c.cache = nil
			return
		}
		c.cache = gcache.New(64).
			LRU().
			Expiration(ttl).
			Build()
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: gzhttp.Transport(http.DefaultTransport),
		},
		baseURL: baseURL,
		limit:   20,
		limiter: rate.NewLimiter(rate.Limit(2), 2),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchStationboard gets the next tram and bus departures for a stop name.
// A response without a connections field is reported as *APIError carrying the server messages.
func (c *Client) FetchStationboard(ctx context.Context, stop string) (*Stationboard, error) {
	if c.cache != nil {
		if cached, err := c.cache.Get(stop); err == nil {
			if board, ok := cached.(*Stationboard); ok {
				return board, nil
			}
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting to query %q: %w", stop, err)
	}

	params := url.Values{}
	params.Set("stop", stop)
	params.Set("limit", strconv.Itoa(c.limit))
	params.Set("show_delays", "1")
	params.Set("mode", "depart")
	params.Set("transportation_types", "tram,bus")
	reqURL := fmt.Sprintf("%s/stationboard.json?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	// Public APIs often block default Go user agents
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stationboard for %q: %w", stop, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read stationboard response body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Stop: stop, Status: resp.StatusCode, Messages: diagnostics(contentType, body)}
	}
	if isHTML(contentType, body) {
		return nil, &APIError{Stop: stop, Status: resp.StatusCode, Messages: htmlDiagnostics(body)}
	}

	var board Stationboard
	if err := json.Unmarshal(body, &board); err != nil {
		return nil, &APIError{Stop: stop, Err: fmt.Errorf("failed to decode stationboard JSON: %w", err)}
	}
	if board.Connections == nil {
		return nil, &APIError{Stop: stop, Messages: board.Messages}
	}

	if c.cache != nil {
		_ = c.cache.Set(stop, &board)
	}
	return &board, nil
}

func isHTML(contentType string, body []byte) bool {
	if strings.Contains(contentType, "text/html") {
		return true
	}
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '<'
}

// diagnostics pulls whatever explanation the server gave out of an error body.
func diagnostics(contentType string, body []byte) []string {
	if isHTML(contentType, body) {
		return htmlDiagnostics(body)
	}
	var payload struct {
		Messages []string `json:"messages"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		return payload.Messages
	}
	return nil
}

// htmlDiagnostics extracts the title and first heading of an HTML error page,
// as served by proxies and captive portals.
func htmlDiagnostics(body []byte) []string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	var msgs []string
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		msgs = append(msgs, title)
	}
	heading := strings.TrimSpace(doc.Find("h1, h2").First().Text())
	if heading != "" && (len(msgs) == 0 || msgs[0] != heading) {
		msgs = append(msgs, heading)
	}
	return msgs
}

package dupr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultBaseURL is the production DUPR player search endpoint.
const DefaultBaseURL = "https://api.dupr.gg/player/v1.0/search"

const searchLimit = 10

// Options tunes the client's pacing and retry behaviour. Zero values fall
// back to the defaults the rating service tolerates.
type Options struct {
	BaseURL       string
	RequestDelay  time.Duration // minimum spacing between requests
	RetryCount    int           // attempts for transient failures
	RetryDelay    time.Duration // fixed delay between retries
	RateLimitWait time.Duration // cooldown after a 429
}

// APIClient is an authenticated client for the DUPR search API.
// It is not safe for concurrent use; the tool resolves one name at a time.
type APIClient struct {
	httpClient  *http.Client
	token       string
	BaseURL     string
	opts        Options
	lastRequest time.Time
}

// NewClient creates a new DUPR search client.
func NewClient(token string, opts Options) Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.RequestDelay == 0 {
		opts.RequestDelay = 500 * time.Millisecond
	}
	if opts.RetryCount == 0 {
		opts.RetryCount = 3
	}
	if opts.RetryDelay == 0 {
		opts.RetryDelay = 2 * time.Second
	}
	if opts.RateLimitWait == 0 {
		opts.RateLimitWait = 10 * time.Second
	}
	return &APIClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		token:      token,
		BaseURL:    opts.BaseURL,
		opts:       opts,
	}
}

// Ensure APIClient implements the Client interface.
var _ Client = (*APIClient)(nil)

// SearchPlayers searches for players by name with an optional location
// filter. A failed search (non-SUCCESS status) yields zero candidates, not
// an error.
func (c *APIClient) SearchPlayers(query string, loc *Location) ([]Candidate, error) {
	body := searchRequest{
		Limit:                   searchLimit,
		Query:                   query,
		Exclude:                 []string{},
		IncludeUnclaimedPlayers: true,
	}
	if loc != nil && loc.Text != "" {
		lat, lng := loc.Lat, loc.Lng
		body.Filter.Lat = &lat
		body.Filter.Lng = &lng
		body.Filter.LocationText = loc.Text
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	log.Debug("Searching DUPR", "query", query, "filter", body.Filter.LocationText)
	resp, err := c.makeRequest(payload)
	if err != nil {
		return nil, err
	}

	if resp.Status != "SUCCESS" {
		log.Debug("Search returned non-success status", "status", resp.Status, "query", query)
		return nil, nil
	}

	candidates := make([]Candidate, 0, len(resp.Result.Hits))
	for _, hit := range resp.Result.Hits {
		candidates = append(candidates, hitToCandidate(hit))
	}
	log.Debug("Search complete", "query", query, "hits", len(candidates))
	return candidates, nil
}

// makeRequest performs one search POST with rate limiting and retry logic.
// 401 fails immediately, 429 sleeps and retries outside the retry budget,
// and transient failures burn one attempt each.
func (c *APIClient) makeRequest(payload []byte) (*searchResponse, error) {
	attempt := 1
	for {
		c.waitForSlot()

		req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, c.BaseURL, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Origin", "https://dashboard.dupr.com")
		req.Header.Set("Referer", "https://dashboard.dupr.com/")

		resp, err := c.httpClient.Do(req)
		c.lastRequest = time.Now()
		if err != nil {
			log.Debug("Search request failed", "attempt", attempt, "error", err)
			if attempt >= c.opts.RetryCount {
				return nil, fmt.Errorf("%w: request failed after %d attempts: %v", ErrServiceUnavailable, attempt, err)
			}
			attempt++
			time.Sleep(c.opts.RetryDelay)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			resp.Body.Close()
			return nil, ErrAuthExpired

		case resp.StatusCode == http.StatusTooManyRequests:
			resp.Body.Close()
			log.Warn("Rate limited by DUPR, cooling down", "wait", c.opts.RateLimitWait)
			time.Sleep(c.opts.RateLimitWait)
			continue

		case resp.StatusCode != http.StatusOK:
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			log.Debug("Non-OK status from DUPR", "status", resp.StatusCode, "attempt", attempt, "body", string(body))
			if attempt >= c.opts.RetryCount {
				return nil, fmt.Errorf("%w: non-OK status %d after %d attempts", ErrServiceUnavailable, resp.StatusCode, attempt)
			}
			attempt++
			time.Sleep(c.opts.RetryDelay)
			continue
		}

		var parsed searchResponse
		err = json.NewDecoder(resp.Body).Decode(&parsed)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decode search response: %w", err)
		}
		return &parsed, nil
	}
}

// waitForSlot enforces the minimum inter-request spacing, measured from the
// end of the previous call.
func (c *APIClient) waitForSlot() {
	if c.lastRequest.IsZero() {
		return
	}
	remaining := c.opts.RequestDelay - time.Since(c.lastRequest)
	if remaining > 0 {
		log.Debug("Rate limiting", "wait", remaining)
		time.Sleep(remaining)
	}
}

func hitToCandidate(hit searchHit) Candidate {
	first, last := splitName(hit.FullName)
	return Candidate{
		ID:              hit.ID,
		FullName:        hit.FullName,
		FirstName:       first,
		LastName:        last,
		ShortAddress:    hit.ShortAddress,
		DUPRID:          hit.DUPRID,
		Singles:         parseRating(hit.Ratings.Singles),
		Doubles:         parseRating(hit.Ratings.Doubles),
		SinglesVerified: parseVerified(hit.Ratings.SinglesVerified),
		DoublesVerified: parseVerified(hit.Ratings.DoublesVerified),
	}
}

func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	first = parts[0]
	if len(parts) > 1 {
		last = parts[len(parts)-1]
	}
	return first, last
}

// parseRating normalizes a rating field. The API mixes numbers with the
// string sentinel "NR" for unrated players; "NR" maps to absent, never zero.
func parseRating(raw any) *float64 {
	switch v := raw.(type) {
	case nil:
		return nil
	case float64:
		return &v
	case string:
		if v == "NR" {
			return nil
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil
		}
		return &parsed
	default:
		return nil
	}
}

func parseVerified(raw any) bool {
	if s, ok := raw.(string); ok && s == "NR" {
		return false
	}
	if b, ok := raw.(bool); ok {
		return b
	}
	return true
}

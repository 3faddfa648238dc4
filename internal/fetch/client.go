// Package fetch wraps HTTP access to the public market-data providers.
// Every provider here is flaky in its own way: TPEX returns HTML error pages
// with a 200 status, TWSE throttles default client identifiers. The client
// absorbs all of that and reports a single "no data" outcome.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrNoData marks an ordinary fetch failure: exhausted retries, an HTML
// error page, or an unparseable body. Callers substitute their defaults.
var ErrNoData = errors.New("no data")

// userAgent is a realistic browser identifier; some providers block the
// default Go client string.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Client issues GET requests with bounded retry and defensive response
// validation.
type Client struct {
	HTTP        *http.Client
	MaxAttempts int
	RetryDelay  time.Duration
}

// NewClient creates a Client with the given retry policy.
func NewClient(timeout time.Duration, maxAttempts int, retryDelay time.Duration) *Client {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Client{
		HTTP:        &http.Client{Timeout: timeout},
		MaxAttempts: maxAttempts,
		RetryDelay:  retryDelay,
	}
}

// GetJSON fetches url and unmarshals the body into v. Transient failures are
// retried up to MaxAttempts total attempts with a fixed delay; anything still
// failing after that, and any HTML-instead-of-JSON body, yields ErrNoData.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	body, err := c.get(ctx, url)
	if err != nil {
		return err
	}

	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "<!DOCTYPE") || strings.HasPrefix(trimmed, "<html") {
		log.Printf("[WARN] provider returned HTML instead of JSON: %s", url)
		return ErrNoData
	}

	if err := json.Unmarshal(body, v); err != nil {
		log.Printf("[WARN] decode %s: %v", url, err)
		return ErrNoData
	}
	return nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	for attempt := 1; attempt <= c.MaxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.HTTP.Do(req)
		if err != nil {
			log.Printf("[WARN] request error: %v, attempt %d/%d", err, attempt, c.MaxAttempts)
		} else {
			body, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if readErr == nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return body, nil
			}
			log.Printf("[WARN] request failed (%d), attempt %d/%d", resp.StatusCode, attempt, c.MaxAttempts)
		}

		if attempt < c.MaxAttempts {
			select {
			case <-time.After(c.RetryDelay):
			case <-ctx.Done():
				return nil, ErrNoData
			}
		}
	}
	return nil, ErrNoData
}

// ParseNumber converts a loosely typed provider field to a float64. The
// exchanges report numbers as strings with thousands separators and use
// "-"/"--" for absent values; anything unparseable counts as zero.
func ParseNumber(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return n
	case int:
		return float64(n)
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(n), ",", "")
		if s == "" || s == "-" || s == "--" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// ParseOptionalNumber is ParseNumber for fields where "absent" must stay
// distinguishable from a literal zero.
func ParseOptionalNumber(s string) *float64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleaned == "" || cleaned == "-" || cleaned == "--" {
		return nil
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &f
}

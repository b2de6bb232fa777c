// Package httpjson provides a small JSON-over-HTTP client with bounded
// exponential-backoff retry for transport-level failures.
package httpjson

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"critique-backend/internal/shared/telemetry"
)

const (
	// DefaultMaxRetries is the number of retries after the initial attempt.
	DefaultMaxRetries = 3
	// DefaultInitialDelay is the delay before the first retry; it doubles
	// on each subsequent retry with no jitter.
	DefaultInitialDelay = 1000 * time.Millisecond

	defaultTimeout = 60 * time.Second
)

// ErrMalformedBody indicates a successful HTTP response whose body is not
// valid JSON. It is never retried: a model-formatting problem will not be
// fixed by resending the same request.
var ErrMalformedBody = errors.New("response body is not valid JSON")

// TransportError is returned when all attempts failed at the network or
// HTTP-status level. Status holds the last non-success status code, or 0
// when the failure never produced a response.
type TransportError struct {
	Attempts int
	Status   int
	Err      error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request failed after %d attempts: %v", e.Attempts, e.Err)
	}
	return fmt.Sprintf("request failed after %d attempts: http status %d", e.Attempts, e.Status)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Options controls the retry policy for a single Post call.
// Zero values select the defaults.
type Options struct {
	MaxRetries   int
	InitialDelay time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxRetries <= 0 {
		o.MaxRetries = DefaultMaxRetries
	}
	if o.InitialDelay <= 0 {
		o.InitialDelay = DefaultInitialDelay
	}
	return o
}

// Client posts JSON payloads and retries transport failures.
type Client struct {
	httpClient *http.Client

	// OnRetry, when set, is invoked once per retry attempt.
	OnRetry func()
}

// NewClient constructs a Client with the given request timeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Post sends payload as a JSON POST to url and returns the response body.
// Network errors and non-2xx statuses are retried with doubling backoff
// until opts.MaxRetries is exhausted, then surfaced as *TransportError.
// A 2xx response whose body is not valid JSON fails immediately with
// ErrMalformedBody.
func (c *Client) Post(ctx context.Context, url string, payload any, opts Options) (json.RawMessage, error) {
	opts = opts.withDefaults()

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request payload: %w", err)
	}

	attemptsLeft := opts.MaxRetries
	delay := opts.InitialDelay
	attempts := 0

	for {
		attempts++
		raw, status, attemptErr := c.postOnce(ctx, url, body)
		if attemptErr == nil {
			if !json.Valid(raw) {
				return nil, fmt.Errorf("post %s: %w", url, ErrMalformedBody)
			}
			return raw, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attemptsLeft == 0 {
			return nil, &TransportError{Attempts: attempts, Status: status, Err: attemptErr}
		}

		telemetry.Warn("httpjson.retry", map[string]any{
			"attempt":  attempts,
			"status":   status,
			"delay_ms": delay.Milliseconds(),
			"error":    attemptErr.Error(),
		})
		if c.OnRetry != nil {
			c.OnRetry()
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		delay *= 2
		attemptsLeft--
	}
}

func (c *Client) postOnce(ctx context.Context, url string, body []byte) (json.RawMessage, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, fmt.Errorf("http status %d", resp.StatusCode)
	}
	return raw, resp.StatusCode, nil
}

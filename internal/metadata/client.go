package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/marco/mediaVault/internal/retry"
)

const (
	defaultTimeout    = 30 * time.Second
	maxErrorBodyBytes = 512
)

// ErrMalformedPayload is returned when a successful response body is not JSON.
var ErrMalformedPayload = errors.New("malformed JSON payload")

// Client performs GET requests against the metadata provider and absorbs
// transient failures with exponential backoff.
type Client struct {
	httpClient *http.Client
	policy     retry.Policy
	logger     *slog.Logger
}

// ClientConfig holds configuration for the transport client
type ClientConfig struct {
	HTTPClient  *http.Client
	Timeout     time.Duration
	MaxAttempts int
	BaseDelay   time.Duration
	MaxJitter   time.Duration
	Logger      *slog.Logger

	// Sleep replaces the backoff timer when set.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a transport client. Zero values fall back to three
// attempts, a one second base delay, one second of jitter and a 30s
// request timeout. A negative MaxJitter disables jitter.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	policy := retry.DefaultPolicy()
	if cfg.MaxAttempts > 0 {
		policy.MaxAttempts = cfg.MaxAttempts
	}
	if cfg.BaseDelay > 0 {
		policy.BaseDelay = cfg.BaseDelay
	}
	switch {
	case cfg.MaxJitter > 0:
		policy.MaxJitter = cfg.MaxJitter
	case cfg.MaxJitter < 0:
		policy.MaxJitter = 0
	}
	policy.Sleep = cfg.Sleep

	return &Client{
		httpClient: cfg.HTTPClient,
		policy:     policy,
		logger:     cfg.Logger,
	}
}

// GetJSON fetches requestURL and returns its JSON body. maxAttempts <= 0
// uses the client default. A 2xx response with an empty body returns a nil
// payload and no error. Every other failure, including exhausted retries,
// is returned as an error.
func (c *Client) GetJSON(ctx context.Context, requestURL string, maxAttempts int) (json.RawMessage, error) {
	endpoint := redactURL(requestURL)

	p := c.policy
	if maxAttempts > 0 {
		p.MaxAttempts = maxAttempts
	}
	p.OnRetry = func(attempt, total int, backoff time.Duration, class retry.Class, err error) {
		transportRetriesTotal.WithLabelValues(class.String()).Inc()
		c.logger.Warn("metadata request failed, retrying",
			"endpoint", endpoint,
			"attempt", attempt,
			"max_attempts", total,
			"backoff_ms", backoff.Milliseconds(),
			"class", class.String(),
			"error", err,
		)
	}

	var body []byte
	err := retry.Do(ctx, p, func(ctx context.Context) error {
		b, err := c.get(ctx, requestURL)
		if err != nil {
			transportRequestsTotal.WithLabelValues(retry.Classify(err).String()).Inc()
			return err
		}
		transportRequestsTotal.WithLabelValues("success").Inc()
		body = b
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", endpoint, err)
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	return json.RawMessage(body), nil
}

// get runs a single attempt.
func (c *Client) get(ctx context.Context, requestURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = redactURL(urlErr.URL)
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &retry.StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(bytes.TrimSpace(body)) > 0 && !json.Valid(body) {
		return nil, retry.Permanent(ErrMalformedPayload)
	}
	return body, nil
}

// redactURL hides the api_key query parameter so URLs can be logged.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	q := u.Query()
	if q.Has("api_key") {
		q.Set("api_key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

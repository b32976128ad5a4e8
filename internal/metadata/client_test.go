package metadata

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/marco/mediaVault/internal/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestClient returns a client whose backoff sleeps are recorded, not slept.
func newTestClient(maxAttempts int) (*Client, *[]time.Duration) {
	var sleeps []time.Duration
	c := NewClient(ClientConfig{
		MaxAttempts: maxAttempts,
		Logger:      discardLogger(),
		Sleep: func(_ context.Context, d time.Duration) error {
			sleeps = append(sleeps, d)
			return nil
		},
	})
	return c, &sleeps
}

// statusSequence serves the given statuses in order, repeating the last one.
func statusSequence(t *testing.T, body string, statuses ...int) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(atomic.AddInt32(&hits, 1)) - 1
		if n >= len(statuses) {
			n = len(statuses) - 1
		}
		w.WriteHeader(statuses[n])
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestGetJSON_Success(t *testing.T) {
	srv, hits := statusSequence(t, `{"results": []}`, http.StatusOK)
	c, sleeps := newTestClient(3)

	data, err := c.GetJSON(context.Background(), srv.URL+"/movie/1?api_key=secret", 0)

	require.NoError(t, err)
	assert.JSONEq(t, `{"results": []}`, string(data))
	assert.EqualValues(t, 1, atomic.LoadInt32(hits))
	assert.Empty(t, *sleeps)
}

func TestGetJSON_RepeatedRateLimitExhausts(t *testing.T) {
	srv, hits := statusSequence(t, `{"status_code": 25}`, http.StatusTooManyRequests)
	c, sleeps := newTestClient(3)

	_, err := c.GetJSON(context.Background(), srv.URL, 0)

	require.Error(t, err)
	assert.ErrorIs(t, err, retry.ErrExhausted)
	assert.True(t, retry.IsRateLimited(err))
	assert.EqualValues(t, 3, atomic.LoadInt32(hits), "exactly the configured attempts")
	require.Len(t, *sleeps, 2)
	assert.GreaterOrEqual(t, (*sleeps)[0], time.Second)
	assert.Less(t, (*sleeps)[0], 2*time.Second)
	assert.GreaterOrEqual(t, (*sleeps)[1], 2*time.Second)
	assert.Less(t, (*sleeps)[1], 3*time.Second)
}

func TestGetJSON_PerCallAttemptOverride(t *testing.T) {
	srv, hits := statusSequence(t, "", http.StatusTooManyRequests)
	c, _ := newTestClient(3)

	_, err := c.GetJSON(context.Background(), srv.URL, 5)

	require.Error(t, err)
	assert.EqualValues(t, 5, atomic.LoadInt32(hits))
}

func TestGetJSON_RateLimitThenSuccess(t *testing.T) {
	srv, hits := statusSequence(t, `{"ok": true}`, http.StatusTooManyRequests, http.StatusOK)
	c, _ := newTestClient(3)

	data, err := c.GetJSON(context.Background(), srv.URL, 0)

	require.NoError(t, err)
	assert.JSONEq(t, `{"ok": true}`, string(data))
	assert.EqualValues(t, 2, atomic.LoadInt32(hits))
}

func TestGetJSON_NonRateLimitedStatusFailsImmediately(t *testing.T) {
	for _, code := range []int{http.StatusNotFound, http.StatusUnauthorized, http.StatusBadGateway} {
		srv, hits := statusSequence(t, `{"status_message": "nope"}`, code)
		c, sleeps := newTestClient(3)

		_, err := c.GetJSON(context.Background(), srv.URL, 0)

		var statusErr *retry.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, code, statusErr.StatusCode)
		assert.Contains(t, statusErr.Body, "nope")
		assert.EqualValues(t, 1, atomic.LoadInt32(hits))
		assert.Empty(t, *sleeps)
	}
}

func TestGetJSON_EmptyBodyIsNilPayload(t *testing.T) {
	srv, _ := statusSequence(t, "  ", http.StatusOK)
	c, _ := newTestClient(3)

	data, err := c.GetJSON(context.Background(), srv.URL, 0)

	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestGetJSON_MalformedBodyIsTerminal(t *testing.T) {
	srv, hits := statusSequence(t, "<html>oops</html>", http.StatusOK)
	c, _ := newTestClient(3)

	_, err := c.GetJSON(context.Background(), srv.URL, 0)

	assert.ErrorIs(t, err, ErrMalformedPayload)
	assert.EqualValues(t, 1, atomic.LoadInt32(hits))
}

func TestGetJSON_ConnectionErrorsRetryWithoutJitter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	deadURL := srv.URL + "/movie/1?api_key=secret"
	srv.Close()

	c, sleeps := newTestClient(3)
	_, err := c.GetJSON(context.Background(), deadURL, 0)

	require.Error(t, err)
	assert.ErrorIs(t, err, retry.ErrExhausted)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *sleeps)
	assert.NotContains(t, err.Error(), "secret", "api key must not leak into errors")
}

func TestGetJSON_ContextCancelled(t *testing.T) {
	srv, _ := statusSequence(t, "", http.StatusTooManyRequests)
	c := NewClient(ClientConfig{MaxAttempts: 3, BaseDelay: time.Hour, Logger: discardLogger()})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.GetJSON(ctx, srv.URL, 0)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRedactURL(t *testing.T) {
	got := redactURL("https://api.themoviedb.org/3/movie/550?api_key=abc123&language=en-US")
	assert.NotContains(t, got, "abc123")
	assert.True(t, strings.HasPrefix(got, "https://api.themoviedb.org/3/movie/550?"))
	assert.Contains(t, got, "api_key=REDACTED")

	assert.Equal(t, "https://x.test/a?b=c", redactURL("https://x.test/a?b=c"))
}

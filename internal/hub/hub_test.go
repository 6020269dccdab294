package hub

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/service"
)

// readUntil reads lines until one has the given prefix
func readUntil(t *testing.T, r *bufio.Reader, prefix string) string {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err, "stream ended before %q", prefix)
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(line)
		}
	}
}

func connect(t *testing.T, url string) (*http.Response, *bufio.Reader) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	r := bufio.NewReader(resp.Body)
	readUntil(t, r, ": connected")
	return resp, r
}

func TestHubStreamsRelayedEvents(t *testing.T) {
	h := New(WithKeepAlive(time.Hour))
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	bus := service.NewEventBus()
	go h.Relay(ctx, bus)

	_, r := connect(t, srv.URL)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	// Relay subscribes asynchronously; publish until the frame arrives
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				bus.Publish(service.Event{Type: service.EventBookCreated, Payload: map[string]any{"id": 1}})
			}
		}
	}()
	defer close(done)

	assert.Equal(t, "event: book_created", readUntil(t, r, "event:"))
	assert.Equal(t, `data: {"type":"book_created","payload":{"id":1}}`, readUntil(t, r, "data:"))
}

func TestHubDisconnectsClientsOnShutdown(t *testing.T) {
	h := New(WithKeepAlive(time.Hour))
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	_, r := connect(t, srv.URL)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 10*time.Millisecond)

	// Drain the rest of the connect frame; the stream must then end
	_, err := io.ReadAll(r)
	assert.NoError(t, err)
	_, err = r.ReadString('\n')
	assert.ErrorIs(t, err, io.EOF)
}

func TestHubRejectsAfterShutdown(t *testing.T) {
	h := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h.Run(ctx)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestEncode(t *testing.T) {
	msg, err := encode(service.Event{Type: service.EventPostDeleted, Payload: map[string]any{"id": 7}})
	require.NoError(t, err)
	assert.Equal(t, "event: post_deleted\ndata: {\"type\":\"post_deleted\",\"payload\":{\"id\":7}}\n\n", string(msg))
}

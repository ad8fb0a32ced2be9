package handlers_test

import (
	"bufio"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/doctorfinder/internal/adapters/events"
	"github.com/zatekoja/doctorfinder/internal/api/handlers"
	"github.com/zatekoja/doctorfinder/internal/domain/entities"
	"github.com/zatekoja/doctorfinder/internal/domain/providers"
)

type staticSnapshot struct {
	snapshot *entities.DirectorySnapshot
}

func (s staticSnapshot) Snapshot() *entities.DirectorySnapshot { return s.snapshot }

type failingEventBus struct{}

func (failingEventBus) Publish(context.Context, string, *entities.DirectoryEvent) error { return nil }

func (failingEventBus) Subscribe(context.Context, string) (<-chan *entities.DirectoryEvent, error) {
	return nil, errors.New("redis down")
}

func (failingEventBus) Close() error { return nil }

type sseMessage struct {
	id    string
	event string
	data  string
}

func readMessage(t *testing.T, reader *bufio.Reader) sseMessage {
	t.Helper()
	var msg sseMessage
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case line == "":
			return msg
		case strings.HasPrefix(line, "id: "):
			msg.id = strings.TrimPrefix(line, "id: ")
		case strings.HasPrefix(line, "event: "):
			msg.event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			msg.data = strings.TrimPrefix(line, "data: ")
		}
	}
}

func openStream(t *testing.T, handler *handlers.SSEHandler) (*bufio.Reader, context.CancelFunc) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(handler.StreamDirectoryUpdates))
	t.Cleanup(server.Close)

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	return bufio.NewReader(resp.Body), cancel
}

func TestSSEHandler_StreamDirectoryUpdates(t *testing.T) {
	bus := events.NewMemoryEventBus()
	defer bus.Close()
	source := staticSnapshot{snapshot: &entities.DirectorySnapshot{
		Providers: []entities.Provider{{ID: "1"}, {ID: "2"}},
		Sequence:  3,
	}}
	handler := handlers.NewSSEHandler(bus, source, time.Hour)

	reader, cancel := openStream(t, handler)
	defer cancel()

	connected := readMessage(t, reader)
	assert.Equal(t, "connected", connected.event)
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(connected.data), &payload))
	assert.Equal(t, 3.0, payload["sequence"])
	assert.Equal(t, 2.0, payload["count"])

	event := entities.NewDirectoryEvent(&entities.DirectorySnapshot{
		Providers: []entities.Provider{{ID: "1"}},
		Sequence:  4,
		LoadedAt:  time.Now().UTC(),
	})
	require.NoError(t, bus.Publish(context.Background(), providers.EventChannelDirectoryUpdates, event))

	msg := readMessage(t, reader)
	assert.Equal(t, string(entities.DirectoryEventTypeLoaded), msg.event)
	assert.Equal(t, event.ID, msg.id)
	var got entities.DirectoryEvent
	require.NoError(t, json.Unmarshal([]byte(msg.data), &got))
	assert.Equal(t, uint64(4), got.Sequence)
	assert.Equal(t, 1, got.Count)
}

func TestSSEHandler_Heartbeat(t *testing.T) {
	bus := events.NewMemoryEventBus()
	defer bus.Close()
	handler := handlers.NewSSEHandler(bus, nil, 10*time.Millisecond)

	reader, cancel := openStream(t, handler)
	defer cancel()

	assert.Equal(t, "connected", readMessage(t, reader).event)
	assert.Equal(t, "heartbeat", readMessage(t, reader).event)
}

func TestSSEHandler_SubscribeFailure(t *testing.T) {
	handler := handlers.NewSSEHandler(failingEventBus{}, nil, 0)

	req := httptest.NewRequest(http.MethodGet, "/api/directory/events", nil)
	rec := httptest.NewRecorder()
	handler.StreamDirectoryUpdates(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "event stream unavailable", decodeBody(t, rec)["error"])
}

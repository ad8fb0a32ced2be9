package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/zatekoja/doctorfinder/internal/domain/entities"
	"github.com/zatekoja/doctorfinder/internal/domain/providers"
	"github.com/zatekoja/doctorfinder/internal/infrastructure/observability"
)

const defaultHeartbeatInterval = 30 * time.Second

// SnapshotSource exposes the snapshot announced when a client connects
type SnapshotSource interface {
	Snapshot() *entities.DirectorySnapshot
}

// SSEHandler handles Server-Sent Events for directory reloads
type SSEHandler struct {
	eventBus  providers.EventBus
	source    SnapshotSource
	heartbeat time.Duration
}

// NewSSEHandler creates a new SSE handler. A non-positive heartbeat uses 30s.
func NewSSEHandler(eventBus providers.EventBus, source SnapshotSource, heartbeat time.Duration) *SSEHandler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeatInterval
	}
	return &SSEHandler{
		eventBus:  eventBus,
		source:    source,
		heartbeat: heartbeat,
	}
}

// StreamDirectoryUpdates streams directory reload events
// GET /api/directory/events
func (h *SSEHandler) StreamDirectoryUpdates(w http.ResponseWriter, r *http.Request) {
	logger := observability.LoggerFromContext(r.Context())

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	eventChan, err := h.eventBus.Subscribe(r.Context(), providers.EventChannelDirectoryUpdates)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to subscribe to directory updates")
		respondWithError(w, http.StatusServiceUnavailable, "event stream unavailable")
		return
	}

	// streams outlive the server write timeout
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	connected := map[string]interface{}{
		"timestamp": time.Now().UTC(),
	}
	if h.source != nil {
		if snapshot := h.source.Snapshot(); snapshot != nil {
			connected["sequence"] = snapshot.Sequence
			connected["count"] = len(snapshot.Providers)
			if snapshot.Notice != "" {
				connected["notice"] = snapshot.Notice
			}
		}
	}
	h.sendEvent(w, "connected", "", connected)
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			logger.Debug().Msg("Client disconnected from directory stream")
			return
		case <-ticker.C:
			h.sendEvent(w, "heartbeat", "", map[string]interface{}{
				"timestamp": time.Now().UTC(),
			})
			flusher.Flush()
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			h.sendEvent(w, string(event.EventType), event.ID, event)
			flusher.Flush()
		}
	}
}

func (h *SSEHandler) sendEvent(w http.ResponseWriter, eventType, id string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		observability.GetLogger().Warn().Err(err).Str("event", eventType).Msg("Failed to marshal event data")
		return
	}

	if id != "" {
		fmt.Fprintf(w, "id: %s\n", id)
	}
	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
}

package entities

import (
	"time"

	"github.com/google/uuid"
)

// DirectoryEventType represents the type of directory event
type DirectoryEventType string

const (
	DirectoryEventTypeLoaded     DirectoryEventType = "directory_loaded"
	DirectoryEventTypeLoadFailed DirectoryEventType = "directory_load_failed"
)

// DirectoryEvent announces that a new directory snapshot was published
type DirectoryEvent struct {
	ID        string             `json:"id"`
	EventType DirectoryEventType `json:"event_type"`
	Sequence  uint64             `json:"sequence"`
	Count     int                `json:"count"`
	Notice    string             `json:"notice,omitempty"`
	Fallback  bool               `json:"fallback"`
	Timestamp time.Time          `json:"timestamp"`
}

// NewDirectoryEvent creates the event describing snapshot
func NewDirectoryEvent(snapshot *DirectorySnapshot) *DirectoryEvent {
	eventType := DirectoryEventTypeLoaded
	if snapshot.Notice != "" {
		eventType = DirectoryEventTypeLoadFailed
	}
	return &DirectoryEvent{
		ID:        uuid.NewString(),
		EventType: eventType,
		Sequence:  snapshot.Sequence,
		Count:     len(snapshot.Providers),
		Notice:    snapshot.Notice,
		Fallback:  snapshot.Fallback,
		Timestamp: snapshot.LoadedAt,
	}
}

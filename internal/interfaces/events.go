package interfaces

import (
	"context"
	"time"
)

// EventType identifies a category of internal event.
type EventType string

const (
	EventSessionUpdated   EventType = "session.updated"
	EventContentGenerated EventType = "content.generated"
	EventPublishUpdated   EventType = "publish.updated"
	EventVideoUpdated     EventType = "video.updated"
)

// Event is an internal notification published when domain state changes.
type Event struct {
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// EventHandler processes a single event. Handlers must not block for long;
// async delivery runs each handler on its own goroutine.
type EventHandler func(ctx context.Context, event Event) error

// EventService is the internal publish/subscribe hub.
type EventService interface {
	Subscribe(eventType EventType, handler EventHandler)
	Publish(ctx context.Context, event Event) error
	PublishSync(ctx context.Context, event Event) error
}

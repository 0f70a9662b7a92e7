package handlers

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/plumehq/plume/internal/common"
	"github.com/plumehq/plume/internal/interfaces"
)

// wire message types pushed to clients.
const (
	MessageSessionUpdate = "SESSION_UPDATE"
	MessageContentUpdate = "CONTENT_UPDATE"
	MessagePublishUpdate = "PUBLISH_UPDATE"
	MessageVideoUpdate   = "VIDEO_UPDATE"
)

var wireTypes = map[interfaces.EventType]string{
	interfaces.EventSessionUpdated:   MessageSessionUpdate,
	interfaces.EventContentGenerated: MessageContentUpdate,
	interfaces.EventPublishUpdated:   MessagePublishUpdate,
	interfaces.EventVideoUpdated:     MessageVideoUpdate,
}

// EventSubscriber bridges internal events onto user websocket connections.
// An allow-list filters which event types are broadcast, and a per-event-
// type limiter throttles bursts so chatty chains cannot flood clients.
type EventSubscriber struct {
	handler       *WebSocketHandler
	allowedEvents map[interfaces.EventType]bool

	mu       sync.Mutex
	limiters map[interfaces.EventType]*rate.Limiter
	throttle map[interfaces.EventType]time.Duration
}

func NewEventSubscriber(cfg *common.Config, handler *WebSocketHandler, events interfaces.EventService) *EventSubscriber {
	allowed := make(map[interfaces.EventType]bool, len(cfg.WebSocket.AllowedEvents))
	for _, name := range cfg.WebSocket.AllowedEvents {
		allowed[interfaces.EventType(name)] = true
	}

	throttle := make(map[interfaces.EventType]time.Duration)
	for name, interval := range cfg.WebSocket.ThrottleIntervals {
		if d, err := time.ParseDuration(interval); err == nil && d > 0 {
			throttle[interfaces.EventType(name)] = d
		}
	}

	s := &EventSubscriber{
		handler:       handler,
		allowedEvents: allowed,
		limiters:      make(map[interfaces.EventType]*rate.Limiter),
		throttle:      throttle,
	}
	for eventType := range wireTypes {
		events.Subscribe(eventType, s.handle)
	}
	return s
}

func (s *EventSubscriber) handle(ctx context.Context, event interfaces.Event) error {
	// Empty allow-list means broadcast everything.
	if len(s.allowedEvents) > 0 && !s.allowedEvents[event.Type] {
		return nil
	}
	if event.UserID == "" {
		return nil
	}
	if !s.allow(event.Type) {
		return nil
	}

	s.handler.SendToUser(event.UserID, wireTypes[event.Type], event.Payload)
	return nil
}

// allow applies the per-event-type throttle. Terminal-state events are
// never worth dropping, so only types with a configured interval throttle.
func (s *EventSubscriber) allow(eventType interfaces.EventType) bool {
	interval, ok := s.throttle[eventType]
	if !ok {
		return true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	limiter, ok := s.limiters[eventType]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(interval), 1)
		s.limiters[eventType] = limiter
	}
	return limiter.Allow()
}

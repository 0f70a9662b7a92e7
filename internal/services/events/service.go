package events

import (
	"context"
	"sync"
	"time"

	"github.com/plumehq/plume/internal/common"
	"github.com/plumehq/plume/internal/interfaces"
	"github.com/ternarybob/arbor"
)

// Service is an in-process publish/subscribe hub. Publish delivers to each
// subscriber on its own goroutine; PublishSync waits for every handler.
type Service struct {
	logger      arbor.ILogger
	subscribers map[interfaces.EventType][]interfaces.EventHandler
	mu          sync.RWMutex
}

func NewService() *Service {
	return &Service{
		logger:      common.GetLogger(),
		subscribers: make(map[interfaces.EventType][]interfaces.EventHandler),
	}
}

func (s *Service) Subscribe(eventType interfaces.EventType, handler interfaces.EventHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers[eventType] = append(s.subscribers[eventType], handler)
	s.logger.Debug().
		Str("event_type", string(eventType)).
		Int("subscriber_count", len(s.subscribers[eventType])).
		Msg("Event handler subscribed")
}

func (s *Service) Publish(ctx context.Context, event interfaces.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	s.mu.RLock()
	handlers := make([]interfaces.EventHandler, len(s.subscribers[event.Type]))
	copy(handlers, s.subscribers[event.Type])
	s.mu.RUnlock()

	for _, handler := range handlers {
		h := handler
		common.SafeGoWithContext(ctx, s.logger, "event-handler", func() {
			if err := h(ctx, event); err != nil {
				s.logger.Warn().
					Err(err).
					Str("event_type", string(event.Type)).
					Msg("Event handler failed")
			}
		})
	}
	return nil
}

func (s *Service) PublishSync(ctx context.Context, event interfaces.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	s.mu.RLock()
	handlers := make([]interfaces.EventHandler, len(s.subscribers[event.Type]))
	copy(handlers, s.subscribers[event.Type])
	s.mu.RUnlock()

	var wg sync.WaitGroup
	for _, handler := range handlers {
		h := handler
		wg.Add(1)
		common.SafeGoWithContext(ctx, s.logger, "event-handler-sync", func() {
			defer wg.Done()
			if err := h(ctx, event); err != nil {
				s.logger.Warn().
					Err(err).
					Str("event_type", string(event.Type)).
					Msg("Event handler failed")
			}
		})
	}
	wg.Wait()
	return nil
}

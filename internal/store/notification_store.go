package store

import (
	"context"
	"sync"

	"github.com/coffeeassessoria/sparkboard-automation/internal/model"
)

// NotificationSink stores the notifications the action executor produces.
// Fan-out to in-process listeners lives in the engine, not here, so that
// persistence backends stay plain storage.
type NotificationSink interface {
	List(ctx context.Context) ([]model.Notification, error)
	Append(ctx context.Context, n model.Notification) error
	MarkRead(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// MemoryNotificationSink keeps notifications in memory, insertion-ordered.
type MemoryNotificationSink struct {
	mu            sync.RWMutex
	notifications []model.Notification
}

func NewMemoryNotificationSink() *MemoryNotificationSink {
	return &MemoryNotificationSink{}
}

func (s *MemoryNotificationSink) List(ctx context.Context) ([]model.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out, nil
}

func (s *MemoryNotificationSink) Append(ctx context.Context, n model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications = append(s.notifications, n)
	return nil
}

func (s *MemoryNotificationSink) MarkRead(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].IsRead = true
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryNotificationSink) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

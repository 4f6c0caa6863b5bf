package store

import (
	"context"
	"testing"
	"time"

	"github.com/coffeeassessoria/sparkboard-automation/internal/model"
)

func TestMemoryNotificationSink(t *testing.T) {
	s := NewMemoryNotificationSink()
	ctx := context.Background()

	for _, id := range []string{"n-1", "n-2", "n-3"} {
		err := s.Append(ctx, model.Notification{
			ID:        id,
			Type:      model.NotificationAutomation,
			Title:     "t",
			CreatedAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("Append(%s) error = %v", id, err)
		}
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 3 || list[0].ID != "n-1" || list[2].ID != "n-3" {
		t.Fatalf("List() = %v, want insertion order n-1..n-3", list)
	}

	ok, err := s.MarkRead(ctx, "n-2")
	if err != nil || !ok {
		t.Fatalf("MarkRead() = %v, %v", ok, err)
	}
	list, _ = s.List(ctx)
	if !list[1].IsRead {
		t.Error("n-2 not marked read")
	}
	if list[0].IsRead || list[2].IsRead {
		t.Error("MarkRead touched other notifications")
	}

	if ok, _ := s.MarkRead(ctx, "missing"); ok {
		t.Error("MarkRead(missing) = true, want false")
	}

	ok, err = s.Delete(ctx, "n-1")
	if err != nil || !ok {
		t.Fatalf("Delete() = %v, %v", ok, err)
	}
	list, _ = s.List(ctx)
	if len(list) != 2 || list[0].ID != "n-2" {
		t.Errorf("List() after delete = %v", list)
	}

	if ok, _ := s.Delete(ctx, "n-1"); ok {
		t.Error("second Delete() = true, want false")
	}
}

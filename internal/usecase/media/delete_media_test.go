package media

import (
	"context"
	"errors"
	"testing"

	"github.com/fhuszti/talkcart-medias-go/internal/mock"
)

func TestDeleteMedia_InvalidPublicID(t *testing.T) {
	for _, id := range []string{"", "  ", "/abs/path", "talkcart/../x", "talkcart//x", "a\\b", "bad\nid"} {
		backend := &mock.StorageBackend{}
		svc := NewMediaDeleter(backend)

		if err := svc.DeleteMedia(context.Background(), id); !errors.Is(err, ErrInvalidPublicID) {
			t.Errorf("DeleteMedia(%q) = %v; want ErrInvalidPublicID", id, err)
		}
		if backend.DeleteCalled {
			t.Errorf("backend called for %q", id)
		}
	}
}

func TestDeleteMedia_BackendError(t *testing.T) {
	backend := &mock.StorageBackend{DeleteErr: errors.New("remove fail")}
	svc := NewMediaDeleter(backend)

	err := svc.DeleteMedia(context.Background(), "talkcart/file_1.mp4")
	if err == nil || err.Error() != "remove fail" {
		t.Fatalf("expected remove fail, got %v", err)
	}
}

func TestDeleteMedia_Success(t *testing.T) {
	backend := &mock.StorageBackend{}
	svc := NewMediaDeleter(backend)

	if err := svc.DeleteMedia(context.Background(), "talkcart/file_1.mp4"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !backend.DeleteCalled || backend.PublicID != "talkcart/file_1.mp4" {
		t.Errorf("expected Delete with public id, got called=%v id=%q", backend.DeleteCalled, backend.PublicID)
	}
}

func TestScheduleDelete(t *testing.T) {
	t.Run("invalid", func(t *testing.T) {
		tasks := &mock.Dispatcher{}
		svc := NewMediaDeleteScheduler(tasks)
		if err := svc.ScheduleDelete(context.Background(), "../x"); !errors.Is(err, ErrInvalidPublicID) {
			t.Fatalf("expected ErrInvalidPublicID, got %v", err)
		}
		if tasks.DeleteCalled {
			t.Error("dispatcher must not be called")
		}
	})

	t.Run("enqueue error", func(t *testing.T) {
		tasks := &mock.Dispatcher{DeleteErr: errors.New("redis down")}
		svc := NewMediaDeleteScheduler(tasks)
		if err := svc.ScheduleDelete(context.Background(), "talkcart/a"); err == nil || err.Error() != "redis down" {
			t.Fatalf("expected redis down, got %v", err)
		}
	})

	t.Run("enqueued", func(t *testing.T) {
		tasks := &mock.Dispatcher{}
		svc := NewMediaDeleteScheduler(tasks)
		if err := svc.ScheduleDelete(context.Background(), "talkcart/a"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tasks.DeleteIDs) != 1 || tasks.DeleteIDs[0] != "talkcart/a" {
			t.Errorf("unexpected enqueued ids %v", tasks.DeleteIDs)
		}
	})
}

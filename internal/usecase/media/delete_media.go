package media

import (
	"context"
	"strings"
	"unicode"

	"github.com/fhuszti/talkcart-medias-go/internal/logger"
	"github.com/fhuszti/talkcart-medias-go/internal/port"
)

type mediaDeleterSrv struct {
	backend port.StorageBackend
}

// compile-time check: *mediaDeleterSrv must satisfy port.MediaDeleter
var _ port.MediaDeleter = (*mediaDeleterSrv)(nil)

// NewMediaDeleter constructs a MediaDeleter removing bytes from backend.
func NewMediaDeleter(backend port.StorageBackend) port.MediaDeleter {
	return &mediaDeleterSrv{backend: backend}
}

// DeleteMedia removes the stored bytes behind publicID. Already missing objects
// are not an error.
func (s *mediaDeleterSrv) DeleteMedia(ctx context.Context, publicID string) error {
	if err := validatePublicID(publicID); err != nil {
		return err
	}
	if err := s.backend.Delete(ctx, publicID); err != nil {
		return err
	}
	logger.Infof(ctx, "✅ deleted %s from %s", publicID, s.backend.Name())
	return nil
}

type deleteSchedulerSrv struct {
	tasks port.TaskDispatcher
}

// compile-time check: *deleteSchedulerSrv must satisfy port.MediaDeleteScheduler
var _ port.MediaDeleteScheduler = (*deleteSchedulerSrv)(nil)

func NewMediaDeleteScheduler(tasks port.TaskDispatcher) port.MediaDeleteScheduler {
	return &deleteSchedulerSrv{tasks: tasks}
}

func (s *deleteSchedulerSrv) ScheduleDelete(ctx context.Context, publicID string) error {
	if err := validatePublicID(publicID); err != nil {
		return err
	}
	return s.tasks.EnqueueDeleteMedia(ctx, publicID)
}

func validatePublicID(publicID string) error {
	if strings.TrimSpace(publicID) == "" || len(publicID) > 255 {
		return ErrInvalidPublicID
	}
	if strings.HasPrefix(publicID, "/") || strings.Contains(publicID, "\\") {
		return ErrInvalidPublicID
	}
	for _, seg := range strings.Split(publicID, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return ErrInvalidPublicID
		}
	}
	for _, r := range publicID {
		if unicode.IsControl(r) {
			return ErrInvalidPublicID
		}
	}
	return nil
}

package mock

import (
	"context"
)

// Dispatcher implements port.TaskDispatcher for tests.
type Dispatcher struct {
	DeleteCalled bool
	DeleteIDs    []string
	DeleteErr    error
}

func (m *Dispatcher) EnqueueDeleteMedia(ctx context.Context, publicID string) error {
	m.DeleteCalled = true
	m.DeleteIDs = append(m.DeleteIDs, publicID)
	return m.DeleteErr
}

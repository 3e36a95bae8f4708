package mock

import (
	"context"
	"io"

	"github.com/fhuszti/talkcart-medias-go/internal/port"
)

// StorageBackend implements port.StorageBackend for tests.
type StorageBackend struct {
	// stored values
	StoreOut port.StoredObject
	NameOut  string

	// captured inputs
	StoreReq  port.StoreRequest
	StoredRaw []byte
	PublicID  string

	// errors
	StoreErr  error
	DeleteErr error

	// call flags
	StoreCalled  bool
	DeleteCalled bool
}

func (m *StorageBackend) Store(ctx context.Context, req port.StoreRequest) (port.StoredObject, error) {
	m.StoreCalled = true
	m.StoreReq = req
	if req.Body != nil {
		m.StoredRaw, _ = io.ReadAll(req.Body)
	}
	if m.StoreErr != nil {
		return port.StoredObject{}, m.StoreErr
	}
	return m.StoreOut, nil
}

func (m *StorageBackend) Delete(ctx context.Context, publicID string) error {
	m.DeleteCalled = true
	m.PublicID = publicID
	return m.DeleteErr
}

func (m *StorageBackend) Name() string {
	if m.NameOut == "" {
		return "mock"
	}
	return m.NameOut
}

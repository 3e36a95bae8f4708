package mock

import (
	"context"

	"github.com/fhuszti/talkcart-medias-go/internal/resolver"
)

// FileResolver implements port.FileResolver for tests. Paths missing from Out
// resolve to Err, or resolver.ErrNotFound when Err is nil.
type FileResolver struct {
	Out   map[string]resolver.Resolution
	Err   error
	Calls []string
}

func (m *FileResolver) Resolve(ctx context.Context, rel string) (resolver.Resolution, error) {
	m.Calls = append(m.Calls, rel)
	if res, ok := m.Out[rel]; ok {
		return res, nil
	}
	if m.Err != nil {
		return resolver.Resolution{}, m.Err
	}
	return resolver.Resolution{}, resolver.ErrNotFound
}

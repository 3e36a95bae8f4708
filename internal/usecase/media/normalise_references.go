package media

import (
	"context"
	"strings"

	"github.com/fhuszti/talkcart-medias-go/internal/model"
	"github.com/fhuszti/talkcart-medias-go/internal/normaliser"
	"github.com/fhuszti/talkcart-medias-go/internal/port"
)

type referenceNormaliserSrv struct {
	norm         *normaliser.Normaliser
	knownMissing []string
}

// compile-time check: *referenceNormaliserSrv must satisfy port.ReferenceNormaliser
var _ port.ReferenceNormaliser = (*referenceNormaliserSrv)(nil)

// NewReferenceNormaliser constructs the write-path normaliser. References naming
// one of knownMissing are rejected.
func NewReferenceNormaliser(norm *normaliser.Normaliser, knownMissing []string) port.ReferenceNormaliser {
	var known []string
	for _, k := range knownMissing {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			known = append(known, k)
		}
	}
	return &referenceNormaliserSrv{norm: norm, knownMissing: known}
}

func (s *referenceNormaliserSrv) NormaliseReferences(ctx context.Context, in port.NormaliseReferencesInput) (port.NormaliseReferencesOutput, error) {
	out := make([]model.MediaReference, 0, len(in.Media))
	for i, ref := range in.Media {
		if err := s.check(ref); err != nil {
			return port.NormaliseReferencesOutput{}, &ReferenceError{Index: i, Err: err}
		}
		n := s.norm.NormaliseReference(ref)
		if !isAbsolute(n.PreferredURL()) {
			return port.NormaliseReferencesOutput{}, &ReferenceError{Index: i, Err: ErrMissingURL}
		}
		out = append(out, n)
	}
	return port.NormaliseReferencesOutput{Media: out}, nil
}

func (s *referenceNormaliserSrv) check(ref model.MediaReference) error {
	if err := validatePublicID(ref.PublicID); err != nil {
		return err
	}
	if strings.TrimSpace(ref.URL) == "" && strings.TrimSpace(ref.SecureURL) == "" {
		return ErrMissingURL
	}
	for _, v := range []string{ref.PublicID, ref.URL, ref.SecureURL} {
		lower := strings.ToLower(v)
		for _, k := range s.knownMissing {
			if strings.Contains(lower, k) {
				return ErrKnownMissing
			}
		}
	}
	return nil
}

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/fhuszti/talkcart-medias-go/internal/logger"
	"github.com/fhuszti/talkcart-medias-go/internal/port"
	"github.com/fhuszti/talkcart-medias-go/internal/usecase/media"
	"github.com/fhuszti/talkcart-medias-go/internal/validation"
)

const maxNormaliseBody = 1 << 20

func NormaliseReferencesHandler(svc port.ReferenceNormaliser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxNormaliseBody)

		var req port.NormaliseReferencesInput
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid request", fmt.Errorf("invalid JSON: %w", err))
			return
		}

		if errs := validation.ValidateStruct(req); errs != nil {
			WriteValidationError(w, errs)
			return
		}

		out, err := svc.NormaliseReferences(r.Context(), req)
		if err != nil {
			var refErr *media.ReferenceError
			if errors.As(err, &refErr) {
				WriteError(w, http.StatusBadRequest, refErr.Error(), nil)
				return
			}
			WriteError(w, http.StatusInternalServerError, "Could not normalise media references", err)
			return
		}

		RespondJSON(w, http.StatusOK, out)
		logger.Infof(r.Context(), "✅  Successfully normalised %d media references", len(out.Media))
	}
}

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fhuszti/talkcart-medias-go/internal/logger"
	"github.com/fhuszti/talkcart-medias-go/internal/port"
	"github.com/fhuszti/talkcart-medias-go/internal/usecase/media"
)

// DeleteMediaHandler schedules removal of the stored bytes behind public_id.
// References held by other services are left untouched.
func DeleteMediaHandler(svc port.MediaDeleteScheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		publicID := strings.TrimSpace(r.URL.Query().Get("public_id"))
		if publicID == "" {
			WriteError(w, http.StatusBadRequest, "public_id is required", nil)
			return
		}

		if err := svc.ScheduleDelete(r.Context(), publicID); err != nil {
			if errors.Is(err, media.ErrInvalidPublicID) {
				WriteError(w, http.StatusBadRequest, "Invalid public_id", err)
				return
			}
			WriteError(w, http.StatusInternalServerError, "Could not schedule media deletion", err)
			return
		}

		w.WriteHeader(http.StatusAccepted)
		logger.Infof(r.Context(), "✅  Scheduled deletion of media %q", publicID)
	}
}

package api

import (
	"errors"
	"net/http"

	"github.com/fhuszti/talkcart-medias-go/internal/api_context"
	"github.com/fhuszti/talkcart-medias-go/internal/logger"
	"github.com/fhuszti/talkcart-medias-go/internal/port"
	"github.com/fhuszti/talkcart-medias-go/internal/usecase/media"
)

func GetDocumentMediaHandler(renderer port.HTTPRenderer, svc port.DocumentMediaLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		collection, ok := api_context.CollectionFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "collection is required", nil)
			return
		}
		id, ok := api_context.DocumentIDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "ID is required", nil)
			return
		}

		in := port.DocumentMediaInput{Collection: collection, ID: id}
		raw, etag, err := renderer.RenderDocumentMedia(r.Context(), svc, in)
		if err != nil {
			if errors.Is(err, media.ErrDocumentNotFound) {
				WriteError(w, http.StatusNotFound, "Document not found", nil)
				return
			}
			WriteError(w, http.StatusInternalServerError, "Could not get document media", err)
			return
		}

		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", "private, max-age=0, must-revalidate")
		if match := r.Header.Get("If-None-Match"); match == etag {
			w.WriteHeader(http.StatusNotModified)
			logger.Infof(r.Context(), "✅  Returning cached media of %s #%s", collection, id)
			return
		}

		RespondRawJSON(w, http.StatusOK, raw)
		logger.Infof(r.Context(), "✅  Successfully returned media of %s #%s", collection, id)
	}
}

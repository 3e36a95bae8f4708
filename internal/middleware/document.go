package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fhuszti/talkcart-medias-go/internal/api_context"
	"github.com/fhuszti/talkcart-medias-go/internal/handler/api"
)

// WithCollection accepts only the given document collections.
func WithCollection(allowed []string) func(http.Handler) http.Handler {
	m := make(map[string]struct{}, len(allowed))
	for _, c := range allowed {
		m[c] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			collection := chi.URLParam(r, "collection")
			if collection == "" {
				api.WriteError(w, http.StatusBadRequest, "collection is required", nil)
				return
			}
			if _, ok := m[collection]; !ok {
				api.WriteError(w, http.StatusBadRequest, fmt.Sprintf("collection %q does not exist", collection), nil)
				return
			}

			ctx := context.WithValue(r.Context(), api_context.CollectionKey, collection)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WithDocumentID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			if id == "" {
				api.WriteError(w, http.StatusBadRequest, "ID is required", nil)
				return
			}
			if !primitive.IsValidObjectID(id) {
				api.WriteError(w, http.StatusBadRequest, fmt.Sprintf("ID %q is not a valid object id", id), nil)
				return
			}

			// stash it in context and call the real handler
			ctx := context.WithValue(r.Context(), api_context.DocumentIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

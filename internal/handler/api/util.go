package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fhuszti/talkcart-medias-go/internal/logger"
	"github.com/fhuszti/talkcart-medias-go/internal/validation"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteError logs client errors as warnings and everything else as errors.
func WriteError(w http.ResponseWriter, status int, msg string, err error) {
	ctx := context.Background()
	log := logger.Errorf
	if status < http.StatusInternalServerError {
		log = logger.Warnf
	}
	if err != nil {
		log(ctx, "❌  %s: %v", msg, err)
	} else {
		log(ctx, "❌  %s", msg)
	}
	w.Header().Set("Cache-Control", "no-store, max-age=0, must-revalidate")
	RespondJSON(w, status, ErrorResponse{Error: msg})
}

// WriteValidationError answers 400 with the field to failed-tag map of errs.
func WriteValidationError(w http.ResponseWriter, errs error) {
	errsJSON, err := validation.ErrorsToJson(errs)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request payload", errs)
		return
	}
	logger.Warnf(context.Background(), "❌  Validation failed: %s", errsJSON)
	RespondRawJSON(w, http.StatusBadRequest, []byte(errsJSON))
}

func RespondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf(context.Background(), "❌  Failed to encode JSON response: %v", err)
	}
}

func RespondRawJSON(w http.ResponseWriter, status int, raw []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(raw); err != nil {
		logger.Errorf(context.Background(), "❌  Failed to write JSON payload: %v", err)
	}
}

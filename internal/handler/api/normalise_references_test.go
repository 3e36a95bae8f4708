package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fhuszti/talkcart-medias-go/internal/mock"
	"github.com/fhuszti/talkcart-medias-go/internal/model"
	"github.com/fhuszti/talkcart-medias-go/internal/port"
	"github.com/fhuszti/talkcart-medias-go/internal/usecase/media"
)

func TestNormaliseReferencesHandler(t *testing.T) {
	normalised := port.NormaliseReferencesOutput{Media: []model.MediaReference{{
		PublicID:     "talkcart/clip",
		URL:          "http://localhost:4000/uploads/talkcart/clip.mp4",
		SecureURL:    "http://localhost:4000/uploads/talkcart/clip.mp4",
		ResourceKind: model.ResourceKindVideo,
		Format:       "mp4",
	}}}

	tests := []struct {
		name             string
		body             string
		svcErr           error
		wantStatus       int
		wantBodyContains string
		wantCalled       bool
	}{
		{
			name:             "happy path",
			body:             `{"media":[{"public_id":"talkcart/clip","url":"/uploads/talkcart/clip","resource_type":"video"}]}`,
			wantStatus:       http.StatusOK,
			wantBodyContains: `"secure_url":"http://localhost:4000/uploads/talkcart/clip.mp4"`,
			wantCalled:       true,
		},
		{
			name:             "invalid json",
			body:             `{"media":`,
			wantStatus:       http.StatusBadRequest,
			wantBodyContains: "Invalid request",
		},
		{
			name:             "empty batch",
			body:             `{"media":[]}`,
			wantStatus:       http.StatusBadRequest,
			wantBodyContains: `"media":"min"`,
		},
		{
			name:             "missing public id",
			body:             `{"media":[{"url":"/uploads/talkcart/clip.mp4"}]}`,
			wantStatus:       http.StatusBadRequest,
			wantBodyContains: `"public_id":"required"`,
		},
		{
			name:             "rejected reference",
			body:             `{"media":[{"public_id":"talkcart/gone","url":"/uploads/talkcart/gone.mp4"}]}`,
			svcErr:           &media.ReferenceError{Index: 0, Err: media.ErrKnownMissing},
			wantStatus:       http.StatusBadRequest,
			wantBodyContains: "media[0]",
			wantCalled:       true,
		},
		{
			name:             "service error",
			body:             `{"media":[{"public_id":"talkcart/clip","url":"/uploads/talkcart/clip.mp4"}]}`,
			svcErr:           errors.New("boom"),
			wantStatus:       http.StatusInternalServerError,
			wantBodyContains: "Could not normalise media references",
			wantCalled:       true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mock.ReferenceNormaliser{Out: normalised, Err: tc.svcErr}
			h := NormaliseReferencesHandler(svc)

			req := httptest.NewRequest(http.MethodPost, "/medias/normalise", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d (body %s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tc.wantBodyContains) {
				t.Errorf("body %q does not contain %q", rec.Body.String(), tc.wantBodyContains)
			}
			if svc.Called != tc.wantCalled {
				t.Errorf("service called = %v; want %v", svc.Called, tc.wantCalled)
			}
			if tc.wantCalled && len(svc.In.Media) != 1 {
				t.Errorf("service input = %+v", svc.In)
			}
		})
	}
}

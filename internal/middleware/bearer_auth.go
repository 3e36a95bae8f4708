package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/fhuszti/talkcart-medias-go/internal/api_context"
	"github.com/fhuszti/talkcart-medias-go/internal/handler/api"
)

// AuthConfig describes the RS256 bearer tokens accepted on mutating routes.
type AuthConfig struct {
	PublicKeyPEM string
	Issuer       string
	Audience     string
}

// WithBearerAuth validates a short-lived RS256 bearer token and stores its subject
// and roles in the request context. An empty public key disables the check.
func WithBearerAuth(cfg AuthConfig) (func(http.Handler) http.Handler, error) {
	if cfg.PublicKeyPEM == "" {
		return func(next http.Handler) http.Handler {
			return next
		}, nil
	}

	pubKey, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.PublicKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT public key: %w", err)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Name}),
	)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				api.WriteError(w, http.StatusUnauthorized, "missing bearer token", nil)
				return
			}

			raw := strings.TrimPrefix(auth, "Bearer ")
			claims := jwt.MapClaims{}
			tok, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
				return pubKey, nil
			})
			if err != nil || !tok.Valid {
				api.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
				return
			}

			if cfg.Issuer != "" && !claims.VerifyIssuer(cfg.Issuer, true) {
				api.WriteError(w, http.StatusUnauthorized, "bad issuer", nil)
				return
			}
			if cfg.Audience != "" && !claims.VerifyAudience(cfg.Audience, true) {
				api.WriteError(w, http.StatusUnauthorized, "bad audience", nil)
				return
			}
			if !claims.VerifyExpiresAt(time.Now().Unix(), true) {
				api.WriteError(w, http.StatusUnauthorized, "token expired", nil)
				return
			}
			if iat, ok := asInt64(claims["iat"]); ok && time.Unix(iat, 0).After(time.Now().Add(30*time.Second)) {
				api.WriteError(w, http.StatusUnauthorized, "invalid iat", nil)
				return
			}

			sub, _ := claims["sub"].(string)
			if sub == "" {
				api.WriteError(w, http.StatusUnauthorized, "missing sub", nil)
				return
			}

			ctx := context.WithValue(r.Context(), api_context.AuthUserIDKey, sub)
			ctx = context.WithValue(ctx, api_context.AuthRolesKey, toStringSlice(claims["roles"]))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}, nil
}

// RequireRole rejects authenticated requests lacking every one of roles. Requests
// without an authenticated subject pass through, so it only bites when auth is on.
// An empty role list accepts everyone.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := api_context.AuthUserIDFromContext(r.Context()); !ok || len(roles) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			have, _ := api_context.AuthRolesFromContext(r.Context())
			for _, h := range have {
				for _, want := range roles {
					if h == want {
						next.ServeHTTP(w, r)
						return
					}
				}
			}
			api.WriteError(w, http.StatusForbidden, "forbidden", nil)
		})
	}
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case float64:
		return int64(x), true
	case json.Number:
		i, err := x.Int64()
		if err == nil {
			return i, true
		}
	}
	return 0, false
}

func toStringSlice(v any) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []any:
		out := make([]string, 0, len(vv))
		for _, e := range vv {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

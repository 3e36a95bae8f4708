package api_context

import (
	"context"
)

type ctxKey string

const (
	CollectionKey ctxKey = "collection"
	DocumentIDKey ctxKey = "documentID"
	AuthUserIDKey ctxKey = "authUserID"
	AuthRolesKey  ctxKey = "authRoles"
)

func CollectionFromContext(ctx context.Context) (string, bool) {
	c, ok := ctx.Value(CollectionKey).(string)
	return c, ok
}

func DocumentIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(DocumentIDKey).(string)
	return id, ok
}

// AuthUserIDFromContext returns the subject of the verified bearer token, if any.
func AuthUserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(AuthUserIDKey).(string)
	return id, ok && id != ""
}

func AuthRolesFromContext(ctx context.Context) ([]string, bool) {
	roles, ok := ctx.Value(AuthRolesKey).([]string)
	return roles, ok
}

package httputil

import (
	"context"
	"net/http"

	"sitework/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const authKey contextKey = "auth"

// WithAuth attaches the authenticated caller to the request context.
func WithAuth(r *http.Request, a models.AuthContext) *http.Request {
	ctx := context.WithValue(r.Context(), authKey, a)
	return r.WithContext(ctx)
}

// GetAuth retrieves the authenticated caller from the context. The second
// return value is false when the request never passed the auth middleware.
func GetAuth(r *http.Request) (models.AuthContext, bool) {
	a, ok := r.Context().Value(authKey).(models.AuthContext)
	return a, ok
}

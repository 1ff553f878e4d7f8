package httputil

import (
	"context"
	"net/http"

	"opsconsole/internal/domain/models/docstore"
)

type contextKey string

const principalKey contextKey = "principal"

// WithPrincipal attaches the authenticated principal to the request context
func WithPrincipal(r *http.Request, p *docstore.Principal) *http.Request {
	ctx := context.WithValue(r.Context(), principalKey, p)
	return r.WithContext(ctx)
}

// GetPrincipal returns the principal set by the auth middleware, or nil
func GetPrincipal(r *http.Request) *docstore.Principal {
	p, _ := r.Context().Value(principalKey).(*docstore.Principal)
	return p
}

package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/backoffice/internal/core"
)

// WithRequestMetadata adds the client IP to ctx for audit entries. RemoteAddr
// has already been rewritten by the trusted proxy middleware.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	return core.ContextWithIPAddress(ctx, r.RemoteAddr)
}

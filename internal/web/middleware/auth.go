package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/backoffice/internal/core"
)

// APIKeyAuth resolves the X-API-Key header to a role and stores it in the
// request context.
//
// With require set, a missing key is 401 and an unknown key is 403. Without
// it, unauthenticated callers are treated as staff and a valid key still
// upgrades the role.
func APIKeyAuth(keys map[string]core.Role, require bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get("X-API-Key")

			role, ok := lookupRole(apiKey, keys)
			switch {
			case ok:
			case !require:
				role = core.RoleStaff
			case apiKey == "":
				slog.Warn("auth: missing API key",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				writeAuthError(w, http.StatusUnauthorized, "missing API key", "AUTH_MISSING_KEY")
				return
			default:
				slog.Warn("auth: invalid API key",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				writeAuthError(w, http.StatusForbidden, "invalid API key", "AUTH_INVALID_KEY")
				return
			}

			ctx := core.ContextWithRole(r.Context(), role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// lookupRole compares key against every configured key in constant time so
// the match position does not leak through timing.
func lookupRole(key string, keys map[string]core.Role) (core.Role, bool) {
	if key == "" {
		return "", false
	}
	var found core.Role
	matched := 0
	for k, role := range keys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(k)) == 1 {
			found = role
			matched = 1
		}
	}
	return found, matched == 1
}

func writeAuthError(w http.ResponseWriter, status int, msg, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + msg + `","code":"` + code + `"}`))
}

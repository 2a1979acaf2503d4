// ABOUTME: HTTP middleware for bearer token authentication on API endpoints
// ABOUTME: Runs the Authenticator on the Authorization header and adds the identity to context

package auth

import (
	"encoding/json"
	"net/http"
)

// AuthorizationHeader returns the Authorization header value, or nil when the
// request carries no such header. An empty header is returned as "".
func AuthorizationHeader(r *http.Request) *string {
	values := r.Header.Values("Authorization")
	if len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

// statusForKind maps an authentication failure to an HTTP status.
func statusForKind(kind FailureKind) int {
	if kind == KindStoreUnavailable {
		return http.StatusServiceUnavailable
	}
	return http.StatusUnauthorized
}

// HTTPAuthMiddleware creates an HTTP middleware that authenticates every
// request and rejects failures with {"error":"<kind>"}.
func HTTPAuthMiddleware(a *Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := a.Authenticate(r.Context(), AuthorizationHeader(r))
			if err != nil {
				kind := KindOf(err)
				w.Header().Set("Content-Type", "application/json")
				if kind != KindStoreUnavailable {
					w.Header().Set("WWW-Authenticate", bearerScheme)
				}
				w.WriteHeader(statusForKind(kind))
				_ = json.NewEncoder(w).Encode(map[string]string{"error": string(kind)})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// OptionalAuthMiddleware attaches an Identity when the request authenticates
// and otherwise continues as anonymous.
func OptionalAuthMiddleware(a *Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := a.Authenticate(r.Context(), AuthorizationHeader(r))
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

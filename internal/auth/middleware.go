package auth

import (
	"context"
	"encoding/json"
	"net/http"
)

// UpsellMessage accompanies a 403 so that authenticated users who lack the
// gating role know how to get access
const UpsellMessage = "Subscribe to our channel to get access to the trigger generator: https://www.youtube.com/@gulanoyt"

type contextKey int

const identityContextKey contextKey = 0

// GetIdentity returns the Identity stashed in the request context by
// RequireAuth, or nil if the request never passed through that middleware
func GetIdentity(req *http.Request) *Identity {
	identity, _ := req.Context().Value(identityContextKey).(*Identity)
	return identity
}

// RequireAuth rejects requests that don't carry a valid session credential
// with a 401, and makes the caller's Identity available via GetIdentity for
// requests that do
func RequireAuth(a Authenticator, next http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		identity := a.Identify(req)
		if identity == nil {
			writeJsonError(res, http.StatusUnauthorized, "not authorized")
			return
		}
		ctx := context.WithValue(req.Context(), identityContextKey, identity)
		next.ServeHTTP(res, req.WithContext(ctx))
	})
}

// RequireRole additionally rejects authenticated users who lack the gating
// guild role, with a 403 that carries the upsell message. The 403 is distinct
// from the 401 produced when no identity is present at all.
func RequireRole(a Authenticator, next http.Handler) http.Handler {
	return RequireAuth(a, http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		if !GetIdentity(req).HasRole {
			res.Header().Set("Content-Type", "application/json")
			res.WriteHeader(http.StatusForbidden)
			json.NewEncoder(res).Encode(map[string]string{
				"error":   "Subscription required",
				"message": UpsellMessage,
			})
			return
		}
		next.ServeHTTP(res, req)
	}))
}

func writeJsonError(res http.ResponseWriter, status int, message string) {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(status)
	json.NewEncoder(res).Encode(map[string]string{"error": message})
}

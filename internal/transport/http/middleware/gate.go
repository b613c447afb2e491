package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dat-archive/internal/domain"
	"github.com/dat-archive/internal/metrics"
)

type contextKey string

const identityKey contextKey = "identity"

// SessionCookieName holds the signed session token.
const SessionCookieName = "session"

// LoginPath is where unauthenticated requests are sent.
const LoginPath = "/login"

// SessionValidator resolves a session token to an identity.
type SessionValidator interface {
	Validate(token string) (*domain.Identity, bool)
}

// Gate lets requests whose path starts with one of publicPrefixes through
// untouched. Every other request needs a valid session cookie and is
// redirected to LoginPath without one.
func Gate(sessions SessionValidator, recorder metrics.Recorder, publicPrefixes ...string) func(http.Handler) http.Handler {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, p := range publicPrefixes {
				if strings.HasPrefix(r.URL.Path, p) {
					next.ServeHTTP(w, r)
					return
				}
			}

			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				recorder.RecordGateRedirect()
				http.Redirect(w, r, LoginPath, http.StatusTemporaryRedirect)
				return
			}
			identity, ok := sessions.Validate(cookie.Value)
			if !ok {
				recorder.RecordGateRedirect()
				http.Redirect(w, r, LoginPath, http.StatusTemporaryRedirect)
				return
			}

			markIdentity(r.Context(), identity.Email)
			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the identity attached by Gate.
func IdentityFromContext(ctx context.Context) (*domain.Identity, bool) {
	id, ok := ctx.Value(identityKey).(*domain.Identity)
	return id, ok
}

// ContextWithIdentity attaches identity to ctx. Used by tests and callers outside Gate.
func ContextWithIdentity(ctx context.Context, identity *domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// RequireBearer rejects requests without "Authorization: Bearer <secret>".
// An empty secret disables the check.
func RequireBearer(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret != "" && r.Header.Get("Authorization") != "Bearer "+secret {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

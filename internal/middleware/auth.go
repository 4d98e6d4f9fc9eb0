package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/medialist/medialist-go/internal/model"
	"github.com/medialist/medialist-go/internal/service"
)

// SessionCookieName is the cookie holding the session token.
const SessionCookieName = "medialist_session"

type contextKey string

const userKey contextKey = "user"

// SessionResolver turns a session token into the current user.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*model.User, error)
}

// LoadSession attaches the user named by the session cookie to the request
// context. Requests without a valid session pass through anonymously.
func LoadSession(resolver SessionResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := resolver.Resolve(r.Context(), cookie.Value)
			if err != nil {
				if errors.Is(err, service.ErrUnauthenticated) {
					next.ServeHTTP(w, r)
					return
				}
				logger.Error("resolve session", "error", err)
				writeJSONError(w, http.StatusInternalServerError, "session lookup failed")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireUser rejects requests that carry no authenticated user.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			writeJSONError(w, http.StatusUnauthorized, service.ErrUnauthenticated.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithUser returns a copy of ctx carrying the authenticated user.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext extracts the authenticated user from the request context.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey).(*model.User)
	return u, ok && u != nil
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

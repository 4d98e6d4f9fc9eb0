package handler

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/medialist/medialist-go/internal/crypto"
	"github.com/medialist/medialist-go/internal/middleware"
	"github.com/medialist/medialist-go/internal/model"
	"github.com/medialist/medialist-go/internal/service"
)

const (
	stateCookieName = "medialist_oauth_state"
	stateMaxAge     = 10 * 60

	notConfiguredMessage = "Google OAuth not configured. Please add GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET environment variables."
)

// Provider is the external identity provider driving the login flow.
type Provider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (model.Profile, error)
}

// AuthHandler handles the OAuth login flow and logout.
type AuthHandler struct {
	provider      Provider
	identity      *service.IdentityService
	sessions      *service.SessionService
	secureCookies bool
	logger        *slog.Logger
}

// NewAuthHandler creates a new AuthHandler. A nil provider means OAuth is not
// configured and the login routes degrade accordingly.
func NewAuthHandler(provider Provider, identity *service.IdentityService, sessions *service.SessionService, secureCookies bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		provider:      provider,
		identity:      identity,
		sessions:      sessions,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// HandleLogin handles GET /auth/google requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse(notConfiguredMessage))
		return
	}

	state, err := crypto.RandomToken(32)
	if err != nil {
		h.logger.Error("generate oauth state", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/auth",
		MaxAge:   stateMaxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.provider.AuthCodeURL(state), http.StatusFound)
}

// HandleCallback handles GET /auth/google/callback requests. Every failure
// sends the browser back to "/"; success starts a session and goes to
// "/profile".
func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	expected := ""
	if c, err := r.Cookie(stateCookieName); err == nil {
		expected = c.Value
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
	})

	q := r.URL.Query()
	state := q.Get("state")
	if expected == "" || subtle.ConstantTimeCompare([]byte(state), []byte(expected)) != 1 {
		h.fail(w, r, "oauth state mismatch")
		return
	}

	code := q.Get("code")
	if code == "" {
		h.fail(w, r, "authorization failed", "error", q.Get("error"), "error_description", q.Get("error_description"))
		return
	}

	profile, err := h.provider.Exchange(r.Context(), code)
	if err != nil {
		h.fail(w, r, "exchange authorization code", "error", err)
		return
	}

	user, err := h.identity.Link(r.Context(), profile)
	if err != nil {
		h.fail(w, r, "link identity", "error", err, "subject", profile.Subject)
		return
	}

	issued, err := h.sessions.Issue(r.Context(), user.ID)
	if err != nil {
		h.fail(w, r, "issue session", "error", err, "user_id", user.ID)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    issued.Token,
		Path:     "/",
		Expires:  issued.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info("user logged in", "user_id", user.ID)
	http.Redirect(w, r, "/profile", http.StatusFound)
}

// HandleLogout handles GET /auth/logout requests. It always redirects to "/".
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(middleware.SessionCookieName); err == nil && c.Value != "" {
		if err := h.sessions.Revoke(r.Context(), c.Value); err != nil {
			h.logger.Warn("revoke session", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandler) fail(w http.ResponseWriter, r *http.Request, msg string, args ...any) {
	h.logger.Warn("login failed: "+msg, args...)
	http.Redirect(w, r, "/", http.StatusFound)
}

package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/medialist/medialist-go/internal/model"
	"github.com/medialist/medialist-go/internal/service"
)

type stubResolver struct {
	user  *model.User
	err   error
	calls int
}

func (s *stubResolver) Resolve(ctx context.Context, token string) (*model.User, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadSessionNoCookie(t *testing.T) {
	resolver := &stubResolver{}
	var gotUser bool
	handler := LoadSession(resolver, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, gotUser = UserFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/user", nil))

	if gotUser {
		t.Error("expected anonymous request")
	}
	if resolver.calls != 0 {
		t.Errorf("resolver called %d times without cookie", resolver.calls)
	}
}

func TestLoadSessionValid(t *testing.T) {
	resolver := &stubResolver{user: &model.User{ID: "u1", Name: "Alice"}}
	var got *model.User
	handler := LoadSession(resolver, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = UserFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/api/user", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "token"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil || got.ID != "u1" {
		t.Errorf("user = %+v, want u1", got)
	}
}

func TestLoadSessionUnauthenticatedPassesThrough(t *testing.T) {
	resolver := &stubResolver{err: service.ErrUnauthenticated}
	reached := false
	handler := LoadSession(resolver, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		if _, ok := UserFromContext(r.Context()); ok {
			t.Error("expected no user in context")
		}
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "stale"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !reached {
		t.Error("handler not reached")
	}
}

func TestLoadSessionStoreError(t *testing.T) {
	resolver := &stubResolver{err: errors.New("disk I/O error")}
	handler := LoadSession(resolver, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "token"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestRequireUserRejectsAnonymous(t *testing.T) {
	handler := RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/user", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if !strings.Contains(rec.Body.String(), "user not authenticated") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestRequireUserAllowsAuthenticated(t *testing.T) {
	handler := RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/user", nil)
	req = req.WithContext(WithUser(req.Context(), &model.User{ID: "u1"}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

package handler

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/medialist/medialist-go/internal/middleware"
	"github.com/medialist/medialist-go/internal/model"
	"github.com/medialist/medialist-go/internal/repository"
	"github.com/medialist/medialist-go/internal/service"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

type fakeProvider struct {
	profile model.Profile
	err     error
	codes   []string
}

func (p *fakeProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.com/auth?state=" + url.QueryEscape(state)
}

func (p *fakeProvider) Exchange(ctx context.Context, code string) (model.Profile, error) {
	p.codes = append(p.codes, code)
	if p.err != nil {
		return model.Profile{}, p.err
	}
	return p.profile, nil
}

type testEnv struct {
	db       *sql.DB
	identity *service.IdentityService
	sessions *service.SessionService
	media    *service.MediaListService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := repository.Open(context.Background(), repository.DialectSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	users := repository.NewUserRepository(db, repository.DialectSQLite)
	return &testEnv{
		db:       db,
		identity: service.NewIdentityService(users),
		sessions: service.NewSessionService(repository.NewSessionRepository(db), users, testKey, time.Hour),
		media:    service.NewMediaListService(repository.NewMediaRepository(db, repository.DialectSQLite)),
	}
}

// createUser links a profile and returns the stored user.
func (e *testEnv) createUser(t *testing.T, id, name, email string) *model.User {
	t.Helper()
	u, err := e.identity.Link(context.Background(), model.Profile{Subject: id, Name: name, Emails: []string{email}})
	if err != nil {
		t.Fatalf("link user: %v", err)
	}
	return u
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func withUser(r *http.Request, u *model.User) *http.Request {
	return r.WithContext(middleware.WithUser(r.Context(), u))
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

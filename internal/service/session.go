package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medialist/medialist-go/internal/crypto"
	"github.com/medialist/medialist-go/internal/model"
	"github.com/medialist/medialist-go/internal/repository"
)

var ErrUnauthenticated = errors.New("user not authenticated")

// IssuedSession is a freshly created session and the token that names it.
type IssuedSession struct {
	Token     string
	ExpiresAt time.Time
}

// SessionService issues, resolves and revokes login sessions. The token only
// names the session and its user; the user record is always reloaded.
type SessionService struct {
	sessions SessionStore
	users    UserStore
	key      []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionService creates a new SessionService signing tokens with key.
func NewSessionService(sessions SessionStore, users UserStore, key []byte, ttl time.Duration) *SessionService {
	return &SessionService{
		sessions: sessions,
		users:    users,
		key:      key,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Issue creates a session for the user and returns its signed token.
func (s *SessionService) Issue(ctx context.Context, userID string) (IssuedSession, error) {
	now := s.now().UTC()
	sess := model.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.sessions.Create(ctx, sess); err != nil {
		return IssuedSession{}, fmt.Errorf("create session: %w", err)
	}

	token, err := crypto.GenerateToken(sess.ID, userID, s.key, sess.ExpiresAt)
	if err != nil {
		return IssuedSession{}, fmt.Errorf("sign session token: %w", err)
	}

	return IssuedSession{Token: token, ExpiresAt: sess.ExpiresAt}, nil
}

// Resolve returns the current user for a session token. It returns
// ErrUnauthenticated for bad, expired, revoked or orphaned sessions; any other
// error comes from the store.
func (s *SessionService) Resolve(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := crypto.ValidateToken(token, s.key)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	sess, err := s.sessions.Get(ctx, claims.SessionID())
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess.UserID != claims.UserID() {
		return nil, ErrUnauthenticated
	}

	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	return user, nil
}

// Revoke deletes the session named by token. Tokens that do not verify name
// no session, so there is nothing to revoke.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	claims, err := crypto.ValidateToken(token, s.key)
	if err != nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, claims.SessionID()); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// PruneExpired removes expired sessions from the store.
func (s *SessionService) PruneExpired(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	return n, nil
}

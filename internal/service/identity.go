package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/medialist/medialist-go/internal/model"
)

var (
	ErrSubjectRequired = errors.New("profile subject id is required")
	ErrEmailRequired   = errors.New("profile email is required")
)

// IdentityService links identity provider profiles to local users.
type IdentityService struct {
	users UserStore
}

// NewIdentityService creates a new IdentityService.
func NewIdentityService(users UserStore) *IdentityService {
	return &IdentityService{users: users}
}

// Link returns the local user for the profile, creating it with zero xp on
// first login and refreshing name and email afterwards. The store performs
// this as a single upsert; concurrent first logins for one subject resolve to
// the same row.
func (s *IdentityService) Link(ctx context.Context, profile model.Profile) (*model.User, error) {
	subject := strings.TrimSpace(profile.Subject)
	if subject == "" {
		return nil, ErrSubjectRequired
	}
	email := strings.TrimSpace(profile.PrimaryEmail())
	if email == "" {
		return nil, ErrEmailRequired
	}

	user, err := s.users.Upsert(ctx, model.User{
		ID:    subject,
		Name:  profile.Name,
		Email: email,
	})
	if err != nil {
		return nil, fmt.Errorf("link identity: %w", err)
	}

	return user, nil
}

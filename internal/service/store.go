package service

import (
	"context"

	"github.com/medialist/medialist-go/internal/model"
)

// UserStore is the user persistence the services depend on.
type UserStore interface {
	Upsert(ctx context.Context, user model.User) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// MediaStore is the media status persistence the services depend on.
type MediaStore interface {
	ListByUser(ctx context.Context, userID string) ([]model.MediaStatus, error)
	Upsert(ctx context.Context, m model.MediaStatus) error
	Delete(ctx context.Context, m model.MediaStatus) (int64, error)
}

// SessionStore is the session persistence the services depend on.
type SessionStore interface {
	Create(ctx context.Context, s model.Session) error
	Get(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

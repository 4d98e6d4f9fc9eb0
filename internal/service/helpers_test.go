package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/medialist/medialist-go/internal/model"
	"github.com/medialist/medialist-go/internal/repository"
)

var errStoreDown = errors.New("database is locked")

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := repository.Open(context.Background(), repository.DialectSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// failingUsers fails every call.
type failingUsers struct{}

func (failingUsers) Upsert(context.Context, model.User) (*model.User, error) { return nil, errStoreDown }
func (failingUsers) GetByID(context.Context, string) (*model.User, error) { return nil, errStoreDown }

// failingMedia fails every call and counts them.
type failingMedia struct{ calls int }

func (f *failingMedia) ListByUser(context.Context, string) ([]model.MediaStatus, error) {
	f.calls++
	return nil, errStoreDown
}

func (f *failingMedia) Upsert(context.Context, model.MediaStatus) error {
	f.calls++
	return errStoreDown
}

func (f *failingMedia) Delete(context.Context, model.MediaStatus) (int64, error) {
	f.calls++
	return 0, errStoreDown
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/medialist/medialist-go/internal/model"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository handles user persistence operations.
type UserRepository struct {
	db      *sql.DB
	dialect Dialect
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB, dialect Dialect) *UserRepository {
	return &UserRepository{db: db, dialect: dialect}
}

const userCols = `id, name, email, xp`

// Upsert inserts the user, or refreshes name and email if the id already
// exists, and returns the stored row. xp is only set on insert.
func (r *UserRepository) Upsert(ctx context.Context, user model.User) (*model.User, error) {
	switch r.dialect {
	case DialectMySQL:
		query := `INSERT INTO users (id, name, email, xp) VALUES (?, ?, ?, 0)
			ON DUPLICATE KEY UPDATE name = VALUES(name), email = VALUES(email)`
		if _, err := r.db.ExecContext(ctx, query, user.ID, user.Name, user.Email); err != nil {
			return nil, fmt.Errorf("upsert user: %w", err)
		}
		return r.GetByID(ctx, user.ID)
	default:
		query := `INSERT INTO users (id, name, email, xp) VALUES (?, ?, ?, 0)
			ON CONFLICT (id) DO UPDATE SET name = excluded.name, email = excluded.email
			RETURNING ` + userCols
		u, err := scanUser(r.db.QueryRowContext(ctx, query, user.ID, user.Name, user.Email))
		if err != nil {
			return nil, fmt.Errorf("upsert user: %w", err)
		}
		return u, nil
	}
}

// GetByID retrieves a user by their identity provider subject id.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	if err := scanner.Scan(&u.ID, &u.Name, &u.Email, &u.XP); err != nil {
		return nil, err
	}
	return &u, nil
}

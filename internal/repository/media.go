package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/medialist/medialist-go/internal/model"
)

// MediaRepository persists per-user media status tags.
type MediaRepository struct {
	db      *sql.DB
	dialect Dialect
}

// NewMediaRepository creates a new MediaRepository.
func NewMediaRepository(db *sql.DB, dialect Dialect) *MediaRepository {
	return &MediaRepository{db: db, dialect: dialect}
}

// ListByUser returns every status row owned by the user.
func (r *MediaRepository) ListByUser(ctx context.Context, userID string) ([]model.MediaStatus, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, media_id, status FROM user_media WHERE user_id = ? ORDER BY media_id, status`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	var statuses []model.MediaStatus
	for rows.Next() {
		var m model.MediaStatus
		if err := rows.Scan(&m.UserID, &m.MediaID, &m.Status); err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		statuses = append(statuses, m)
	}

	return statuses, rows.Err()
}

// Upsert stores the status row. Writing an existing row is a no-op.
func (r *MediaRepository) Upsert(ctx context.Context, m model.MediaStatus) error {
	query := `INSERT INTO user_media (user_id, media_id, status) VALUES (?, ?, ?)
		ON CONFLICT (user_id, media_id, status) DO NOTHING`
	if r.dialect == DialectMySQL {
		query = `INSERT INTO user_media (user_id, media_id, status) VALUES (?, ?, ?)
			ON DUPLICATE KEY UPDATE status = status`
	}

	if _, err := r.db.ExecContext(ctx, query, m.UserID, m.MediaID, m.Status); err != nil {
		return fmt.Errorf("upsert media: %w", err)
	}
	return nil
}

// Delete removes the status row and reports how many rows matched. A missing
// row is not an error.
func (r *MediaRepository) Delete(ctx context.Context, m model.MediaStatus) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM user_media WHERE user_id = ? AND media_id = ? AND status = ?`,
		m.UserID, m.MediaID, m.Status,
	)
	if err != nil {
		return 0, fmt.Errorf("delete media: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

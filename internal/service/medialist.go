package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/medialist/medialist-go/internal/model"
)

var (
	ErrMediaIDRequired   = errors.New("media_id is required")
	ErrStatusRequired    = errors.New("status is required")
	ErrOldStatusRequired = errors.New(`old_status is required when status is "none"`)
)

// MediaListService reads and changes a user's media status tags.
type MediaListService struct {
	repo MediaStore
}

// NewMediaListService creates a new MediaListService.
func NewMediaListService(repo MediaStore) *MediaListService {
	return &MediaListService{repo: repo}
}

// List returns every status row of the user. The result is never nil.
func (s *MediaListService) List(ctx context.Context, userID string) ([]model.MediaStatusResponse, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]model.MediaStatusResponse, 0, len(rows))
	for _, m := range rows {
		resp = append(resp, model.MediaStatusResponse{MediaID: m.MediaID, Status: m.Status})
	}
	return resp, nil
}

// Write applies one status change. Status "none" clears the row named by
// old_status, which succeeds even if that row does not exist. Any other
// status is added to the item's set of tags.
// old_status is not checked against earlier writes; the delete only ever
// matches rows owned by userID.
func (s *MediaListService) Write(ctx context.Context, userID string, req model.MediaStatusRequest) (model.WriteResponse, error) {
	mediaID := strings.TrimSpace(req.MediaID)
	status := strings.TrimSpace(req.Status)
	if mediaID == "" {
		return model.WriteResponse{}, ErrMediaIDRequired
	}
	if status == "" {
		return model.WriteResponse{}, ErrStatusRequired
	}

	if status == model.StatusNone {
		oldStatus := strings.TrimSpace(req.OldStatus)
		if oldStatus == "" {
			return model.WriteResponse{}, ErrOldStatusRequired
		}
		if _, err := s.repo.Delete(ctx, model.MediaStatus{UserID: userID, MediaID: mediaID, Status: oldStatus}); err != nil {
			return model.WriteResponse{}, fmt.Errorf("clear status: %w", err)
		}
		return model.WriteResponse{Success: true}, nil
	}

	if err := s.repo.Upsert(ctx, model.MediaStatus{UserID: userID, MediaID: mediaID, Status: status}); err != nil {
		return model.WriteResponse{}, fmt.Errorf("set status: %w", err)
	}

	return model.WriteResponse{Success: true, MediaID: mediaID, Status: status}, nil
}

// IsValidationError reports whether err is a request validation failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMediaIDRequired) ||
		errors.Is(err, ErrStatusRequired) ||
		errors.Is(err, ErrOldStatusRequired)
}

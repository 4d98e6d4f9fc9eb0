package model

// StatusNone clears a previously set status instead of storing a new one.
const StatusNone = "none"

// MediaStatus is one status tag a user holds on a media item.
type MediaStatus struct {
	UserID  string
	MediaID string
	Status  string
}

// MediaStatusRequest represents a POST /api/user/medialist body.
type MediaStatusRequest struct {
	MediaID   string `json:"media_id"`
	Status    string `json:"status"`
	OldStatus string `json:"old_status,omitempty"`
}

// MediaStatusResponse represents one row of the media list.
type MediaStatusResponse struct {
	MediaID string `json:"media_id"`
	Status  string `json:"status"`
}

// WriteResponse acknowledges a media list write. MediaID and Status are only
// set when a status was stored.
type WriteResponse struct {
	Success bool   `json:"success"`
	MediaID string `json:"media_id,omitempty"`
	Status  string `json:"status,omitempty"`
}

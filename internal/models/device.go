package models

import "time"

// Device is a registered smart window unit.
type Device struct {
	ID        string    `json:"id"`
	UserID    int       `json:"user_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`     // e.g. "smart_window"
	Location  string    `json:"location"` // free-form, forwarded to the prediction service
	CreatedAt time.Time `json:"created_at"`
}

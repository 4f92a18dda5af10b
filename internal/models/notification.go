package models

import "time"

// Notification is a user-facing status message surfaced on the dashboard
// feed (the server-side equivalent of the UI toasts).
type Notification struct {
	ID        uint   `gorm:"primaryKey"`
	Kind      string `gorm:"not null"` // success, error
	Title     string `gorm:"not null"`
	Message   string
	Read      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

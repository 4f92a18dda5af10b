package models

import "time"

// Client entity
type Client struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null;index"` // Razón social o nombre
	ContactName string // Nombre del contacto principal
	Email       string
	Phone       string
	Address     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

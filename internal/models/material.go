package models

import "time"

// Inventory domain models
type Material struct {
	ID               uint    `gorm:"primaryKey"`
	Name             string  `gorm:"not null;index"`
	Unit             string  `gorm:"not null"` // ex: kg, caja, palet
	StockQuantity    float64 `gorm:"not null;default:0"`
	MinStockQuantity float64 `gorm:"not null;default:0"`
	UnitPrice        float64 `gorm:"not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// LowStock reports whether the material has fallen to or below its minimum
// stock threshold. The boundary is inclusive.
func (m Material) LowStock() bool { return m.StockQuantity <= m.MinStockQuantity }

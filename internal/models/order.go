package models

import "time"

// Order statuses. completed and cancelled are terminal; completed is only
// reachable through the invoicing workflow.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Ordering models
type Order struct {
	ID          uint   `gorm:"primaryKey"`
	OrderNumber string `gorm:"not null;uniqueIndex"`
	ClientID    uint   `gorm:"not null;index"`
	Client      Client `gorm:"foreignKey:ClientID"`
	Status      string `gorm:"not null;default:'pending'"`
	TotalAmount float64
	Notes       string
	Items       []OrderItem `gorm:"foreignKey:OrderID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Invoiceable reports whether the order can still be invoiced.
func (o Order) Invoiceable() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusProcessing
}

// OrderItem is one material/quantity line within an order. UnitPrice is a
// snapshot of the material price at order creation, not a live read; items
// have no update path once created.
type OrderItem struct {
	ID         uint     `gorm:"primaryKey"`
	OrderID    uint     `gorm:"not null;index"`
	MaterialID uint     `gorm:"not null"`
	Material   Material `gorm:"foreignKey:MaterialID"`
	Quantity   float64  `gorm:"not null"`
	UnitPrice  float64  `gorm:"not null"`
	Subtotal   float64  `gorm:"not null"` // Quantity * UnitPrice, fixed at creation
	CreatedAt  time.Time
}

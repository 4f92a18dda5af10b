package services

import (
	"fmt"
	"time"

	"github.com/acampoverde/fruitpack/internal/models"

	"github.com/google/uuid"
)

// OrderService encapsulates order-level computations that do not touch the
// store directly.
type OrderService struct{}

func NewOrderService() *OrderService { return &OrderService{} }

// ComputeTotal sums quantity × snapshotted unit price across line items.
// Pure; handlers call it once at creation to fix Order.TotalAmount.
func (s *OrderService) ComputeTotal(items []models.OrderItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Quantity * it.UnitPrice
	}
	return total
}

// NextOrderNumber generates a human-readable unique order number. The
// timestamp keeps numbers roughly sortable; the uuid fragment disambiguates
// same-millisecond creation.
func (s *OrderService) NextOrderNumber() string {
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

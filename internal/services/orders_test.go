package services

import (
	"strings"
	"testing"

	"github.com/acampoverde/fruitpack/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotal(t *testing.T) {
	svc := NewOrderService()
	items := []models.OrderItem{
		{Quantity: 3, UnitPrice: 2.50},
		{Quantity: 1, UnitPrice: 5.00},
	}
	assert.Equal(t, 12.50, svc.ComputeTotal(items))
	assert.Equal(t, 0.0, svc.ComputeTotal(nil))
}

func TestNextOrderNumber(t *testing.T) {
	svc := NewOrderService()
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		n := svc.NextOrderNumber()
		assert.True(t, strings.HasPrefix(n, "ORD-"), "unexpected prefix: %s", n)
		assert.False(t, seen[n], "duplicate order number: %s", n)
		seen[n] = true
	}
}

package services

import (
	"context"
	"testing"

	"github.com/acampoverde/fruitpack/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLowStockBoundaryIsInclusive(t *testing.T) {
	db := setupInvoicingTestDB(t)
	atMin := models.Material{Name: "Caja cartón 10kg", Unit: "caja", StockQuantity: 5, MinStockQuantity: 5, UnitPrice: 0.85}
	justAbove := models.Material{Name: "Palet europeo", Unit: "palet", StockQuantity: 5.01, MinStockQuantity: 5, UnitPrice: 7.50}
	below := models.Material{Name: "Film paletizado", Unit: "rollo", StockQuantity: 1, MinStockQuantity: 15, UnitPrice: 4.20}
	for _, m := range []*models.Material{&atMin, &justAbove, &below} {
		require.NoError(t, db.Create(m).Error)
	}

	svc := NewInventoryService(db)
	low, err := svc.LowStock(context.Background())
	require.NoError(t, err)

	ids := map[uint]bool{}
	for _, m := range low {
		ids[m.ID] = true
	}
	assert.True(t, ids[atMin.ID], "stock == min must count as low stock")
	assert.False(t, ids[justAbove.ID], "stock just above min must not count")
	assert.True(t, ids[below.ID])

	n, err := svc.LowStockCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	assert.True(t, atMin.LowStock())
	assert.False(t, justAbove.LowStock())
}

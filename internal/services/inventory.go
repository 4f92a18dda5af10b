package services

import (
	"context"
	"fmt"

	"github.com/acampoverde/fruitpack/internal/models"

	"gorm.io/gorm"
)

// InventoryService answers stock-level questions for dashboards and alerts.
type InventoryService struct {
	db *gorm.DB
}

func NewInventoryService(db *gorm.DB) *InventoryService { return &InventoryService{db: db} }

// LowStock returns materials at or below their minimum stock threshold.
// Read-only; the boundary is inclusive.
func (s *InventoryService) LowStock(ctx context.Context) ([]models.Material, error) {
	var mats []models.Material
	if err := s.db.WithContext(ctx).
		Where("stock_quantity <= min_stock_quantity").
		Order("name").Find(&mats).Error; err != nil {
		return nil, fmt.Errorf("list low stock materials: %w", err)
	}
	return mats, nil
}

// LowStockCount is the dashboard counter variant of LowStock.
func (s *InventoryService) LowStockCount(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Material{}).
		Where("stock_quantity <= min_stock_quantity").
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count low stock materials: %w", err)
	}
	return n, nil
}

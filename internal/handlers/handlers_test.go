package handlers

import (
	"fmt"
	"testing"

	"github.com/acampoverde/fruitpack/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Client{}, &models.Material{}, &models.Order{}, &models.OrderItem{}, &models.Notification{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedClient(t *testing.T, db *gorm.DB, name string) models.Client {
	t.Helper()
	c := models.Client{Name: name}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("client: %v", err)
	}
	return c
}

func seedMaterial(t *testing.T, db *gorm.DB, name string, stock, minStock, price float64) models.Material {
	t.Helper()
	m := models.Material{Name: name, Unit: "caja", StockQuantity: stock, MinStockQuantity: minStock, UnitPrice: price}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("material: %v", err)
	}
	return m
}

package db

import (
	"github.com/acampoverde/fruitpack/internal/models"

	"gorm.io/gorm"
)

// Seed inserts demo clients and materials when they are not present yet.
// Idempotent by name so repeated runs stay harmless.
func Seed(db *gorm.DB) error {
	baseClients := []models.Client{
		{Name: "Frutas del Valle SA", ContactName: "María Torres", Email: "compras@frutasdelvalle.example", Phone: "+34 600 111 222", Address: "Pol. Ind. La Vega, Nave 4"},
		{Name: "Distribuciones Ortega", ContactName: "Luis Ortega", Email: "luis@dortega.example", Phone: "+34 600 333 444", Address: "C/ Mayor 12"},
	}
	for _, c := range baseClients {
		var existing models.Client
		if err := db.Where("name = ?", c.Name).First(&existing).Error; err == gorm.ErrRecordNotFound {
			if err := db.Create(&c).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}

	baseMaterials := []models.Material{
		{Name: "Caja cartón 10kg", Unit: "caja", StockQuantity: 500, MinStockQuantity: 100, UnitPrice: 0.85},
		{Name: "Malla rachel 2kg", Unit: "unidad", StockQuantity: 1200, MinStockQuantity: 300, UnitPrice: 0.12},
		{Name: "Palet europeo", Unit: "palet", StockQuantity: 60, MinStockQuantity: 20, UnitPrice: 7.50},
		{Name: "Film paletizado", Unit: "rollo", StockQuantity: 40, MinStockQuantity: 15, UnitPrice: 4.20},
	}
	for _, m := range baseMaterials {
		var existing models.Material
		if err := db.Where("name = ?", m.Name).First(&existing).Error; err == gorm.ErrRecordNotFound {
			if err := db.Create(&m).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}

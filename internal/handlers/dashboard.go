package handlers

import (
	"net/http"

	"github.com/acampoverde/fruitpack/internal/httpx"
	"github.com/acampoverde/fruitpack/internal/models"
	"github.com/acampoverde/fruitpack/internal/services"

	"gorm.io/gorm"
)

type DashboardHandler struct {
	DB  *gorm.DB
	Inv *services.InventoryService
}

func NewDashboardHandler(db *gorm.DB, inv *services.InventoryService) *DashboardHandler {
	return &DashboardHandler{DB: db, Inv: inv}
}

// Stats: GET /dashboard/stats
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	var clients, materials, orders int64
	if err := h.DB.Model(&models.Client{}).Count(&clients).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_stats", nil)
		return
	}
	if err := h.DB.Model(&models.Material{}).Count(&materials).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_stats", nil)
		return
	}
	if err := h.DB.Model(&models.Order{}).Count(&orders).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_stats", nil)
		return
	}
	lowStock, err := h.Inv.LowStockCount(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_stats", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"total_clients":   clients,
		"total_materials": materials,
		"total_orders":    orders,
		"low_stock_count": lowStock,
	})
}

// Notifications: GET /notifications – most recent first.
func (h *DashboardHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	var total int64
	h.DB.Model(&models.Notification{}).Count(&total)
	var notes []models.Notification
	if err := h.DB.Order("id desc").Limit(limit).Offset(offset).Find(&notes).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_notifications", nil)
		return
	}
	httpx.List(w, notes, total, limit, offset)
}

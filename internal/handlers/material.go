package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/acampoverde/fruitpack/internal/httpx"
	"github.com/acampoverde/fruitpack/internal/models"
	"github.com/acampoverde/fruitpack/internal/services"
	"github.com/acampoverde/fruitpack/internal/validation"

	"gorm.io/gorm"
)

type MaterialHandler struct {
	DB  *gorm.DB
	Inv *services.InventoryService
}

func NewMaterialHandler(db *gorm.DB, inv *services.InventoryService) *MaterialHandler {
	return &MaterialHandler{DB: db, Inv: inv}
}

type materialReq struct {
	Name             string  `json:"name"`
	Unit             string  `json:"unit"`
	StockQuantity    float64 `json:"stock_quantity"`
	MinStockQuantity float64 `json:"min_stock_quantity"`
	UnitPrice        float64 `json:"unit_price"`
}

func (req materialReq) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("name", req.Name, v)
	validation.Required("unit", req.Unit, v)
	validation.NonNegativeFloat("stock_quantity", req.StockQuantity, v)
	validation.NonNegativeFloat("min_stock_quantity", req.MinStockQuantity, v)
	validation.NonNegativeFloat("unit_price", req.UnitPrice, v)
	return v
}

// List: GET /materials – includes the low-stock flag per material so the
// inventory table can badge rows without a second request.
func (h *MaterialHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	dbq := h.DB.Model(&models.Material{})
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		dbq = dbq.Where("lower(name) LIKE ?", likePattern(q))
	}
	var total int64
	dbq.Count(&total)
	var mats []models.Material
	if err := dbq.Order("name").Limit(limit).Offset(offset).Find(&mats).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_materials", nil)
		return
	}
	type row struct {
		models.Material
		LowStock bool
	}
	rows := make([]row, 0, len(mats))
	for _, m := range mats {
		rows = append(rows, row{Material: m, LowStock: m.LowStock()})
	}
	httpx.List(w, rows, total, limit, offset)
}

// LowStock: GET /materials/low-stock
func (h *MaterialHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	mats, err := h.Inv.LowStock(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_low_stock", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": mats, "total": len(mats)})
}

// Create: POST /materials
func (h *MaterialHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req materialReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	mat := models.Material{
		Name:             req.Name,
		Unit:             req.Unit,
		StockQuantity:    req.StockQuantity,
		MinStockQuantity: req.MinStockQuantity,
		UnitPrice:        req.UnitPrice,
	}
	if err := h.DB.Create(&mat).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_material", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, mat)
}

// Update: POST /materials/update?id=...
func (h *MaterialHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var mat models.Material
	if err := h.DB.First(&mat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "material_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_material", nil)
		return
	}
	var req materialReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	mat.Name = req.Name
	mat.Unit = req.Unit
	mat.StockQuantity = req.StockQuantity
	mat.MinStockQuantity = req.MinStockQuantity
	mat.UnitPrice = req.UnitPrice
	if err := h.DB.Save(&mat).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_material", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, mat)
}

// Delete: POST /materials/delete?id=...
// Materials referenced by order items cannot be deleted.
func (h *MaterialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var itemCount int64
	if err := h.DB.Model(&models.OrderItem{}).Where("material_id = ?", id).Count(&itemCount).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_check_order_items", nil)
		return
	}
	if itemCount > 0 {
		httpx.JSONError(w, http.StatusConflict, "material_in_use", nil)
		return
	}
	res := h.DB.Delete(&models.Material{}, id)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_material", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "material_not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}

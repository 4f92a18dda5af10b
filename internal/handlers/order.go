package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/acampoverde/fruitpack/internal/httpx"
	"github.com/acampoverde/fruitpack/internal/models"
	"github.com/acampoverde/fruitpack/internal/services"
	"github.com/acampoverde/fruitpack/internal/validation"

	"gorm.io/gorm"
)

type OrderHandler struct {
	DB  *gorm.DB
	Svc *services.OrderService
}

func NewOrderHandler(db *gorm.DB, svc *services.OrderService) *OrderHandler {
	return &OrderHandler{DB: db, Svc: svc}
}

// Statuses a client may set directly. completed is reserved for the
// invoicing workflow.
var editableStatuses = []string{
	models.OrderStatusPending,
	models.OrderStatusProcessing,
	models.OrderStatusCancelled,
}

type orderItemReq struct {
	MaterialID uint    `json:"material_id"`
	Quantity   float64 `json:"quantity"`
}

type orderCreateReq struct {
	ClientID uint           `json:"client_id"`
	Status   string         `json:"status"`
	Notes    string         `json:"notes"`
	Items    []orderItemReq `json:"items"`
}

type orderUpdateReq struct {
	ClientID uint    `json:"client_id"`
	Status   string  `json:"status"`
	Notes    *string `json:"notes"`
}

// List: GET /orders – newest first, client and items preloaded.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	dbq := h.DB.Model(&models.Order{})
	if st := r.URL.Query().Get("status"); st != "" {
		dbq = dbq.Where("status = ?", st)
	}
	var total int64
	dbq.Count(&total)
	var orders []models.Order
	if err := dbq.Preload("Client").Preload("Items.Material").
		Order("created_at desc").Limit(limit).Offset(offset).Find(&orders).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_orders", nil)
		return
	}
	httpx.List(w, orders, total, limit, offset)
}

// Create: POST /orders – items are priced from the current material price
// (a snapshot; later price edits do not touch existing orders) and the total
// is computed server-side.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req orderCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.Status == "" {
		req.Status = models.OrderStatusPending
	}
	v := validation.Violations{}
	validation.OneOf("status", req.Status, editableStatuses, v)
	if req.ClientID == 0 {
		v["client_id"] = "required"
	}
	if len(req.Items) == 0 {
		v["items"] = "required"
	}
	for _, it := range req.Items {
		if it.MaterialID == 0 || it.Quantity <= 0 {
			v["items"] = "invalid_material_or_quantity"
			break
		}
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	var client models.Client
	if err := h.DB.First(&client, req.ClientID).Error; err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_client", nil)
		return
	}
	materialIDs := make([]uint, 0, len(req.Items))
	for _, it := range req.Items {
		materialIDs = append(materialIDs, it.MaterialID)
	}
	var mats []models.Material
	if err := h.DB.Where("id IN ?", materialIDs).Find(&mats).Error; err != nil || len(mats) != len(materialIDs) {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_materials", nil)
		return
	}
	matByID := map[uint]models.Material{}
	for _, m := range mats {
		matByID[m.ID] = m
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		m := matByID[it.MaterialID]
		items = append(items, models.OrderItem{
			MaterialID: m.ID,
			Quantity:   it.Quantity,
			UnitPrice:  m.UnitPrice,
			Subtotal:   it.Quantity * m.UnitPrice,
		})
	}
	order := models.Order{
		OrderNumber: h.Svc.NextOrderNumber(),
		ClientID:    req.ClientID,
		Status:      req.Status,
		Notes:       req.Notes,
		TotalAmount: h.Svc.ComputeTotal(items),
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_order", nil)
		return
	}
	if err := h.DB.Preload("Client").Preload("Items.Material").First(&order, order.ID).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_order", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}

// Update: POST /orders/update?id=... – client, status, and notes only; line
// items are immutable and the total stays the creation snapshot. Omitted
// fields keep their stored values. Terminal orders (completed/cancelled)
// reject status changes.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var order models.Order
	if err := h.DB.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "order_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_order", nil)
		return
	}
	var req orderUpdateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.Status != "" && req.Status != order.Status {
		if req.Status == models.OrderStatusCompleted {
			httpx.JSONError(w, http.StatusUnprocessableEntity, "status_requires_invoicing", nil)
			return
		}
		v := validation.Violations{}
		validation.OneOf("status", req.Status, editableStatuses, v)
		if !v.Empty() {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
			return
		}
		if !order.Invoiceable() {
			httpx.JSONError(w, http.StatusConflict, "order_in_terminal_state", nil)
			return
		}
		order.Status = req.Status
	}
	if req.ClientID != 0 && req.ClientID != order.ClientID {
		var client models.Client
		if err := h.DB.First(&client, req.ClientID).Error; err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_client", nil)
			return
		}
		order.ClientID = req.ClientID
	}
	if req.Notes != nil {
		order.Notes = *req.Notes
	}
	if err := h.DB.Save(&order).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_order", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

// Delete: POST /orders/delete?id=... – completed orders keep their committed
// inventory impact and cannot be deleted; everything else removes the order
// and its items together.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var order models.Order
	if err := h.DB.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "order_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_order", nil)
		return
	}
	if order.Status == models.OrderStatusCompleted {
		httpx.JSONError(w, http.StatusConflict, "order_completed", nil)
		return
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_order", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}

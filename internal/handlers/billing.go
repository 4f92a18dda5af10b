package handlers

import (
	"errors"
	"net/http"

	"github.com/acampoverde/fruitpack/internal/httpx"
	"github.com/acampoverde/fruitpack/internal/models"
	"github.com/acampoverde/fruitpack/internal/services"

	"gorm.io/gorm"
)

type BillingHandler struct {
	DB  *gorm.DB
	Svc *services.InvoicingService
}

func NewBillingHandler(db *gorm.DB, svc *services.InvoicingService) *BillingHandler {
	return &BillingHandler{DB: db, Svc: svc}
}

// Pending: GET /billing – orders awaiting invoicing, flagged per line item
// when current stock cannot cover the requested quantity.
func (h *BillingHandler) Pending(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	dbq := h.DB.Model(&models.Order{}).
		Where("status IN ?", []string{models.OrderStatusPending, models.OrderStatusProcessing})
	var total int64
	dbq.Count(&total)
	var orders []models.Order
	if err := dbq.Preload("Client").Preload("Items.Material").
		Order("created_at desc").Limit(limit).Offset(offset).Find(&orders).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_pending_orders", nil)
		return
	}
	type itemRow struct {
		models.OrderItem
		InsufficientStock bool
	}
	type orderRow struct {
		models.Order
		Items                []itemRow
		HasInsufficientStock bool
	}
	rows := make([]orderRow, 0, len(orders))
	for _, o := range orders {
		row := orderRow{Order: o}
		for _, it := range o.Items {
			short := it.Material.StockQuantity < it.Quantity
			row.Items = append(row.Items, itemRow{OrderItem: it, InsufficientStock: short})
			if short {
				row.HasInsufficientStock = true
			}
		}
		row.Order.Items = nil // replaced by the flagged rows
		rows = append(rows, row)
	}
	httpx.List(w, rows, total, limit, offset)
}

// Invoice: POST /billing/invoice?id=...
func (h *BillingHandler) Invoice(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.Svc.Invoice(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			httpx.JSONError(w, http.StatusNotFound, "order_not_found", err.Error())
		case errors.Is(err, services.ErrInsufficientStock):
			httpx.JSONError(w, http.StatusConflict, "insufficient_stock", err.Error())
		case errors.Is(err, services.ErrNotInvoiceable):
			httpx.JSONError(w, http.StatusConflict, "order_not_invoiceable", err.Error())
		default:
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_invoice_order", nil)
		}
		return
	}
	var order models.Order
	if err := h.DB.Preload("Items.Material").First(&order, id).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_order", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

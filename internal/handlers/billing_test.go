package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/acampoverde/fruitpack/internal/models"
	"github.com/acampoverde/fruitpack/internal/notify"
	"github.com/acampoverde/fruitpack/internal/services"
)

func TestBillingInvoiceEndToEnd(t *testing.T) {
	db := setupTestDB(t)
	client := seedClient(t, db, "Frutas del Valle SA")
	matA := seedMaterial(t, db, "Caja cartón 10kg", 10, 2, 0.85)
	matB := seedMaterial(t, db, "Palet europeo", 5, 1, 7.50)
	oh := NewOrderHandler(db, services.NewOrderService())
	bh := NewBillingHandler(db, services.NewInvoicingService(db, notify.NewDBNotifier(db)))

	order := createOrderViaAPI(t, oh, client.ID,
		fmt.Sprintf(`[{"material_id":%d,"quantity":4},{"material_id":%d,"quantity":5}]`, matA.ID, matB.ID))
	id := strconv.Itoa(int(order.ID))

	// The order shows up on the billing queue with no shortfall flags.
	listW := httptest.NewRecorder()
	bh.Pending(listW, httptest.NewRequest(http.MethodGet, "/billing", nil))
	if listW.Code != http.StatusOK {
		t.Fatalf("pending expected 200 got %d", listW.Code)
	}
	var pending struct {
		Items []struct {
			HasInsufficientStock bool
		} `json:"items"`
		Total int64 `json:"total"`
	}
	if err := json.Unmarshal(listW.Body.Bytes(), &pending); err != nil {
		t.Fatalf("decode pending: %v", err)
	}
	if pending.Total != 1 || pending.Items[0].HasInsufficientStock {
		t.Fatalf("unexpected pending queue: %#v", pending)
	}

	// Invoice
	w := httptest.NewRecorder()
	bh.Invoice(w, httptest.NewRequest(http.MethodPost, "/billing/invoice?id="+id, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("invoice expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var invoiced models.Order
	_ = json.Unmarshal(w.Body.Bytes(), &invoiced)
	if invoiced.Status != models.OrderStatusCompleted {
		t.Fatalf("expected completed got %s", invoiced.Status)
	}
	var a, b models.Material
	db.First(&a, matA.ID)
	db.First(&b, matB.ID)
	if a.StockQuantity != 6 || b.StockQuantity != 0 {
		t.Fatalf("stocks after invoice: A=%v B=%v", a.StockQuantity, b.StockQuantity)
	}

	// A second invoice call is rejected; nothing moves.
	w = httptest.NewRecorder()
	bh.Invoice(w, httptest.NewRequest(http.MethodPost, "/billing/invoice?id="+id, nil))
	if w.Code != http.StatusConflict {
		t.Fatalf("reinvoice expected 409 got %d", w.Code)
	}
	db.First(&a, matA.ID)
	if a.StockQuantity != 6 {
		t.Fatalf("stock moved on rejected invoice: %v", a.StockQuantity)
	}
}

func TestBillingInvoiceInsufficientStock(t *testing.T) {
	db := setupTestDB(t)
	client := seedClient(t, db, "Distribuciones Ortega")
	matC := seedMaterial(t, db, "Film paletizado", 2, 1, 4.20)
	oh := NewOrderHandler(db, services.NewOrderService())
	bh := NewBillingHandler(db, services.NewInvoicingService(db, notify.NewDBNotifier(db)))

	order := createOrderViaAPI(t, oh, client.ID, fmt.Sprintf(`[{"material_id":%d,"quantity":3}]`, matC.ID))
	id := strconv.Itoa(int(order.ID))

	// The billing queue flags the shortfall.
	listW := httptest.NewRecorder()
	bh.Pending(listW, httptest.NewRequest(http.MethodGet, "/billing", nil))
	var pending struct {
		Items []struct {
			HasInsufficientStock bool
			Items                []struct {
				InsufficientStock bool
			}
		} `json:"items"`
	}
	if err := json.Unmarshal(listW.Body.Bytes(), &pending); err != nil {
		t.Fatalf("decode pending: %v", err)
	}
	if len(pending.Items) != 1 || !pending.Items[0].HasInsufficientStock || !pending.Items[0].Items[0].InsufficientStock {
		t.Fatalf("shortfall not flagged: %#v", pending)
	}

	w := httptest.NewRecorder()
	bh.Invoice(w, httptest.NewRequest(http.MethodPost, "/billing/invoice?id="+id, nil))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error != "insufficient_stock" {
		t.Fatalf("unexpected error code: %#v", resp)
	}

	var c models.Material
	db.First(&c, matC.ID)
	if c.StockQuantity != 2 {
		t.Fatalf("stock mutated on failed invoice: %v", c.StockQuantity)
	}
	var got models.Order
	db.First(&got, order.ID)
	if got.Status != models.OrderStatusPending {
		t.Fatalf("status mutated on failed invoice: %s", got.Status)
	}
}

func TestBillingInvoiceStoreFailure(t *testing.T) {
	db := setupTestDB(t)
	client := seedClient(t, db, "Frutas del Valle SA")
	mat := seedMaterial(t, db, "Caja cartón 10kg", 10, 2, 0.85)
	oh := NewOrderHandler(db, services.NewOrderService())
	bh := NewBillingHandler(db, services.NewInvoicingService(db, notify.LogNotifier{}))
	order := createOrderViaAPI(t, oh, client.ID, fmt.Sprintf(`[{"material_id":%d,"quantity":4}]`, mat.ID))

	if err := db.Exec(`CREATE TRIGGER material_updates_fail BEFORE UPDATE ON materials
		BEGIN SELECT RAISE(ABORT, 'storage offline'); END`).Error; err != nil {
		t.Fatalf("trigger: %v", err)
	}

	w := httptest.NewRecorder()
	bh.Invoice(w, httptest.NewRequest(http.MethodPost, "/billing/invoice?id="+strconv.Itoa(int(order.ID)), nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error != "failed_to_invoice_order" {
		t.Fatalf("unexpected error code: %#v", resp)
	}

	// Nothing may leak out of the rolled-back transaction.
	var got models.Order
	db.First(&got, order.ID)
	if got.Status != models.OrderStatusPending {
		t.Fatalf("status mutated on store failure: %s", got.Status)
	}
	var m models.Material
	db.First(&m, mat.ID)
	if m.StockQuantity != 10 {
		t.Fatalf("stock mutated on store failure: %v", m.StockQuantity)
	}
}

func TestBillingInvoiceUnknownOrder(t *testing.T) {
	db := setupTestDB(t)
	bh := NewBillingHandler(db, services.NewInvoicingService(db, notify.LogNotifier{}))
	w := httptest.NewRecorder()
	bh.Invoice(w, httptest.NewRequest(http.MethodPost, "/billing/invoice?id=424242", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
}

package server

import (
	"log"
	"net/http"
	"time"

	"github.com/acampoverde/fruitpack/internal/handlers"
	"github.com/acampoverde/fruitpack/internal/httpx"
	"github.com/acampoverde/fruitpack/internal/middleware"
	"github.com/acampoverde/fruitpack/internal/notify"
	"github.com/acampoverde/fruitpack/internal/services"

	"gorm.io/gorm"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB) http.Handler {
	mux := http.NewServeMux()

	// --- Health endpoints ---
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	inventorySvc := services.NewInventoryService(db)
	orderSvc := services.NewOrderService()
	invoicingSvc := services.NewInvoicingService(db, notify.NewDBNotifier(db))

	// Client endpoints. List/Create via /clients; update/delete via
	// /clients/update & /clients/delete for simplicity.
	ch := handlers.NewClientHandler(db)
	mux.HandleFunc("/clients", listCreate(ch.List, ch.Create))
	mux.HandleFunc("/clients/update", postOnly(ch.Update))
	mux.HandleFunc("/clients/delete", postOnly(ch.Delete))

	// Material (inventory) endpoints
	mh := handlers.NewMaterialHandler(db, inventorySvc)
	mux.HandleFunc("/materials", listCreate(mh.List, mh.Create))
	mux.HandleFunc("/materials/low-stock", getOnly(mh.LowStock))
	mux.HandleFunc("/materials/update", postOnly(mh.Update))
	mux.HandleFunc("/materials/delete", postOnly(mh.Delete))

	// Order endpoints
	oh := handlers.NewOrderHandler(db, orderSvc)
	mux.HandleFunc("/orders", listCreate(oh.List, oh.Create))
	mux.HandleFunc("/orders/update", postOnly(oh.Update))
	mux.HandleFunc("/orders/delete", postOnly(oh.Delete))

	// Billing endpoints
	bh := handlers.NewBillingHandler(db, invoicingSvc)
	mux.HandleFunc("/billing", getOnly(bh.Pending))
	mux.HandleFunc("/billing/invoice", postOnly(bh.Invoice))

	// Dashboard endpoints
	dh := handlers.NewDashboardHandler(db, inventorySvc)
	mux.HandleFunc("/dashboard/stats", getOnly(dh.Stats))
	mux.HandleFunc("/notifications", getOnly(dh.Notifications))

	return middleware.RequestID(withRecover(withLogging(mux)))
}

func listCreate(list, create http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			list(w, r)
		case http.MethodPost:
			create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	}
}

func getOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", "GET")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			return
		}
		h(w, r)
	}
}

func postOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", "POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			return
		}
		h(w, r)
	}
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s rid=%s %s", r.Method, r.URL.Path, middleware.RequestIDFrom(r.Context()), time.Since(start))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

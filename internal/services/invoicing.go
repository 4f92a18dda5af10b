package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/acampoverde/fruitpack/internal/models"
	"github.com/acampoverde/fruitpack/internal/notify"

	"gorm.io/gorm"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrNotInvoiceable    = errors.New("order is not in an invoiceable state")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// InvoicingService finalizes orders: it transitions an order to completed and
// commits the order's inventory impact in the same transaction.
type InvoicingService struct {
	db       *gorm.DB
	notifier notify.Notifier
}

func NewInvoicingService(db *gorm.DB, n notify.Notifier) *InvoicingService {
	if n == nil {
		n = notify.LogNotifier{}
	}
	return &InvoicingService{db: db, notifier: n}
}

// Invoice marks the order completed and decrements each line item's material
// stock by the item quantity. Everything runs in one transaction; the status
// claim and each decrement carry their own predicate in the UPDATE itself,
// so a concurrent invoicer cannot complete the same order twice and a
// shortfall on any line rolls the whole operation back.
func (s *InvoicingService) Invoice(ctx context.Context, orderID uint) error {
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items.Material").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: id %d", ErrOrderNotFound, orderID)
			}
			return fmt.Errorf("load order %d: %w", orderID, err)
		}
		if !order.Invoiceable() {
			return fmt.Errorf("%w: %s is %s", ErrNotInvoiceable, order.OrderNumber, order.Status)
		}
		// Claim the transition before touching stock: losing the race here
		// aborts before any decrement happens.
		if err := completeIfInvoiceable(tx, &order); err != nil {
			return err
		}
		for _, item := range order.Items {
			res := tx.Model(&models.Material{}).
				Where("id = ? AND stock_quantity >= ?", item.MaterialID, item.Quantity).
				Update("stock_quantity", gorm.Expr("stock_quantity - ?", item.Quantity))
			if res.Error != nil {
				return fmt.Errorf("decrement material %d: %w", item.MaterialID, res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: order %s needs %g %s of %s", ErrInsufficientStock,
					order.OrderNumber, item.Quantity, item.Material.Unit, item.Material.Name)
			}
		}
		return nil
	})
	if err != nil {
		s.notifier.Notify(ctx, notify.KindError, "Error al facturar", err.Error())
		return err
	}
	s.notifier.Notify(ctx, notify.KindSuccess, "Pedido facturado",
		fmt.Sprintf("El pedido %s se facturó correctamente y se actualizó el inventario", order.OrderNumber))
	return nil
}

// completeIfInvoiceable transitions the order to completed only while the
// stored status is still invoiceable. The predicate re-checks status inside
// the UPDATE, so two invoicers racing on the same order serialize on the row
// lock and the loser sees zero affected rows instead of completing (and
// decrementing) a second time.
func completeIfInvoiceable(tx *gorm.DB, order *models.Order) error {
	res := tx.Model(&models.Order{}).
		Where("id = ? AND status IN ?", order.ID,
			[]string{models.OrderStatusPending, models.OrderStatusProcessing}).
		Update("status", models.OrderStatusCompleted)
	if res.Error != nil {
		return fmt.Errorf("complete order %s: %w", order.OrderNumber, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s was invoiced concurrently", ErrNotInvoiceable, order.OrderNumber)
	}
	return nil
}

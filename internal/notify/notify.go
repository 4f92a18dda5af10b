package notify

import (
	"context"
	"log"

	"github.com/acampoverde/fruitpack/internal/models"
	"gorm.io/gorm"
)

// Notification kinds
const (
	KindSuccess = "success"
	KindError   = "error"
)

// Notifier surfaces fire-and-forget user-facing status messages. Delivery
// failures must not affect the caller's workflow.
type Notifier interface {
	Notify(ctx context.Context, kind, title, message string)
}

// DBNotifier persists notifications so the dashboard feed can display them.
type DBNotifier struct {
	db *gorm.DB
}

func NewDBNotifier(db *gorm.DB) *DBNotifier { return &DBNotifier{db: db} }

func (n *DBNotifier) Notify(ctx context.Context, kind, title, message string) {
	rec := models.Notification{Kind: kind, Title: title, Message: message}
	if err := n.db.WithContext(ctx).Create(&rec).Error; err != nil {
		log.Printf("notify: persist failed: %v", err)
	}
}

// LogNotifier writes notifications to the process log. Used as a fallback
// when no store is wired (migrations, tests).
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, kind, title, message string) {
	log.Printf("notify [%s] %s: %s", kind, title, message)
}

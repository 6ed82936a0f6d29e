package storage

import (
	"time"

	"github.com/IshwariGadewar/SmartBasket/pkg/catalog"
)

// Alert types.
const (
	AlertPriceDrop      = "price_drop"
	AlertPriceIncrease  = "price_increase"
	AlertStockAvailable = "stock_available"
	AlertCustom         = "custom"
)

// Notification delivery statuses.
const (
	NotificationSent    = "sent"
	NotificationFailed  = "failed"
	NotificationPending = "pending"
)

// Alert check frequencies.
const (
	FrequencyImmediate = "immediate"
	FrequencyDaily     = "daily"
	FrequencyWeekly    = "weekly"
)

// Product is a persisted listing plus its bounded price history.
type Product struct {
	ID int64
	catalog.Listing
	PriceHistory []PricePoint
}

// PricePoint is one observed price at one moment.
type PricePoint struct {
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// Alert is a standing price watch on one product. A triggered alert carries
// a TriggeredAt timestamp and is no longer active.
type Alert struct {
	ID               int64      `json:"id"`
	UserRef          string     `json:"user_ref"`
	ProductID        int64      `json:"product_id"`
	TargetPrice      float64    `json:"target_price"`
	AlertType        string     `json:"alert_type"`
	IsActive         bool       `json:"is_active"`
	NotificationSent bool       `json:"notification_sent"`
	LastChecked      time.Time  `json:"last_checked"`
	CreatedAt        time.Time  `json:"created_at"`
	TriggeredAt      *time.Time `json:"triggered_at,omitempty"`
	CustomMessage    string     `json:"custom_message,omitempty"`
	Frequency        string     `json:"frequency"`
}

// NotificationRecord is one entry of an alert's notification history.
type NotificationRecord struct {
	Channel string    `json:"channel"`
	SentAt  time.Time `json:"sent_at"`
	Status  string    `json:"status"`
}

// ActiveAlert pairs an active alert with its linked product's latest price,
// as the alert engine consumes it.
type ActiveAlert struct {
	Alert
	ProductName  string
	CurrentPrice float64
}

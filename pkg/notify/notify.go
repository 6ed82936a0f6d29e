// Package notify hands triggered alerts off to a delivery channel. Delivery
// semantics (retries, receipts) are the channel's concern, not ours.
package notify

import (
	"context"
	"fmt"
)

// Notification is one alert-fired message ready for dispatch.
type Notification struct {
	UserRef       string
	ProductName   string
	CurrentPrice  float64
	TargetPrice   float64
	AlertType     string
	CustomMessage string
}

// Notifier dispatches one notification. Channel names the transport as it
// should appear in the alert's notification history.
type Notifier interface {
	Channel() string
	Notify(ctx context.Context, n Notification) error
}

// Message renders the default notification text used when the alert carries
// no custom message.
func Message(n Notification) string {
	if n.CustomMessage != "" {
		return n.CustomMessage
	}
	return fmt.Sprintf("Price alert: %s is now ₹%.2f (target ₹%.2f)", n.ProductName, n.CurrentPrice, n.TargetPrice)
}

// LogNotifier is the fallback channel when no transport is configured; it
// only records intent via the provided logging function.
type LogNotifier struct {
	Infof func(format string, args ...interface{})
}

func (l *LogNotifier) Channel() string { return "push" }

func (l *LogNotifier) Notify(ctx context.Context, n Notification) error {
	if l.Infof != nil {
		l.Infof("notification for %s: %s", n.UserRef, Message(n))
	}
	return nil
}

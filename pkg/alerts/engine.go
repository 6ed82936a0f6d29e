// Package alerts runs the periodic price-watch evaluation cycle.
package alerts

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/IshwariGadewar/SmartBasket/pkg/notify"
	"github.com/IshwariGadewar/SmartBasket/pkg/storage"
)

// Logger abstracts logging so callers can use logrus, stdlib log, or any
// other logger that satisfies this interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// nopLogger silently discards all messages.
type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}

// ShouldTrigger is the pure trigger predicate. Inactive alerts never
// trigger; stock_available and custom alerts have no trigger policy yet and
// never fire.
func ShouldTrigger(a storage.Alert, currentPrice float64) bool {
	if !a.IsActive {
		return false
	}
	switch a.AlertType {
	case storage.AlertPriceDrop:
		return currentPrice <= a.TargetPrice
	case storage.AlertPriceIncrease:
		return currentPrice >= a.TargetPrice
	default:
		return false
	}
}

// Engine sweeps all active alerts on a fixed schedule, transitions the ones
// whose product price crossed the target, and hands notifications off to the
// configured channel.
type Engine struct {
	DB       *storage.DB
	Notifier notify.Notifier
	Interval time.Duration // defaults to 1h if <= 0
	Log      Logger        // optional; nil = no logging

	sweeping atomic.Bool
}

// Run blocks until ctx is cancelled, sweeping once immediately and then on
// every tick. A tick arriving while the previous sweep is still in flight is
// skipped; two cycles never run concurrently.
func (e *Engine) Run(ctx context.Context) {
	log := e.logger()
	interval := e.Interval
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Infof("alert engine started, sweeping every %v", interval)
	e.trySweep(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Infof("alert engine stopping")
			return
		case <-ticker.C:
			e.trySweep(ctx)
		}
	}
}

func (e *Engine) trySweep(ctx context.Context) {
	if !e.sweeping.CompareAndSwap(false, true) {
		e.logger().Warnf("previous sweep still running, skipping this cycle")
		return
	}
	defer e.sweeping.Store(false)
	e.Sweep(ctx)
}

// Sweep evaluates every active alert against its product's latest price.
// Failures are isolated per alert: one bad record is logged and skipped,
// never aborting the rest of the cycle.
func (e *Engine) Sweep(ctx context.Context) {
	log := e.logger()

	active, err := e.DB.ListActiveAlerts(ctx)
	if err != nil {
		log.Errorf("sweep: could not list active alerts: %v", err)
		return
	}
	log.Debugf("sweep: evaluating %d active alerts", len(active))

	for _, aa := range active {
		if err := e.evaluateOne(ctx, aa); err != nil {
			log.Warnf("sweep: alert %d failed: %v", aa.ID, err)
		}
	}
}

func (e *Engine) evaluateOne(ctx context.Context, aa storage.ActiveAlert) error {
	log := e.logger()

	if !ShouldTrigger(aa.Alert, aa.CurrentPrice) {
		return e.DB.TouchAlert(ctx, aa.ID)
	}

	won, err := e.DB.MarkTriggered(ctx, aa.ID)
	if err != nil {
		return err
	}
	if !won {
		// Another cycle got there first.
		return nil
	}
	log.Infof("alert %d triggered: %s at %.2f (target %.2f)", aa.ID, aa.ProductName, aa.CurrentPrice, aa.TargetPrice)

	if e.Notifier == nil {
		return nil
	}

	// Dispatch is fire-and-forget; delivery failures belong to the channel.
	// We still record the outcome in the alert's notification history.
	n := notify.Notification{
		UserRef:       aa.UserRef,
		ProductName:   aa.ProductName,
		CurrentPrice:  aa.CurrentPrice,
		TargetPrice:   aa.TargetPrice,
		AlertType:     aa.AlertType,
		CustomMessage: aa.CustomMessage,
	}
	status := storage.NotificationSent
	if err := e.Notifier.Notify(ctx, n); err != nil {
		log.Warnf("notification for alert %d failed: %v", aa.ID, err)
		status = storage.NotificationFailed
	}
	if err := e.DB.AppendNotification(ctx, aa.ID, e.Notifier.Channel(), status); err != nil {
		log.Warnf("could not record notification for alert %d: %v", aa.ID, err)
	}
	return nil
}

func (e *Engine) logger() Logger {
	if e.Log == nil {
		return nopLogger{}
	}
	return e.Log
}

package alerts

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/IshwariGadewar/SmartBasket/pkg/catalog"
	"github.com/IshwariGadewar/SmartBasket/pkg/notify"
	"github.com/IshwariGadewar/SmartBasket/pkg/storage"
)

func TestShouldTrigger(t *testing.T) {
	tests := []struct {
		name      string
		alertType string
		target    float64
		active    bool
		price     float64
		want      bool
	}{
		{"drop at target", storage.AlertPriceDrop, 80, true, 80, true},
		{"drop below target", storage.AlertPriceDrop, 80, true, 79, true},
		{"drop above target", storage.AlertPriceDrop, 80, true, 81, false},
		{"increase at target", storage.AlertPriceIncrease, 50, true, 50, true},
		{"increase above target", storage.AlertPriceIncrease, 50, true, 51, true},
		{"increase below target", storage.AlertPriceIncrease, 50, true, 49, false},
		{"inactive never fires", storage.AlertPriceDrop, 80, false, 10, false},
		{"stock alerts have no policy", storage.AlertStockAvailable, 80, true, 10, false},
		{"custom alerts have no policy", storage.AlertCustom, 80, true, 10, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := storage.Alert{AlertType: tc.alertType, TargetPrice: tc.target, IsActive: tc.active}
			if got := ShouldTrigger(a, tc.price); got != tc.want {
				t.Errorf("ShouldTrigger(%s, %.0f) = %v, want %v", tc.alertType, tc.price, got, tc.want)
			}
		})
	}
}

type recordingNotifier struct {
	sent []notify.Notification
	err  error
}

func (r *recordingNotifier) Channel() string { return "push" }

func (r *recordingNotifier) Notify(ctx context.Context, n notify.Notification) error {
	r.sent = append(r.sent, n)
	return r.err
}

func newTestDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedProduct(t *testing.T, db *storage.DB, price float64) int64 {
	t.Helper()
	id, err := db.UpsertListing(context.Background(), catalog.Listing{
		Platform:    catalog.PlatformAmazon,
		Name:        "Fresh Banana 1kg",
		Price:       price,
		SearchQuery: "banana",
		AreaCode:    "110001",
		ScrapedAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return id
}

func TestSweepTriggersAndNotifies(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	productID := seedProduct(t, db, 75)
	alertID, err := db.CreateAlert(ctx, storage.Alert{
		UserRef: "user-1", ProductID: productID, TargetPrice: 80, AlertType: storage.AlertPriceDrop,
	})
	if err != nil {
		t.Fatalf("create alert: %v", err)
	}

	notifier := &recordingNotifier{}
	engine := &Engine{DB: db, Notifier: notifier}

	engine.Sweep(ctx)

	if len(notifier.sent) != 1 {
		t.Fatalf("got %d notifications, want 1", len(notifier.sent))
	}
	if notifier.sent[0].ProductName != "Fresh Banana 1kg" || notifier.sent[0].CurrentPrice != 75 {
		t.Errorf("notification = %+v", notifier.sent[0])
	}

	alerts, err := db.ListAlertsByUser(ctx, "user-1")
	if err != nil || len(alerts) != 1 {
		t.Fatalf("list alerts: %v (%d)", err, len(alerts))
	}
	a := alerts[0]
	if a.IsActive {
		t.Error("triggered alert should be inactive")
	}
	if a.TriggeredAt == nil {
		t.Error("triggered alert should carry a trigger timestamp")
	}
	if !a.NotificationSent {
		t.Error("triggered alert should be marked notified")
	}

	recs, err := db.ListNotifications(ctx, alertID)
	if err != nil || len(recs) != 1 {
		t.Fatalf("notification history: %v (%d)", err, len(recs))
	}
	if recs[0].Channel != "push" || recs[0].Status != storage.NotificationSent {
		t.Errorf("history record = %+v", recs[0])
	}
}

func TestSweepDoesNotRetrigger(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	productID := seedProduct(t, db, 75)
	if _, err := db.CreateAlert(ctx, storage.Alert{
		UserRef: "user-1", ProductID: productID, TargetPrice: 80, AlertType: storage.AlertPriceDrop,
	}); err != nil {
		t.Fatalf("create alert: %v", err)
	}

	notifier := &recordingNotifier{}
	engine := &Engine{DB: db, Notifier: notifier}

	engine.Sweep(ctx)
	engine.Sweep(ctx)

	if len(notifier.sent) != 1 {
		t.Fatalf("alert fired %d times, want once", len(notifier.sent))
	}
}

func TestSweepLeavesUncrossedAlertsActive(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	productID := seedProduct(t, db, 95)
	if _, err := db.CreateAlert(ctx, storage.Alert{
		UserRef: "user-1", ProductID: productID, TargetPrice: 80, AlertType: storage.AlertPriceDrop,
	}); err != nil {
		t.Fatalf("create alert: %v", err)
	}

	notifier := &recordingNotifier{}
	engine := &Engine{DB: db, Notifier: notifier}
	engine.Sweep(ctx)

	if len(notifier.sent) != 0 {
		t.Fatalf("alert fired with price above target: %+v", notifier.sent)
	}
	alerts, _ := db.ListAlertsByUser(ctx, "user-1")
	if len(alerts) != 1 || !alerts[0].IsActive {
		t.Fatalf("alert should remain active: %+v", alerts)
	}
}

func TestSweepRecordsFailedDelivery(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	productID := seedProduct(t, db, 75)
	alertID, err := db.CreateAlert(ctx, storage.Alert{
		UserRef: "user-1", ProductID: productID, TargetPrice: 80, AlertType: storage.AlertPriceDrop,
	})
	if err != nil {
		t.Fatalf("create alert: %v", err)
	}

	notifier := &recordingNotifier{err: errors.New("channel down")}
	engine := &Engine{DB: db, Notifier: notifier}
	engine.Sweep(ctx)

	recs, err := db.ListNotifications(ctx, alertID)
	if err != nil || len(recs) != 1 {
		t.Fatalf("notification history: %v (%d)", err, len(recs))
	}
	if recs[0].Status != storage.NotificationFailed {
		t.Errorf("status = %s, want failed", recs[0].Status)
	}
}

func TestTrySweepSkipsOverlap(t *testing.T) {
	db := newTestDB(t)
	engine := &Engine{DB: db}

	engine.sweeping.Store(true)
	done := make(chan struct{})
	go func() {
		engine.trySweep(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("trySweep blocked instead of skipping the overlapping cycle")
	}
	if !engine.sweeping.Load() {
		t.Error("skipped cycle must not clear the in-flight flag")
	}
}

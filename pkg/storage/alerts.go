package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateAlert stores a new price watch. Zero-value type and frequency get
// the defaults (price_drop, immediate).
func (d *DB) CreateAlert(ctx context.Context, a Alert) (int64, error) {
	if a.UserRef == "" || a.ProductID == 0 {
		return 0, errors.New("alert requires a user and a product")
	}
	if a.TargetPrice < 0 {
		return 0, errors.New("target price must be non-negative")
	}
	if a.AlertType == "" {
		a.AlertType = AlertPriceDrop
	}
	if a.Frequency == "" {
		a.Frequency = FrequencyImmediate
	}
	if len(a.CustomMessage) > 200 {
		return 0, errors.New("custom message exceeds 200 characters")
	}

	res, err := d.sql.ExecContext(ctx,
		`INSERT INTO alerts(user_ref, product_id, target_price, alert_type, custom_message, frequency) VALUES (?,?,?,?,?,?)`,
		a.UserRef, a.ProductID, a.TargetPrice, a.AlertType, a.CustomMessage, a.Frequency)
	if err != nil {
		return 0, fmt.Errorf("create alert: %w", err)
	}
	return res.LastInsertId()
}

// ListAlertsByUser returns a user's alerts, newest first.
func (d *DB) ListAlertsByUser(ctx context.Context, userRef string) ([]Alert, error) {
	rows, err := d.sql.QueryContext(ctx, alertColumns+` WHERE user_ref = ? ORDER BY created_at DESC, id DESC`, userRef)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAlerts(rows)
}

// ListActiveAlerts returns every active alert joined with its linked
// product's current price. Alerts whose product row has gone missing are
// excluded; the sweep treats absence as a skip, not a failure.
func (d *DB) ListActiveAlerts(ctx context.Context) ([]ActiveAlert, error) {
	rows, err := d.sql.QueryContext(ctx, `SELECT a.id, a.user_ref, a.product_id, a.target_price, a.alert_type,
a.is_active, a.notification_sent, a.last_checked, a.created_at, a.triggered_at, a.custom_message, a.frequency,
p.name, p.price
FROM alerts a JOIN products p ON p.id = a.product_id
WHERE a.is_active = 1 ORDER BY a.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ActiveAlert
	for rows.Next() {
		var aa ActiveAlert
		if err := scanAlertFields(rows, &aa.Alert, &aa.ProductName, &aa.CurrentPrice); err != nil {
			return nil, err
		}
		out = append(out, aa)
	}
	return out, rows.Err()
}

// MarkTriggered transitions an alert to its terminal state: triggered
// timestamp set, notification marked, active cleared. The is_active guard in
// the predicate makes the transition race-free if sweeps ever overlap; the
// return value reports whether this call won the transition.
func (d *DB) MarkTriggered(ctx context.Context, alertID int64) (bool, error) {
	now := time.Now().UTC().Format(sqliteTimeLayout)
	res, err := d.sql.ExecContext(ctx,
		`UPDATE alerts SET triggered_at = ?, notification_sent = 1, is_active = 0, last_checked = ? WHERE id = ? AND is_active = 1`,
		now, now, alertID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// TouchAlert records a sweep visit that did not trigger.
func (d *DB) TouchAlert(ctx context.Context, alertID int64) error {
	_, err := d.sql.ExecContext(ctx, `UPDATE alerts SET last_checked = ? WHERE id = ?`, sqliteNow(), alertID)
	return err
}

// SetAlertActive flips a user's alert on or off. Reactivating clears the
// triggered state, so the alert becomes eligible to fire again on the next
// crossing.
func (d *DB) SetAlertActive(ctx context.Context, alertID int64, active bool) error {
	var res sql.Result
	var err error
	if active {
		res, err = d.sql.ExecContext(ctx,
			`UPDATE alerts SET is_active = 1, triggered_at = NULL, notification_sent = 0 WHERE id = ?`, alertID)
	} else {
		res, err = d.sql.ExecContext(ctx, `UPDATE alerts SET is_active = 0 WHERE id = ?`, alertID)
	}
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAlert removes an alert and its notification history.
func (d *DB) DeleteAlert(ctx context.Context, alertID int64, userRef string) error {
	res, err := d.sql.ExecContext(ctx, `DELETE FROM alerts WHERE id = ? AND user_ref = ?`, alertID, userRef)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendNotification records one notification-dispatch outcome for an alert.
func (d *DB) AppendNotification(ctx context.Context, alertID int64, channel, status string) error {
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO alert_notifications(alert_id, channel, status) VALUES (?,?,?)`,
		alertID, channel, status)
	return err
}

// ListNotifications returns an alert's notification history, oldest first.
func (d *DB) ListNotifications(ctx context.Context, alertID int64) ([]NotificationRecord, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT channel, sent_at, status FROM alert_notifications WHERE alert_id = ? ORDER BY sent_at ASC, id ASC`, alertID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []NotificationRecord
	for rows.Next() {
		var nr NotificationRecord
		var sentAt string
		if err := rows.Scan(&nr.Channel, &sentAt, &nr.Status); err != nil {
			return nil, err
		}
		nr.SentAt = parseSQLiteTime(sentAt)
		out = append(out, nr)
	}
	return out, rows.Err()
}

const alertColumns = `SELECT id, user_ref, product_id, target_price, alert_type, is_active, notification_sent,
last_checked, created_at, triggered_at, custom_message, frequency FROM alerts`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAlertFields(row rowScanner, a *Alert, extra ...interface{}) error {
	var (
		isActive, notifSent    int
		lastChecked, createdAt string
		triggeredAt            sql.NullString
	)
	dest := []interface{}{&a.ID, &a.UserRef, &a.ProductID, &a.TargetPrice, &a.AlertType,
		&isActive, &notifSent, &lastChecked, &createdAt, &triggeredAt, &a.CustomMessage, &a.Frequency}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	a.IsActive = isActive == 1
	a.NotificationSent = notifSent == 1
	a.LastChecked = parseSQLiteTime(lastChecked)
	a.CreatedAt = parseSQLiteTime(createdAt)
	if triggeredAt.Valid {
		t := parseSQLiteTime(triggeredAt.String)
		a.TriggeredAt = &t
	}
	return nil
}

func scanAlerts(rows *sql.Rows) ([]Alert, error) {
	var out []Alert
	for rows.Next() {
		var a Alert
		if err := scanAlertFields(rows, &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

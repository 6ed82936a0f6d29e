package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"

	"github.com/IshwariGadewar/SmartBasket/pkg/catalog"
	"github.com/IshwariGadewar/SmartBasket/pkg/normalize"
)

// maxPriceHistory bounds the retained price observations per product.
// Oldest entries are evicted first.
const maxPriceHistory = 30

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// sqliteTimeLayout matches CURRENT_TIMESTAMP so stored times stay uniform
// and lexicographically comparable.
const sqliteTimeLayout = "2006-01-02 15:04:05"

func sqliteNow() string {
	return time.Now().UTC().Format(sqliteTimeLayout)
}

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS products (
  id               INTEGER PRIMARY KEY,
  platform         TEXT NOT NULL,
  name             TEXT NOT NULL,
  price            REAL NOT NULL CHECK (price >= 0),
  original_price   REAL NOT NULL DEFAULT 0,
  delivery_charges REAL NOT NULL DEFAULT 0,
  delivery_time    TEXT NOT NULL DEFAULT '1-2 days',
  url              TEXT NOT NULL DEFAULT '',
  image_url        TEXT,
  rating           REAL NOT NULL DEFAULT 0 CHECK (rating >= 0 AND rating <= 5),
  review_count     INTEGER NOT NULL DEFAULT 0,
  discount         INTEGER NOT NULL DEFAULT 0 CHECK (discount >= 0 AND discount <= 100),
  in_stock         INTEGER NOT NULL DEFAULT 1 CHECK (in_stock IN (0,1)),
  quantity         TEXT NOT NULL DEFAULT '1 unit',
  search_query     TEXT NOT NULL,
  area_code        TEXT NOT NULL,
  scraped_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(platform, search_query, area_code, name)
);
CREATE INDEX IF NOT EXISTS idx_products_query ON products(search_query, platform, area_code);
CREATE INDEX IF NOT EXISTS idx_products_scraped ON products(scraped_at);
CREATE TABLE IF NOT EXISTS price_history (
  id          INTEGER PRIMARY KEY,
  product_id  INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  price       REAL NOT NULL,
  observed_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_history_product ON price_history(product_id, observed_at);
CREATE TABLE IF NOT EXISTS alerts (
  id                INTEGER PRIMARY KEY,
  user_ref          TEXT NOT NULL,
  product_id        INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  target_price      REAL NOT NULL CHECK (target_price >= 0),
  alert_type        TEXT NOT NULL CHECK (alert_type IN ('price_drop','price_increase','stock_available','custom')),
  is_active         INTEGER NOT NULL DEFAULT 1 CHECK (is_active IN (0,1)),
  notification_sent INTEGER NOT NULL DEFAULT 0 CHECK (notification_sent IN (0,1)),
  last_checked      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  triggered_at      DATETIME,
  custom_message    TEXT NOT NULL DEFAULT '' CHECK (length(custom_message) <= 200),
  frequency         TEXT NOT NULL DEFAULT 'immediate' CHECK (frequency IN ('immediate','daily','weekly'))
);
CREATE INDEX IF NOT EXISTS idx_alerts_user ON alerts(user_ref, is_active);
CREATE INDEX IF NOT EXISTS idx_alerts_checked ON alerts(last_checked);
CREATE TABLE IF NOT EXISTS alert_notifications (
  id       INTEGER PRIMARY KEY,
  alert_id INTEGER NOT NULL REFERENCES alerts(id) ON DELETE CASCADE,
  channel  TEXT NOT NULL,
  sent_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  status   TEXT NOT NULL CHECK (status IN ('sent','failed','pending'))
);
    `); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// UpsertListing persists one captured listing. Product identity is
// platform+query+area+name; a repeat capture with a changed price appends the
// previous price to the history, trims the history to the newest 30 entries,
// sets the new price, and recomputes the discount from the original price.
// The whole sequence runs in one transaction so concurrent searches updating
// the same product cannot interleave it.
func (d *DB) UpsertListing(ctx context.Context, l catalog.Listing) (int64, error) {
	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var (
		id       int64
		oldPrice float64
	)
	row := tx.QueryRowContext(ctx,
		`SELECT id, price FROM products WHERE platform = ? AND search_query = ? AND area_code = ? AND name = ?`,
		l.Platform, l.SearchQuery, l.AreaCode, l.Name)
	switch err = row.Scan(&id, &oldPrice); {
	case errors.Is(err, sql.ErrNoRows):
		var res sql.Result
		res, err = tx.ExecContext(ctx, `INSERT INTO products
(platform, name, price, original_price, delivery_charges, delivery_time, url, image_url, rating, review_count, discount, in_stock, quantity, search_query, area_code, scraped_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			l.Platform, l.Name, l.Price, l.OriginalPrice, l.DeliveryCharges, l.DeliveryTime,
			l.URL, nullIfEmpty(l.ImageURL), l.Rating, l.ReviewCount, l.Discount, boolToInt(l.InStock),
			l.Quantity, l.SearchQuery, l.AreaCode, l.ScrapedAt.UTC().Format(sqliteTimeLayout))
		if err != nil {
			return 0, err
		}
		if id, err = res.LastInsertId(); err != nil {
			return 0, err
		}
	case err != nil:
		return 0, err
	default:
		if err = recordPriceTx(ctx, tx, id, oldPrice, l); err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// recordPriceTx applies the ledger update for an already-stored product:
// append the pre-update price, trim, then overwrite with the new capture.
func recordPriceTx(ctx context.Context, tx *sql.Tx, id int64, oldPrice float64, l catalog.Listing) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO price_history(product_id, price, observed_at) VALUES (?,?,?)`,
		id, oldPrice, sqliteNow()); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM price_history WHERE product_id = ? AND id NOT IN
(SELECT id FROM price_history WHERE product_id = ? ORDER BY observed_at DESC, id DESC LIMIT ?)`,
		id, id, maxPriceHistory); err != nil {
		return err
	}

	discount := normalize.DiscountPercent(l.OriginalPrice, l.Price)
	_, err := tx.ExecContext(ctx, `UPDATE products SET
price = ?, original_price = ?, delivery_charges = ?, delivery_time = ?, url = ?, image_url = ?,
rating = ?, review_count = ?, discount = ?, in_stock = ?, quantity = ?, scraped_at = ?
WHERE id = ?`,
		l.Price, l.OriginalPrice, l.DeliveryCharges, l.DeliveryTime, l.URL, nullIfEmpty(l.ImageURL),
		l.Rating, l.ReviewCount, discount, boolToInt(l.InStock), l.Quantity, l.ScrapedAt.UTC().Format(sqliteTimeLayout), id)
	return err
}

// GetProduct returns one stored product with its price history, oldest first.
func (d *DB) GetProduct(ctx context.Context, id int64) (*Product, error) {
	row := d.sql.QueryRowContext(ctx, `SELECT id, platform, name, price, original_price, delivery_charges,
delivery_time, url, image_url, rating, review_count, discount, in_stock, quantity, search_query, area_code, scraped_at
FROM products WHERE id = ?`, id)

	var p Product
	var imageNS sql.NullString
	var inStock int
	var scrapedAt string
	err := row.Scan(&p.ID, &p.Platform, &p.Name, &p.Price, &p.OriginalPrice, &p.DeliveryCharges,
		&p.DeliveryTime, &p.URL, &imageNS, &p.Rating, &p.ReviewCount, &p.Discount, &inStock,
		&p.Quantity, &p.SearchQuery, &p.AreaCode, &scrapedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.ImageURL = imageNS.String
	p.InStock = inStock == 1
	p.ScrapedAt = parseSQLiteTime(scrapedAt)

	p.PriceHistory, err = d.GetPriceHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPriceHistory returns the retained price observations for a product in
// chronological order.
func (d *DB) GetPriceHistory(ctx context.Context, productID int64) ([]PricePoint, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT price, observed_at FROM price_history WHERE product_id = ? ORDER BY observed_at ASC, id ASC`,
		productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PricePoint
	for rows.Next() {
		var pp PricePoint
		var observedAt string
		if err := rows.Scan(&pp.Price, &observedAt); err != nil {
			return nil, err
		}
		pp.Timestamp = parseSQLiteTime(observedAt)
		out = append(out, pp)
	}
	return out, rows.Err()
}

// PruneStale deletes products not re-captured within maxAge, along with
// their history and alerts via cascade. Returns the number removed.
func (d *DB) PruneStale(ctx context.Context, maxAge time.Duration) (int64, error) {
	res, err := d.sql.ExecContext(ctx, `DELETE FROM products WHERE scraped_at < ?`,
		time.Now().UTC().Add(-maxAge).Format(sqliteTimeLayout))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func parseSQLiteTime(s string) time.Time {
	// SQLite CURRENT_TIMESTAMP format first, then the driver's RFC3339 forms.
	for _, layout := range []string{sqliteTimeLayout, time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"surplus-restock-notifier/internal/model"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/shopspring/decimal"
)

// MySQLSourceRepository implements SourceRepository against MySQL.
type MySQLSourceRepository struct {
	db *sql.DB
}

// NewMySQLSourceRepository opens a MySQL connection pool.
// dsn format: "user:password@tcp(host:port)/dbname?parseTime=true"
func NewMySQLSourceRepository(dsn string) (*MySQLSourceRepository, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL: %w", err)
	}

	db.SetMaxOpenConns(12)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	if err := createLedgerTableMySQL(db); err != nil {
		return nil, fmt.Errorf("failed to create ledger table: %w", err)
	}

	log.Printf("[MySQLSourceRepository] Initialized")
	return &MySQLSourceRepository{db: db}, nil
}

func createLedgerTableMySQL(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS restock_ledger (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		run_id VARCHAR(36) NOT NULL,
		sku VARCHAR(64) NOT NULL,
		refurbished_price DECIMAL(12,2) NOT NULL,
		used_price DECIMAL(12,2) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
	_, err := db.Exec(query)
	return err
}

// PickEvents returns pick transactions in [start, end) that emptied the
// refurbished stock of a sku.
func (r *MySQLSourceRepository) PickEvents(ctx context.Context, start, end time.Time) ([]model.PickEvent, error) {
	query := `
		SELECT transaction_date,
		       sku,
		       quantity,
		       quantity_before,
		       quantity_after
		FROM surplus_metrics_data
		WHERE transaction_type = 'Pick'
		  AND sku LIKE '%-3'
		  AND quantity_after = 0
		  AND transaction_date >= ?
		  AND transaction_date < ?`

	rows, err := r.db.QueryContext(ctx, query, start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to query pick events: %w", err)
	}
	defer rows.Close()

	var events []model.PickEvent
	for rows.Next() {
		var e model.PickEvent
		if err := rows.Scan(&e.Date, &e.Sku, &e.Quantity, &e.QuantityBefore, &e.QuantityAfter); err != nil {
			return nil, fmt.Errorf("failed to scan pick event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pick events: %w", err)
	}
	return events, nil
}

// ComponentBySku retrieves a single component row by exact sku.
func (r *MySQLSourceRepository) ComponentBySku(ctx context.Context, sku string) (*model.Component, error) {
	query := `SELECT retail_price, quantity, sku FROM components WHERE sku = ?`

	var (
		c     model.Component
		price string
	)
	err := r.db.QueryRowContext(ctx, query, sku).Scan(&price, &c.Quantity, &c.Sku)
	if err == sql.ErrNoRows {
		return nil, ErrComponentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query component %s: %w", sku, err)
	}

	c.RetailPrice, err = decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("failed to parse retail price for %s: %w", sku, err)
	}
	return &c, nil
}

// InsertRestock appends one ledger row.
func (r *MySQLSourceRepository) InsertRestock(ctx context.Context, runID string, entry model.RestockEntry) error {
	query := `
		INSERT INTO restock_ledger (run_id, sku, refurbished_price, used_price)
		VALUES (?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, runID, entry.Sku,
		entry.RefurbishedPrice.StringFixed(2), entry.UsedPrice.StringFixed(2))
	if err != nil {
		return fmt.Errorf("failed to insert restock ledger row for %s: %w", entry.Sku, err)
	}
	return nil
}

// Close closes the connection pool.
func (r *MySQLSourceRepository) Close() error {
	return r.db.Close()
}

package repository

import (
	"context"
	"time"

	"surplus-restock-notifier/internal/model"
)

// RepositoryError is a typed error for data access operations.
type RepositoryError string

func (e RepositoryError) Error() string { return string(e) }

const (
	// ErrComponentNotFound indicates no component row exists for the sku.
	ErrComponentNotFound RepositoryError = "component not found"
)

// PickEventRepository reads pick transactions from the surplus metrics table.
type PickEventRepository interface {
	// PickEvents returns pick transactions in [start, end) that emptied the
	// refurbished stock of a sku. End is exclusive; bounds are passed to the
	// source as calendar-date strings.
	PickEvents(ctx context.Context, start, end time.Time) ([]model.PickEvent, error)
}

// ComponentRepository reads component rows by exact sku.
type ComponentRepository interface {
	// ComponentBySku retrieves a single component. Returns ErrComponentNotFound
	// when no row matches.
	ComponentBySku(ctx context.Context, sku string) (*model.Component, error)
}

// RestockLedger appends one audit row per dispatched restock candidate.
type RestockLedger interface {
	// InsertRestock writes a single ledger row tagged with the run ID.
	InsertRestock(ctx context.Context, runID string, entry model.RestockEntry) error
}

// SourceRepository bundles the three data source operations a run needs.
type SourceRepository interface {
	PickEventRepository
	ComponentRepository
	RestockLedger

	// Close closes the underlying connection pool.
	Close() error
}

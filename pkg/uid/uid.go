// Package uid generates the identifiers that correlate one run's log lines
// with its ledger rows.
package uid

import "github.com/google/uuid"

// New generates a new unique identifier.
func New() string {
	return uuid.New().String()
}

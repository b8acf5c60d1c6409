package model

import "time"

// PickEvent represents a pick transaction that emptied the refurbished-condition
// stock of a sku. Sourced from the surplus metrics table; immutable.
type PickEvent struct {
	Date           time.Time `json:"transaction_date"`
	Sku            string    `json:"sku"`
	Quantity       int64     `json:"quantity"`
	QuantityBefore int64     `json:"quantity_before"`
	QuantityAfter  int64     `json:"quantity_after"`
}

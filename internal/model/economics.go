package model

import "github.com/shopspring/decimal"

// Component is a raw row from the components table.
type Component struct {
	Sku         string          `json:"sku"`
	Quantity    int64           `json:"quantity"`
	RetailPrice decimal.Decimal `json:"retail_price"`
}

// ComponentEconomics pairs a used-condition component with the refurbished-condition
// sku whose stock was depleted. Sku holds the used variant; RefurbishedSku holds the
// originating pick event's sku.
type ComponentEconomics struct {
	Sku                     string          `json:"sku"`
	Quantity                int64           `json:"quantity"`
	RetailPrice             decimal.Decimal `json:"retail_price"`
	RefurbishedSku          string          `json:"refurbished_sku"`
	RefurbishedRetailPrice  decimal.Decimal `json:"refurbished_retail_price"`
	PotentialRevenuePerItem decimal.Decimal `json:"potential_revenue_per_item"`
}

// RestockEntry is one append-only ledger row, written per dispatched candidate.
type RestockEntry struct {
	Sku              string          `json:"sku"`
	RefurbishedPrice decimal.Decimal `json:"refurbished_price"`
	UsedPrice        decimal.Decimal `json:"used_price"`
}

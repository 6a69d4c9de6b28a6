package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog entry. Optional columns are modeled so that
// "absent" and "empty" never collapse into each other.
type Product struct {
	ID           int64               `json:"id"`
	ExternalID   *string             `json:"external_id,omitempty"`
	Title        string              `json:"title"`
	Price        decimal.NullDecimal `json:"price"`
	URL          *string             `json:"url,omitempty"`
	VariantsJSON json.RawMessage     `json:"variants,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// UntitledProduct is stored when a title is blank on update or missing in the feed.
const UntitledProduct = "Untitled"

// IsImported reports whether the row is keyed by an external feed id.
func (p Product) IsImported() bool {
	return p.ExternalID != nil
}

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
)

// FixedValidityNote is stamped onto every product created through spreadsheet
// import.
const FixedValidityNote = "Must be activated within 30 days of purchase"

// Variant is one purchasable configuration under a product. Variants have no
// identity outside their parent document: they are created in bulk on import,
// replaced wholesale on re-import and removed only with the product itself.
type Variant struct {
	ID          int64   `json:"id"`
	Label       string  `json:"label"`
	Days        int     `json:"days"`
	TypeLimit   string  `json:"type_limit"`
	UnitLimit   string  `json:"unit_limit"`
	AmountLimit float64 `json:"amount_limit"`
	Price       float64 `json:"price"`
	SKU         string  `json:"sku"`
}

// VariantGroups is the ordered variant list of a product, stored as a JSONB
// column. Order is significant: it is the order variants appeared in the
// import file and the order rows are emitted on flatten.
type VariantGroups []Variant

// Value implements driver.Valuer. NaN values produced by lenient numeric
// coercion during import cannot be encoded as JSON; the resulting error
// surfaces as that document's write failure in the bulk report.
func (v VariantGroups) Value() (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode variant_groups: %w", err)
	}
	return b, nil
}

// Scan implements sql.Scanner for JSONB columns.
func (v *VariantGroups) Scan(src any) error {
	switch t := src.(type) {
	case nil:
		*v = nil
		return nil
	case []byte:
		return json.Unmarshal(t, v)
	case string:
		return json.Unmarshal([]byte(t), v)
	default:
		return fmt.Errorf("unsupported variant_groups source type %T", src)
	}
}

// Product is a catalog document keyed by product_id. Every persisted product
// carries at least one variant; a product with none flattens to zero rows
// and is never written by the import pipeline.
type Product struct {
	ProductID     string         `db:"product_id" json:"product_id" validate:"required"`
	Name          string         `db:"name" json:"name"`
	Type          string         `db:"type" json:"type"`
	Country       pq.StringArray `db:"country" json:"country"`
	Priority      string         `db:"priority" json:"priority"`
	ValidityNote  string         `db:"validity_note" json:"validity_note"`
	VariantGroups VariantGroups  `db:"variant_groups" json:"variant_groups" validate:"min=1"`
}

// CatalogRow is the transient flattened (product, variant) pair used for
// tabular display and export. It is never persisted.
type CatalogRow struct {
	ProductID    string   `json:"product_id"`
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Country      []string `json:"country"`
	Priority     string   `json:"priority"`
	ValidityNote string   `json:"validity_note"`

	VariantID   int64   `json:"id"`
	Label       string  `json:"label"`
	Days        int     `json:"days"`
	TypeLimit   string  `json:"type_limit"`
	UnitLimit   string  `json:"unit_limit"`
	AmountLimit float64 `json:"amount_limit"`
	Price       float64 `json:"price"`
	SKU         string  `json:"sku"`
}

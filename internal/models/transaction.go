package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// LineItem is one purchased variant within a transaction.
type LineItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	SKU         string  `json:"sku"`
	Label       string  `json:"label"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Total       float64 `json:"total"`
	VariantID   int64   `json:"variant_id"`
}

// LineItems is the ordered item list of a transaction, stored as JSONB.
type LineItems []LineItem

// Value implements driver.Valuer.
func (l LineItems) Value() (driver.Value, error) {
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}
	return b, nil
}

// Scan implements sql.Scanner for JSONB columns.
func (l *LineItems) Scan(src any) error {
	switch t := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(t, l)
	case string:
		return json.Unmarshal([]byte(t), l)
	default:
		return fmt.Errorf("unsupported items source type %T", src)
	}
}

// Transaction is a purchase record written by the storefront, read-only from
// this system's perspective.
type Transaction struct {
	ID            string    `db:"id" json:"id" validate:"required"`
	OrderID       string    `db:"order_id" json:"order_id"`
	UserID        string    `db:"user_id" json:"user_id"`
	Email         string    `db:"email" json:"email"`
	TotalPrice    float64   `db:"total_price" json:"total_price"`
	PaymentMethod string    `db:"payment_method" json:"payment_method"`
	Status        string    `db:"status" json:"status"`
	Timestamp     time.Time `db:"created_at" json:"timestamp"`
	Items         LineItems `db:"items" json:"items"`
}

// TransactionRow is the transient flattened (transaction, line item) pair
// used for tabular display and export. A transaction with no items
// contributes no rows.
type TransactionRow struct {
	TransactionID string    `json:"transaction_id"`
	OrderID       string    `json:"order_id"`
	UserID        string    `json:"user_id"`
	Email         string    `json:"email"`
	TotalPrice    float64   `json:"total_price"`
	PaymentMethod string    `json:"payment_method"`
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`

	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	SKU         string  `json:"sku"`
	Label       string  `json:"label"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Total       float64 `json:"total"`
	VariantID   int64   `json:"variant_id"`
}

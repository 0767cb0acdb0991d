package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bayuahr/storefront-admin/internal/models"
	"github.com/bayuahr/storefront-admin/pkg/spreadsheet"
)

// ErrInvalidCountryField is returned when a country cell does not contain a
// JSON-encoded array of strings.
var ErrInvalidCountryField = errors.New("invalid country field: expected JSON array of strings")

// NormalizeProducts groups flat import rows (one row per variant) into
// products keyed by product_id. It returns the grouped products and the
// product ids in first-seen order.
//
// The first row for a product id fixes every product-scoped field; later
// rows for the same id only append variants. Variant order equals row order
// in the source file and duplicate variant ids are preserved.
func NormalizeProducts(rows []*spreadsheet.Row) (map[string]*models.Product, []string, error) {
	products := make(map[string]*models.Product, len(rows))
	order := make([]string, 0, len(rows))

	for i, row := range rows {
		productID := row.String("product_id")
		label := row.String("label")

		variant := models.Variant{
			ID:          cellInt64(row, "id"),
			Label:       label,
			Days:        int(cellInt64(row, "days")),
			TypeLimit:   row.String("type_limit"),
			UnitLimit:   row.String("unit_limit"),
			AmountLimit: cellNumberDefault(row, "amount_limit", 0),
			Price:       cellNumber(row, "price"),
			SKU:         row.String("sku"),
		}

		if existing, ok := products[productID]; ok {
			existing.VariantGroups = append(existing.VariantGroups, variant)
			continue
		}

		country, err := parseCountry(row.String("country"))
		if err != nil {
			return nil, nil, fmt.Errorf("row %d (product %q): %w", i+1, productID, err)
		}

		products[productID] = &models.Product{
			ProductID:     productID,
			Name:          deriveName(label, productID),
			Type:          row.String("type"),
			Country:       country,
			Priority:      row.String("priority"),
			ValidityNote:  models.FixedValidityNote,
			VariantGroups: models.VariantGroups{variant},
		}
		order = append(order, productID)
	}

	return products, order, nil
}

// deriveName takes the substring of the variant label before the first "-",
// trimmed, falling back to the product id when nothing remains.
func deriveName(label, productID string) string {
	head, _, _ := strings.Cut(label, "-")
	if name := strings.TrimSpace(head); name != "" {
		return name
	}
	return productID
}

// parseCountry decodes a JSON-encoded array of country codes.
func parseCountry(cell string) ([]string, error) {
	var countries []string
	if err := json.Unmarshal([]byte(cell), &countries); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCountryField, cell)
	}
	return countries, nil
}

// cellNumber coerces a cell to float64. Missing or non-numeric cells yield
// NaN, which propagates into the in-memory record and fails that document's
// write when it cannot be encoded for storage.
func cellNumber(row *spreadsheet.Row, key string) float64 {
	v, ok := row.Get(key)
	if !ok {
		return math.NaN()
	}
	return toNumber(v)
}

// cellNumberDefault is like cellNumber but maps a missing or empty cell to
// the given default instead of NaN.
func cellNumberDefault(row *spreadsheet.Row, key string, def float64) float64 {
	v, ok := row.Get(key)
	if !ok || v == nil || v == "" {
		return def
	}
	return toNumber(v)
}

// cellInt64 coerces a cell to int64, mapping unparseable cells to 0.
func cellInt64(row *spreadsheet.Row, key string) int64 {
	v, ok := row.Get(key)
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return int64(t)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0
		}
		return n
	case bool:
		if t {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func toNumber(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return math.NaN()
		}
		return n
	case bool:
		if t {
			return 1
		}
		return 0
	default:
		return math.NaN()
	}
}

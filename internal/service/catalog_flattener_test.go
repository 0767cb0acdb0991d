package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bayuahr/storefront-admin/internal/models"
	"github.com/bayuahr/storefront-admin/pkg/spreadsheet"
)

func sampleProduct(id string, variants ...models.Variant) models.Product {
	return models.Product{
		ProductID:     id,
		Name:          "Gold",
		Type:          "esim",
		Country:       []string{"ID", "SG"},
		Priority:      "1",
		ValidityNote:  models.FixedValidityNote,
		VariantGroups: variants,
	}
}

func TestFlattenEmitsOneRowPerVariant(t *testing.T) {
	p := sampleProduct("P1",
		models.Variant{ID: 1, Label: "Gold - 30d", Days: 30, Price: 100, SKU: "S1"},
		models.Variant{ID: 2, Label: "Gold - 90d", Days: 90, Price: 250, SKU: "S2"},
	)

	rows := FlattenProducts([]models.Product{p})
	require.Len(t, rows, 2)

	for _, r := range rows {
		assert.Equal(t, "P1", r.ProductID)
		assert.Equal(t, "Gold", r.Name)
		assert.Equal(t, "esim", r.Type)
		assert.Equal(t, []string{"ID", "SG"}, r.Country)
		assert.Equal(t, "1", r.Priority)
	}
	assert.Equal(t, int64(1), rows[0].VariantID)
	assert.Equal(t, "Gold - 30d", rows[0].Label)
	assert.Equal(t, int64(2), rows[1].VariantID)
	assert.Equal(t, "Gold - 90d", rows[1].Label)
}

func TestFlattenSkipsProductsWithoutVariants(t *testing.T) {
	rows := FlattenProducts([]models.Product{sampleProduct("P1")})
	assert.Empty(t, rows)
}

func TestFlattenKeepsProductAndVariantOrder(t *testing.T) {
	products := []models.Product{
		sampleProduct("B", models.Variant{ID: 1}, models.Variant{ID: 2}),
		sampleProduct("A", models.Variant{ID: 3}),
	}

	rows := FlattenProducts(products)
	require.Len(t, rows, 3)
	assert.Equal(t, "B", rows[0].ProductID)
	assert.Equal(t, int64(1), rows[0].VariantID)
	assert.Equal(t, "B", rows[1].ProductID)
	assert.Equal(t, int64(2), rows[1].VariantID)
	assert.Equal(t, "A", rows[2].ProductID)
}

// Importing rows and flattening the result reproduces the variant-scoped
// values of the source rows, grouped by product, in the same relative order.
func TestNormalizeFlattenRoundTrip(t *testing.T) {
	src := []map[string]any{
		{"product_id": "P1", "label": "Gold - 30d", "days": 30.0, "price": 100.0, "sku": "S1", "id": 1.0},
		{"product_id": "P1", "label": "Gold - 90d", "days": 90.0, "price": 250.0, "sku": "S2", "id": 2.0},
		{"product_id": "P2", "label": "Silver - 7d", "days": 7.0, "price": 20.0, "sku": "S3", "id": 1.0},
	}

	sheetRows := make([]*spreadsheet.Row, 0, len(src))
	for _, overrides := range src {
		sheetRows = append(sheetRows, importRow(overrides))
	}

	products, order, err := NormalizeProducts(sheetRows)
	require.NoError(t, err)

	ordered := make([]models.Product, 0, len(order))
	for _, id := range order {
		ordered = append(ordered, *products[id])
	}
	flat := FlattenProducts(ordered)
	require.Len(t, flat, len(src))

	for i, want := range src {
		assert.Equal(t, want["product_id"], flat[i].ProductID)
		assert.Equal(t, want["label"], flat[i].Label)
		assert.Equal(t, int(want["days"].(float64)), flat[i].Days)
		assert.Equal(t, want["price"], flat[i].Price)
		assert.Equal(t, want["sku"], flat[i].SKU)
		assert.Equal(t, int64(want["id"].(float64)), flat[i].VariantID)
		// Product-scoped name is merged onto every row of its group.
		if want["product_id"] == "P1" {
			assert.Equal(t, "Gold", flat[i].Name)
		}
	}
}

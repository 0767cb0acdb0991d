package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bayuahr/storefront-admin/internal/models"
	"github.com/bayuahr/storefront-admin/pkg/spreadsheet"
)

func importRow(overrides map[string]any) *spreadsheet.Row {
	base := map[string]any{
		"product_id":   "P1",
		"label":        "Gold - 30d",
		"type":         "esim",
		"country":      `["ID","SG"]`,
		"priority":     1.0,
		"type_limit":   "data",
		"unit_limit":   "GB",
		"amount_limit": 5.0,
		"price":        100.0,
		"sku":          "SKU-GOLD-30",
		"days":         30.0,
		"id":           1.0,
	}
	for k, v := range overrides {
		base[k] = v
	}
	r := spreadsheet.NewRow()
	for _, k := range []string{"product_id", "label", "type", "country", "priority", "type_limit", "unit_limit", "amount_limit", "price", "sku", "days", "id"} {
		if v, ok := base[k]; ok && v != nil {
			r.Set(k, v)
		}
	}
	return r
}

func TestNormalizeGroupsVariantsByProduct(t *testing.T) {
	rows := []*spreadsheet.Row{
		importRow(map[string]any{"label": "Gold - 30d", "days": 30.0, "price": 100.0, "id": 1.0}),
		importRow(map[string]any{"label": "Gold - 90d", "days": 90.0, "price": 250.0, "id": 2.0}),
	}

	products, order, err := NormalizeProducts(rows)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, []string{"P1"}, order)

	p := products["P1"]
	require.NotNil(t, p)
	assert.Equal(t, "Gold", p.Name)
	assert.Equal(t, "esim", p.Type)
	assert.Equal(t, []string{"ID", "SG"}, []string(p.Country))
	assert.Equal(t, "1", p.Priority)
	assert.Equal(t, models.FixedValidityNote, p.ValidityNote)

	require.Len(t, p.VariantGroups, 2)
	assert.Equal(t, "Gold - 30d", p.VariantGroups[0].Label)
	assert.Equal(t, 30, p.VariantGroups[0].Days)
	assert.Equal(t, 100.0, p.VariantGroups[0].Price)
	assert.Equal(t, "Gold - 90d", p.VariantGroups[1].Label)
	assert.Equal(t, 90, p.VariantGroups[1].Days)
	assert.Equal(t, 250.0, p.VariantGroups[1].Price)
}

func TestNormalizeFirstRowWinsProductFields(t *testing.T) {
	rows := []*spreadsheet.Row{
		importRow(map[string]any{"label": "Gold - 30d", "type": "esim", "priority": 1.0}),
		importRow(map[string]any{"label": "Platinum - 90d", "type": "voucher", "priority": 9.0}),
	}

	products, _, err := NormalizeProducts(rows)
	require.NoError(t, err)

	p := products["P1"]
	require.NotNil(t, p)
	// Name derives from the first row's label only; later product-scoped
	// fields are ignored.
	assert.Equal(t, "Gold", p.Name)
	assert.Equal(t, "esim", p.Type)
	assert.Equal(t, "1", p.Priority)
	require.Len(t, p.VariantGroups, 2)
}

func TestNormalizeNameFallsBackToProductID(t *testing.T) {
	rows := []*spreadsheet.Row{
		importRow(map[string]any{"label": ""}),
	}
	products, _, err := NormalizeProducts(rows)
	require.NoError(t, err)
	assert.Equal(t, "P1", products["P1"].Name)
}

func TestNormalizeNameWithoutSeparatorUsesWholeLabel(t *testing.T) {
	rows := []*spreadsheet.Row{
		importRow(map[string]any{"label": "Starter"}),
	}
	products, _, err := NormalizeProducts(rows)
	require.NoError(t, err)
	assert.Equal(t, "Starter", products["P1"].Name)
}

func TestNormalizeInvalidCountryField(t *testing.T) {
	rows := []*spreadsheet.Row{
		importRow(map[string]any{"country": "ID, SG"}),
	}
	_, _, err := NormalizeProducts(rows)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCountryField)
}

func TestNormalizePriorityCoercedToString(t *testing.T) {
	for _, tc := range []struct {
		cell any
		want string
	}{
		{1.0, "1"},
		{"07", "07"},
		{2.5, "2.5"},
	} {
		rows := []*spreadsheet.Row{importRow(map[string]any{"priority": tc.cell})}
		products, _, err := NormalizeProducts(rows)
		require.NoError(t, err)
		assert.Equal(t, tc.want, products["P1"].Priority)
	}
}

func TestNormalizeMissingAmountLimitDefaultsToZero(t *testing.T) {
	rows := []*spreadsheet.Row{
		importRow(map[string]any{"amount_limit": nil}),
	}
	products, _, err := NormalizeProducts(rows)
	require.NoError(t, err)
	assert.Equal(t, 0.0, products["P1"].VariantGroups[0].AmountLimit)
}

func TestNormalizeNonNumericPriceYieldsNaN(t *testing.T) {
	rows := []*spreadsheet.Row{
		importRow(map[string]any{"price": "not a number"}),
	}
	products, _, err := NormalizeProducts(rows)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(products["P1"].VariantGroups[0].Price))
}

func TestNormalizePreservesDuplicateVariantIDs(t *testing.T) {
	rows := []*spreadsheet.Row{
		importRow(map[string]any{"id": 7.0, "label": "Gold - 30d"}),
		importRow(map[string]any{"id": 7.0, "label": "Gold - 90d"}),
	}
	products, _, err := NormalizeProducts(rows)
	require.NoError(t, err)

	vs := products["P1"].VariantGroups
	require.Len(t, vs, 2)
	assert.Equal(t, int64(7), vs[0].ID)
	assert.Equal(t, int64(7), vs[1].ID)
}

func TestNormalizeKeepsFirstSeenOrderAcrossProducts(t *testing.T) {
	rows := []*spreadsheet.Row{
		importRow(map[string]any{"product_id": "B"}),
		importRow(map[string]any{"product_id": "A"}),
		importRow(map[string]any{"product_id": "B"}),
	}
	_, order, err := NormalizeProducts(rows)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, order)
}

package service

import "github.com/bayuahr/storefront-admin/internal/models"

// FlattenProducts converts grouped products into flat display rows, one per
// (product, variant) pair, replicating the product's scalar fields across
// its variants. Products with an empty variant list contribute zero rows;
// that is filtering, not an error. Output order is stable: products in
// input order, variants in list order.
func FlattenProducts(products []models.Product) []models.CatalogRow {
	rows := make([]models.CatalogRow, 0, len(products))
	for _, p := range products {
		for _, v := range p.VariantGroups {
			rows = append(rows, models.CatalogRow{
				ProductID:    p.ProductID,
				Name:         p.Name,
				Type:         p.Type,
				Country:      p.Country,
				Priority:     p.Priority,
				ValidityNote: p.ValidityNote,

				VariantID:   v.ID,
				Label:       v.Label,
				Days:        v.Days,
				TypeLimit:   v.TypeLimit,
				UnitLimit:   v.UnitLimit,
				AmountLimit: v.AmountLimit,
				Price:       v.Price,
				SKU:         v.SKU,
			})
		}
	}
	return rows
}

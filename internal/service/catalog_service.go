package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/bayuahr/storefront-admin/internal/models"
	"github.com/bayuahr/storefront-admin/pkg/spreadsheet"
)

// ProductStore is the document-store contract the catalog service depends on.
type ProductStore interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	ListIDs(ctx context.Context) ([]string, error)
	Replace(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, productID string) error
}

// RowCache caches the flattened catalog row view.
type RowCache interface {
	GetRows(ctx context.Context) ([]models.CatalogRow, bool)
	SetRows(ctx context.Context, rows []models.CatalogRow)
	Invalidate(ctx context.Context)
}

// CatalogService orchestrates the catalog pipeline: spreadsheet import
// (codec → normalizer → bulk replace), flattened reads, bulk delete and
// spreadsheet export.
type CatalogService struct {
	store ProductStore
	cache RowCache
}

// NewCatalogService constructs a CatalogService. cache may be nil, in which
// case every read goes to the store.
func NewCatalogService(store ProductStore, cache RowCache) *CatalogService {
	return &CatalogService{store: store, cache: cache}
}

// Rows returns the flattened catalog view, one row per (product, variant).
func (s *CatalogService) Rows(ctx context.Context) ([]models.CatalogRow, error) {
	if s.cache != nil {
		if rows, ok := s.cache.GetRows(ctx); ok {
			return rows, nil
		}
	}

	products, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	rows := FlattenProducts(products)

	if s.cache != nil {
		s.cache.SetRows(ctx, rows)
	}
	return rows, nil
}

// ImportFromSpreadsheet parses an uploaded workbook, normalizes its rows
// into products and replaces each product document concurrently. Every
// product is attempted regardless of other failures; the settlement report
// lists the per-document outcome in first-seen product order. There is no
// transactional atomicity: an interrupted or partially failed import leaves
// the catalog in a mixed state, and the caller is expected to re-fetch the
// full catalog afterwards.
func (s *CatalogService) ImportFromSpreadsheet(ctx context.Context, data []byte) (*BulkReport, error) {
	rows, err := spreadsheet.Parse(data)
	if err != nil {
		return nil, err
	}

	products, order, err := NormalizeProducts(rows)
	if err != nil {
		return nil, err
	}

	report := runBulk(ctx, order, func(ctx context.Context, productID string) error {
		return s.store.Replace(ctx, products[productID])
	})

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}

	log.Info().
		Int("rows", len(rows)).
		Int("products", report.Total).
		Int("succeeded", report.Succeeded).
		Int("failed", report.Failed).
		Msg("catalog import settled")
	return report, nil
}

// DeleteAll enumerates the product collection and deletes every document
// concurrently. All deletes are attempted even when some fail; the report
// reflects each outcome. Confirmation is the caller's responsibility.
func (s *CatalogService) DeleteAll(ctx context.Context) (*BulkReport, error) {
	ids, err := s.store.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	report := runBulk(ctx, ids, func(ctx context.Context, productID string) error {
		return s.store.Delete(ctx, productID)
	})

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}

	log.Info().
		Int("products", report.Total).
		Int("succeeded", report.Succeeded).
		Int("failed", report.Failed).
		Msg("catalog delete-all settled")
	return report, nil
}

// ExportToSpreadsheet renders the flattened catalog into a workbook with the
// fixed export column set.
func (s *CatalogService) ExportToSpreadsheet(ctx context.Context) ([]byte, error) {
	rows, err := s.Rows(ctx)
	if err != nil {
		return nil, err
	}
	return spreadsheet.Serialize(BuildCatalogExportRows(rows), "Products")
}

// BuildCatalogExportRows maps flattened catalog rows onto the export column
// layout. The Variant Group and Type columns both carry the limit-type code,
// matching the layout consumers of this export already depend on.
func BuildCatalogExportRows(rows []models.CatalogRow) []*spreadsheet.Row {
	out := make([]*spreadsheet.Row, 0, len(rows))
	for _, r := range rows {
		row := spreadsheet.NewRow()
		row.Set("Product ID", r.ProductID)
		row.Set("Name", r.Name)
		row.Set("Country", strings.Join(r.Country, ", "))
		row.Set("Variant Group", r.TypeLimit)
		row.Set("ID", r.VariantID)
		row.Set("SKU", r.SKU)
		row.Set("Price", r.Price)
		row.Set("Type", r.TypeLimit)
		row.Set("Label", r.Label)
		row.Set("Limit", strconv.FormatFloat(r.AmountLimit, 'f', -1, 64)+" "+r.UnitLimit)
		row.Set("Days", r.Days)
		row.Set("Priority", r.Priority)
		out = append(out, row)
	}
	return out
}

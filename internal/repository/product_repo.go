package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/bayuahr/storefront-admin/internal/models"
)

// ErrInvalidRecord is returned when a document read from the store does not
// match the expected schema. Reads validate instead of trusting the decoded
// shape.
var ErrInvalidRecord = errors.New("invalid record shape")

// ProductRepository handles data access for the product collection. Products
// are document-shaped rows keyed by product_id with the variant list held in
// a JSONB column, replaced wholesale on every write.
type ProductRepository struct {
	db       *sqlx.DB
	validate *validator.Validate
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db, validate: validator.New()}
}

// GetAll returns every product in document-id order, matching store
// enumeration order. Each decoded document is schema-validated before being
// returned.
func (r *ProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	const q = `
        SELECT product_id, name, type, country, priority, validity_note, variant_groups
        FROM products
        ORDER BY product_id`

	var products []models.Product
	if err := r.db.SelectContext(ctx, &products, q); err != nil {
		return nil, err
	}
	for i := range products {
		if err := r.validate.Struct(&products[i]); err != nil {
			return nil, fmt.Errorf("%w: product %q: %v", ErrInvalidRecord, products[i].ProductID, err)
		}
	}
	return products, nil
}

// ListIDs returns all product ids in document-id order.
func (r *ProductRepository) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, `SELECT product_id FROM products ORDER BY product_id`); err != nil {
		return nil, err
	}
	return ids, nil
}

// GetByID returns a single product by product_id.
func (r *ProductRepository) GetByID(ctx context.Context, productID string) (*models.Product, error) {
	const q = `
        SELECT product_id, name, type, country, priority, validity_note, variant_groups
        FROM products
        WHERE product_id = $1`

	var p models.Product
	if err := r.db.GetContext(ctx, &p, q, productID); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	if err := r.validate.Struct(&p); err != nil {
		return nil, fmt.Errorf("%w: product %q: %v", ErrInvalidRecord, p.ProductID, err)
	}
	return &p, nil
}

// replaceProductQuery is checked against the migration schema in tests so
// the upsert cannot drift from the products table definition.
const replaceProductQuery = `
        INSERT INTO products (product_id, name, type, country, priority, validity_note, variant_groups)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (product_id) DO UPDATE SET
            name = EXCLUDED.name,
            type = EXCLUDED.type,
            country = EXCLUDED.country,
            priority = EXCLUDED.priority,
            validity_note = EXCLUDED.validity_note,
            variant_groups = EXCLUDED.variant_groups`

// Replace performs a full-document replace keyed by product_id. There is no
// partial update: re-importing a product id overwrites every field including
// the variant list.
func (r *ProductRepository) Replace(ctx context.Context, product *models.Product) error {
	_, err := r.db.ExecContext(ctx, replaceProductQuery,
		product.ProductID,
		product.Name,
		product.Type,
		product.Country,
		product.Priority,
		product.ValidityNote,
		product.VariantGroups,
	)
	return err
}

// Delete removes a product document by product_id.
func (r *ProductRepository) Delete(ctx context.Context, productID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE product_id = $1`, productID)
	return err
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/bayuahr/storefront-admin/internal/models"
)

// TransactionRepository reads the transaction history collection. Records are
// written by the storefront checkout flow; this system never writes them.
type TransactionRepository struct {
	db       *sqlx.DB
	validate *validator.Validate
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db *sqlx.DB) *TransactionRepository {
	return &TransactionRepository{db: db, validate: validator.New()}
}

// GetAll returns every transaction in document-id order. Decoded documents
// are schema-validated before being returned.
func (r *TransactionRepository) GetAll(ctx context.Context) ([]models.Transaction, error) {
	const q = `
        SELECT id, order_id, user_id, email, total_price, payment_method, status,
               created_at, items
        FROM transaction_history
        ORDER BY id`

	var txns []models.Transaction
	if err := r.db.SelectContext(ctx, &txns, q); err != nil {
		return nil, err
	}
	for i := range txns {
		if err := r.validate.Struct(&txns[i]); err != nil {
			return nil, fmt.Errorf("%w: transaction %q: %v", ErrInvalidRecord, txns[i].ID, err)
		}
	}
	return txns, nil
}

// GetByID returns a single transaction with its full line item list.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	const q = `
        SELECT id, order_id, user_id, email, total_price, payment_method, status,
               created_at, items
        FROM transaction_history
        WHERE id = $1`

	var t models.Transaction
	if err := r.db.GetContext(ctx, &t, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	if err := r.validate.Struct(&t); err != nil {
		return nil, fmt.Errorf("%w: transaction %q: %v", ErrInvalidRecord, t.ID, err)
	}
	return &t, nil
}

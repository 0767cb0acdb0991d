package service

import (
	"context"
	"fmt"

	"github.com/bayuahr/storefront-admin/internal/models"
	"github.com/bayuahr/storefront-admin/pkg/spreadsheet"
)

// TransactionStore is the read-only contract over the transaction history
// collection.
type TransactionStore interface {
	GetAll(ctx context.Context) ([]models.Transaction, error)
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
}

// TransactionService exposes the flattened transaction history view, the
// parent lookup used by the detail view, and spreadsheet export.
type TransactionService struct {
	store TransactionStore
}

// NewTransactionService constructs a TransactionService.
func NewTransactionService(store TransactionStore) *TransactionService {
	return &TransactionService{store: store}
}

// TransactionIndex maps transaction ids back to their full records. It is
// built once per fetch so the detail view can recover fields that never
// appear on a flattened row, such as the buyer email.
type TransactionIndex struct {
	byID map[string]*models.Transaction
}

// FindParent returns the full transaction a flattened row came from.
func (idx *TransactionIndex) FindParent(transactionID string) (*models.Transaction, bool) {
	t, ok := idx.byID[transactionID]
	return t, ok
}

// FlattenTransactions converts transactions into flat rows, one per line
// item, replicating the transaction-level fields onto each. Transactions
// with no line items contribute zero rows.
func FlattenTransactions(txns []models.Transaction) []models.TransactionRow {
	rows := make([]models.TransactionRow, 0, len(txns))
	for _, t := range txns {
		for _, item := range t.Items {
			rows = append(rows, models.TransactionRow{
				TransactionID: t.ID,
				OrderID:       t.OrderID,
				UserID:        t.UserID,
				Email:         t.Email,
				TotalPrice:    t.TotalPrice,
				PaymentMethod: t.PaymentMethod,
				Status:        t.Status,
				Timestamp:     t.Timestamp,

				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				SKU:         item.SKU,
				Label:       item.Label,
				Quantity:    item.Quantity,
				Price:       item.Price,
				Total:       item.Total,
				VariantID:   item.VariantID,
			})
		}
	}
	return rows
}

// BuildIndex builds a TransactionIndex over a fetched snapshot.
func BuildIndex(txns []models.Transaction) *TransactionIndex {
	idx := &TransactionIndex{byID: make(map[string]*models.Transaction, len(txns))}
	for i := range txns {
		idx.byID[txns[i].ID] = &txns[i]
	}
	return idx
}

// Fetch loads the transaction history and returns the flattened rows along
// with an index back to the full records.
func (s *TransactionService) Fetch(ctx context.Context) ([]models.TransactionRow, *TransactionIndex, error) {
	txns, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load transactions: %w", err)
	}
	return FlattenTransactions(txns), BuildIndex(txns), nil
}

// Detail returns the full transaction record for the detail view.
func (s *TransactionService) Detail(ctx context.Context, id string) (*models.Transaction, error) {
	return s.store.GetByID(ctx, id)
}

// ExportToSpreadsheet renders the flattened history into a workbook.
// Quantity exports as text, prices with digit grouping and the timestamp in
// its display format, mirroring the dashboard table.
func (s *TransactionService) ExportToSpreadsheet(ctx context.Context) ([]byte, error) {
	rows, _, err := s.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*spreadsheet.Row, 0, len(rows))
	for _, r := range rows {
		row := spreadsheet.NewRow()
		row.Set("Transaction ID", r.TransactionID)
		row.Set("Order ID", r.OrderID)
		row.Set("User ID", r.UserID)
		row.Set("Email", r.Email)
		row.Set("SKU", r.SKU)
		row.Set("Qty", fmt.Sprintf("%d", r.Quantity))
		row.Set("Price", groupDigits(r.Price))
		row.Set("Subtotal", groupDigits(float64(r.Quantity)*r.Price))
		row.Set("Status", r.Status)
		row.Set("Created At", r.Timestamp.Format("1/2/2006, 3:04:05 PM"))
		out = append(out, row)
	}
	return spreadsheet.Serialize(out, "Transactions")
}

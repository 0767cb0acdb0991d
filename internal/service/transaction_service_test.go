package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bayuahr/storefront-admin/internal/models"
	"github.com/bayuahr/storefront-admin/pkg/spreadsheet"
)

type fakeTransactionStore struct {
	txns []models.Transaction
}

func (f *fakeTransactionStore) GetAll(ctx context.Context) ([]models.Transaction, error) {
	return f.txns, nil
}

func (f *fakeTransactionStore) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	for i := range f.txns {
		if f.txns[i].ID == id {
			return &f.txns[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func sampleTransactions() []models.Transaction {
	ts := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	return []models.Transaction{
		{
			ID:            "T1",
			OrderID:       "ORD-1",
			UserID:        "U1",
			Email:         "buyer@example.com",
			TotalPrice:    3000,
			PaymentMethod: "card",
			Status:        "paid",
			Timestamp:     ts,
			Items: models.LineItems{
				{ProductID: "P1", ProductName: "Gold", SKU: "S1", Label: "Gold - 30d", Quantity: 2, Price: 1000, Total: 2000, VariantID: 1},
				{ProductID: "P1", ProductName: "Gold", SKU: "S2", Label: "Gold - 90d", Quantity: 1, Price: 1000, Total: 1000, VariantID: 2},
			},
		},
		{
			ID:        "T2",
			OrderID:   "ORD-2",
			UserID:    "U2",
			Status:    "pending",
			Timestamp: ts,
			// No line items: contributes no flattened rows.
		},
	}
}

func TestFlattenTransactions(t *testing.T) {
	rows := FlattenTransactions(sampleTransactions())
	require.Len(t, rows, 2)

	assert.Equal(t, "T1", rows[0].TransactionID)
	assert.Equal(t, "ORD-1", rows[0].OrderID)
	assert.Equal(t, "buyer@example.com", rows[0].Email)
	assert.Equal(t, "S1", rows[0].SKU)
	assert.Equal(t, 2, rows[0].Quantity)
	assert.Equal(t, "S2", rows[1].SKU)
	// Transaction-level fields replicate onto every item row.
	assert.Equal(t, rows[0].TotalPrice, rows[1].TotalPrice)
	assert.Equal(t, rows[0].Status, rows[1].Status)
}

func TestFlattenTransactionsEmptyItems(t *testing.T) {
	rows := FlattenTransactions([]models.Transaction{{ID: "T9"}})
	assert.Empty(t, rows)
}

func TestFindParentRecoversFullRecord(t *testing.T) {
	store := &fakeTransactionStore{txns: sampleTransactions()}
	svc := NewTransactionService(store)

	rows, idx, err := svc.Fetch(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	parent, ok := idx.FindParent(rows[0].TransactionID)
	require.True(t, ok)
	// The full record carries fields the flattened row does, plus the
	// complete item list.
	assert.Equal(t, "buyer@example.com", parent.Email)
	assert.Len(t, parent.Items, 2)

	_, ok = idx.FindParent("missing")
	assert.False(t, ok)
}

func TestTransactionExportColumns(t *testing.T) {
	store := &fakeTransactionStore{txns: sampleTransactions()}
	svc := NewTransactionService(store)

	data, err := svc.ExportToSpreadsheet(context.Background())
	require.NoError(t, err)

	parsed, err := spreadsheet.Parse(data)
	require.NoError(t, err)
	require.Len(t, parsed, 2)

	assert.Equal(t, []string{
		"Transaction ID", "Order ID", "User ID", "Email", "SKU", "Qty",
		"Price", "Subtotal", "Status", "Created At",
	}, parsed[0].Keys())

	price, _ := parsed[0].Get("Price")
	assert.Equal(t, "1,000", price)
	subtotal, _ := parsed[0].Get("Subtotal")
	assert.Equal(t, "2,000", subtotal)
	created, _ := parsed[0].Get("Created At")
	assert.Equal(t, "6/15/2025, 10:30:00 AM", created)
}

func TestGroupDigits(t *testing.T) {
	for _, tc := range []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567.5, "1,234,567.5"},
		{-45000, "-45,000"},
	} {
		assert.Equal(t, tc.want, groupDigits(tc.in), "input %v", tc.in)
	}
}

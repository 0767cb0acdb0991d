package handler

import (
	"database/sql"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/bayuahr/storefront-admin/internal/service"
	"github.com/bayuahr/storefront-admin/internal/utils"
)

// TransactionHandler handles transaction history HTTP endpoints. The
// history is read-only; records are written by the storefront checkout.
type TransactionHandler struct {
	txService *service.TransactionService
}

// NewTransactionHandler constructs a TransactionHandler.
func NewTransactionHandler(txService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{txService: txService}
}

// ListTransactions handles GET /v1/admin/transactions. It returns the
// history as flattened line-item rows.
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	rows, _, err := h.txService.Fetch(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve transactions")
		return
	}
	utils.Success(c, 200, "Transactions retrieved", rows)
}

// GetTransaction handles GET /v1/admin/transactions/:id
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	tx, err := h.txService.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.Error(c, 404, "TRANSACTION_NOT_FOUND", "Transaction not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve transaction")
		return
	}
	utils.Success(c, 200, "Transaction retrieved", tx)
}

// ExportTransactions handles GET /v1/admin/transactions/export
func (h *TransactionHandler) ExportTransactions(c *gin.Context) {
	data, err := h.txService.ExportToSpreadsheet(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to export transactions")
		return
	}
	serveWorkbook(c, "transactions", data)
}

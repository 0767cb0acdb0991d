package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bayuahr/storefront-admin/internal/service"
	"github.com/bayuahr/storefront-admin/internal/utils"
	"github.com/bayuahr/storefront-admin/pkg/spreadsheet"
)

// 10 MB upload cap, matches what a catalog workbook realistically needs.
const maxImportSize = 10 << 20

// CatalogHandler handles product catalog HTTP endpoints.
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListProducts handles GET /v1/admin/products. It returns the catalog as
// flattened variant rows, one row per variant.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	rows, err := h.catalogService.Rows(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve products")
		return
	}
	utils.Success(c, 200, "Products retrieved", rows)
}

// ImportProducts handles POST /v1/admin/products/import. It accepts a
// multipart upload under the "file" field, replaces every product found in
// the workbook and reports per-product outcomes.
func (h *CatalogHandler) ImportProducts(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Missing spreadsheet file upload")
		return
	}
	if fileHeader.Size > maxImportSize {
		utils.Error(c, 400, "FILE_TOO_LARGE", "Spreadsheet exceeds the 10 MB upload limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Unable to read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Unable to read uploaded file")
		return
	}

	report, err := h.catalogService.ImportFromSpreadsheet(c.Request.Context(), data)
	if err != nil {
		switch {
		case errors.Is(err, spreadsheet.ErrMalformedFile):
			utils.Error(c, 400, "MALFORMED_FILE", "Uploaded file is not a readable spreadsheet")
		case errors.Is(err, service.ErrInvalidCountryField):
			utils.Error(c, 400, "INVALID_COUNTRY_FIELD", err.Error())
		default:
			utils.Error(c, 500, "INTERNAL_ERROR", "Failed to import products")
		}
		return
	}

	utils.Success(c, 200, "Import settled", importReportPayload(report))
}

// DeleteAllProducts handles DELETE /v1/admin/products. The confirm=true query
// parameter is required so a stray DELETE cannot wipe the catalog.
func (h *CatalogHandler) DeleteAllProducts(c *gin.Context) {
	if c.Query("confirm") != "true" {
		utils.Error(c, 400, "CONFIRMATION_REQUIRED", "Pass confirm=true to delete the entire catalog")
		return
	}

	report, err := h.catalogService.DeleteAll(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to delete products")
		return
	}

	utils.Success(c, 200, "Delete settled", importReportPayload(report))
}

// ExportProducts handles GET /v1/admin/products/export. It streams the
// catalog as an xlsx attachment.
func (h *CatalogHandler) ExportProducts(c *gin.Context) {
	data, err := h.catalogService.ExportToSpreadsheet(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to export products")
		return
	}
	serveWorkbook(c, "products", data)
}

// importReportPayload shapes a bulk report for the response envelope.
func importReportPayload(report *service.BulkReport) gin.H {
	failures := make([]gin.H, 0, report.Failed)
	for _, o := range report.FailedOutcomes() {
		failures = append(failures, gin.H{
			"key":   o.Key,
			"error": o.Error,
		})
	}
	return gin.H{
		"total":     report.Total,
		"succeeded": report.Succeeded,
		"failed":    report.Failed,
		"failures":  failures,
	}
}

// serveWorkbook writes xlsx bytes as a dated file attachment.
func serveWorkbook(c *gin.Context, prefix string, data []byte) {
	filename := fmt.Sprintf("%s_%s.xlsx", prefix, time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

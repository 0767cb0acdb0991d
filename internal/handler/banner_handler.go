package handler

import (
	"database/sql"
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bayuahr/storefront-admin/internal/service"
	"github.com/bayuahr/storefront-admin/internal/utils"
)

// BannerHandler handles promotional banner HTTP endpoints.
type BannerHandler struct {
	bannerService *service.BannerService
}

// NewBannerHandler constructs a BannerHandler.
func NewBannerHandler(bannerService *service.BannerService) *BannerHandler {
	return &BannerHandler{bannerService: bannerService}
}

// ListBanners handles GET /v1/admin/banners
func (h *BannerHandler) ListBanners(c *gin.Context) {
	banners, err := h.bannerService.List(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve banners")
		return
	}
	utils.Success(c, 200, "Banners retrieved", banners)
}

// CreateBanner handles POST /v1/admin/banners. The banner fields and image
// arrive as one multipart form; the image goes to object storage before the
// record is written.
func (h *BannerHandler) CreateBanner(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Banner image is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Unable to read banner image")
		return
	}
	defer file.Close()
	imageData, err := io.ReadAll(file)
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Unable to read banner image")
		return
	}

	priority := 0
	if raw := c.PostForm("priority"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil {
			utils.Error(c, 400, "INVALID_REQUEST", "Invalid priority value")
			return
		}
		priority = p
	}
	startDate, err := time.Parse("2006-01-02", c.PostForm("start_date"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid start_date, expected YYYY-MM-DD")
		return
	}
	endDate, err := time.Parse("2006-01-02", c.PostForm("end_date"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid end_date, expected YYYY-MM-DD")
		return
	}

	input := &service.CreateBannerInput{
		Title:            c.PostForm("title"),
		Description:      c.PostForm("description"),
		TargetURL:        c.PostForm("target_url"),
		IsActive:         c.PostForm("is_active") == "true",
		Priority:         priority,
		StartDate:        startDate,
		EndDate:          endDate,
		ImageName:        fileHeader.Filename,
		ImageData:        imageData,
		ImageContentType: fileHeader.Header.Get("Content-Type"),
	}

	banner, err := h.bannerService.Create(c.Request.Context(), input)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create banner")
		return
	}

	utils.Success(c, 201, "Banner created successfully", banner)
}

// DeleteBanner handles DELETE /v1/admin/banners/:id
func (h *BannerHandler) DeleteBanner(c *gin.Context) {
	id := c.Param("id")
	if err := h.bannerService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.Error(c, 404, "BANNER_NOT_FOUND", "Banner not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to delete banner")
		return
	}
	utils.Success(c, 200, "Banner deleted", nil)
}

// DeleteAllBanners handles DELETE /v1/admin/banners. Requires confirm=true.
func (h *BannerHandler) DeleteAllBanners(c *gin.Context) {
	if c.Query("confirm") != "true" {
		utils.Error(c, 400, "CONFIRMATION_REQUIRED", "Pass confirm=true to delete all banners")
		return
	}

	report, err := h.bannerService.DeleteAll(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to delete banners")
		return
	}
	utils.Success(c, 200, "Delete settled", importReportPayload(report))
}

// ExportBanners handles GET /v1/admin/banners/export
func (h *BannerHandler) ExportBanners(c *gin.Context) {
	data, err := h.bannerService.ExportToSpreadsheet(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to export banners")
		return
	}
	serveWorkbook(c, "banners", data)
}

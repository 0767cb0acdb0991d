package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/bayuahr/storefront-admin/internal/models"
	"github.com/bayuahr/storefront-admin/pkg/spreadsheet"
)

// BannerStore is the document-store contract for banners.
type BannerStore interface {
	GetAll(ctx context.Context) ([]models.Banner, error)
	ListIDs(ctx context.Context) ([]string, error)
	Create(ctx context.Context, banner *models.Banner) error
	Delete(ctx context.Context, id string) error
}

// ImageUploader stores banner images in object storage and returns a
// retrievable URL.
type ImageUploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// CreateBannerInput carries the form fields and image payload for a new
// banner.
type CreateBannerInput struct {
	Title       string
	Description string
	TargetURL   string
	IsActive    bool
	Priority    int
	StartDate   time.Time
	EndDate     time.Time

	ImageName        string
	ImageData        []byte
	ImageContentType string
}

// BannerService manages promotional banners: create (image upload first,
// record second), list, delete, bulk delete and export. Banners have no
// update path.
type BannerService struct {
	store    BannerStore
	uploader ImageUploader
}

// NewBannerService constructs a BannerService.
func NewBannerService(store BannerStore, uploader ImageUploader) *BannerService {
	return &BannerService{store: store, uploader: uploader}
}

// List returns all banners.
func (s *BannerService) List(ctx context.Context) ([]models.Banner, error) {
	return s.store.GetAll(ctx)
}

// Create uploads the image to object storage and writes the banner record
// with the resulting URL. If the record write fails the uploaded image is
// left behind; it is unreferenced and harmless.
func (s *BannerService) Create(ctx context.Context, input *CreateBannerInput) (*models.Banner, error) {
	if len(input.ImageData) == 0 {
		return nil, fmt.Errorf("banner image is required")
	}

	key := fmt.Sprintf("banners/%d_%s", time.Now().Unix(), input.ImageName)
	imageURL, err := s.uploader.Upload(ctx, key, input.ImageData, input.ImageContentType)
	if err != nil {
		return nil, fmt.Errorf("upload banner image: %w", err)
	}

	banner := &models.Banner{
		ID:          uuid.New().String(),
		ImageURL:    imageURL,
		Title:       input.Title,
		Description: input.Description,
		TargetURL:   input.TargetURL,
		IsActive:    input.IsActive,
		Priority:    input.Priority,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		CreatedAt:   time.Now(),
	}
	if err := s.store.Create(ctx, banner); err != nil {
		return nil, fmt.Errorf("create banner: %w", err)
	}

	log.Info().Str("banner_id", banner.ID).Str("title", banner.Title).Msg("banner created")
	return banner, nil
}

// Delete removes a single banner by id.
func (s *BannerService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// DeleteAll enumerates the banner collection and deletes every record
// concurrently, attempting all deletes regardless of individual failures.
func (s *BannerService) DeleteAll(ctx context.Context) (*BulkReport, error) {
	ids, err := s.store.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}

	report := runBulk(ctx, ids, func(ctx context.Context, id string) error {
		return s.store.Delete(ctx, id)
	})

	log.Info().
		Int("banners", report.Total).
		Int("succeeded", report.Succeeded).
		Int("failed", report.Failed).
		Msg("banner delete-all settled")
	return report, nil
}

// ExportToSpreadsheet renders all banners into a workbook. The active flag
// exports as "TRUE"/"FALSE" and dates in date-only display format.
func (s *BannerService) ExportToSpreadsheet(ctx context.Context) ([]byte, error) {
	banners, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load banners: %w", err)
	}

	out := make([]*spreadsheet.Row, 0, len(banners))
	for _, b := range banners {
		active := "FALSE"
		if b.IsActive {
			active = "TRUE"
		}
		row := spreadsheet.NewRow()
		row.Set("ID", b.ID)
		row.Set("Image URL", b.ImageURL)
		row.Set("Title", b.Title)
		row.Set("Description", b.Description)
		row.Set("Target URL", b.TargetURL)
		row.Set("Is Active", active)
		row.Set("Priority", b.Priority)
		row.Set("Start Date", b.StartDate.Format("1/2/2006"))
		row.Set("End Date", b.EndDate.Format("1/2/2006"))
		row.Set("Created At", b.CreatedAt.Format("1/2/2006"))
		out = append(out, row)
	}
	return spreadsheet.Serialize(out, "Banners")
}

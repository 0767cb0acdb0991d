package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bayuahr/storefront-admin/internal/models"
	"github.com/bayuahr/storefront-admin/pkg/spreadsheet"
)

type fakeBannerStore struct {
	mu       sync.Mutex
	banners  []models.Banner
	failOn   map[string]error
	attempts []string
}

func (f *fakeBannerStore) GetAll(ctx context.Context) ([]models.Banner, error) {
	return f.banners, nil
}

func (f *fakeBannerStore) ListIDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(f.banners))
	for _, b := range f.banners {
		ids = append(ids, b.ID)
	}
	return ids, nil
}

func (f *fakeBannerStore) Create(ctx context.Context, banner *models.Banner) error {
	f.banners = append(f.banners, *banner)
	return nil
}

func (f *fakeBannerStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts = append(f.attempts, id)
	if err := f.failOn[id]; err != nil {
		return err
	}
	for i, b := range f.banners {
		if b.ID == id {
			f.banners = append(f.banners[:i], f.banners[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type fakeUploader struct {
	uploadedKey string
	failWith    error
}

func (f *fakeUploader) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if f.failWith != nil {
		return "", f.failWith
	}
	f.uploadedKey = key
	return "https://cdn.example.com/" + key, nil
}

func TestCreateBannerUploadsImageFirst(t *testing.T) {
	store := &fakeBannerStore{}
	uploader := &fakeUploader{}
	svc := NewBannerService(store, uploader)

	banner, err := svc.Create(context.Background(), &CreateBannerInput{
		Title:            "Mid-year Sale",
		Description:      "Half price on everything",
		TargetURL:        "https://shop.example.com/sale",
		IsActive:         true,
		Priority:         1,
		StartDate:        time.Now(),
		EndDate:          time.Now().Add(72 * time.Hour),
		ImageName:        "sale.png",
		ImageData:        []byte{0x89, 0x50, 0x4e, 0x47},
		ImageContentType: "image/png",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, banner.ID)
	assert.Contains(t, uploader.uploadedKey, "banners/")
	assert.Contains(t, uploader.uploadedKey, "sale.png")
	assert.Equal(t, "https://cdn.example.com/"+uploader.uploadedKey, banner.ImageURL)
	require.Len(t, store.banners, 1)
}

func TestCreateBannerRequiresImage(t *testing.T) {
	svc := NewBannerService(&fakeBannerStore{}, &fakeUploader{})
	_, err := svc.Create(context.Background(), &CreateBannerInput{Title: "No image"})
	require.Error(t, err)
}

func TestCreateBannerUploadFailureSkipsRecord(t *testing.T) {
	store := &fakeBannerStore{}
	uploader := &fakeUploader{failWith: errors.New("bucket unreachable")}
	svc := NewBannerService(store, uploader)

	_, err := svc.Create(context.Background(), &CreateBannerInput{
		ImageName: "x.png",
		ImageData: []byte{1},
	})
	require.Error(t, err)
	assert.Empty(t, store.banners)
}

func TestBannerDeleteAllSettlement(t *testing.T) {
	store := &fakeBannerStore{
		banners: []models.Banner{{ID: "b1"}, {ID: "b2"}, {ID: "b3"}},
		failOn:  map[string]error{"b2": errors.New("delete rejected")},
	}
	svc := NewBannerService(store, &fakeUploader{})

	report, err := svc.DeleteAll(context.Background())
	require.NoError(t, err)

	assert.Len(t, store.attempts, 3)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.FailedOutcomes(), 1)
	assert.Equal(t, "b2", report.FailedOutcomes()[0].Key)
}

func TestBannerExportLayout(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	store := &fakeBannerStore{banners: []models.Banner{{
		ID:          "b1",
		ImageURL:    "https://cdn.example.com/banners/1_sale.png",
		Title:       "Sale",
		Description: "Half price",
		TargetURL:   "https://shop.example.com/sale",
		IsActive:    true,
		Priority:    2,
		StartDate:   start,
		EndDate:     end,
		CreatedAt:   start,
	}}}
	svc := NewBannerService(store, &fakeUploader{})

	data, err := svc.ExportToSpreadsheet(context.Background())
	require.NoError(t, err)

	parsed, err := spreadsheet.Parse(data)
	require.NoError(t, err)
	require.Len(t, parsed, 1)

	assert.Equal(t, []string{
		"ID", "Image URL", "Title", "Description", "Target URL",
		"Is Active", "Priority", "Start Date", "End Date", "Created At",
	}, parsed[0].Keys())

	active, _ := parsed[0].Get("Is Active")
	assert.Equal(t, true, active)
	startCell, _ := parsed[0].Get("Start Date")
	assert.Equal(t, "6/1/2025", startCell)
}

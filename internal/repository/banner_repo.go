package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bayuahr/storefront-admin/internal/models"
)

// BannerRepository handles data access for promotional banners.
type BannerRepository struct {
	db *sqlx.DB
}

// NewBannerRepository creates a new BannerRepository.
func NewBannerRepository(db *sqlx.DB) *BannerRepository {
	return &BannerRepository{db: db}
}

// GetAll returns every banner in creation order.
func (r *BannerRepository) GetAll(ctx context.Context) ([]models.Banner, error) {
	const q = `
        SELECT id, image_url, title, description, target_url, is_active, priority,
               start_date, end_date, created_at
        FROM banners
        ORDER BY created_at, id`

	var banners []models.Banner
	if err := r.db.SelectContext(ctx, &banners, q); err != nil {
		return nil, err
	}
	return banners, nil
}

// ListIDs returns all banner ids.
func (r *BannerRepository) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, `SELECT id FROM banners ORDER BY created_at, id`); err != nil {
		return nil, err
	}
	return ids, nil
}

// Create inserts a new banner record. The id is generated by the caller
// before insert, mirroring store-generated document ids.
func (r *BannerRepository) Create(ctx context.Context, banner *models.Banner) error {
	const q = `
        INSERT INTO banners (id, image_url, title, description, target_url, is_active,
                             priority, start_date, end_date, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, q,
		banner.ID,
		banner.ImageURL,
		banner.Title,
		banner.Description,
		banner.TargetURL,
		banner.IsActive,
		banner.Priority,
		banner.StartDate,
		banner.EndDate,
		banner.CreatedAt,
	)
	return err
}

// Delete removes a banner by id. Returns sql.ErrNoRows when it does not exist.
func (r *BannerRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM banners WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeactivateExpired flips is_active off for active banners whose validity
// window ended before now. Returns the number of banners deactivated.
func (r *BannerRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE banners SET is_active = false WHERE is_active = true AND end_date < $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

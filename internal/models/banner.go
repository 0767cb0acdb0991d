package models

import "time"

// Banner is a promotional banner shown on the storefront. The image is
// uploaded to object storage first and the resulting URL stored on the
// record. Banners are created and deleted but never updated.
type Banner struct {
	ID          string    `db:"id" json:"id"`
	ImageURL    string    `db:"image_url" json:"imageUrl"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	TargetURL   string    `db:"target_url" json:"targetUrl"`
	IsActive    bool      `db:"is_active" json:"isActive"`
	Priority    int       `db:"priority" json:"priority"`
	StartDate   time.Time `db:"start_date" json:"startDate"`
	EndDate     time.Time `db:"end_date" json:"endDate"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bayuahr/storefront-admin/internal/repository"
)

// BannerSweepWorker deactivates banners whose end date has passed, on a
// fixed interval.
type BannerSweepWorker struct {
	bannerRepo *repository.BannerRepository
	interval   time.Duration
}

// NewBannerSweepWorker constructs a BannerSweepWorker.
func NewBannerSweepWorker(bannerRepo *repository.BannerRepository, interval time.Duration) *BannerSweepWorker {
	return &BannerSweepWorker{
		bannerRepo: bannerRepo,
		interval:   interval,
	}
}

// Start begins the sweep loop and listens for context cancellation.
func (w *BannerSweepWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting banner sweep worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Banner sweep worker stopped")
			return
		}
	}
}

func (w *BannerSweepWorker) run(ctx context.Context) {
	swept, err := w.bannerRepo.DeactivateExpired(ctx, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("Failed to sweep expired banners")
		return
	}
	if swept > 0 {
		log.Info().Int64("banners", swept).Msg("Deactivated expired banners")
	}
}

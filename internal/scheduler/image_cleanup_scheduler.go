package scheduler

import (
	"context"
	"time"

	"github.com/closetly/wardrobe-backend/internal/app/service"
	"github.com/closetly/wardrobe-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

const runTimeout = 2 * time.Minute

// ImageCleanupScheduler periodically retries image deletions that failed when
// their item was deleted.
type ImageCleanupScheduler struct {
	cron           *cron.Cron
	schedule       string
	cleanupService service.ImageCleanupService
}

// NewImageCleanupScheduler accepts standard five-field specs and descriptors
// such as "@every 10m".
func NewImageCleanupScheduler(cleanupService service.ImageCleanupService, schedule string) *ImageCleanupScheduler {
	return &ImageCleanupScheduler{
		cron:           cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		schedule:       schedule,
		cleanupService: cleanupService,
	}
}

func (s *ImageCleanupScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.Run)
	if err != nil {
		logger.Error("Failed to add cron job for image cleanup", err, logger.Fields{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Image cleanup scheduler started", logger.Fields{
		"schedule": s.schedule,
	})
	return nil
}

// Run performs one retry pass.
func (s *ImageCleanupScheduler) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if _, err := s.cleanupService.RetryPending(ctx); err != nil {
		logger.Error("Scheduled image cleanup failed", err)
	}
}

// Stop halts scheduling and waits for a running pass to finish.
func (s *ImageCleanupScheduler) Stop() {
	logger.Info("Stopping image cleanup scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Image cleanup scheduler stopped")
}

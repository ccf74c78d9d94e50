package service

import (
	"context"

	"github.com/closetly/wardrobe-backend/internal/app/repository"
	"github.com/closetly/wardrobe-backend/internal/storage"
	"github.com/closetly/wardrobe-backend/pkg/logger"
)

// CleanupResult summarizes one retry pass.
type CleanupResult struct {
	Deleted   int
	Failed    int
	Abandoned int
}

type ImageCleanupService interface {
	RetryPending(ctx context.Context) (CleanupResult, error)
}

type imageCleanupService struct {
	cleanupRepo repository.ImageCleanupRepository
	images      storage.ImageStore
	maxAttempts int
	batchSize   int
}

func NewImageCleanupService(
	cleanupRepo repository.ImageCleanupRepository,
	images storage.ImageStore,
	maxAttempts, batchSize int,
) ImageCleanupService {
	return &imageCleanupService{
		cleanupRepo: cleanupRepo,
		images:      images,
		maxAttempts: maxAttempts,
		batchSize:   batchSize,
	}
}

// RetryPending retries one batch of failed image deletions. A record is
// dropped once its image is gone or its attempts reach maxAttempts.
func (s *imageCleanupService) RetryPending(ctx context.Context) (CleanupResult, error) {
	var result CleanupResult

	pending, err := s.cleanupRepo.FindPending(s.batchSize)
	if err != nil {
		return result, err
	}
	if len(pending) == 0 {
		return result, nil
	}

	logger.Info("Retrying pending image deletions", logger.Fields{
		"count": len(pending),
	})

	for _, p := range pending {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if s.maxAttempts > 0 && p.Attempts >= s.maxAttempts {
			logger.Warn("Giving up on image deletion", logger.Fields{
				"image_path": p.ImagePath,
				"item_id":    p.ItemID,
				"attempts":   p.Attempts,
				"last_error": p.LastError,
			})
			if err := s.cleanupRepo.Delete(p.ID); err != nil {
				return result, err
			}
			result.Abandoned++
			continue
		}

		if err := s.images.DeleteByURL(ctx, p.ImagePath); err != nil {
			logger.Warn("Image deletion retry failed", logger.Fields{
				"image_path": p.ImagePath,
				"attempts":   p.Attempts + 1,
				"error":      err.Error(),
			})
			if err := s.cleanupRepo.RecordFailure(p.ID, err.Error()); err != nil {
				return result, err
			}
			result.Failed++
			continue
		}

		if err := s.cleanupRepo.Delete(p.ID); err != nil {
			return result, err
		}
		result.Deleted++
	}

	logger.Info("Pending image deletions processed", logger.Fields{
		"deleted":   result.Deleted,
		"failed":    result.Failed,
		"abandoned": result.Abandoned,
	})
	return result, nil
}

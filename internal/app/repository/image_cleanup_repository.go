package repository

import (
	"github.com/closetly/wardrobe-backend/internal/app/model"
	"github.com/closetly/wardrobe-backend/pkg/logger"
	"gorm.io/gorm"
)

// ImageCleanupRepository tracks stored images whose deletion must be retried.
type ImageCleanupRepository interface {
	Create(pending *model.PendingImageDeletion) error
	FindPending(limit int) ([]model.PendingImageDeletion, error)
	RecordFailure(id uint, reason string) error
	Delete(id uint) error
}

type imageCleanupRepository struct {
	db *gorm.DB
}

func NewImageCleanupRepository(db *gorm.DB) ImageCleanupRepository {
	return &imageCleanupRepository{db: db}
}

func (r *imageCleanupRepository) Create(pending *model.PendingImageDeletion) error {
	if err := r.db.Create(pending).Error; err != nil {
		logger.Error("Failed to record pending image deletion", err, logger.Fields{
			"image_path": pending.ImagePath,
		})
		return err
	}
	return nil
}

// FindPending returns the least-retried records first, oldest first within the same count.
func (r *imageCleanupRepository) FindPending(limit int) ([]model.PendingImageDeletion, error) {
	var pending []model.PendingImageDeletion
	query := r.db.Order("attempts ASC").Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&pending).Error; err != nil {
		logger.Error("Failed to find pending image deletions", err)
		return nil, err
	}
	return pending, nil
}

func (r *imageCleanupRepository) RecordFailure(id uint, reason string) error {
	return r.db.Model(&model.PendingImageDeletion{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + ?", 1),
			"last_error": reason,
		}).Error
}

func (r *imageCleanupRepository) Delete(id uint) error {
	return r.db.Delete(&model.PendingImageDeletion{}, id).Error
}

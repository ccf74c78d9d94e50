package repository

import (
	"fmt"
	"sync"

	"github.com/closetly/wardrobe-backend/internal/app/model"
	"github.com/closetly/wardrobe-backend/pkg/logger"
	"gorm.io/gorm"
)

// ItemRepository is the item record store. Writes are serialized so ids are
// assigned sequentially; every call is committed before it returns.
type ItemRepository interface {
	Create(item *model.Item) error
	CreateInBatches(items []model.Item, batchSize int) error
	FindAll() ([]model.Item, error)
	FindByID(id uint) (*model.Item, error)
	DeleteByID(id uint) (*model.Item, error)
}

type itemRepository struct {
	db      *gorm.DB
	writeMu sync.Mutex
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(item *model.Item) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	logger.Debug("Creating item in database", logger.Fields{
		"name":       item.Name,
		"categories": item.Categories,
		"colors":     item.Colors,
		"seasons":    item.Seasons,
	})

	if item.OwnerID == 0 {
		item.OwnerID = model.DefaultOwnerID
	}

	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create item in database", err, logger.Fields{
			"name": item.Name,
		})
		return err
	}

	logger.Debug("Item created in database", logger.Fields{
		"item_id": item.ID,
		"name":    item.Name,
	})
	return nil
}

func (r *itemRepository) CreateInBatches(items []model.Item, batchSize int) error {
	if batchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", batchSize)
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	logger.Debug("Creating items in batches", logger.Fields{
		"count":      len(items),
		"batch_size": batchSize,
	})

	for i := range items {
		if items[i].OwnerID == 0 {
			items[i].OwnerID = model.DefaultOwnerID
		}
	}

	if len(items) == 0 {
		return nil
	}

	if err := r.db.CreateInBatches(items, batchSize).Error; err != nil {
		logger.Error("Failed to create items in batches", err, logger.Fields{
			"count": len(items),
		})
		return err
	}
	return nil
}

// FindAll reads every record in a single statement, which gives the caller a
// consistent snapshot even while writers are active.
func (r *itemRepository) FindAll() ([]model.Item, error) {
	logger.Debug("Finding all items in database")

	var items []model.Item
	if err := r.db.Order("id DESC").Find(&items).Error; err != nil {
		logger.Error("Failed to find items in database", err)
		return nil, err
	}

	logger.Debug("Items found in database", logger.Fields{
		"count": len(items),
	})
	return items, nil
}

func (r *itemRepository) FindByID(id uint) (*model.Item, error) {
	logger.Debug("Finding item by ID in database", logger.Fields{
		"item_id": id,
	})

	var item model.Item
	if err := r.db.First(&item, id).Error; err != nil {
		logger.Error("Failed to find item by ID in database", err, logger.Fields{
			"item_id": id,
		})
		return nil, err
	}
	return &item, nil
}

// DeleteByID removes the record and returns it. It fails with
// gorm.ErrRecordNotFound when no record has the id.
func (r *itemRepository) DeleteByID(id uint) (*model.Item, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	logger.Debug("Deleting item from database", logger.Fields{
		"item_id": id,
	})

	var removed model.Item
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&removed, id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Item{}, id).Error
	})
	if err != nil {
		logger.Error("Failed to delete item from database", err, logger.Fields{
			"item_id": id,
		})
		return nil, err
	}

	logger.Debug("Item deleted from database", logger.Fields{
		"item_id":    id,
		"image_path": removed.ImagePath,
	})
	return &removed, nil
}

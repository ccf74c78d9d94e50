package service

import (
	"context"
	"errors"
	"strings"

	"github.com/closetly/wardrobe-backend/internal/app/filter"
	"github.com/closetly/wardrobe-backend/internal/app/model"
	"github.com/closetly/wardrobe-backend/internal/app/repository"
	"github.com/closetly/wardrobe-backend/internal/storage"
	"github.com/closetly/wardrobe-backend/pkg/logger"
	"github.com/closetly/wardrobe-backend/pkg/redis"
	"gorm.io/gorm"
)

var (
	ErrItemNotFound = errors.New("item not found")
	ErrNameRequired = errors.New("name is required")
	ErrTagsRequired = errors.New("at least one tag is required per dimension")
)

// ListCache stores list results keyed by canonical filter criteria. Get
// reports absent entries with redis.ErrCacheMiss.
type ListCache interface {
	Key(ctx context.Context, key string) (string, error)
	Get(ctx context.Context, fullKey string, dest interface{}) error
	Set(ctx context.Context, fullKey string, value interface{}) error
	Invalidate(ctx context.Context) error
}

// CreateItemInput is the unvalidated payload of a create request.
type CreateItemInput struct {
	Name       string
	Categories []string
	Colors     []string
	Seasons    []string
	Size       string
	Material   string
	ImagePath  string
}

type ItemService interface {
	ListItems(ctx context.Context, params filter.Params) ([]model.Item, error)
	GetItemByID(id uint) (*model.Item, error)
	CreateItem(ctx context.Context, input CreateItemInput) (*model.Item, error)
	DeleteItem(ctx context.Context, id uint) error
	Vocabulary() model.Vocabulary
}

type itemService struct {
	itemRepo    repository.ItemRepository
	cleanupRepo repository.ImageCleanupRepository
	images      storage.ImageStore
	cache       ListCache
}

// NewItemService wires the item use cases. cleanupRepo and cache may be nil.
func NewItemService(
	itemRepo repository.ItemRepository,
	images storage.ImageStore,
	cleanupRepo repository.ImageCleanupRepository,
	cache ListCache,
) ItemService {
	return &itemService{
		itemRepo:    itemRepo,
		cleanupRepo: cleanupRepo,
		images:      images,
		cache:       cache,
	}
}

func (s *itemService) ListItems(ctx context.Context, params filter.Params) ([]model.Item, error) {
	criteria := filter.Parse(params)

	logger.Debug("Listing items", logger.Fields{
		"keyword":    criteria.Keyword,
		"categories": criteria.Categories.Sorted(),
		"colors":     criteria.Colors.Sorted(),
		"seasons":    criteria.Seasons.Sorted(),
	})

	cacheKey := s.cacheKey(ctx, criteria)
	if cacheKey != "" {
		var cached []model.Item
		err := s.cache.Get(ctx, cacheKey, &cached)
		if err == nil {
			logger.Debug("Item list served from cache", logger.Fields{
				"count": len(cached),
			})
			return cached, nil
		}
		if !isCacheMiss(err) {
			logger.Warn("Item list cache read failed", logger.Fields{
				"error": err.Error(),
			})
		}
	}

	snapshot, err := s.itemRepo.FindAll()
	if err != nil {
		logger.Error("Failed to list items", err)
		return nil, err
	}

	items := filter.Execute(snapshot, filter.Build(criteria))

	if cacheKey != "" {
		if err := s.cache.Set(ctx, cacheKey, items); err != nil {
			logger.Warn("Item list cache write failed", logger.Fields{
				"error": err.Error(),
			})
		}
	}

	logger.Info("Items listed", logger.Fields{
		"count": len(items),
		"total": len(snapshot),
	})
	return items, nil
}

// cacheKey returns "" when caching is unavailable for this call.
func (s *itemService) cacheKey(ctx context.Context, criteria filter.Criteria) string {
	if s.cache == nil {
		return ""
	}
	key, err := s.cache.Key(ctx, "items:"+criteria.Key())
	if err != nil {
		logger.Warn("Item list cache unavailable", logger.Fields{
			"error": err.Error(),
		})
		return ""
	}
	return key
}

func isCacheMiss(err error) bool {
	return errors.Is(err, redis.ErrCacheMiss)
}

func (s *itemService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.Warn("Failed to invalidate item list cache", logger.Fields{
			"error": err.Error(),
		})
	}
}

func (s *itemService) GetItemByID(id uint) (*model.Item, error) {
	item, err := s.itemRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Item not found", logger.Fields{
				"item_id": id,
			})
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// CreateItem validates every tag against the vocabulary before anything is
// persisted. Unknown tags fail with *model.InvalidTagError.
func (s *itemService) CreateItem(ctx context.Context, input CreateItemInput) (*model.Item, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	categories, err := model.ParseCategories(input.Categories)
	if err != nil {
		return nil, err
	}
	colors, err := model.ParseColors(input.Colors)
	if err != nil {
		return nil, err
	}
	seasons, err := model.ParseSeasons(input.Seasons)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 || len(colors) == 0 || len(seasons) == 0 {
		return nil, ErrTagsRequired
	}

	item := &model.Item{
		Name:       name,
		Categories: categories,
		Colors:     colors,
		Seasons:    seasons,
		Size:       strings.TrimSpace(input.Size),
		Material:   strings.TrimSpace(input.Material),
		ImagePath:  strings.TrimSpace(input.ImagePath),
		OwnerID:    model.DefaultOwnerID,
	}

	logger.Info("Creating new item", logger.Fields{
		"name":       item.Name,
		"categories": item.Categories,
		"colors":     item.Colors,
		"seasons":    item.Seasons,
	})

	if err := s.itemRepo.Create(item); err != nil {
		logger.Error("Failed to create item", err, logger.Fields{
			"name": item.Name,
		})
		return nil, err
	}
	s.invalidateCache(ctx)

	logger.Info("Item created successfully", logger.Fields{
		"item_id": item.ID,
		"name":    item.Name,
	})
	return item, nil
}

// DeleteItem removes the record, then releases its image. The record deletion
// is authoritative: image release failures are logged and queued for retry
// but never returned.
func (s *itemService) DeleteItem(ctx context.Context, id uint) error {
	logger.Info("Deleting item", logger.Fields{
		"item_id": id,
	})

	removed, err := s.itemRepo.DeleteByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot delete: item not found", logger.Fields{
				"item_id": id,
			})
			return ErrItemNotFound
		}
		logger.Error("Failed to delete item", err, logger.Fields{
			"item_id": id,
		})
		return err
	}
	s.invalidateCache(ctx)

	s.releaseImage(ctx, removed)

	logger.Info("Item deleted successfully", logger.Fields{
		"item_id": id,
	})
	return nil
}

func (s *itemService) releaseImage(ctx context.Context, item *model.Item) {
	if item.ImagePath == "" || s.images == nil {
		return
	}
	if !s.images.Owns(item.ImagePath) {
		logger.Debug("Skipping cleanup of image not held by storage", logger.Fields{
			"item_id":    item.ID,
			"image_path": item.ImagePath,
		})
		return
	}

	err := s.images.DeleteByURL(ctx, item.ImagePath)
	if err == nil {
		return
	}

	logger.Warn("Failed to delete storage file", logger.Fields{
		"item_id":    item.ID,
		"image_path": item.ImagePath,
		"error":      err.Error(),
	})

	if s.cleanupRepo == nil {
		return
	}
	pending := &model.PendingImageDeletion{
		ImagePath: item.ImagePath,
		ItemID:    item.ID,
		Attempts:  1,
		LastError: err.Error(),
	}
	if err := s.cleanupRepo.Create(pending); err != nil {
		logger.Error("Failed to queue image deletion for retry", err, logger.Fields{
			"item_id":    item.ID,
			"image_path": item.ImagePath,
		})
	}
}

func (s *itemService) Vocabulary() model.Vocabulary {
	return model.TagVocabulary()
}

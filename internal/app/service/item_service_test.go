package service

import (
	"context"
	"errors"
	"testing"

	"github.com/closetly/wardrobe-backend/internal/app/filter"
	"github.com/closetly/wardrobe-backend/internal/app/model"
	"github.com/closetly/wardrobe-backend/internal/app/repository"
	"github.com/closetly/wardrobe-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type itemServiceFixture struct {
	service     ItemService
	images      *fakeImageStore
	cleanupRepo repository.ImageCleanupRepository
	cache       *memoryCache
}

func setupItemServiceTest(t *testing.T, withCache bool) *itemServiceFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	f := &itemServiceFixture{
		images:      newFakeImageStore(),
		cleanupRepo: repository.NewImageCleanupRepository(testDB),
	}
	var cache ListCache
	if withCache {
		f.cache = newMemoryCache()
		cache = f.cache
	}
	f.service = NewItemService(repository.NewItemRepository(testDB), f.images, f.cleanupRepo, cache)
	return f
}

func names(items []model.Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Name)
	}
	return out
}

func TestItemService_CreateItem(t *testing.T) {
	f := setupItemServiceTest(t, false)

	item, err := f.service.CreateItem(context.Background(), CreateItemInput{
		Name:       "  red dress ",
		Categories: []string{"Dress", "outer", "dress"},
		Colors:     []string{"red"},
		Seasons:    []string{"summer"},
		Size:       "S",
	})
	require.NoError(t, err)

	assert.NotZero(t, item.ID)
	assert.Equal(t, "red dress", item.Name)
	assert.Equal(t, []model.Category{model.CategoryDress, model.CategoryOuter}, item.Categories)
	assert.Equal(t, model.DefaultOwnerID, item.OwnerID)
	assert.Equal(t, "", item.Material)
}

func TestItemService_CreateItem_Validation(t *testing.T) {
	f := setupItemServiceTest(t, false)
	ctx := context.Background()

	valid := func() CreateItemInput {
		return CreateItemInput{
			Name:       "coat",
			Categories: []string{"outer"},
			Colors:     []string{"blue"},
			Seasons:    []string{"winter"},
		}
	}

	t.Run("Unknown category", func(t *testing.T) {
		in := valid()
		in.Categories = []string{"shoes"}
		_, err := f.service.CreateItem(ctx, in)

		var tagErr *model.InvalidTagError
		require.True(t, errors.As(err, &tagErr))
		assert.Equal(t, model.DimensionCategory, tagErr.Dimension)
	})

	t.Run("Unknown season", func(t *testing.T) {
		in := valid()
		in.Seasons = []string{"winter", "rainy"}
		_, err := f.service.CreateItem(ctx, in)

		var tagErr *model.InvalidTagError
		require.True(t, errors.As(err, &tagErr))
		assert.Equal(t, "rainy", tagErr.Value)
	})

	t.Run("Missing name", func(t *testing.T) {
		in := valid()
		in.Name = "   "
		_, err := f.service.CreateItem(ctx, in)
		assert.ErrorIs(t, err, ErrNameRequired)
	})

	t.Run("Empty tag list", func(t *testing.T) {
		in := valid()
		in.Colors = nil
		_, err := f.service.CreateItem(ctx, in)
		assert.ErrorIs(t, err, ErrTagsRequired)
	})

	items, err := f.service.ListItems(ctx, filter.Params{})
	require.NoError(t, err)
	assert.Empty(t, items, "rejected items must not be persisted")
}

func TestItemService_Scenario(t *testing.T) {
	f := setupItemServiceTest(t, false)
	ctx := context.Background()

	a, err := f.service.CreateItem(ctx, CreateItemInput{
		Name: "red dress", Categories: []string{"dress"}, Colors: []string{"red"}, Seasons: []string{"summer"},
		ImagePath: "https://cdn.example.com/items/a.png",
	})
	require.NoError(t, err)
	_, err = f.service.CreateItem(ctx, CreateItemInput{
		Name: "blue coat", Categories: []string{"outer"}, Colors: []string{"blue"}, Seasons: []string{"winter"},
	})
	require.NoError(t, err)

	items, err := f.service.ListItems(ctx, filter.Params{Color: "red,blue"})
	require.NoError(t, err)
	assert.Equal(t, []string{"blue coat", "red dress"}, names(items))

	items, err = f.service.ListItems(ctx, filter.Params{Keyword: "dress"})
	require.NoError(t, err)
	assert.Equal(t, []string{"red dress"}, names(items))

	items, err = f.service.ListItems(ctx, filter.Params{Category: "tops"})
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, f.service.DeleteItem(ctx, a.ID))
	assert.Equal(t, []string{"https://cdn.example.com/items/a.png"}, f.images.deleted)

	items, err = f.service.ListItems(ctx, filter.Params{})
	require.NoError(t, err)
	assert.Equal(t, []string{"blue coat"}, names(items))
}

func TestItemService_GetItemByID(t *testing.T) {
	f := setupItemServiceTest(t, false)

	created, err := f.service.CreateItem(context.Background(), CreateItemInput{
		Name: "knit", Categories: []string{"tops"}, Colors: []string{"beige"}, Seasons: []string{"autumn"},
	})
	require.NoError(t, err)

	found, err := f.service.GetItemByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "knit", found.Name)

	_, err = f.service.GetItemByID(9999)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestItemService_DeleteItem_NotFound(t *testing.T) {
	f := setupItemServiceTest(t, false)

	err := f.service.DeleteItem(context.Background(), 42)
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.Empty(t, f.images.deleted)
}

func TestItemService_DeleteItem_StorageFailureIsSwallowed(t *testing.T) {
	f := setupItemServiceTest(t, false)
	ctx := context.Background()
	f.images.deleteErr = errors.New("bucket unavailable")

	item, err := f.service.CreateItem(ctx, CreateItemInput{
		Name: "tee", Categories: []string{"tops"}, Colors: []string{"white"}, Seasons: []string{"summer"},
		ImagePath: "https://cdn.example.com/items/tee.png",
	})
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteItem(ctx, item.ID))

	_, err = f.service.GetItemByID(item.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)

	pending, err := f.cleanupRepo.FindPending(0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "https://cdn.example.com/items/tee.png", pending[0].ImagePath)
	assert.Equal(t, item.ID, pending[0].ItemID)
	assert.Equal(t, 1, pending[0].Attempts)
}

func TestItemService_DeleteItem_SkipsForeignAndEmptyImages(t *testing.T) {
	f := setupItemServiceTest(t, false)
	ctx := context.Background()

	for _, path := range []string{"", "https://elsewhere.example.org/pic.png"} {
		item, err := f.service.CreateItem(ctx, CreateItemInput{
			Name: "skirt", Categories: []string{"bottoms"}, Colors: []string{"black"}, Seasons: []string{"spring"},
			ImagePath: path,
		})
		require.NoError(t, err)
		require.NoError(t, f.service.DeleteItem(ctx, item.ID))
	}

	assert.Empty(t, f.images.deleted)
	pending, err := f.cleanupRepo.FindPending(0)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestItemService_ListCache(t *testing.T) {
	f := setupItemServiceTest(t, true)
	ctx := context.Background()

	create := func(name, color string) *model.Item {
		item, err := f.service.CreateItem(ctx, CreateItemInput{
			Name: name, Categories: []string{"tops"}, Colors: []string{color}, Seasons: []string{"spring"},
		})
		require.NoError(t, err)
		return item
	}

	first := create("white shirt", "white")

	items, err := f.service.ListItems(ctx, filter.Params{Color: "white,black"})
	require.NoError(t, err)
	assert.Equal(t, []string{"white shirt"}, names(items))
	assert.Equal(t, 0, f.cache.hits)

	// same criteria in another spelling hits the cache
	items, err = f.service.ListItems(ctx, filter.Params{Color: " black , white"})
	require.NoError(t, err)
	assert.Equal(t, []string{"white shirt"}, names(items))
	assert.Equal(t, 1, f.cache.hits)

	create("black shirt", "black")
	items, err = f.service.ListItems(ctx, filter.Params{Color: "white,black"})
	require.NoError(t, err)
	assert.Equal(t, []string{"black shirt", "white shirt"}, names(items))

	require.NoError(t, f.service.DeleteItem(ctx, first.ID))
	items, err = f.service.ListItems(ctx, filter.Params{Color: "white,black"})
	require.NoError(t, err)
	assert.Equal(t, []string{"black shirt"}, names(items))
	assert.Equal(t, 3, f.cache.invalidated)
}

func TestItemService_ListCacheUnavailable(t *testing.T) {
	f := setupItemServiceTest(t, true)
	ctx := context.Background()
	f.cache.failKey = true

	_, err := f.service.CreateItem(ctx, CreateItemInput{
		Name: "jeans", Categories: []string{"bottoms"}, Colors: []string{"blue"}, Seasons: []string{"autumn"},
	})
	require.NoError(t, err)

	items, err := f.service.ListItems(ctx, filter.Params{})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Empty(t, f.cache.entries)
}

func TestItemService_Vocabulary(t *testing.T) {
	f := setupItemServiceTest(t, false)

	v := f.service.Vocabulary()
	assert.Equal(t, model.Categories, v.Categories)
	assert.Equal(t, model.Colors, v.Colors)
	assert.Equal(t, model.Seasons, v.Seasons)
}

package repository

import (
	"errors"
	"sync"
	"testing"

	"github.com/closetly/wardrobe-backend/internal/app/model"
	"github.com/closetly/wardrobe-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupItemTest(t *testing.T) (*gorm.DB, ItemRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	return testDB, NewItemRepository(testDB)
}

func newItem(name string) *model.Item {
	return &model.Item{
		Name:       name,
		Categories: []model.Category{model.CategoryDress, model.CategoryOuter},
		Colors:     []model.Color{model.ColorRed},
		Seasons:    []model.Season{model.SeasonSummer},
		ImagePath:  "https://cdn.example.com/items/" + name + ".png",
	}
}

func TestItemRepository_Create(t *testing.T) {
	_, repo := setupItemTest(t)

	item := newItem("red dress")
	err := repo.Create(item)
	require.NoError(t, err)

	assert.NotZero(t, item.ID)
	assert.False(t, item.CreatedAt.IsZero())
	assert.Equal(t, model.DefaultOwnerID, item.OwnerID)
}

func TestItemRepository_TagListsRoundTrip(t *testing.T) {
	_, repo := setupItemTest(t)

	item := newItem("coat")
	item.Size = "M"
	item.Material = "wool"
	require.NoError(t, repo.Create(item))

	found, err := repo.FindByID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, []model.Category{model.CategoryDress, model.CategoryOuter}, found.Categories)
	assert.Equal(t, []model.Color{model.ColorRed}, found.Colors)
	assert.Equal(t, []model.Season{model.SeasonSummer}, found.Seasons)
	assert.Equal(t, "M", found.Size)
	assert.Equal(t, "wool", found.Material)
}

func TestItemRepository_FindAll(t *testing.T) {
	_, repo := setupItemTest(t)

	found, err := repo.FindAll()
	require.NoError(t, err)
	assert.Empty(t, found)

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Create(newItem(name)))
	}

	found, err = repo.FindAll()
	require.NoError(t, err)
	require.Len(t, found, 3)
	assert.Equal(t, "c", found[0].Name)
	assert.Equal(t, "a", found[2].Name)
}

func TestItemRepository_FindByID_NotFound(t *testing.T) {
	_, repo := setupItemTest(t)

	found, err := repo.FindByID(9999)
	assert.Nil(t, found)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestItemRepository_DeleteByID(t *testing.T) {
	_, repo := setupItemTest(t)

	item := newItem("scarf")
	require.NoError(t, repo.Create(item))

	removed, err := repo.DeleteByID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, removed.ID)
	assert.Equal(t, item.ImagePath, removed.ImagePath)

	_, err = repo.FindByID(item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	removed, err = repo.DeleteByID(item.ID)
	assert.Nil(t, removed)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestItemRepository_IDsAreNotReused(t *testing.T) {
	_, repo := setupItemTest(t)

	first := newItem("first")
	second := newItem("second")
	require.NoError(t, repo.Create(first))
	require.NoError(t, repo.Create(second))

	_, err := repo.DeleteByID(second.ID)
	require.NoError(t, err)

	third := newItem("third")
	require.NoError(t, repo.Create(third))
	assert.Greater(t, third.ID, second.ID)
}

func TestItemRepository_ConcurrentCreatesGetDistinctIDs(t *testing.T) {
	_, repo := setupItemTest(t)

	const workers = 20
	var wg sync.WaitGroup
	idCh := make(chan uint, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			item := newItem("concurrent")
			if assert.NoError(t, repo.Create(item)) {
				idCh <- item.ID
			}
		}()
	}
	wg.Wait()
	close(idCh)

	seen := map[uint]bool{}
	for id := range idCh {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers)
}

func TestItemRepository_CreateInBatches(t *testing.T) {
	_, repo := setupItemTest(t)

	items := []model.Item{*newItem("one"), *newItem("two"), *newItem("three")}
	require.NoError(t, repo.CreateInBatches(items, 2))
	require.NoError(t, repo.CreateInBatches(nil, 2))

	found, err := repo.FindAll()
	require.NoError(t, err)
	assert.Len(t, found, 3)
	for _, item := range found {
		assert.Equal(t, model.DefaultOwnerID, item.OwnerID)
	}
}

func TestItemRepository_CreateInBatchesRejectsNonPositiveSize(t *testing.T) {
	_, repo := setupItemTest(t)

	for _, size := range []int{0, -1} {
		assert.Error(t, repo.CreateInBatches([]model.Item{*newItem("one")}, size))
	}

	found, err := repo.FindAll()
	require.NoError(t, err)
	assert.Empty(t, found)
}

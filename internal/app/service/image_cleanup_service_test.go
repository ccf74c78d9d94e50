package service

import (
	"context"
	"errors"
	"testing"

	"github.com/closetly/wardrobe-backend/internal/app/model"
	"github.com/closetly/wardrobe-backend/internal/app/repository"
	"github.com/closetly/wardrobe-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCleanupTest(t *testing.T) (repository.ImageCleanupRepository, *fakeImageStore, ImageCleanupService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	repo := repository.NewImageCleanupRepository(testDB)
	images := newFakeImageStore()
	return repo, images, NewImageCleanupService(repo, images, 3, 10)
}

func TestImageCleanupService_RetryPending(t *testing.T) {
	repo, images, svc := setupCleanupTest(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(&model.PendingImageDeletion{ImagePath: "https://cdn.example.com/items/a.png", Attempts: 1}))
	require.NoError(t, repo.Create(&model.PendingImageDeletion{ImagePath: "https://cdn.example.com/items/b.png", Attempts: 3}))

	result, err := svc.RetryPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, CleanupResult{Deleted: 1, Abandoned: 1}, result)
	assert.Equal(t, []string{"https://cdn.example.com/items/a.png"}, images.deleted)

	pending, err := repo.FindPending(0)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestImageCleanupService_RecordsFailures(t *testing.T) {
	repo, images, svc := setupCleanupTest(t)
	ctx := context.Background()
	images.deleteErr = errors.New("timeout")

	require.NoError(t, repo.Create(&model.PendingImageDeletion{ImagePath: "https://cdn.example.com/items/c.png", Attempts: 1}))

	result, err := svc.RetryPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, CleanupResult{Failed: 1}, result)

	result, err = svc.RetryPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, CleanupResult{Failed: 1}, result)

	// third attempt reached the limit
	result, err = svc.RetryPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, CleanupResult{Abandoned: 1}, result)
}

func TestImageCleanupService_Empty(t *testing.T) {
	_, _, svc := setupCleanupTest(t)

	result, err := svc.RetryPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, CleanupResult{}, result)
}

func TestImageCleanupService_NewerRecordsGetABatchSlot(t *testing.T) {
	repo, images, _ := setupCleanupTest(t)
	svc := NewImageCleanupService(repo, images, 100, 1)
	ctx := context.Background()

	require.NoError(t, repo.Create(&model.PendingImageDeletion{ImagePath: "https://cdn.example.com/items/stuck.png", Attempts: 7}))
	require.NoError(t, repo.Create(&model.PendingImageDeletion{ImagePath: "https://cdn.example.com/items/fresh.png"}))

	result, err := svc.RetryPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, CleanupResult{Deleted: 1}, result)
	assert.Equal(t, []string{"https://cdn.example.com/items/fresh.png"}, images.deleted)
}

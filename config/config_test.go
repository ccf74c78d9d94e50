package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("REDIS_HOST", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, StorageLocal, cfg.Storage.Driver)
	assert.False(t, cfg.Storage.AllowAnyImage)
	assert.Equal(t, int64(10<<20), cfg.Storage.MaxUploadSize)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "POSTGRES")
	t.Setenv("STORAGE_DRIVER", "s3")
	t.Setenv("UPLOAD_ALLOW_ANY_IMAGE", "true")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("ITEM_CACHE_TTL", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Contains(t, cfg.Database.DSN(), "dbname=wardrobe")
	assert.True(t, cfg.Storage.AllowAnyImage)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsNonPositiveCleanupLimits(t *testing.T) {
	for _, env := range []string{"IMAGE_CLEANUP_MAX_ATTEMPTS", "IMAGE_CLEANUP_BATCH_SIZE"} {
		for _, value := range []string{"0", "-3"} {
			t.Run(env+"="+value, func(t *testing.T) {
				t.Setenv(env, value)

				_, err := Load()
				require.Error(t, err)
				assert.Contains(t, err.Error(), env)
			})
		}
	}
}

func TestParseSlice(t *testing.T) {
	assert.Equal(t, []string{}, parseSlice(""))
	assert.Equal(t, []string{"a", "b"}, parseSlice(" a, ,b "))
}

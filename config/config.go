package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	StorageS3    = "s3"
	StorageLocal = "local"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Storage  StorageConfig
	S3       S3Config
	Redis    RedisConfig
	Cleanup  CleanupConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type DatabaseConfig struct {
	Driver     string // postgres or sqlite
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SSLMode    string
	SQLitePath string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// StorageConfig selects the image upload gateway and its upload policy.
type StorageConfig struct {
	Driver        string // s3 or local
	LocalDir      string
	LocalBaseURL  string
	AllowAnyImage bool // accept any image/* instead of jpeg/png/webp only
	MaxUploadSize int64
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
	Folder          string
}

// RedisConfig enables the item list cache when Host is set.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	CacheTTL time.Duration
}

func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

type CleanupConfig struct {
	Schedule    string
	MaxAttempts int
	BatchSize   int
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8000"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "5432"),
			User:       getEnv("DB_USER", "wardrobe"),
			Password:   getEnv("DB_PASSWORD", ""),
			DBName:     getEnv("DB_NAME", "wardrobe"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			SQLitePath: getEnv("DB_SQLITE_PATH", "./app.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")),
		},
		Storage: StorageConfig{
			Driver:        strings.ToLower(getEnv("STORAGE_DRIVER", StorageLocal)),
			LocalDir:      getEnv("UPLOAD_DIR", "./uploads"),
			LocalBaseURL:  getEnv("UPLOAD_BASE_URL", "/uploads"),
			AllowAnyImage: parseBool(getEnv("UPLOAD_ALLOW_ANY_IMAGE", "false")),
			MaxUploadSize: parseInt64(getEnv("UPLOAD_MAX_BYTES", "10485760"), 10<<20),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "ap-northeast-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", "wardrobe-uploads"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
			Folder:          getEnv("AWS_S3_FOLDER", "items"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       int(parseInt64(getEnv("REDIS_DB", "0"), 0)),
			CacheTTL: parseDuration(getEnv("ITEM_CACHE_TTL", "5m"), 5*time.Minute),
		},
		Cleanup: CleanupConfig{
			Schedule:    getEnv("IMAGE_CLEANUP_SCHEDULE", "@every 10m"),
			MaxAttempts: int(parseInt64(getEnv("IMAGE_CLEANUP_MAX_ATTEMPTS", "5"), 5)),
			BatchSize:   int(parseInt64(getEnv("IMAGE_CLEANUP_BATCH_SIZE", "50"), 50)),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	switch c.Storage.Driver {
	case StorageS3, StorageLocal:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Cleanup.MaxAttempts <= 0 {
		return fmt.Errorf("IMAGE_CLEANUP_MAX_ATTEMPTS must be positive, got %d", c.Cleanup.MaxAttempts)
	}
	if c.Cleanup.BatchSize <= 0 {
		return fmt.Errorf("IMAGE_CLEANUP_BATCH_SIZE must be positive, got %d", c.Cleanup.BatchSize)
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	if c.Driver == DriverSQLite {
		return c.SQLitePath
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt64(s string, fallback int64) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

func parseSlice(s string) []string {
	result := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

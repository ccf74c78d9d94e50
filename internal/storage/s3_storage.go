package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appconfig "github.com/closetly/wardrobe-backend/config"
	"github.com/closetly/wardrobe-backend/pkg/logger"
)

type S3Storage struct {
	client  *s3.Client
	bucket  string
	baseURL string
	folder  string
}

func NewS3Storage(ctx context.Context, cfg appconfig.S3Config) *S3Storage {
	var awsCfg aws.Config
	var err error

	// If credentials are provided, use them. Otherwise, use default credential chain
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg = aws.Config{
			Region: cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"",
			),
		}
	} else {
		awsCfg, err = config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
		if err != nil {
			logger.Warn("Failed to load default AWS config, using region only", logger.Fields{
				"error": err.Error(),
			})
			awsCfg = aws.Config{Region: cfg.Region}
		}
	}

	return &S3Storage{
		client:  s3.NewFromConfig(awsCfg),
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		folder:  strings.Trim(cfg.Folder, "/"),
	}
}

func (s *S3Storage) key(contentType string) string {
	name := objectName(contentType)
	if s.folder == "" {
		return name
	}
	return s.folder + "/" + name
}

// publicURL returns the CloudFront/custom domain URL when configured, the
// virtual-hosted S3 URL otherwise.
func (s *S3Storage) publicURL(key string) string {
	if s.baseURL != "" {
		return fmt.Sprintf("%s/%s", s.baseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.client.Options().Region, key)
}

// keyFromURL reverses publicURL. ok is false for URLs this bucket did not issue.
func (s *S3Storage) keyFromURL(rawURL string) (string, bool) {
	if s.baseURL != "" && strings.HasPrefix(rawURL, s.baseURL+"/") {
		return strings.TrimPrefix(rawURL, s.baseURL+"/"), true
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", false
	}
	if !strings.HasPrefix(u.Host, s.bucket+".s3.") {
		return "", false
	}
	key := strings.TrimPrefix(u.Path, "/")
	return key, key != ""
}

func (s *S3Storage) Owns(rawURL string) bool {
	_, ok := s.keyFromURL(rawURL)
	return ok
}

func (s *S3Storage) Store(ctx context.Context, data []byte, contentType, filename string) (string, error) {
	key := s.key(contentType)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	logger.Debug("Image stored in S3", logger.Fields{
		"bucket":   s.bucket,
		"key":      key,
		"filename": filename,
		"size":     len(data),
	})
	return s.publicURL(key), nil
}

func (s *S3Storage) DeleteByURL(ctx context.Context, rawURL string) error {
	key, ok := s.keyFromURL(rawURL)
	if !ok {
		return fmt.Errorf("%w: %s is not an object of bucket %s", ErrDeleteFailed, rawURL, s.bucket)
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	return nil
}

// GeneratePresignedURL generates a pre-signed PUT URL valid for 15 minutes.
func (s *S3Storage) GeneratePresignedURL(ctx context.Context, filename, contentType string) (*PresignedURLResponse, error) {
	key := s.key(contentType)

	logger.Debug("Presigning image upload", logger.Fields{
		"bucket":   s.bucket,
		"key":      key,
		"filename": filename,
	})

	presignClient := s3.NewPresignClient(s.client)
	presignedReq, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return &PresignedURLResponse{
		UploadURL: presignedReq.URL,
		FileURL:   s.publicURL(key),
		Key:       key,
	}, nil
}

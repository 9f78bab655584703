// Package storage archives raw GST portal statements in object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	gstapp "github.com/jewelerp/backend/internal/application/gst"
	infraconfig "github.com/jewelerp/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Ensure S3StatementArchive implements StatementArchive
var _ gstapp.StatementArchive = (*S3StatementArchive)(nil)

// S3StatementArchive stores the raw GSTR-2A/2B payloads exactly as they
// were imported, one object per import, so a filed return can be traced
// back to the statement it was reconciled against. It works with any
// S3-compatible backend (AWS S3, MinIO, etc.)
type S3StatementArchive struct {
	client *s3.Client
	bucket string
	logger *zap.Logger
	now    func() time.Time
}

// S3StatementArchiveOption is a functional option for configuring S3StatementArchive
type S3StatementArchiveOption func(*S3StatementArchive)

// WithLogger sets a custom logger for S3StatementArchive
func WithLogger(logger *zap.Logger) S3StatementArchiveOption {
	return func(s *S3StatementArchive) {
		s.logger = logger
	}
}

// NewS3StatementArchive creates a new S3StatementArchive from configuration
func NewS3StatementArchive(cfg *infraconfig.StorageConfig, opts ...S3StatementArchiveOption) (*S3StatementArchive, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	endpoint := cfg.Endpoint
	if endpoint != "" {
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			endpoint = "https://" + endpoint
		}
		if _, err := url.Parse(endpoint); err != nil {
			return nil, fmt.Errorf("invalid storage endpoint: %w", err)
		}
	}

	region := cfg.Region
	if region == "" {
		region = "ap-south-1"
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.ForcePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	archive := &S3StatementArchive{
		client: client,
		bucket: cfg.Bucket,
		logger: zap.NewNop(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(archive)
	}

	return archive, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *S3StatementArchive) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating statement archive bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		// Ignore "BucketAlreadyOwnedByYou" error (race condition)
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	return nil
}

// Store uploads one imported statement payload and returns its object key.
// Each import gets its own object; re-imports never overwrite earlier
// evidence.
func (s *S3StatementArchive) Store(ctx context.Context, tenantID uuid.UUID, source, period string, payload []byte) (string, error) {
	if source == "" {
		return "", errors.New("statement source is required")
	}
	if period == "" {
		return "", errors.New("filing period is required")
	}

	key := archiveKey(tenantID, source, period, s.now())

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive statement: %w", err)
	}

	s.logger.Info("archived portal statement",
		zap.String("tenant_id", tenantID.String()),
		zap.String("source", source),
		zap.String("period", period),
		zap.String("key", key))

	return key, nil
}

// GetBucket returns the bucket name
func (s *S3StatementArchive) GetBucket() string {
	return s.bucket
}

func archiveKey(tenantID uuid.UUID, source, period string, at time.Time) string {
	return fmt.Sprintf("gst/%s/%s/%s/%s.json",
		tenantID.String(),
		strings.ToLower(source),
		period,
		at.UTC().Format("20060102T150405Z"))
}

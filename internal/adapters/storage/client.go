package storage

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	// PresignedURLTTL is the default expiration time for presigned URLs (15 minutes).
	PresignedURLTTL = 15 * time.Minute

	// DefaultMaxFileSize applies when MINIO_MAX_FILE_SIZE is unset.
	DefaultMaxFileSize int64 = 10 << 20

	// defaultRegion avoids a bucket-location round trip before every presign.
	defaultRegion = "us-east-1"
)

const publicReadPolicy = `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`

// MinIOService implements StorageService using MinIO.
type MinIOService struct {
	client        *minio.Client
	maxFileSize   int64
	publicBaseURL string
	now           func() time.Time
}

// NewMinIOService creates a new MinIO storage service.
func NewMinIOService(cfg Config) (*MinIOService, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("MinIO is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
		Region: defaultRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	maxSize := cfg.GetMinIOMaxFileSize()
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	base := strings.TrimRight(cfg.GetMinIOPublicBaseURL(), "/")
	if base == "" {
		scheme := "http"
		if cfg.GetMinIOUseSSL() {
			scheme = "https"
		}
		base = scheme + "://" + cfg.GetMinIOEndpoint()
	}

	return &MinIOService{
		client:        client,
		maxFileSize:   maxSize,
		publicBaseURL: base,
		now:           time.Now,
	}, nil
}

// EnsureBucketExists creates the bucket if it doesn't exist and allows
// anonymous reads, since lead emails link straight to the file.
func (s *MinIOService) EnsureBucketExists(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
	}

	if err := s.client.SetBucketPolicy(ctx, bucket, fmt.Sprintf(publicReadPolicy, bucket)); err != nil {
		return fmt.Errorf("failed to set read policy on bucket %s: %w", bucket, err)
	}
	return nil
}

// GenerateUploadURL creates a presigned URL for uploading a file. The
// content type is part of the signature, so the upload must declare the
// same type that was validated here.
func (s *MinIOService) GenerateUploadURL(ctx context.Context, bucket, folder, fileName, contentType string, sizeBytes int64) (*PresignedURL, error) {
	if err := s.ValidateContentType(contentType); err != nil {
		return nil, err
	}
	if err := s.ValidateFileSize(sizeBytes); err != nil {
		return nil, err
	}

	fileKey := s.objectKey(folder, fileName)
	normalized := NormalizeContentType(contentType)
	headers := http.Header{}
	headers.Set("Content-Type", normalized)

	expiresAt := s.now().Add(PresignedURLTTL)
	presignedURL, err := s.client.PresignHeader(ctx, http.MethodPut, bucket, fileKey, PresignedURLTTL, nil, headers)
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned upload URL: %w", err)
	}

	return &PresignedURL{
		URL:       presignedURL.String(),
		FileKey:   fileKey,
		ExpiresAt: expiresAt,
		Headers:   map[string]string{"Content-Type": normalized},
	}, nil
}

// PublicURL returns the anonymous read address of an object.
func (s *MinIOService) PublicURL(bucket, fileKey string) string {
	return s.publicBaseURL + "/" + bucket + "/" + fileKey
}

// GetMaxFileSize returns the configured maximum file size in bytes.
func (s *MinIOService) GetMaxFileSize() int64 {
	return s.maxFileSize
}

func (s *MinIOService) objectKey(folder, fileName string) string {
	safe := SafeFileName(fileName)
	ext := path.Ext(safe)
	base := strings.TrimSuffix(safe, ext)
	unique := fmt.Sprintf("%s_%s%s", base, uuid.New().String()[:8], ext)
	return path.Join(folder, s.now().UTC().Format("2006/01"), unique)
}

var _ StorageService = (*MinIOService)(nil)

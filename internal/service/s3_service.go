package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/bayuahr/storefront-admin/internal/config"
)

// S3Service stores uploaded files in an S3-compatible bucket and returns
// public download URLs. It implements ImageUploader.
type S3Service struct {
	client  *s3.Client
	bucket  string
	region  string
	baseURL string
}

// NewS3Service creates an S3 client from config. A custom endpoint enables
// S3-compatible stores (MinIO, Ceph RGW) with path-style addressing.
func NewS3Service(cfg *config.StorageConfig) (*S3Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("storage config is nil")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is not configured")
	}

	opts := s3.Options{
		Region:      cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}

	return &S3Service{
		client:  s3.New(opts),
		bucket:  cfg.Bucket,
		region:  cfg.Region,
		baseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

// Upload puts an object into the bucket and returns its download URL.
func (s *S3Service) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("object upload failed")
		return "", fmt.Errorf("put object %q: %w", key, err)
	}

	log.Info().Str("key", key).Int("bytes", len(data)).Msg("object uploaded")
	return s.ObjectURL(key), nil
}

// ObjectURL returns the public URL for a stored object.
func (s *S3Service) ObjectURL(key string) string {
	if s.baseURL != "" {
		return s.baseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

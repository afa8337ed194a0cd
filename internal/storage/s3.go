package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config" // Alias config to avoid clash
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"liftlog/workout-tracker/internal/config"
	"liftlog/workout-tracker/internal/repository"
)

// s3StateStore implements repository.StateStore using an S3-compatible backend.
type s3StateStore struct {
	client     *s3.Client
	bucketName string
	prefix     string
	logger     *slog.Logger
}

// NewS3StateStore creates a state store writing one object per key.
func NewS3StateStore(ctx context.Context, cfg config.S3Config, logger *slog.Logger) (repository.StateStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BucketName == "" {
		return nil, errors.New("s3 bucket name is required")
	}

	awsSDKConfig, err := awsCfg.LoadDefaultConfig(ctx,
		awsCfg.WithRegion(cfg.Region),
		awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint := endpointURL(cfg.Endpoint, cfg.UseSSL)
	client := s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		// Force path-style addressing required by most S3-compatible services (like MinIO)
		o.UsePathStyle = true
		// S3-compatible services commonly reject the newer default integrity headers.
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DefaultObjectPrefix
	}
	logger.Info("s3 state store initialized", "endpoint", endpoint, "bucket", cfg.BucketName, "prefix", prefix)

	return &s3StateStore{
		client:     client,
		bucketName: cfg.BucketName,
		prefix:     prefix,
		logger:     logger,
	}, nil
}

// endpointURL adds a scheme to a bare host:port endpoint.
func endpointURL(endpoint string, useSSL bool) string {
	if endpoint == "" || strings.Contains(endpoint, "://") {
		return endpoint
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}

func (s *s3StateStore) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectKey(s.prefix, key)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("s3 get %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read %s: %w", key, err)
	}
	return data, nil
}

func (s *s3StateStore) Put(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucketName),
		Key:           aws.String(objectKey(s.prefix, key)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/json"),
	})
	if err != nil {
		s.logger.Error("failed to put state object", "key", key, "bucket", s.bucketName, "error", err)
		return fmt.Errorf("%w: s3 put %s: %v", repository.ErrWriteFailed, key, err)
	}
	return nil
}

// Delete removes the object. S3 reports success for missing keys.
func (s *s3StateStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectKey(s.prefix, key)),
	})
	if err != nil && !isNotFound(err) {
		s.logger.Error("failed to delete state object", "key", key, "bucket", s.bucketName, "error", err)
		return fmt.Errorf("%w: s3 delete %s: %v", repository.ErrWriteFailed, key, err)
	}
	return nil
}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}

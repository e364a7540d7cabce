package filestorage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/yigit/campusconnect/internal/pkg/logger"
)

// S3Config configures the S3 backend
type S3Config struct {
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
	UsePathStyle  bool
	// Buckets maps logical bucket names to real bucket names. Missing entries map to themselves.
	Buckets map[string]string
}

// S3Storage stores objects in S3 or an S3 compatible service
type S3Storage struct {
	client *s3.Client
	cfg    S3Config
}

// NewS3Storage loads AWS credentials and builds the client
func NewS3Storage(ctx context.Context, cfg S3Config) (*S3Storage, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	logger.Info().Str("region", cfg.Region).Str("endpoint", cfg.Endpoint).Msg("S3 storage configured")
	return &S3Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

func (s *S3Storage) bucketName(bucket string) string {
	if name, ok := s.cfg.Buckets[bucket]; ok && name != "" {
		return name
	}
	return bucket
}

// Put uploads the object with PutObject
func (s *S3Storage) Put(ctx context.Context, bucket, key, contentType string, body io.Reader, size int64) (Object, error) {
	if !validKey(key) {
		return Object{}, fmt.Errorf("invalid object key %q", key)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucketName(bucket)),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return Object{}, fmt.Errorf("failed to upload object: %w", err)
	}

	return Object{Bucket: bucket, Key: key, URL: s.URL(bucket, key)}, nil
}

// Delete removes the object with DeleteObject
func (s *S3Storage) Delete(ctx context.Context, bucket, key string) error {
	if key == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName(bucket)),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// URL returns PublicBaseURL/<bucket>/<key>, or the virtual-hosted S3 URL
func (s *S3Storage) URL(bucket, key string) string {
	name := s.bucketName(bucket)
	if s.cfg.PublicBaseURL != "" {
		return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + name + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", name, s.cfg.Region, key)
}

package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"
	"github.com/yigit/bandhub/internal/pkg/apperrors"
)

// S3Config points at an S3-compatible bucket
type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
	SignedURLTTL    time.Duration
}

// S3Store implements Store on S3 or any S3-compatible service
type S3Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	config  S3Config
	logger  zerolog.Logger
}

// NewS3Store builds a client from static credentials. A custom endpoint
// switches to path-style addressing for MinIO and R2.
func NewS3Store(ctx context.Context, cfg S3Config, logger zerolog.Logger) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		config:  cfg,
		logger:  logger,
	}, nil
}

// Put uploads an object
func (s *S3Store) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string, overwrite bool) error {
	if !overwrite {
		exists, err := s.Exists(ctx, key)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.NewConflictError("An object already exists at this path")
		}
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.config.Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to upload object")
		return apperrors.NewUpstreamError("Failed to upload file", err)
	}
	return nil
}

// SignUpload presigns a PUT for key
func (s *S3Store) SignUpload(ctx context.Context, key, contentType string) (string, error) {
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.config.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.config.SignedURLTTL))
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to presign upload")
		return "", apperrors.NewUpstreamError("Failed to sign upload URL", err)
	}
	return req.URL, nil
}

// Exists checks for key with a HEAD request
func (s *S3Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.config.Bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, apperrors.NewUpstreamError("Failed to check storage", err)
}

// Delete removes key
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.config.Bucket),
		Key:    aws.String(key),
	})
	if err != nil && !isNotFound(err) {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to delete object")
		return apperrors.NewUpstreamError("Failed to delete file", err)
	}
	return nil
}

// PublicURL joins the public base URL and key
func (s *S3Store) PublicURL(key string) string {
	base := strings.TrimRight(s.config.PublicBaseURL, "/")
	if base == "" {
		return key
	}
	return base + "/" + key
}

func isNotFound(err error) bool {
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NotFound" || code == "NoSuchKey"
	}
	return false
}

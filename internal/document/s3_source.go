package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"storefront/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"
)

// s3API is the subset of the S3 client used by s3Source.
type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// s3Source implements Source on a single S3 object.
type s3Source struct {
	client s3API
	bucket string
	key    string
	logger zerolog.Logger
}

// NewS3Source creates an S3-backed document source.
func NewS3Source(ctx context.Context, cfg config.S3Config, logger zerolog.Logger) (Source, error) {
	logger = logger.With().Str("component", "s3-source").Logger()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	logger.Info().
		Str("bucket", cfg.Bucket).
		Str("key", cfg.ObjectKey()).
		Str("region", cfg.Region).
		Msg("S3 document source initialised")

	return newS3Source(client, cfg.Bucket, cfg.ObjectKey(), logger), nil
}

func newS3Source(client s3API, bucket, key string, logger zerolog.Logger) *s3Source {
	return &s3Source{
		client: client,
		bucket: bucket,
		key:    key,
		logger: logger,
	}
}

func (s *s3Source) Name() string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.key)
}

// Read downloads the object. A missing key yields ErrNotExist.
func (s *s3Source) Read(ctx context.Context) ([]byte, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		if isNoSuchKey(err) {
			s.logger.Debug().Str("key", s.key).Msg("document object not found")
			return nil, ErrNotExist
		}
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", s.key).
			Msg("failed to get object from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", s.bucket, s.key, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		s.logger.Error().Err(err).Str("key", s.key).Msg("failed to read S3 object body")
		return nil, fmt.Errorf("failed to read S3 object %s: %w", s.key, err)
	}

	return data, nil
}

// Write uploads data, replacing the object.
func (s *s3Source) Write(ctx context.Context, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/json"),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", s.key).
			Msg("failed to put object to S3")
		return fmt.Errorf("failed to put object to S3 (bucket=%s, key=%s): %w", s.bucket, s.key, err)
	}

	s.logger.Debug().Str("key", s.key).Int("bytes", len(data)).Msg("document object written")

	return nil
}

func isNoSuchKey(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
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

// Package objectstore archives rendered documents in S3-compatible storage (AWS S3, Cloudflare R2, MinIO).
package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config selects the bucket and, for non-AWS providers, the endpoint.
type Config struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Prefix    string
}

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads objects to a single bucket.
type S3Store struct {
	client putObjectAPI
	bucket string
	prefix string
	logger *zap.Logger
}

// New builds an S3Store. Static credentials are used when both keys are set;
// otherwise the default AWS credential chain applies.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newStore(client, cfg, logger), nil
}

func newStore(client putObjectAPI, cfg Config, logger *zap.Logger) *S3Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &S3Store{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		logger: logger,
	}
}

// Put uploads data under key (joined with the configured prefix) and returns the full object key.
func (s *S3Store) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	fullKey := strings.TrimLeft(key, "/")
	if s.prefix != "" {
		fullKey = s.prefix + "/" + fullKey
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(fullKey),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", fullKey, err)
	}

	s.logger.Info("uploaded object",
		zap.String("bucket", s.bucket),
		zap.String("key", fullKey),
		zap.Int("bytes", len(data)),
	)
	return fullKey, nil
}

var unsafeKeyChars = regexp.MustCompile(`[^a-z0-9]+`)

// DocumentKey builds "<user>/<kind>/<date>-<company-slug>.pdf".
func DocumentKey(userID uuid.UUID, kind, company string, at time.Time) string {
	slug := strings.Trim(unsafeKeyChars.ReplaceAllString(strings.ToLower(company), "-"), "-")
	if slug == "" {
		slug = "company"
	}
	return fmt.Sprintf("%s/%s/%s-%s.pdf", userID, kind, at.UTC().Format("20060102-150405"), slug)
}

// Package remote mirrors exported files to an S3-compatible bucket.
package remote

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Uploader pushes a written output file to remote storage, keyed by its
// path relative to the data dir.
type Uploader interface {
	Upload(ctx context.Context, key, path string) error
}

// R2Config contains credentials for a Cloudflare R2 bucket. Any
// S3-compatible endpoint works the same way.
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

// R2Client mirrors files to R2.
type R2Client struct {
	client *s3.Client
	bucket string
	log    *slog.Logger
}

// NewR2Client creates an R2-backed uploader.
func NewR2Client(cfg R2Config, log *slog.Logger) (*R2Client, error) {
	if log == nil {
		log = slog.Default()
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	return &R2Client{client: client, bucket: cfg.Bucket, log: log}, nil
}

// Upload mirrors one local file under key, replacing any prior object.
func (c *R2Client) Upload(ctx context.Context, key, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	_, err = c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("application/vnd.apache.parquet"),
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}

	c.log.Debug("mirrored file", "key", key)
	return nil
}

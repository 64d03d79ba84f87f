package config

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/arashkm/vidhub/internal/storage"
)

// NewUploader builds the object-storage uploader from configuration.
// Credentials come from the standard AWS environment/credential chain.
// Returns nil when no bucket is configured or the SDK cannot be
// initialized; media endpoints then reject uploads with 500s instead of
// preventing startup.
func NewUploader(cfg Config) *storage.Uploader {
	if cfg.S3Bucket == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
	if err != nil {
		log.Printf("s3: load config failed: %v", err)
		return nil
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			// S3-compatible stores (e.g. MinIO) need an endpoint
			// override and path-style addressing.
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	base := cfg.S3PublicURL
	if base == "" {
		base = "https://" + cfg.S3Bucket + ".s3." + cfg.S3Region + ".amazonaws.com"
	}
	return storage.NewUploader(client, cfg.S3Bucket, base)
}

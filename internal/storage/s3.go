// Package storage uploads media files to S3-compatible object storage
// and hands back durable public URLs. The rest of the application only
// ever stores and serves those URLs; no file bytes touch the database.
package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Kinds group uploads under per-purpose key prefixes.
const (
	KindAvatar    = "avatars"
	KindCover     = "covers"
	KindVideo     = "videos"
	KindThumbnail = "thumbnails"
)

// Uploader stores objects in a single bucket and builds public URLs
// from a configured base. The base URL points either at the bucket's
// website endpoint or at a CDN in front of it.
type Uploader struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewUploader(client *s3.Client, bucket, baseURL string) *Uploader {
	return &Uploader{client: client, bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}
}

// Upload streams one object into the bucket under a random key that
// keeps the original file extension, and returns its durable URL.
func (u *Uploader) Upload(ctx context.Context, kind, filename, contentType string, r io.Reader) (string, error) {
	key, err := objectKey(kind, filename)
	if err != nil {
		return "", err
	}
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload failed: %w", err)
	}
	return u.baseURL + "/" + key, nil
}

// objectKey builds "<kind>/<24 random hex chars><ext>".
func objectKey(kind, filename string) (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	ext := strings.ToLower(path.Ext(filename))
	return kind + "/" + hex.EncodeToString(buf) + ext, nil
}

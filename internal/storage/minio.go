// Package storage keeps copies of payment receipts in S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/taxpay/taxpay/backend/go-services/internal/config"
	"github.com/taxpay/taxpay/backend/go-services/internal/models"
)

// ErrNotConfigured is returned when no MinIO endpoint is set.
var ErrNotConfigured = errors.New("minio config missing")

// ReceiptArchive writes each receipt as a JSON object to a MinIO bucket.
type ReceiptArchive struct {
	client *minio.Client
	bucket string
}

// NewReceiptArchive creates the MinIO client and ensures the bucket exists.
func NewReceiptArchive(ctx context.Context, cfg config.MinIOConfig) (*ReceiptArchive, error) {
	if cfg.Endpoint == "" {
		return nil, ErrNotConfigured
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	a := &ReceiptArchive{client: mc, bucket: cfg.Bucket}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		// ignore "already exists" style errors
		exist, xerr := mc.BucketExists(ctx, a.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return a, nil
}

// Archive uploads the receipt under ObjectKey(r).
func (a *ReceiptArchive) Archive(ctx context.Context, r *models.Receipt) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode receipt: %w", err)
	}
	_, err = a.client.PutObject(ctx, a.bucket, ObjectKey(r), bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("archive receipt %s: %w", r.ID, err)
	}
	return nil
}

// ObjectKey is receipts/<escaped email>/<receipt id>.json.
func ObjectKey(r *models.Receipt) string {
	return fmt.Sprintf("receipts/%s/%s.json", url.PathEscape(r.UserEmail), r.ID)
}

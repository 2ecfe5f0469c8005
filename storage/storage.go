// Package storage holds product images. Blobs are write-once and addressed by
// an opaque id handed out at upload time.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/princinho/sahomattress/config"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
)

var ErrBlobNotFound = errors.New("blob not found")

// Blob is an opened image. Body is single pass and must be closed.
type Blob struct {
	ContentType string
	Length      int64
	Body        io.ReadCloser
}

// BlobStore is content agnostic; callers validate type and size before
// uploading.
type BlobStore interface {
	Upload(ctx context.Context, name, contentType string, r io.Reader, size int64) (string, error)
	Open(ctx context.Context, id string) (*Blob, error)
}

const objectPrefix = "products/"

func noopClose() error { return nil }

// New builds the backend selected by cfg.Backend. The returned close func
// releases backend clients and is safe to call once on shutdown.
func New(ctx context.Context, cfg config.Blob, db *mongo.Database, log *zap.Logger) (BlobStore, func() error, error) {
	switch cfg.Backend {
	case "gridfs", "":
		log.Info("blob store: gridfs", zap.String("bucket", cfg.GridFSBucket))
		return NewGridFSStore(db, cfg.GridFSBucket), noopClose, nil
	case "s3", "r2":
		s, err := NewS3Store(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		log.Info("blob store: s3", zap.String("bucket", cfg.R2Bucket))
		return s, noopClose, nil
	case "gcs":
		s, err := NewGCSStore(ctx, cfg.GCSBucket, cfg.GCSCredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		log.Info("blob store: gcs", zap.String("bucket", cfg.GCSBucket))
		return s, s.Close, nil
	case "memory":
		log.Warn("blob store: memory, images are lost on restart")
		return NewMemoryStore(), noopClose, nil
	default:
		return nil, nil, fmt.Errorf("unknown blob backend %q", cfg.Backend)
	}
}

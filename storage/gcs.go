package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

type GCSStore struct {
	client *gcs.Client
	bucket string
}

func NewGCSStore(ctx context.Context, bucket, credentialsFile string) (*GCSStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithAuthCredentialsFile(option.ServiceAccount, credentialsFile))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}

func (s *GCSStore) Upload(ctx context.Context, name, contentType string, r io.Reader, _ int64) (string, error) {
	id := uuid.NewString()
	o := s.client.Bucket(s.bucket).Object(objectPrefix + id)
	// For an object that does not yet exist, set the DoesNotExist precondition.
	w := o.If(gcs.Conditions{DoesNotExist: true}).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{"filename": name}

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("upload copy: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload close: %w", err)
	}
	return id, nil
}

func (s *GCSStore) Open(ctx context.Context, id string) (*Blob, error) {
	if !validObjectID(id) {
		return nil, ErrBlobNotFound
	}
	r, err := s.client.Bucket(s.bucket).Object(objectPrefix + id).NewReader(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("gcs open %s: %w", id, err)
	}
	ct := r.Attrs.ContentType
	if ct == "" {
		ct = octetStream
	}
	return &Blob{ContentType: ct, Length: r.Attrs.Size, Body: r}, nil
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type GridFSStore struct {
	bucket *mongo.GridFSBucket
}

func NewGridFSStore(db *mongo.Database, bucketName string) *GridFSStore {
	return &GridFSStore{
		bucket: db.GridFSBucket(options.GridFSBucket().SetName(bucketName)),
	}
}

func (s *GridFSStore) Upload(ctx context.Context, name, contentType string, r io.Reader, _ int64) (string, error) {
	opts := options.GridFSUpload().SetMetadata(bson.D{{Key: "contentType", Value: contentType}})
	id, err := s.bucket.UploadFromStream(ctx, name, r, opts)
	if err != nil {
		return "", fmt.Errorf("gridfs upload %s: %w", name, err)
	}
	return id.Hex(), nil
}

func (s *GridFSStore) Open(ctx context.Context, id string) (*Blob, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrBlobNotFound
	}
	stream, err := s.bucket.OpenDownloadStream(ctx, oid)
	if errors.Is(err, mongo.ErrFileNotFound) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("gridfs open %s: %w", id, err)
	}
	file := stream.GetFile()
	return &Blob{
		ContentType: contentTypeFromMetadata(file.Metadata),
		Length:      file.Length,
		Body:        stream,
	}, nil
}

func contentTypeFromMetadata(md bson.Raw) string {
	if len(md) == 0 {
		return octetStream
	}
	v, err := md.LookupErr("contentType")
	if err != nil {
		return octetStream
	}
	ct, ok := v.StringValueOK()
	if !ok || ct == "" {
		return octetStream
	}
	return ct
}

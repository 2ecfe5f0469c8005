package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"github.com/princinho/sahomattress/config"
)

// S3Store keeps blobs in any S3 compatible bucket. Cloudflare R2 is the
// target in production.
type S3Store struct {
	client *s3.Client
	bucket string
}

func NewS3Store(ctx context.Context, cfg config.Blob) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.R2AccessKey, cfg.R2SecretKey, ""),
		),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("r2 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.R2Endpoint)
		o.UsePathStyle = true // required for R2
	})
	return &S3Store{client: client, bucket: cfg.R2Bucket}, nil
}

func (s *S3Store) Upload(ctx context.Context, name, contentType string, r io.Reader, size int64) (string, error) {
	id := uuid.NewString()
	in := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectPrefix + id),
		Body:        r,
		ContentType: aws.String(contentType),
		Metadata:    map[string]string{"filename": name},
	}
	if size > 0 {
		in.ContentLength = aws.Int64(size)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	return id, nil
}

func (s *S3Store) Open(ctx context.Context, id string) (*Blob, error) {
	if !validObjectID(id) {
		return nil, ErrBlobNotFound
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectPrefix + id),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("get object %s: %w", id, err)
	}
	ct := aws.ToString(out.ContentType)
	if ct == "" {
		ct = octetStream
	}
	return &Blob{
		ContentType: ct,
		Length:      aws.ToInt64(out.ContentLength),
		Body:        out.Body,
	}, nil
}

// validObjectID guards object keys against ids that are not ours.
func validObjectID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

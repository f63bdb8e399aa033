package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gosimple/slug"
)

// ObjectAPI is the part of the S3 client the R2 backend needs.
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// R2Backend stores the document as a single object in an R2 bucket.
type R2Backend struct {
	client ObjectAPI
	bucket string
	key    string
}

// NewR2Backend derives the object key from the event name, so several events
// can share one bucket.
func NewR2Backend(client ObjectAPI, bucket, eventName string) *R2Backend {
	return &R2Backend{
		client: client,
		bucket: bucket,
		key:    SnapshotKey(eventName),
	}
}

// SnapshotKey returns the object key for an event, e.g. "snapshots/mystery-tiles/database.json".
func SnapshotKey(eventName string) string {
	name := slug.Make(eventName)
	if name == "" {
		name = "default"
	}
	return fmt.Sprintf("snapshots/%s/database.json", name)
}

func (b *R2Backend) Name() string { return "r2" }

func (b *R2Backend) Key() string { return b.key }

func (b *R2Backend) Load(ctx context.Context) ([]byte, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get %s from R2: %w", b.key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from R2: %w", b.key, err)
	}
	return data, nil
}

func (b *R2Backend) Save(ctx context.Context, data []byte) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(b.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to R2: %w", b.key, err)
	}
	return nil
}

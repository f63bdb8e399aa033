package repository

import (
	"bytes"
	"context"
	"io"
	"testing"

	"mystery-tiles/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	objects map[string][]byte
}

func (f *fakeObjects) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeObjects) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func TestSnapshotKey(t *testing.T) {
	assert.Equal(t, "snapshots/mystery-tiles-2025/database.json", SnapshotKey("Mystery Tiles 2025"))
	assert.Equal(t, "snapshots/default/database.json", SnapshotKey(""))
}

func TestR2BackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	objects := &fakeObjects{objects: map[string][]byte{}}
	backend := NewR2Backend(objects, "game", "Culture Day")

	_, err := backend.Load(ctx)
	require.ErrorIs(t, err, ErrSnapshotNotFound)

	s := NewStore(sampleDocument(), backend)
	_ = s.Update(func(doc *models.Document) error { return nil })
	require.NoError(t, s.Flush(ctx))
	assert.Contains(t, objects.objects, "game/snapshots/culture-day/database.json")

	reloaded, err := Open(ctx, backend)
	require.NoError(t, err)
	assert.Equal(t, sampleDocument(), reloaded.Snapshot())
}

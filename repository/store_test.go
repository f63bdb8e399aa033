package repository

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"mystery-tiles/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memBackend struct {
	mu      sync.Mutex
	data    []byte
	saves   int
	failErr error
}

func (m *memBackend) Name() string { return "mem" }

func (m *memBackend) Load(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, ErrSnapshotNotFound
	}
	return m.data, nil
}

func (m *memBackend) Save(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.data = append([]byte(nil), data...)
	m.saves++
	return nil
}

func sampleDocument() *models.Document {
	return &models.Document{
		Users: []models.User{
			{UID: "u1", Email: "a@firegroup.io", DisplayName: "A", Picture: "a.png", Score: 2, Stamina: 12, CreationTime: 1700000000000},
			{UID: "u2", Email: "b@firegroup.io", DisplayName: "B", Picture: "b.png", Score: 0, Stamina: 20, CreationTime: 1700000500000},
		},
		Tiles: []models.Tile{
			{Name: "t1", CoverImageURL: "t1-hidden.png", UnveiledImageURL: "t1.png"},
			{Name: "t2", CoverImageURL: "t2.png", UnveiledImageURL: "t2.png", AwardeeUID: "u1", AwardeeAvatarURL: "a.png"},
		},
		Quizzes: []models.Quiz{
			{Name: "q1", Question: "2+2?", Choices: []string{"3", "4", "5"}, CorrectAnswer: "4"},
		},
	}
}

func TestOpenEmptyBackend(t *testing.T) {
	s, err := Open(context.Background(), &memBackend{})
	require.NoError(t, err)

	doc := s.Snapshot()
	assert.NotNil(t, doc.Users)
	assert.Empty(t, doc.Tiles)
	assert.False(t, s.Dirty())
}

func TestSnapshotIsIsolated(t *testing.T) {
	s := NewStore(sampleDocument(), nil)

	snap := s.Snapshot()
	snap.Users[0].Score = 99
	snap.Quizzes[0].Choices[0] = "changed"

	s.View(func(doc *models.Document) {
		assert.Equal(t, 2, doc.Users[0].Score)
		assert.Equal(t, "3", doc.Quizzes[0].Choices[0])
	})
}

func TestUpdateSerializesMutations(t *testing.T) {
	s := NewStore(sampleDocument(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Update(func(doc *models.Document) error {
				u := doc.FindUser("u2")
				u.Score++
				return nil
			})
		}()
	}
	wg.Wait()

	s.View(func(doc *models.Document) {
		assert.Equal(t, 200, doc.FindUser("u2").Score)
	})
}

func TestUpdateReturnsMutatorError(t *testing.T) {
	s := NewStore(sampleDocument(), nil)
	boom := errors.New("boom")
	err := s.Update(func(doc *models.Document) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestRejectedUpdateDoesNotDirtyStore(t *testing.T) {
	backend := &memBackend{}
	s := NewStore(sampleDocument(), backend)

	err := s.Update(func(doc *models.Document) error { return errors.New("tile not found") })
	require.Error(t, err)
	assert.False(t, s.Dirty())

	require.NoError(t, s.Flush(context.Background()))
	assert.Equal(t, 0, backend.saves)
}

func TestFlushRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := &memBackend{}
	s := NewStore(sampleDocument(), backend)

	require.NoError(t, s.Update(func(doc *models.Document) error { return nil }))
	require.True(t, s.Dirty())
	require.NoError(t, s.Flush(ctx))
	assert.False(t, s.Dirty())

	reloaded, err := Open(ctx, backend)
	require.NoError(t, err)
	assert.Equal(t, sampleDocument(), reloaded.Snapshot())
}

func TestFlushSkipsCleanStore(t *testing.T) {
	backend := &memBackend{}
	s := NewStore(sampleDocument(), backend)

	_ = s.Update(func(doc *models.Document) error { return nil })
	require.NoError(t, s.Flush(context.Background()))
	require.NoError(t, s.Flush(context.Background()))
	assert.Equal(t, 1, backend.saves)
}

func TestFlushErrorKeepsStoreDirty(t *testing.T) {
	backend := &memBackend{failErr: errors.New("disk full")}
	s := NewStore(sampleDocument(), backend)
	_ = s.Update(func(doc *models.Document) error { return nil })

	err := s.Flush(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.True(t, s.Dirty())

	backend.failErr = nil
	require.NoError(t, s.Flush(context.Background()))
	assert.False(t, s.Dirty())
}

func TestFileBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := NewFileBackend(filepath.Join(t.TempDir(), "data", "database.json"))

	_, err := backend.Load(ctx)
	require.ErrorIs(t, err, ErrSnapshotNotFound)

	s := NewStore(sampleDocument(), backend)
	_ = s.Update(func(doc *models.Document) error { return nil })
	require.NoError(t, s.Flush(ctx))

	reloaded, err := Open(ctx, backend)
	require.NoError(t, err)
	assert.Equal(t, sampleDocument(), reloaded.Snapshot())
}

func TestDecodeKeepsPersistedLayout(t *testing.T) {
	data := []byte(`{"Users":[{"uid":"u1","displayName":"A","stamina":3}],"Tiles":[{"name":"t1","coverImageUrl":"c.png"}]}`)
	doc, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, "A", doc.Users[0].DisplayName)
	assert.Equal(t, "c.png", doc.Tiles[0].CoverImageURL)
	assert.NotNil(t, doc.Quizzes)
}

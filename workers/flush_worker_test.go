package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeStore struct {
	mu      sync.Mutex
	dirty   bool
	flushes int
	err     error
}

func (f *fakeStore) Flush(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushes++
	if f.err != nil {
		return f.err
	}
	f.dirty = false
	return nil
}

func (f *fakeStore) Dirty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dirty
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.flushes
}

func TestFlushOnceSkipsCleanStore(t *testing.T) {
	s := &fakeStore{}
	assert.True(t, FlushOnce(context.Background(), s))
	assert.Equal(t, 0, s.count())
}

func TestFlushOnceReportsFailure(t *testing.T) {
	s := &fakeStore{dirty: true, err: errors.New("bucket unavailable")}
	assert.False(t, FlushOnce(context.Background(), s))
	assert.True(t, s.Dirty())

	s.err = nil
	assert.True(t, FlushOnce(context.Background(), s))
	assert.False(t, s.Dirty())
	assert.Equal(t, 2, s.count())
}

func TestRunFlushWorkerStopsOnCancel(t *testing.T) {
	s := &fakeStore{dirty: true}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		RunFlushWorker(ctx, s, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return s.count() >= 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("flush worker did not stop")
	}
}

func TestPanicGuardFlushesAndRepanics(t *testing.T) {
	store := &fakeStore{dirty: true}
	guard := PanicGuard{Store: store, Timeout: time.Second}

	assert.PanicsWithValue(t, "boom", func() {
		defer guard.Recover("test")
		panic("boom")
	})
	assert.Equal(t, 1, store.count())
	assert.False(t, store.Dirty())
}

func TestPanicGuardQuietWithoutPanic(t *testing.T) {
	store := &fakeStore{dirty: true}
	guard := PanicGuard{Store: store}

	assert.NotPanics(t, func() {
		defer guard.Recover("test")
	})
	assert.Equal(t, 0, store.count())
}

func TestPanicGuardSurvivesFailedFlush(t *testing.T) {
	store := &fakeStore{dirty: true, err: errors.New("bucket down")}
	guard := PanicGuard{Store: store, Timeout: time.Second}

	assert.Panics(t, func() {
		defer guard.Recover("flush worker")
		panic(errors.New("nil map"))
	})
	assert.Equal(t, 1, store.count())
	assert.True(t, store.Dirty())
}

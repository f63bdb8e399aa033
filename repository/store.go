package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"mystery-tiles/models"
)

// ErrSnapshotNotFound is returned by a Backend that has nothing persisted yet.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Backend is durable storage for the serialized document.
type Backend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Name() string
}

// Store is the in-memory mirror of the persisted document.
type Store struct {
	mu      sync.RWMutex
	doc     *models.Document
	version uint64

	flushMu        sync.Mutex
	flushedVersion uint64

	backend Backend
}

// NewStore wraps an already loaded document. A nil doc starts empty.
func NewStore(doc *models.Document, backend Backend) *Store {
	if doc == nil {
		doc = models.NewDocument()
	}
	doc.Normalize()
	return &Store{doc: doc, backend: backend}
}

// Open loads the document from backend, starting empty when nothing is persisted.
func Open(ctx context.Context, backend Backend) (*Store, error) {
	data, err := backend.Load(ctx)
	if errors.Is(err, ErrSnapshotNotFound) {
		log.Printf("[STORE] No snapshot in %s backend, starting with an empty document", backend.Name())
		return NewStore(nil, backend), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot from %s: %w", backend.Name(), err)
	}

	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot from %s: %w", backend.Name(), err)
	}
	log.Printf("[STORE] Loaded %d users, %d tiles, %d quizzes from %s backend",
		len(doc.Users), len(doc.Tiles), len(doc.Quizzes), backend.Name())
	return NewStore(doc, backend), nil
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() *models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// View runs fn under the shared lock. fn must not mutate or retain doc.
func (s *Store) View(fn func(doc *models.Document)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.doc)
}

// Update runs fn under the exclusive lock and returns its error. There is no
// rollback: fn must finish all checks before it mutates anything. A rejected
// update leaves the store clean.
func (s *Store) Update(fn func(doc *models.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.doc); err != nil {
		return err
	}
	s.version++
	return nil
}

// Flush persists the current state. The document is serialized under the read
// lock and written with no store lock held; concurrent flushes are serialized so
// an older snapshot never overwrites a newer one. A clean store is not rewritten.
func (s *Store) Flush(ctx context.Context) error {
	if s.backend == nil {
		return nil
	}

	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	s.mu.RLock()
	version := s.version
	if version == s.flushedVersion {
		s.mu.RUnlock()
		return nil
	}
	data, err := Encode(s.doc)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := s.backend.Save(ctx, data); err != nil {
		return fmt.Errorf("save snapshot to %s: %w", s.backend.Name(), err)
	}
	s.flushedVersion = version
	return nil
}

// Dirty reports whether there are updates not yet flushed.
func (s *Store) Dirty() bool {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version != s.flushedVersion
}

// Encode serializes a document in the persisted layout.
func Encode(doc *models.Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// Decode parses the persisted layout.
func Decode(data []byte) (*models.Document, error) {
	doc := models.NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, err
	}
	doc.Normalize()
	return doc, nil
}

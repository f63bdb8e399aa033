package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"mystery-tiles/models"
	"mystery-tiles/protocol"
	"mystery-tiles/repository"

	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func (f *fakeConn) Send(b []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return errors.New("send on closed conn")
	}
	f.frames = append(f.frames, append([]byte(nil), b...))
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeConn) envelopes(t *testing.T) []protocol.Envelope {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]protocol.Envelope, 0, len(f.frames))
	for _, b := range f.frames {
		env, err := protocol.DecodeEnvelope(b)
		require.NoError(t, err)
		out = append(out, env)
	}
	return out
}

// events returns the payloads of every frame named event.
func (f *fakeConn) events(t *testing.T, event string) []protocol.Envelope {
	t.Helper()
	var out []protocol.Envelope
	for _, env := range f.envelopes(t) {
		if env.T == event {
			out = append(out, env)
		}
	}
	return out
}

func (f *fakeConn) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = nil
}

func payloadOf[T any](t *testing.T, env protocol.Envelope) T {
	t.Helper()
	v, err := protocol.DecodePayload[T](env)
	require.NoError(t, err)
	return v
}

// fakeVerifier maps tokens to identities.
type fakeVerifier struct {
	identities map[string]Identity
}

func (v *fakeVerifier) VerifyIDToken(ctx context.Context, token string) (*Identity, error) {
	id, ok := v.identities[token]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return &id, nil
}

func testIdentity(uid, name string) Identity {
	return Identity{
		UID:           uid,
		Email:         uid + "@firegroup.io",
		EmailVerified: true,
		Name:          name,
		Picture:       uid + ".png",
	}
}

func testDocument() *models.Document {
	return &models.Document{
		Users: []models.User{
			{UID: "u", Email: "u@firegroup.io", DisplayName: "U", Picture: "u.png", Stamina: 20, CreationTime: 1700000000000},
			{UID: "a", Email: "a@firegroup.io", DisplayName: "Alice", Picture: "a.png", Stamina: 20, CreationTime: 1700000000000},
			{UID: "b", Email: "b@firegroup.io", DisplayName: "Bob", Picture: "b.png", Stamina: 20, CreationTime: 1700000000000},
		},
		Tiles: []models.Tile{
			{Name: "t1", CoverImageURL: "t1-hidden.png", UnveiledImageURL: "t1.png"},
			{Name: "t2", CoverImageURL: "t2-hidden.png", UnveiledImageURL: "t2.png"},
		},
		Quizzes: []models.Quiz{
			{Name: "q1", Question: "2+2?", Choices: []string{"3", "4", "5"}, CorrectAnswer: "4"},
		},
	}
}

type arbiterFixture struct {
	store    *repository.Store
	sessions *SessionRegistry
	attempts *AttemptTable
	arbiter  *Arbiter
}

func newArbiterFixture(doc *models.Document) *arbiterFixture {
	store := repository.NewStore(doc, nil)
	sessions := NewSessionRegistry()
	attempts := NewAttemptTable()
	return &arbiterFixture{
		store:    store,
		sessions: sessions,
		attempts: attempts,
		arbiter:  NewArbiter(store, sessions, attempts, 4),
	}
}

// login binds a fresh client to uid without going through the verifier.
func (f *arbiterFixture) login(t *testing.T, uid, name string) *Client {
	t.Helper()
	c := NewClient(&fakeConn{})
	require.NoError(t, f.sessions.Register(c, testIdentity(uid, name)))
	return c
}

func (f *arbiterFixture) user(uid string) models.User {
	var u models.User
	f.store.View(func(doc *models.Document) {
		u = *doc.FindUser(uid)
	})
	return u
}

func (f *arbiterFixture) tile(name string) models.Tile {
	var tile models.Tile
	f.store.View(func(doc *models.Document) {
		tile = *doc.FindTile(name)
	})
	return tile
}

package services

import (
	"sync"
	"sync/atomic"

	"mystery-tiles/protocol"

	"github.com/google/uuid"
)

// Conn is the transport side of a connection.
type Conn interface {
	Send([]byte) error
	Close() error
}

// Client is one live connection. Writes are serialized because the scheduler
// and the connection's own handler may send concurrently.
//
// Once marked closed a client never comes back: the session registry and the
// attempt table refuse to store anything for it.
type Client struct {
	ID string

	conn    Conn
	writeMu sync.Mutex
	closed  atomic.Bool
}

func NewClient(conn Conn) *Client {
	return &Client{ID: uuid.NewString(), conn: conn}
}

// Emit encodes and writes one event.
func (c *Client) Emit(event string, payload any) error {
	b, err := protocol.Encode(event, payload)
	if err != nil {
		return err
	}
	return c.write(b)
}

func (c *Client) write(b []byte) error {
	if c.closed.Load() {
		return ErrConnectionClosed
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.Send(b)
}

// Close forces the transport closed. The disconnect path runs when the read loop ends.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) Closed() bool {
	return c.closed.Load()
}

// markClosed returns false if the client was already closed.
func (c *Client) markClosed() bool {
	return c.closed.CompareAndSwap(false, true)
}

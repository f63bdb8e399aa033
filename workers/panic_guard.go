package workers

import (
	"context"
	"log"
	"runtime/debug"
	"time"
)

// PanicGuard flushes the store before a panic takes the process down.
type PanicGuard struct {
	Store   Flusher
	Timeout time.Duration
}

// Fault logs the panic and runs one last flush.
func (g PanicGuard) Fault(where string, r any) {
	log.Printf("❌ Panic in %s: %v, flushing before exit\n%s", where, r, debug.Stack())

	timeout := g.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if !FlushOnce(ctx, g.Store) {
		log.Println("❌ Final flush failed, unsaved changes are lost")
	}
}

// Recover must be deferred directly. It flushes and then re-panics.
func (g PanicGuard) Recover(where string) {
	if r := recover(); r != nil {
		g.Fault(where, r)
		panic(r)
	}
}

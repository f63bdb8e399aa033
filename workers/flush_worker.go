package workers

import (
	"context"
	"log"
	"time"
)

// Flusher persists pending state. Implemented by *repository.Store.
type Flusher interface {
	Flush(ctx context.Context) error
	Dirty() bool
}

// RunFlushWorker flushes the store every interval until ctx is done. A failed
// flush leaves the store dirty, so the next tick retries the same state.
func RunFlushWorker(ctx context.Context, store Flusher, interval time.Duration) {
	log.Printf("Starting snapshot flush worker (every %s)...", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Snapshot flush worker stopped.")
			return
		case <-ticker.C:
			FlushOnce(ctx, store)
		}
	}
}

// FlushOnce runs a single flush and logs the outcome. Returns false on failure.
func FlushOnce(ctx context.Context, store Flusher) bool {
	if !store.Dirty() {
		return true
	}

	started := time.Now()
	if err := store.Flush(ctx); err != nil {
		log.Printf("❌ [FLUSH] Snapshot flush failed, will retry: %v", err)
		return false
	}
	log.Printf("💾 [FLUSH] Snapshot flushed in %s", time.Since(started).Round(time.Millisecond))
	return true
}

package timer

import (
	"sync/atomic"
	"time"
)

// Resolution is how often the cached clock is refreshed. Read deadlines are set in
// seconds, so half a second of error is fine for them.
const Resolution = 500 * time.Millisecond

var millis = new(atomic.Int64)

// Now returns the cached wall clock. Setting a deadline on every read of every connection
// makes time.Now() noticeable in profiles, a single atomic load isn't.
func Now() time.Time {
	return time.UnixMilli(millis.Load())
}

func init() {
	// the ticker goroutine may start late, so the clock must never be observed zero
	millis.Store(time.Now().UnixMilli())

	go func() {
		for range time.Tick(Resolution) {
			millis.Store(time.Now().UnixMilli())
		}
	}()
}

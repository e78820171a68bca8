// Package cache counts AI generation requests per client in fixed windows.
package cache

import (
	"context"
	"time"
)

// Counter increments a windowed counter and reports the new value
type Counter interface {
	// Incr adds one to key and returns the count for the current window and
	// the time left until the window resets
	Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	Close() error
}

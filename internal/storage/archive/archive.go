// Package archive persists backtest results for later inspection.
package archive

import (
	"context"
	"fmt"
	"time"
)

// Storage is the interface for result archive backends.
type Storage interface {
	// Write stores data at the given key
	Write(ctx context.Context, key string, data []byte) error

	// Read retrieves data for the given key
	Read(ctx context.Context, key string) ([]byte, error)

	// List returns all keys matching the prefix
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes the key
	Delete(ctx context.Context, key string) error

	// Exists reports whether the key is present
	Exists(ctx context.Context, key string) (bool, error)
}

// ResultKey builds the archive key for a run: one JSON document per
// run, grouped by ticker.
func ResultKey(ticker string, at time.Time) string {
	return fmt.Sprintf("results/%s/%s.json", ticker, at.UTC().Format("20060102T150405Z"))
}

// Package storage persists scraped article records. File backends buffer
// records in memory and write the whole table once, on Close.
package storage

import (
	"github.com/IshaanNene/newsbot/internal/types"
)

// Storage is the interface for all storage backends.
type Storage interface {
	// Store appends a batch of records in encounter order.
	Store(records []types.ArticleRecord) error

	// Close writes pending records and releases resources.
	Close() error

	// Name returns the storage backend identifier.
	Name() string
}

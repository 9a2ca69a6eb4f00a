package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/htol/bookshelf/book"
	"github.com/htol/bookshelf/config"
)

// ErrNotFound is returned when no book has the requested id
var ErrNotFound = errors.New("book not found")

// Repository defines the registry operations.
// Implementations serialize every call on a single exclusive lock.
type Repository interface {
	// List returns a snapshot of all books in insertion order
	List(ctx context.Context) ([]book.Book, error)
	// Create assigns an id to in and appends the new book
	Create(ctx context.Context, in book.Input) (book.Book, error)
	// Delete removes the first book with the given id and returns it
	Delete(ctx context.Context, id uint64) (book.Book, error)

	Ping(ctx context.Context) error
	Close() error
}

// Open builds the repository selected by cfg and seeds it
func Open(cfg config.RegistryConfig) (Repository, error) {
	strategy, err := ParseIDStrategy(cfg.IDStrategy)
	if err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case config.BackendMemory, "":
		return NewMemory(strategy, book.Seed()), nil
	case config.BackendSQLite:
		return NewSQLite(strategy, book.Seed())
	default:
		return nil, fmt.Errorf("unknown registry backend %q", cfg.Backend)
	}
}

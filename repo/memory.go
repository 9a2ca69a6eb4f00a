package repo

import (
	"context"
	"slices"
	"sync"

	"github.com/htol/bookshelf/book"
)

// MemoryRepo keeps books in a slice guarded by one mutex.
// List takes the same exclusive lock as the mutators.
type MemoryRepo struct {
	mu    sync.Mutex
	books []book.Book
	ids   *idAllocator
}

// NewMemory returns a registry holding a copy of seed
func NewMemory(strategy IDStrategy, seed []book.Book) *MemoryRepo {
	return &MemoryRepo{
		books: slices.Clone(seed),
		ids:   newIDAllocator(strategy, seed),
	}
}

func (r *MemoryRepo) List(_ context.Context) ([]book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]book.Book, len(r.books))
	copy(out, r.books)
	return out, nil
}

func (r *MemoryRepo) Create(_ context.Context, in book.Input) (book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := book.Book{
		ID:     r.ids.next(len(r.books)),
		Title:  in.Title,
		Author: in.Author,
	}
	r.books = append(r.books, b)
	return b, nil
}

func (r *MemoryRepo) Delete(_ context.Context, id uint64) (book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := slices.IndexFunc(r.books, func(b book.Book) bool { return b.ID == id })
	if i < 0 {
		return book.Book{}, ErrNotFound
	}
	removed := r.books[i]
	r.books = slices.Delete(r.books, i, i+1)
	return removed, nil
}

func (r *MemoryRepo) Ping(_ context.Context) error {
	return nil
}

func (r *MemoryRepo) Close() error {
	return nil
}

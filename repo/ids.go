package repo

import (
	"fmt"

	"github.com/htol/bookshelf/book"
	"github.com/htol/bookshelf/config"
)

// IDStrategy selects how a new book id is computed
type IDStrategy int

const (
	// IDFromCount assigns len(books)+1. An id can repeat after a delete:
	// deleting id 2 of {1,2,3} and creating yields a second id 3.
	IDFromCount IDStrategy = iota
	// IDMonotonic assigns one more than the highest id ever issued
	IDMonotonic
)

func (s IDStrategy) String() string {
	switch s {
	case IDFromCount:
		return config.IDStrategyCount
	case IDMonotonic:
		return config.IDStrategyMonotonic
	default:
		return fmt.Sprintf("IDStrategy(%d)", int(s))
	}
}

// ParseIDStrategy maps a config value to an IDStrategy
func ParseIDStrategy(name string) (IDStrategy, error) {
	switch name {
	case config.IDStrategyCount, "":
		return IDFromCount, nil
	case config.IDStrategyMonotonic:
		return IDMonotonic, nil
	default:
		return 0, fmt.Errorf("unknown id strategy %q", name)
	}
}

// idAllocator is not safe for concurrent use; callers hold the registry lock
type idAllocator struct {
	strategy IDStrategy
	last     uint64
}

func newIDAllocator(strategy IDStrategy, seed []book.Book) *idAllocator {
	a := &idAllocator{strategy: strategy}
	for _, b := range seed {
		a.observe(b.ID)
	}
	return a
}

func (a *idAllocator) observe(id uint64) {
	if id > a.last {
		a.last = id
	}
}

// next returns the id for a book appended to a registry holding count books
func (a *idAllocator) next(count int) uint64 {
	var id uint64
	if a.strategy == IDMonotonic {
		id = a.last + 1
	} else {
		id = uint64(count) + 1
	}
	a.observe(id)
	return id
}

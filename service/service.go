// Package service provides business logic layer between HTTP handlers and repository
package service

import (
	"context"
	"fmt"

	"github.com/htol/bookshelf/book"
	"github.com/htol/bookshelf/logger"
	"github.com/htol/bookshelf/repo"
)

// Service provides business logic for the application
type Service struct {
	repo repo.Repository
}

// New creates a new Service with the given repository
func New(repo repo.Repository) *Service {
	return &Service{repo: repo}
}

// ListBooks returns every book currently in the registry
func (s *Service) ListBooks(ctx context.Context) ([]book.Book, error) {
	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	if books == nil {
		books = []book.Book{}
	}
	return books, nil
}

// CreateBook adds a book built from in and returns it with its assigned id
func (s *Service) CreateBook(ctx context.Context, in book.Input) (book.Book, error) {
	b, err := s.repo.Create(ctx, in)
	if err != nil {
		return book.Book{}, fmt.Errorf("create book: %w", err)
	}
	logger.Debug("Book created", "book_id", b.ID, "title", b.Title)
	return b, nil
}

// DeleteBook removes the book with the given id.
// The returned error wraps repo.ErrNotFound when no such book exists.
func (s *Service) DeleteBook(ctx context.Context, id uint64) (book.Book, error) {
	b, err := s.repo.Delete(ctx, id)
	if err != nil {
		return book.Book{}, fmt.Errorf("delete book %d: %w", id, err)
	}
	logger.Debug("Book deleted", "book_id", b.ID)
	return b, nil
}

// Ping checks the health of the service and its dependencies
func (s *Service) Ping(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository ping: %w", err)
	}
	return nil
}

// Close releases the underlying repository
func (s *Service) Close() error {
	return s.repo.Close()
}

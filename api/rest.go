package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/htol/bookshelf/repo"
	"github.com/htol/bookshelf/service"
	"github.com/htol/bookshelf/validator"
)

const msgBookNotFound = "Book not found"

// createBookRequest uses pointers so absent fields can be told from empty ones
type createBookRequest struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
}

func listBooksHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		books, err := svc.ListBooks(r.Context())
		if err != nil {
			respondWithError(w, "Failed to list books", err, http.StatusInternalServerError)
			return
		}
		respond(w, http.StatusOK, books)
	})
}

func createBookHandler(svc *service.Service, maxBodyBytes int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := validator.RequireJSON(r.Header.Get("Content-Type")); err != nil {
			respondWithValidationError(w, err.Error())
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				respondWithError(w, "request body too large", err, http.StatusRequestEntityTooLarge)
				return
			}
			respondWithValidationError(w, "failed to read request body")
			return
		}

		var req createBookRequest
		if err := json.Unmarshal(body, &req); err != nil {
			respondWithValidationError(w, "invalid JSON body")
			return
		}

		in, err := validator.RequireInput(req.Title, req.Author)
		if err != nil {
			respondWithValidationError(w, err.Error())
			return
		}

		created, err := svc.CreateBook(r.Context(), in)
		if err != nil {
			respondWithError(w, "Failed to create book", err, http.StatusInternalServerError)
			return
		}
		respond(w, http.StatusCreated, created)
	})
}

func deleteBookHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := validator.ParseID(r.PathValue("id"))
		if err != nil {
			respondWithValidationError(w, "invalid book ID")
			return
		}

		deleted, err := svc.DeleteBook(r.Context(), id)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				respondWithError(w, msgBookNotFound, err, http.StatusNotFound)
			} else {
				respondWithError(w, "Failed to delete book", err, http.StatusInternalServerError)
			}
			return
		}
		respond(w, http.StatusOK, deleted)
	})
}

func healthCheckHandler(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Check service health (registry backend via service layer)
		if err := svc.Ping(r.Context()); err != nil {
			respondWithError(w, "service unavailable", err, http.StatusServiceUnavailable)
			return
		}
		respond(w, http.StatusOK, "healthy")
	}
}

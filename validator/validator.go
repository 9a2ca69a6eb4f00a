// Package validator provides input validation for the application
package validator

import (
	"errors"
	"fmt"
	"mime"
	"strconv"
	"strings"

	"github.com/htol/bookshelf/book"
)

var (
	// ErrInvalidID is returned when a path id is not an unsigned integer
	ErrInvalidID = errors.New("invalid book id: must be an unsigned integer")
	// ErrMissingField is returned when a required request field is absent
	ErrMissingField = errors.New("missing required field")
	// ErrContentType is returned when a request body is not declared as JSON
	ErrContentType = errors.New("content type must be JSON")
)

// ParseID parses an unsigned decimal book id. A single leading '+' is allowed.
func ParseID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimPrefix(raw, "+"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: got %q", ErrInvalidID, raw)
	}
	return id, nil
}

// RequireInput builds a book.Input from decoded fields.
// Fields must be present; empty strings are accepted.
func RequireInput(title, author *string) (book.Input, error) {
	if title == nil {
		return book.Input{}, fmt.Errorf("%w: title", ErrMissingField)
	}
	if author == nil {
		return book.Input{}, fmt.Errorf("%w: author", ErrMissingField)
	}
	return book.Input{Title: *title, Author: *author}, nil
}

// RequireJSON accepts a Content-Type whose subtype is json or ends in +json,
// e.g. application/json, application/merge-patch+json or text/json.
func RequireJSON(contentType string) error {
	if contentType == "" {
		return fmt.Errorf("%w: missing Content-Type", ErrContentType)
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrContentType, err)
	}
	_, subtype, ok := strings.Cut(mediaType, "/")
	if !ok || (subtype != "json" && !strings.HasSuffix(subtype, "+json")) {
		return fmt.Errorf("%w: got %q", ErrContentType, mediaType)
	}
	return nil
}

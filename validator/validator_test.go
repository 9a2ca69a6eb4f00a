package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htol/bookshelf/book"
)

func TestParseID(t *testing.T) {
	valid := map[string]uint64{
		"0":                    0,
		"1":                    1,
		"9999":                 9999,
		"18446744073709551615": ^uint64(0),
		"+1":                   1,
		"+007":                 7,
	}
	for raw, want := range valid {
		got, err := ParseID(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}

	for _, raw := range []string{"", "-1", "abc", "1.5", "18446744073709551616", " 1", "+", "++1", "+-1", "-+1"} {
		_, err := ParseID(raw)
		assert.ErrorIs(t, err, ErrInvalidID, "input %q", raw)
	}
}

func TestRequireInput(t *testing.T) {
	title, author, empty := "X", "Y", ""

	in, err := RequireInput(&title, &author)
	require.NoError(t, err)
	assert.Equal(t, book.Input{Title: "X", Author: "Y"}, in)

	in, err = RequireInput(&empty, &empty)
	require.NoError(t, err)
	assert.Equal(t, book.Input{}, in)

	_, err = RequireInput(nil, &author)
	assert.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), "title")

	_, err = RequireInput(&title, nil)
	assert.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), "author")
}

func TestRequireJSON(t *testing.T) {
	for _, ct := range []string{
		"application/json",
		"application/json; charset=utf-8",
		"Application/JSON",
		"application/merge-patch+json",
		"text/json",
	} {
		assert.NoError(t, RequireJSON(ct), ct)
	}

	for _, ct := range []string{"", "text/plain", "application/xml", "application/jsonx", "json", ";;"} {
		assert.ErrorIs(t, RequireJSON(ct), ErrContentType, "content type %q", ct)
	}
}

// Package engine implements an in-memory tabular record engine: loading a
// record set from delimited text or synthetic generation, tracking
// non-destructive edits against the originally loaded version, and viewing
// the result through a composable filter, sort, and paginate pipeline.
// This package has no HTTP or UI dependencies and can be used by any frontend.
package engine

import "strconv"

// Column names for the fixed record schema.
const (
	ColTitle         = "Title"
	ColAuthor        = "Author"
	ColGenre         = "Genre"
	ColPublishedYear = "PublishedYear"
	ColISBN          = "ISBN"
)

// Columns lists the fixed column set in header order.
var Columns = []string{ColTitle, ColAuthor, ColGenre, ColPublishedYear, ColISBN}

// Record is one row of the dataset. Its identity is positional: the index
// it was assigned at load time, which never changes for the life of a load.
type Record struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	Genre         string `json:"genre"`
	PublishedYear int    `json:"publishedYear"`
	ISBN          string `json:"isbn"`
}

// Field returns the stringified value of the named column.
// The second return is false for an unknown column.
func (r Record) Field(column string) (string, bool) {
	switch column {
	case ColTitle:
		return r.Title, true
	case ColAuthor:
		return r.Author, true
	case ColGenre:
		return r.Genre, true
	case ColPublishedYear:
		return strconv.Itoa(r.PublishedYear), true
	case ColISBN:
		return r.ISBN, true
	default:
		return "", false
	}
}

// SetField assigns a string value to the named column. The year column is
// coerced with the same policy as decode: values that do not parse as an
// integer become 0. Returns ErrUnknownColumn for a column outside the
// fixed set.
func (r *Record) SetField(column, value string) error {
	switch column {
	case ColTitle:
		r.Title = value
	case ColAuthor:
		r.Author = value
	case ColGenre:
		r.Genre = value
	case ColPublishedYear:
		r.PublishedYear = coerceYear(value)
	case ColISBN:
		r.ISBN = value
	default:
		return ErrUnknownColumn
	}
	return nil
}

// Equal reports whether two records have identical stringified values in
// every column.
func (r Record) Equal(other Record) bool {
	return r == other
}

// coerceYear parses a year cell, defaulting to 0 when the value is absent
// or not an integer. Malformed years are tolerated, not rejected.
func coerceYear(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// Collection is an ordered sequence of records indexed 0..n-1.
type Collection []Record

// Clone returns a deep copy of the collection.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	copy(out, c)
	return out
}

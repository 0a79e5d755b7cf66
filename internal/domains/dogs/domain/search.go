package domain

import (
	"fmt"
	"slices"
	"strings"
)

// SortField names the attribute the upstream search orders by.
type SortField string

const (
	SortByBreed SortField = "breed"
	SortByName  SortField = "name"
	SortByAge   SortField = "age"
)

// SortDirection is the ordering direction for a SortField.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// DefaultSort matches the catalog's initial ordering.
var DefaultSort = Sort{Field: SortByBreed, Direction: Ascending}

// Sort is a field plus direction, encoded upstream as "field:direction".
type Sort struct {
	Field     SortField
	Direction SortDirection
}

// ParseSortField validates a user supplied sort field.
func ParseSortField(raw string) (SortField, error) {
	field := SortField(strings.ToLower(strings.TrimSpace(raw)))
	switch field {
	case SortByBreed, SortByName, SortByAge:
		return field, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidField, raw)
	}
}

// Flip returns the opposite direction.
func (d SortDirection) Flip() SortDirection {
	if d == Descending {
		return Ascending
	}
	return Descending
}

// String renders the upstream wire form.
func (s Sort) String() string {
	return string(s.Field) + ":" + string(s.Direction)
}

// Validate checks field and direction.
func (s Sort) Validate() error {
	if _, err := ParseSortField(string(s.Field)); err != nil {
		return err
	}
	if s.Direction != Ascending && s.Direction != Descending {
		return fmt.Errorf("%w: %q", ErrInvalidOrder, s.Direction)
	}
	return nil
}

// SearchFilters are the optional predicates of a catalog search. Any
// combination is valid input for the upstream service.
type SearchFilters struct {
	Breeds   []string
	ZipCodes []string
	AgeMin   *int
	AgeMax   *int
}

// Validate rejects filters the upstream would answer with a 400.
func (f SearchFilters) Validate() error {
	if f.AgeMin != nil && *f.AgeMin < 0 {
		return ErrNegativeAge
	}
	if f.AgeMax != nil && *f.AgeMax < 0 {
		return ErrNegativeAge
	}
	if f.AgeMin != nil && f.AgeMax != nil && *f.AgeMin > *f.AgeMax {
		return ErrInvalidRange
	}
	return nil
}

// Clone returns a deep copy so callers cannot alias controller state.
func (f SearchFilters) Clone() SearchFilters {
	out := SearchFilters{
		Breeds:   slices.Clone(f.Breeds),
		ZipCodes: slices.Clone(f.ZipCodes),
	}
	if f.AgeMin != nil {
		v := *f.AgeMin
		out.AgeMin = &v
	}
	if f.AgeMax != nil {
		v := *f.AgeMax
		out.AgeMax = &v
	}
	return out
}

// WithoutBreeds returns a copy with the breed predicate cleared.
func (f SearchFilters) WithoutBreeds() SearchFilters {
	out := f.Clone()
	out.Breeds = nil
	return out
}

// SearchQuery is a first-page search request.
type SearchQuery struct {
	Filters SearchFilters
	Size    int
	Sort    Sort
	Page    int
}

// Cursor is a server-issued page boundary. It is passed back verbatim and
// never decoded.
type Cursor string

// IsZero reports whether the cursor is absent.
func (c Cursor) IsZero() bool {
	return strings.TrimSpace(string(c)) == ""
}

// PageResult is one page of search results. Empty cursors mean there is no
// page in that direction.
type PageResult struct {
	IDs   []string
	Total int
	Next  Cursor
	Prev  Cursor
}

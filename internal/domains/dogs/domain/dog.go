package domain

import (
	"errors"
	"strings"
)

// Dog is an adoptable dog as published by the upstream catalog. Values are
// replaced wholesale on every fetch and never patched field by field.
type Dog struct {
	ID       string
	Name     string
	Breed    string
	Age      int
	ImageURL string
	ZipCode  string
}

// Match is the identifier of the dog the upstream service picked from a favorites set.
type Match struct {
	DogID string
}

var (
	ErrEmptyDogID   = errors.New("dog id is required")
	ErrNegativeAge  = errors.New("dog age must be greater or equal to zero")
	ErrInvalidField = errors.New("unknown sort field")
	ErrInvalidOrder = errors.New("unknown sort direction")
	ErrInvalidRange = errors.New("age range minimum must not exceed maximum")
)

// Validate checks the invariants of a fetched dog record.
func (d Dog) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return ErrEmptyDogID
	}
	if d.Age < 0 {
		return ErrNegativeAge
	}
	return nil
}

// NormalizeIDs trims identifiers and drops blanks and duplicates while keeping
// first-seen order.
func NormalizeIDs(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// OrderByIDs re-joins records by identifier so the result follows ids.
// The second return value lists the ids that had no matching record.
func OrderByIDs(ids []string, dogs []Dog) ([]Dog, []string) {
	byID := make(map[string]Dog, len(dogs))
	for _, dog := range dogs {
		byID[dog.ID] = dog
	}
	ordered := make([]Dog, 0, len(ids))
	var missing []string
	for _, id := range ids {
		dog, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		ordered = append(ordered, dog)
	}
	return ordered, missing
}

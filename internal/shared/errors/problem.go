// Package errors provides RFC 7807 Problem Details for HTTP APIs.
package errors

import (
	"fmt"
	"net/http"
)

// ProblemDetail represents an RFC 7807 Problem Details response.
// See: https://www.rfc-editor.org/rfc/rfc7807
type ProblemDetail struct {
	// Type is a URI reference that identifies the problem type.
	Type string `json:"type"`
	// Title is a short, human-readable summary of the problem type.
	Title string `json:"title"`
	// Status is the HTTP status code for this occurrence.
	Status int `json:"status"`
	// Detail is a human-readable explanation specific to this occurrence.
	Detail string `json:"detail,omitempty"`
	// Instance is a URI reference that identifies the specific occurrence.
	Instance string `json:"instance,omitempty"`
	// Extensions holds additional problem-specific properties.
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Error implements the error interface.
func (p ProblemDetail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

// WithDetail returns a copy with the given detail message.
func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

// WithInstance returns a copy with the given instance URI.
func (p ProblemDetail) WithInstance(instance string) ProblemDetail {
	p.Instance = instance
	return p
}

// WithExtension returns a copy with an additional extension property.
func (p ProblemDetail) WithExtension(key string, value any) ProblemDetail {
	if p.Extensions == nil {
		p.Extensions = make(map[string]any)
	}
	p.Extensions[key] = value
	return p
}

// Problem types as URI references.
const (
	TypeValidation         = "/problems/validation-error"
	TypeNotFound           = "/problems/not-found"
	TypeConflict           = "/problems/conflict"
	TypeInternal           = "/problems/internal-error"
	TypeUnauthorized       = "/problems/unauthorized"
	TypeBadRequest         = "/problems/bad-request"
	TypeUnprocessable      = "/problems/unprocessable-entity"
	TypeSessionExpired     = "/problems/session-expired"
	TypeAuthentication     = "/problems/authentication-failed"
	TypeUpstream           = "/problems/upstream-unavailable"
	TypeNoFavorites        = "/problems/no-favorites"
	TypeNoMatch            = "/problems/no-match"
	TypeIncompleteResponse = "/problems/incomplete-response"
)

// Pre-defined problem templates.
var (
	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = ProblemDetail{
		Type:   TypeNotFound,
		Title:  "Resource Not Found",
		Status: http.StatusNotFound,
	}

	// ErrValidation indicates the request failed validation.
	ErrValidation = ProblemDetail{
		Type:   TypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
	}

	// ErrBadRequest indicates the request was malformed.
	ErrBadRequest = ProblemDetail{
		Type:   TypeBadRequest,
		Title:  "Bad Request",
		Status: http.StatusBadRequest,
	}

	// ErrConflict indicates a conflict with the current state, such as a
	// request arriving while another one is still loading.
	ErrConflict = ProblemDetail{
		Type:   TypeConflict,
		Title:  "Conflict",
		Status: http.StatusConflict,
	}

	// ErrInternal indicates an unexpected server error.
	ErrInternal = ProblemDetail{
		Type:   TypeInternal,
		Title:  "Internal Server Error",
		Status: http.StatusInternalServerError,
	}

	// ErrUnauthorized indicates the request carries no portal session.
	ErrUnauthorized = ProblemDetail{
		Type:   TypeUnauthorized,
		Title:  "Unauthorized",
		Status: http.StatusUnauthorized,
	}

	// ErrSessionExpired indicates the dog service no longer accepts the
	// session. The client must log in again.
	ErrSessionExpired = ProblemDetail{
		Type:   TypeSessionExpired,
		Title:  "Session Expired",
		Status: http.StatusUnauthorized,
	}

	// ErrAuthentication indicates the dog service rejected a login or logout.
	ErrAuthentication = ProblemDetail{
		Type:   TypeAuthentication,
		Title:  "Authentication Failed",
		Status: http.StatusUnauthorized,
	}

	// ErrUpstream indicates the dog service could not be reached or failed.
	ErrUpstream = ProblemDetail{
		Type:   TypeUpstream,
		Title:  "Dog Service Unavailable",
		Status: http.StatusBadGateway,
	}

	// ErrIncompleteResponse indicates the dog service answered with fewer
	// records than requested.
	ErrIncompleteResponse = ProblemDetail{
		Type:   TypeIncompleteResponse,
		Title:  "Incomplete Response",
		Status: http.StatusBadGateway,
	}

	// ErrNoFavorites indicates a match was requested without favorites.
	ErrNoFavorites = ProblemDetail{
		Type:   TypeNoFavorites,
		Title:  "No Favorites",
		Status: http.StatusUnprocessableEntity,
	}

	// ErrNoMatch indicates the dog service produced no usable match.
	ErrNoMatch = ProblemDetail{
		Type:   TypeNoMatch,
		Title:  "No Match",
		Status: http.StatusNotFound,
	}
)

// NewValidationProblem creates a validation error with field-level details.
func NewValidationProblem(fieldErrors map[string]string) ProblemDetail {
	return ErrValidation.WithExtension("fields", fieldErrors)
}

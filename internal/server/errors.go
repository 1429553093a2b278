package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/internship-assistant/internal/db"
	"github.com/jonathan/internship-assistant/internal/schemas"
	"github.com/jonathan/internship-assistant/internal/search"
	"github.com/jonathan/internship-assistant/internal/types"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Message
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnavailable indicates a collaborator the route needs is not configured.
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return e.Feature + " is not configured"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation  *ErrValidation
		schemaErr   *schemas.ValidationError
		fieldErrs   validator.ValidationErrors
		unavailable *ErrUnavailable
		maxBytesErr *http.MaxBytesError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, db.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrInvalidStatus),
		errors.Is(err, search.ErrNoQueries),
		errors.As(err, &validation),
		errors.As(err, &schemaErr),
		errors.As(err, &fieldErrs):
		return http.StatusBadRequest
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

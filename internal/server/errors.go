package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ErrDraftNotFound indicates the draft does not exist or belongs to another user
type ErrDraftNotFound struct {
	DraftID uuid.UUID
}

func (e *ErrDraftNotFound) Error() string {
	return fmt.Sprintf("draft not found: %s", e.DraftID)
}

// ErrRunInProgress indicates a generation run is already active for the user
type ErrRunInProgress struct{}

func (e *ErrRunInProgress) Error() string {
	return "a generation run is already in progress"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrDraftNotFound:
		return http.StatusNotFound
	case *ErrRunInProgress:
		return http.StatusConflict
	case *ErrValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

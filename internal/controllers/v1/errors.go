package v1

import (
	"errors"
	"net/http"

	"github.com/eldolucas/orcy-backend/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"the specified resource ID is not a valid UUID"`
}

// status returns the appropriate status for a database error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}

// Cleanup errors
var (
	errCleanupConfirmation = errors.New("the confirmation for the cleanup API call was incorrect")
)

// Workflow errors
var (
	errStepIDNotSet     = errors.New("the stepId parameter must be set")
	errApproverIDNotSet = errors.New("the approverId parameter must be set")
)

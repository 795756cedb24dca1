package handlers

import (
	"errors"
	"net/http"

	"settlement-service/internal/services"
	"settlement-service/pkg/common"

	"github.com/gin-gonic/gin"
)

// respondError maps the service error taxonomy onto HTTP statuses.
// Conflicts (invalid transition, lock contention) are 409 so callers
// know to re-fetch or retry rather than treat them as server faults.
func respondError(c *gin.Context, err error) {
	var validationErr *services.ValidationError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(validationErr.Error(), nil, http.StatusBadRequest))
	case errors.Is(err, services.ErrInsufficientBalance):
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("You have insufficient funds to cover the withdrawal request.", nil, http.StatusBadRequest))
	case errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusConflict, common.NewErrorResponse(err.Error(), nil, http.StatusConflict))
	case errors.Is(err, services.ErrConcurrencyConflict):
		c.JSON(http.StatusConflict, common.NewErrorResponse("Another settlement operation is in progress, please retry", nil, http.StatusConflict))
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Record not found", nil, http.StatusNotFound))
	default:
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse("Internal server error", nil, http.StatusInternalServerError))
	}
}

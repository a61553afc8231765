package api

import (
	"errors"

	"github.com/gin-gonic/gin"
)

var (
	ErrInternalServer     = errors.New("something went wrong, please try again")
	ErrPaymentStageOnly   = errors.New("complete the delivery and receiver details before paying")
	ErrActionPending      = errors.New("this action is already in progress")
	ErrNoOrderInSession   = errors.New("no order is associated with this session")
	ErrUnsupportedCountry = errors.New("we do not deliver to this location yet, please contact us for a quote")
)

type FailedValidationResponse struct {
	Message         string            `json:"message"`
	FieldViolations []*FieldViolation `json:"field_violations"`
}

type FieldViolation struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

func fieldViolation(field string, err error) *FieldViolation {
	return &FieldViolation{
		Field:       field,
		Description: err.Error(),
	}
}

func errorResponse(err error) gin.H {
	return gin.H{"error": err.Error()}
}

func failedValidationError(violations []*FieldViolation) *FailedValidationResponse {
	return &FailedValidationResponse{
		Message:         "Invalid request parameters",
		FieldViolations: violations,
	}
}

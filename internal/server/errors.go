package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	commissiondomain "github.com/medirahq/commission/internal/commission/domain"
	ruledomain "github.com/medirahq/commission/internal/rule/domain"
	transactiondomain "github.com/medirahq/commission/internal/transaction/domain"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string                  `json:"type"`
	Message string                  `json:"message"`
	Errors  []ruledomain.FieldError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var ErrInvalidRequest = errors.New("invalid_request")

// ErrorHandlingMiddleware maps service errors onto uniform JSON payloads
// once the handler chain is done.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ruledomain.FieldError{
				{Field: fieldForCode(err.Error()), Code: err.Error(), Message: "invalid value"},
			},
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ruledomain.ValidationErrors {
	var vErr *ruledomain.ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ruledomain.ErrInvalidID),
		errors.Is(err, ruledomain.ErrInvalidImport),
		errors.Is(err, transactiondomain.ErrInvalidAmount),
		errors.Is(err, transactiondomain.ErrInvalidQuantity),
		errors.Is(err, transactiondomain.ErrInvalidCategory),
		errors.Is(err, transactiondomain.ErrInvalidType),
		errors.Is(err, transactiondomain.ErrInvalidDate),
		errors.Is(err, transactiondomain.ErrInvalidID),
		errors.Is(err, commissiondomain.ErrInvalidTransactionID),
		errors.Is(err, commissiondomain.ErrInvalidType):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ruledomain.ErrNotFound),
		errors.Is(err, transactiondomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func fieldForCode(code string) string {
	switch code {
	case "invalid_request":
		return "request"
	case "invalid_id", "invalid_transaction_id":
		return "id"
	case "invalid_amount":
		return "amount"
	case "invalid_quantity":
		return "quantity"
	case "invalid_category":
		return "category"
	case "invalid_type":
		return "type"
	case "invalid_date":
		return "date"
	default:
		return ""
	}
}

// classifyErrorForLog tags request log lines with a coarse error type and a
// stable code.
func classifyErrorForLog(err error) (string, string) {
	switch {
	case asValidationErrors(err) != nil, isValidationError(err):
		return "validation_error", errCode(err)
	case isNotFoundError(err):
		return "not_found", errCode(err)
	default:
		return "internal_error", errCode(err)
	}
}

func errCode(err error) string {
	if asValidationErrors(err) != nil {
		return "validation_error"
	}
	return err.Error()
}

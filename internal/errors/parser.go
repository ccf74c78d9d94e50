package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/closetly/wardrobe-backend/internal/app/model"
	"gorm.io/gorm"
)

// ErrorInfo is an error translated for clients.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError translates err into a client-facing code and message. Driver
// details are hidden; context names the failed operation ("create item").
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "internal server error",
		}
	}

	// 1. Tag vocabulary
	var tagErr *model.InvalidTagError
	if errors.As(err, &tagErr) {
		return ErrorInfo{
			Code:    TagInvalid,
			Message: tagErr.Error(),
		}
	}

	// 2. GORM
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	errLower := strings.ToLower(err.Error())

	// 3. Constraint violations (postgres and sqlite wording)
	if strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "record already exists",
		}
	}
	if strings.Contains(errLower, "not-null constraint") || strings.Contains(errLower, "not null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "a required field is missing",
		}
	}

	// 4. Connectivity
	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "an upstream service is unavailable, please try again later",
		}
	}
	if strings.Contains(errLower, "database is locked") || strings.Contains(errLower, "sql: database is closed") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: getDefaultErrorMessage(context),
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func getNotFoundMessage(context string) string {
	if strings.Contains(strings.ToLower(context), "item") {
		return "item not found"
	}
	return "requested resource not found"
}

func getDefaultErrorMessage(context string) string {
	if context == "" {
		return "internal server error, please try again later"
	}
	return fmt.Sprintf("failed to %s, please try again later", context)
}

// ParseAndRespond parses err and writes the response in one call.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}

package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo describes an error in client terms.
type ErrorInfo struct {
	Code    string // error code (see codes.go)
	Message string // user facing message
	Field   string // offending field for unique violations, if known
}

// ParseError turns storage errors into codes and messages without leaking
// driver details. context names the operation, e.g. "create product".
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "A server error occurred.",
		}
	}

	errStrLower := strings.ToLower(err.Error())

	// 1. GORM errors
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return parseDuplicateKeyError(errStrLower, context)
	}

	// 2. Constraint violations (PostgreSQL 23505/23503/23502, SQLite)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStrLower, context)
	}
	if strings.Contains(errStrLower, "foreign key constraint") {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "Referenced resource does not exist.",
		}
	}
	if strings.Contains(errStrLower, "not-null constraint") || strings.Contains(errStrLower, "not null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "A required field is missing.",
		}
	}

	// 3. Connectivity
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "A dependent service is unavailable. Please try again later.",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint")
}

func parseDuplicateKeyError(errLower string, context string) ErrorInfo {
	field := ""
	switch {
	case strings.Contains(errLower, "email"):
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "A user with this email already exists.",
			Field:   "email",
		}
	case strings.Contains(errLower, "sku"):
		field = "sku"
	case strings.Contains(errLower, "slug"):
		field = "slug"
	case strings.Contains(errLower, "name"):
		field = "name"
	case strings.Contains(errLower, "cart_items"), strings.Contains(errLower, "user_product"):
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "This product is already in the cart.",
			Field:   "product_id",
		}
	}

	if field == "" {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "This record already exists.",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: resourceName(context) + " with this " + field + " already exists.",
		Field:   field,
	}
}

func resourceName(context string) string {
	contextLower := strings.ToLower(context)
	switch {
	case strings.Contains(contextLower, "category"):
		return "A category"
	case strings.Contains(contextLower, "image"):
		return "An image"
	case strings.Contains(contextLower, "product"):
		return "A product"
	}
	return "A record"
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "category"):
		return "Category not found."
	case strings.Contains(contextLower, "image"):
		return "Product image not found."
	case strings.Contains(contextLower, "cart"):
		return "Cart item not found."
	case strings.Contains(contextLower, "product"):
		return "Product not found."
	case strings.Contains(contextLower, "user"):
		return "User not found."
	}
	return "Not found."
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"):
		return "Failed to create the record. Please try again later."
	case strings.Contains(contextLower, "update"):
		return "Failed to update the record. Please try again later."
	case strings.Contains(contextLower, "delete"):
		return "Failed to delete the record. Please try again later."
	}
	return "A server error occurred. Please try again later."
}

// ParseAndRespond parses err and writes the matching body with statusCode.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}

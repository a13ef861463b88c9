package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidRange     = errors.New("invalid period range")
	ErrContractNotFound = errors.New("contract not found")
	ErrOwnerNotFound    = errors.New("owner not found")
	ErrReceiptNotFound  = errors.New("receipt not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrStoreFailure     = errors.New("store failure")
	ErrCacheFailure     = errors.New("cache failure")
	ErrDocumentFailure  = errors.New("document failure")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeInvalidInput     = "INVALID_INPUT"
	ErrCodeInvalidRange     = "INVALID_RANGE"
	ErrCodeContractNotFound = "CONTRACT_NOT_FOUND"
	ErrCodeOwnerNotFound    = "OWNER_NOT_FOUND"
	ErrCodeReceiptNotFound  = "RECEIPT_NOT_FOUND"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeStoreFailure     = "STORE_FAILURE"
	ErrCodeCacheError       = "CACHE_ERROR"
	ErrCodeDocumentFailure  = "DOCUMENT_FAILURE"
)

// Code returns the business code carried by err, or "" when err is not a
// BusinessError.
func Code(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

func WrapInvalidInput(format string, args ...any) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidInput,
		fmt.Sprintf(format, args...),
		ErrInvalidInput,
	)
}

func WrapInvalidRange(from, to string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidRange,
		fmt.Sprintf("Period %s is after %s", from, to),
		ErrInvalidRange,
	)
}

func WrapContractNotFound(contractID string) *BusinessError {
	return NewBusinessError(
		ErrCodeContractNotFound,
		fmt.Sprintf("Contract with ID %s not found", contractID),
		ErrContractNotFound,
	)
}

func WrapOwnerNotFound(ownerID string) *BusinessError {
	return NewBusinessError(
		ErrCodeOwnerNotFound,
		fmt.Sprintf("Owner with ID %s not found", ownerID),
		ErrOwnerNotFound,
	)
}

func WrapReceiptNotFound(receiptID string) *BusinessError {
	return NewBusinessError(
		ErrCodeReceiptNotFound,
		fmt.Sprintf("Receipt with ID %s not found", receiptID),
		ErrReceiptNotFound,
	)
}

func WrapUnauthorized(message string) *BusinessError {
	return NewBusinessError(
		ErrCodeUnauthorized,
		message,
		ErrUnauthorized,
	)
}

// WrapStoreFailure keeps the driver error reachable through errors.Is/As
// while still matching ErrStoreFailure.
func WrapStoreFailure(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeStoreFailure,
		"database operation failed",
		errors.Join(ErrStoreFailure, err),
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		errors.Join(ErrCacheFailure, err),
	)
}

func WrapDocumentFailure(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDocumentFailure,
		"document rendering or storage failed",
		errors.Join(ErrDocumentFailure, err),
	)
}

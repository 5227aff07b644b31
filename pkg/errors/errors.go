// Package errors defines the typed failure taxonomy for the commerce
// pipeline. Every failure returned to a caller is an *AppError carrying a
// stable code; HTTP status mapping lives in the api/response package and
// never leaks into domain or application code.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a failure class.
type ErrorCode string

const (
	// Generic codes
	CodeInternal    ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest  ErrorCode = "BAD_REQUEST"
	CodeNotFound    ErrorCode = "NOT_FOUND"
	CodeConflict    ErrorCode = "CONFLICT"
	CodeValidation  ErrorCode = "VALIDATION_ERROR"
	CodeGateway     ErrorCode = "GATEWAY_ERROR"
	CodePersistence ErrorCode = "PERSISTENCE_ERROR"

	// Business codes
	CodeMovieNotFound      ErrorCode = "MOVIE_NOT_FOUND"
	CodeCartNotFound       ErrorCode = "CART_NOT_FOUND"
	CodeCartItemExists     ErrorCode = "CART_ITEM_EXISTS"
	CodeCartEmpty          ErrorCode = "CART_EMPTY"
	CodeAlreadyPurchased   ErrorCode = "ALREADY_PURCHASED"
	CodeOrderNotFound      ErrorCode = "ORDER_NOT_FOUND"
	CodeOrderNotCancelable ErrorCode = "ORDER_NOT_CANCELABLE"
	CodeOrderNotPayable    ErrorCode = "ORDER_NOT_PAYABLE"
	CodePaymentNotFound    ErrorCode = "PAYMENT_NOT_FOUND"
	CodePaymentCanceled    ErrorCode = "PAYMENT_CANCELED"
)

// AppError is the application-level error type.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the caller may retry the same request without
// changing it. Gateway and persistence failures are transient; conflicts,
// missing entities and validation failures are not.
func (e *AppError) Retryable() bool {
	switch e.Code {
	case CodeGateway, CodePersistence, CodeInternal:
		return true
	default:
		return false
	}
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap wraps an underlying error with a code and a user-visible message.
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// Common constructors

func BadRequest(message string) *AppError { return New(CodeBadRequest, message) }

func NotFound(message string) *AppError { return New(CodeNotFound, message) }

func Conflict(message string) *AppError { return New(CodeConflict, message) }

func Validation(message string) *AppError { return New(CodeValidation, message) }

func Internal(message string) *AppError { return New(CodeInternal, message) }

// Gateway wraps an external payment gateway transport failure.
func Gateway(err error, message string) *AppError {
	return Wrap(err, CodeGateway, message)
}

// Persistence wraps a storage failure that triggered a rollback.
func Persistence(err error) *AppError {
	return Wrap(err, CodePersistence, "storage operation failed")
}

// Business constructors

func MovieNotFound() *AppError { return New(CodeMovieNotFound, "movie not found") }

func CartNotFound() *AppError { return New(CodeCartNotFound, "cart not found") }

func CartItemExists() *AppError {
	return New(CodeCartItemExists, "movie is already in the cart")
}

func CartEmpty() *AppError { return New(CodeCartEmpty, "cart is empty") }

func AlreadyPurchased() *AppError {
	return New(CodeAlreadyPurchased, "movie already purchased")
}

func OrderNotFound() *AppError { return New(CodeOrderNotFound, "order not found") }

func OrderNotCancelable() *AppError {
	return New(CodeOrderNotCancelable, "order cannot be canceled")
}

func OrderNotPayable() *AppError {
	return New(CodeOrderNotPayable, "order not payable")
}

func PaymentNotFound() *AppError { return New(CodePaymentNotFound, "payment not found") }

func PaymentCanceled() *AppError {
	return New(CodePaymentCanceled, "payment canceled")
}

// Is checks whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// AsAppError converts any error to an AppError, wrapping unknown errors as
// internal so no raw error detail reaches a client.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, CodeInternal, "internal server error")
}

package model

import (
	"errors"
	"fmt"
)

// Machine-readable error codes. The HTTP layer maps each code to a status.
const (
	EINVALID      = "invalid"
	ENOTFOUND     = "not_found"
	ESTOCK        = "insufficient_stock"
	EUNAUTHORIZED = "unauthorized"
	ESIGNATURE    = "signature_invalid"
	EGATEWAY      = "gateway_error"
	EINTERNAL     = "internal"
)

// Shop-level domain errors.
var (
	ErrProductNotFound  = &Error{Code: ENOTFOUND, Message: "Product not found"}
	ErrOrderNotFound    = &Error{Code: ENOTFOUND, Message: "Order not found"}
	ErrMissingFields    = &Error{Code: EINVALID, Message: "Missing required fields"}
	ErrSlugTaken        = &Error{Code: EINVALID, Message: "Slug already in use"}
	ErrNoPaymentIntent  = &Error{Code: EINVALID, Message: "No payment to refund"}
	ErrAlreadyRefunded  = &Error{Code: EINVALID, Message: "Already refunded"}
	ErrSignatureInvalid = &Error{Code: ESIGNATURE, Message: "Invalid signature"}
	ErrUnauthorized     = &Error{Code: EUNAUTHORIZED, Message: "Unauthorized"}
)

// Error is a domain error carrying a machine code and a human-readable
// message safe to show to the caller.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// Errorf builds a domain error with a formatted message.
func Errorf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ErrorCode extracts the machine code from err. Errors that are not domain
// errors classify as EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage extracts the caller-safe message from err. Non-domain errors
// answer a generic message so internals never leak.
func ErrorMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error"
}

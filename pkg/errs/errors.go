// Package errs defines the closed set of error codes the core can return.
// Every code carries a stable identifier, a kind for coarse handling, and a
// human-readable default message. Callers match codes with CodeOf, never by
// string comparison.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a code for transport-level handling.
type Kind int

const (
	KindNotFound Kind = iota
	KindStateViolation
	KindContention
	KindValidation
	KindInternal
)

// Code identifies one enumerated failure.
type Code string

const (
	UserNotFound               Code = "USER_NOT_FOUND"
	AccountNotFound            Code = "ACCOUNT_NOT_FOUND"
	TransactionNotFound        Code = "TRANSACTION_NOT_FOUND"
	OwnerMismatch              Code = "USER_ACCOUNT_MISMATCH"
	MaxAccountsPerUser         Code = "MAX_ACCOUNTS_PER_USER"
	AlreadyUnregistered        Code = "ACCOUNT_ALREADY_UNREGISTERED"
	BalanceNotEmpty            Code = "BALANCE_NOT_EMPTY"
	AmountExceedsBalance       Code = "AMOUNT_EXCEEDS_BALANCE"
	AmountMismatch             Code = "TRANSACTION_AMOUNT_MISMATCH"
	TransactionAccountMismatch Code = "TRANSACTION_ACCOUNT_MISMATCH"
	TooOldToCancel             Code = "TOO_OLD_TO_CANCEL"
	Contention                 Code = "ACCOUNT_TRANSACTION_LOCK"
	InvalidRequest             Code = "INVALID_REQUEST"
	Internal                   Code = "INTERNAL_SERVER_ERROR"
)

var messages = map[Code]string{
	UserNotFound:               "user not found",
	AccountNotFound:            "account not found",
	TransactionNotFound:        "transaction not found",
	OwnerMismatch:              "account is not owned by this user",
	MaxAccountsPerUser:         "user already owns the maximum of 10 accounts",
	AlreadyUnregistered:        "account is already unregistered",
	BalanceNotEmpty:            "account still has a balance",
	AmountExceedsBalance:       "amount exceeds the account balance",
	AmountMismatch:             "cancel amount differs from the original transaction amount (partial cancel is not allowed)",
	TransactionAccountMismatch: "account does not match the account used in the transaction",
	TooOldToCancel:             "transactions older than one year cannot be cancelled",
	Contention:                 "another transaction is in progress on this account",
	InvalidRequest:             "invalid request",
	Internal:                   "internal server error",
}

var kinds = map[Code]Kind{
	UserNotFound:               KindNotFound,
	AccountNotFound:            KindNotFound,
	TransactionNotFound:        KindNotFound,
	OwnerMismatch:              KindStateViolation,
	MaxAccountsPerUser:         KindStateViolation,
	AlreadyUnregistered:        KindStateViolation,
	BalanceNotEmpty:            KindStateViolation,
	AmountExceedsBalance:       KindStateViolation,
	AmountMismatch:             KindStateViolation,
	TransactionAccountMismatch: KindStateViolation,
	TooOldToCancel:             KindStateViolation,
	Contention:                 KindContention,
	InvalidRequest:             KindValidation,
	Internal:                   KindInternal,
}

// Error is a coded domain error. Construct with E or Wrap.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Kind returns the classification of the error's code.
func (e *Error) Kind() Kind { return kinds[e.Code] }

// Retryable reports whether a caller may retry the operation as-is.
func (e *Error) Retryable() bool { return e.Kind() == KindContention }

// E returns a coded error with the code's default message.
func E(code Code) *Error {
	return &Error{Code: code, Message: messages[code]}
}

// Wrap returns a coded error that records an underlying cause. The cause is
// available via errors.Unwrap but is not shown to API callers.
func Wrap(code Code, cause error) *Error {
	return &Error{Code: code, Message: messages[code], cause: cause}
}

// CodeOf extracts the code from err, or Internal if err carries none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return Internal
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// Package api defines the request and response shapes of the HTTP surface.
// These are deliberately separate from the domain models so storage concerns
// (versions, internal IDs) never leak to callers.
package api

import "time"

// NewUser is the request body for creating an account user.
type NewUser struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// User is the caller-facing view of an account user.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateAccountRequest is the request body for opening an account.
type CreateAccountRequest struct {
	UserID         int64 `json:"user_id"`
	InitialBalance int64 `json:"initial_balance"`
}

// CreateAccountResponse confirms the opened account.
type CreateAccountResponse struct {
	UserID        int64     `json:"user_id"`
	AccountNumber string    `json:"account_number"`
	RegisteredAt  time.Time `json:"registered_at"`
}

// DeleteAccountRequest is the request body for unregistering an account.
type DeleteAccountRequest struct {
	UserID        int64  `json:"user_id"`
	AccountNumber string `json:"account_number"`
}

// DeleteAccountResponse confirms the unregistered account.
type DeleteAccountResponse struct {
	UserID         int64      `json:"user_id"`
	AccountNumber  string     `json:"account_number"`
	UnregisteredAt *time.Time `json:"unregistered_at"`
}

// AccountInfo is one element of the list-accounts response.
type AccountInfo struct {
	AccountNumber string `json:"account_number"`
	Balance       int64  `json:"balance"`
}

// UseBalanceRequest is the request body for debiting an account.
type UseBalanceRequest struct {
	UserID        int64  `json:"user_id"`
	AccountNumber string `json:"account_number"`
	Amount        int64  `json:"amount"`
}

// CancelBalanceRequest is the request body for reversing a prior use.
type CancelBalanceRequest struct {
	TransactionID string `json:"transaction_id"`
	AccountNumber string `json:"account_number"`
	Amount        int64  `json:"amount"`
}

// TransactionResponse is returned by the use and cancel operations.
type TransactionResponse struct {
	AccountNumber     string    `json:"account_number"`
	TransactionResult string    `json:"transaction_result"`
	TransactionID     string    `json:"transaction_id"`
	Amount            int64     `json:"amount"`
	TransactedAt      time.Time `json:"transacted_at"`
}

// QueryTransactionResponse is returned by the transaction query operation.
type QueryTransactionResponse struct {
	AccountNumber     string    `json:"account_number"`
	TransactionType   string    `json:"transaction_type"`
	TransactionResult string    `json:"transaction_result"`
	TransactionID     string    `json:"transaction_id"`
	Amount            int64     `json:"amount"`
	TransactedAt      time.Time `json:"transacted_at"`
}

// Error is the body of every error response.
type Error struct {
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

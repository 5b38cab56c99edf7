package transactions

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chris/account-ledger/pkg/api"
	"github.com/chris/account-ledger/pkg/errs"
	"github.com/chris/account-ledger/pkg/handlers/respond"
	"github.com/chris/account-ledger/pkg/mapping"
	"github.com/chris/account-ledger/pkg/models"
	"github.com/chris/account-ledger/pkg/service"
)

// TransactionsHandler holds the dependencies for transaction-related handlers.
type TransactionsHandler struct {
	Transactions service.TransactionService
}

// NewTransactionsHandler creates a new TransactionsHandler.
func NewTransactionsHandler(transactions service.TransactionService) *TransactionsHandler {
	return &TransactionsHandler{Transactions: transactions}
}

// UseBalance handles the logic for debiting an account.
func (h *TransactionsHandler) UseBalance(w http.ResponseWriter, r *http.Request) {
	var req api.UseBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.ValidationError(w, "invalid request body")
		return
	}
	if req.UserID <= 0 {
		respond.ValidationError(w, "user_id must be positive")
		return
	}
	if !api.ValidAccountNumber(req.AccountNumber) {
		respond.ValidationError(w, "account_number must be 10 digits")
		return
	}
	if req.Amount <= 0 {
		respond.ValidationError(w, "amount must be positive")
		return
	}

	tx, err := h.Transactions.UseBalance(r.Context(), req.UserID, req.AccountNumber, req.Amount)
	if err != nil {
		h.recordFailure(r, models.TypeUse, req.AccountNumber, req.Amount, err)
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiTransaction(tx))
}

// CancelBalance handles the logic for reversing a prior use.
func (h *TransactionsHandler) CancelBalance(w http.ResponseWriter, r *http.Request) {
	var req api.CancelBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.ValidationError(w, "invalid request body")
		return
	}
	if req.TransactionID == "" {
		respond.ValidationError(w, "transaction_id is required")
		return
	}
	if !api.ValidAccountNumber(req.AccountNumber) {
		respond.ValidationError(w, "account_number must be 10 digits")
		return
	}
	if req.Amount <= 0 {
		respond.ValidationError(w, "amount must be positive")
		return
	}

	tx, err := h.Transactions.CancelBalance(r.Context(), req.TransactionID, req.AccountNumber, req.Amount)
	if err != nil {
		h.recordFailure(r, models.TypeCancel, req.AccountNumber, req.Amount, err)
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiTransaction(tx))
}

// GetTransaction handles the logic for querying a recorded transaction.
func (h *TransactionsHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionID")
	if transactionID == "" {
		respond.ValidationError(w, "transaction_id is required")
		return
	}

	tx, err := h.Transactions.QueryTransaction(r.Context(), transactionID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiQueriedTransaction(tx))
}

// recordFailure appends a Fail audit record for an attempt rejected by
// validation. Only state violations are recorded: not-found means there is
// no account to record against, and contention means the attempt never
// entered the critical section.
func (h *TransactionsHandler) recordFailure(r *http.Request, txType models.TransactionType, accountNumber string, amount int64, cause error) {
	var coded *errs.Error
	if !errors.As(cause, &coded) || coded.Kind() != errs.KindStateViolation {
		return
	}

	var err error
	switch txType {
	case models.TypeCancel:
		_, err = h.Transactions.SaveFailedCancelTransaction(r.Context(), accountNumber, amount)
	default:
		_, err = h.Transactions.SaveFailedUseTransaction(r.Context(), accountNumber, amount)
	}
	if err != nil {
		slog.Error("failed to record failed transaction",
			"account_number", accountNumber, "type", txType, "error", err)
	}
}

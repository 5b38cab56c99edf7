package accounts

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/chris/account-ledger/pkg/api"
	"github.com/chris/account-ledger/pkg/handlers/respond"
	"github.com/chris/account-ledger/pkg/mapping"
	"github.com/chris/account-ledger/pkg/service"
)

// AccountsHandler holds the dependencies for account-related handlers.
type AccountsHandler struct {
	Accounts service.AccountService
}

// NewAccountsHandler creates a new AccountsHandler.
func NewAccountsHandler(accounts service.AccountService) *AccountsHandler {
	return &AccountsHandler{Accounts: accounts}
}

// CreateAccount handles the logic for opening a new account.
func (h *AccountsHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req api.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.ValidationError(w, "invalid request body")
		return
	}
	if req.UserID <= 0 {
		respond.ValidationError(w, "user_id must be positive")
		return
	}
	if req.InitialBalance < 0 {
		respond.ValidationError(w, "initial_balance must not be negative")
		return
	}

	account, err := h.Accounts.CreateAccount(r.Context(), req.UserID, req.InitialBalance)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, mapping.ToApiCreatedAccount(account))
}

// DeleteAccount handles the logic for unregistering an account.
func (h *AccountsHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	var req api.DeleteAccountRequest
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

	account, err := h.Accounts.DeleteAccount(r.Context(), req.UserID, req.AccountNumber)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiDeletedAccount(account))
}

// ListAccounts handles the logic for listing a user's accounts.
func (h *AccountsHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		respond.ValidationError(w, "user_id must be a positive integer")
		return
	}

	accounts, err := h.Accounts.ListAccounts(r.Context(), userID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	infos := make([]*api.AccountInfo, len(accounts))
	for i, account := range accounts {
		infos[i] = mapping.ToApiAccountInfo(&account)
	}

	respond.JSON(w, http.StatusOK, infos)
}

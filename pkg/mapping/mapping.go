package mapping

import (
	"github.com/chris/account-ledger/pkg/api"
	"github.com/chris/account-ledger/pkg/models"
)

// ToApiUser converts a domain AccountUser to its API representation.
func ToApiUser(user *models.AccountUser) *api.User {
	return &api.User{
		ID:        user.ID,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}
}

// ToApiCreatedAccount converts a freshly created account to the create response.
func ToApiCreatedAccount(account *models.Account) *api.CreateAccountResponse {
	return &api.CreateAccountResponse{
		UserID:        account.OwnerID,
		AccountNumber: account.AccountNumber,
		RegisteredAt:  account.RegisteredAt,
	}
}

// ToApiDeletedAccount converts an unregistered account to the delete response.
func ToApiDeletedAccount(account *models.Account) *api.DeleteAccountResponse {
	return &api.DeleteAccountResponse{
		UserID:         account.OwnerID,
		AccountNumber:  account.AccountNumber,
		UnregisteredAt: account.UnregisteredAt,
	}
}

// ToApiAccountInfo converts a domain Account to a list-accounts element.
func ToApiAccountInfo(account *models.Account) *api.AccountInfo {
	return &api.AccountInfo{
		AccountNumber: account.AccountNumber,
		Balance:       account.Balance,
	}
}

// ToApiTransaction converts a domain Transaction to the use/cancel response.
func ToApiTransaction(tx *models.Transaction) *api.TransactionResponse {
	return &api.TransactionResponse{
		AccountNumber:     tx.AccountNumber,
		TransactionResult: string(tx.Result),
		TransactionID:     tx.TransactionID,
		Amount:            tx.Amount,
		TransactedAt:      tx.TransactedAt,
	}
}

// ToApiQueriedTransaction converts a domain Transaction to the query response.
func ToApiQueriedTransaction(tx *models.Transaction) *api.QueryTransactionResponse {
	return &api.QueryTransactionResponse{
		AccountNumber:     tx.AccountNumber,
		TransactionType:   string(tx.Type),
		TransactionResult: string(tx.Result),
		TransactionID:     tx.TransactionID,
		Amount:            tx.Amount,
		TransactedAt:      tx.TransactedAt,
	}
}

package storage

import (
	"context"

	"github.com/chris/account-ledger/pkg/models"
)

// AccountReader defines the interface for reading account data.
type AccountReader interface {
	// GetAccount retrieves an account by its account number.
	GetAccount(ctx context.Context, accountNumber string) (*models.Account, error)

	// GetLatestAccount retrieves the account with the highest account number,
	// or (nil, nil) when the registry is empty.
	GetLatestAccount(ctx context.Context) (*models.Account, error)

	// CountAccountsByOwner returns how many accounts the owner currently has.
	CountAccountsByOwner(ctx context.Context, ownerID int64) (int, error)

	// ListAccountsByOwner retrieves every account owned by the user,
	// regardless of status.
	ListAccountsByOwner(ctx context.Context, ownerID int64) ([]models.Account, error)

	// ListAllAccounts retrieves every account in the registry, ordered by
	// account number.
	ListAllAccounts(ctx context.Context) ([]models.Account, error)
}

// AccountWriter defines the interface for creating and updating accounts.
type AccountWriter interface {
	// CreateAccount persists a new account. The account number must not
	// already exist.
	CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error)

	// UpdateAccount persists a modified account. The write is conditional on
	// the version the account was read at and bumps it by one.
	UpdateAccount(ctx context.Context, account *models.Account) error
}

// AccountStore combines the reader and writer interfaces.
type AccountStore interface {
	AccountReader
	AccountWriter
}

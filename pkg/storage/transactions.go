package storage

import (
	"context"

	"github.com/chris/account-ledger/pkg/models"
)

// TransactionStore defines the interface for the append-only transaction log.
// Records are immutable once written; there are deliberately no update or
// delete operations.
type TransactionStore interface {
	// GetTransaction retrieves a transaction by its caller-facing transaction ID.
	GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error)

	// SaveTransaction appends a transaction record without touching any
	// account. Used for failed-attempt records.
	SaveTransaction(ctx context.Context, tx *models.Transaction) error

	// SaveTransactionWithBalance atomically persists the account's new balance
	// and appends the transaction record. Both writes land or neither does.
	// The account carries its post-mutation balance and the version it was
	// read at; the write is conditional on that version.
	SaveTransactionWithBalance(ctx context.Context, account *models.Account, tx *models.Transaction) error

	// ListTransactionsByAccount retrieves the account's records ordered by
	// transaction time, oldest first.
	ListTransactionsByAccount(ctx context.Context, accountID string) ([]models.Transaction, error)
}

package events

import (
	"context"
	"time"

	"github.com/chris/account-ledger/pkg/models"
)

// TransactionEvent is the payload published after a use or cancel commits.
// Consumers (the notifier lambda, downstream reporting) get the same fields
// the audit record carries.
type TransactionEvent struct {
	TransactionID   string                   `json:"transaction_id"`
	AccountNumber   string                   `json:"account_number"`
	Type            models.TransactionType   `json:"transaction_type"`
	Result          models.TransactionResult `json:"transaction_result"`
	Amount          int64                    `json:"amount"`
	BalanceSnapshot int64                    `json:"balance_snapshot"`
	TransactedAt    time.Time                `json:"transacted_at"`
}

// FromTransaction builds the event for a committed transaction record.
func FromTransaction(tx *models.Transaction) TransactionEvent {
	return TransactionEvent{
		TransactionID:   tx.TransactionID,
		AccountNumber:   tx.AccountNumber,
		Type:            tx.Type,
		Result:          tx.Result,
		Amount:          tx.Amount,
		BalanceSnapshot: tx.BalanceSnapshot,
		TransactedAt:    tx.TransactedAt,
	}
}

// Publisher defines the interface for a component that fans out committed
// transactions. Publishing happens after the atomic write; a failure here
// never rolls the transaction back.
type Publisher interface {
	PublishTransaction(ctx context.Context, tx *models.Transaction) error
}

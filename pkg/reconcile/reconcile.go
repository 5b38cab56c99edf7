// Package reconcile audits the transaction log against account balances.
// The guarded atomic write should make divergence impossible; this is the
// scheduled check that proves it in production.
package reconcile

import (
	"context"
	"fmt"

	"github.com/chris/account-ledger/pkg/models"
	"github.com/chris/account-ledger/pkg/storage"
)

// Mismatch describes one account whose audit trail disagrees with its
// stored balance.
type Mismatch struct {
	AccountNumber string `json:"account_number"`
	Balance       int64  `json:"balance"`
	ExpectedFinal int64  `json:"expected_final"`
	Detail        string `json:"detail"`
}

// Auditor checks accounts against their transaction records.
type Auditor struct {
	Store storage.Storage
}

// NewAuditor creates a new Auditor.
func NewAuditor(store storage.Storage) *Auditor {
	return &Auditor{Store: store}
}

// Audit walks every in-use account and verifies two properties of its
// success records: consecutive snapshots differ by exactly the applied
// amounts, and the latest snapshot equals the stored balance.
func (a *Auditor) Audit(ctx context.Context) ([]Mismatch, error) {
	accounts, err := a.Store.ListAllAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for audit: %w", err)
	}

	var mismatches []Mismatch
	for _, account := range accounts {
		if account.Status != models.AccountInUse {
			continue
		}

		records, err := a.Store.ListTransactionsByAccount(ctx, account.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list transactions for account %s: %w", account.AccountNumber, err)
		}

		if m := auditAccount(&account, records); m != nil {
			mismatches = append(mismatches, *m)
		}
	}

	return mismatches, nil
}

func auditAccount(account *models.Account, records []models.Transaction) *Mismatch {
	var last *models.Transaction
	for i := range records {
		record := &records[i]
		if record.Result != models.ResultSuccess {
			continue
		}

		if last != nil {
			expected := last.BalanceSnapshot
			switch record.Type {
			case models.TypeUse:
				expected -= record.Amount
			case models.TypeCancel:
				expected += record.Amount
			}
			if record.BalanceSnapshot != expected {
				return &Mismatch{
					AccountNumber: account.AccountNumber,
					Balance:       account.Balance,
					ExpectedFinal: expected,
					Detail:        fmt.Sprintf("snapshot chain broken at transaction %s", record.TransactionID),
				}
			}
		}
		last = record
	}

	// Accounts with no success records carry their initial balance; nothing
	// to cross-check.
	if last == nil {
		return nil
	}

	if last.BalanceSnapshot != account.Balance {
		return &Mismatch{
			AccountNumber: account.AccountNumber,
			Balance:       account.Balance,
			ExpectedFinal: last.BalanceSnapshot,
			Detail:        "latest snapshot does not match stored balance",
		}
	}

	return nil
}

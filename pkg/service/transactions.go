package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chris/account-ledger/pkg/errs"
	"github.com/chris/account-ledger/pkg/events"
	"github.com/chris/account-ledger/pkg/lock"
	"github.com/chris/account-ledger/pkg/models"
	"github.com/chris/account-ledger/pkg/storage"
)

// TransactionService owns balance mutation and the append-only audit log.
// Use and cancel run their whole read-validate-mutate-append sequence under
// the account's exclusion lock, so concurrent requests on one account
// serialize and requests on different accounts never contend.
type TransactionService interface {
	// UseBalance debits the account and appends a success record whose
	// snapshot is the post-debit balance.
	UseBalance(ctx context.Context, userID int64, accountNumber string, amount int64) (*models.Transaction, error)

	// SaveFailedUseTransaction records a use attempt that failed validation.
	// The balance is untouched; the snapshot is the current balance.
	SaveFailedUseTransaction(ctx context.Context, accountNumber string, amount int64) (*models.Transaction, error)

	// CancelBalance reverses a prior use by the exact original amount,
	// credits the account, and appends a success record.
	CancelBalance(ctx context.Context, transactionID, accountNumber string, amount int64) (*models.Transaction, error)

	// SaveFailedCancelTransaction mirrors SaveFailedUseTransaction for the
	// cancel path.
	SaveFailedCancelTransaction(ctx context.Context, accountNumber string, amount int64) (*models.Transaction, error)

	// QueryTransaction returns the recorded transaction unchanged.
	QueryTransaction(ctx context.Context, transactionID string) (*models.Transaction, error)
}

type transactionService struct {
	store     storage.Storage
	locks     lock.Manager
	publisher events.Publisher
}

// NewTransactionService creates a TransactionService. publisher may be nil
// when no event fan-out is configured.
func NewTransactionService(store storage.Storage, locks lock.Manager, publisher events.Publisher) TransactionService {
	return &transactionService{
		store:     store,
		locks:     locks,
		publisher: publisher,
	}
}

func (s *transactionService) UseBalance(ctx context.Context, userID int64, accountNumber string, amount int64) (*models.Transaction, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var committed *models.Transaction
	err = s.locks.WithAccountLock(ctx, accountNumber, func(ctx context.Context) error {
		account, err := s.store.GetAccount(ctx, accountNumber)
		if err != nil {
			return err
		}

		if account.OwnerID != user.ID {
			return errs.E(errs.OwnerMismatch)
		}
		if account.Status != models.AccountInUse {
			return errs.E(errs.AlreadyUnregistered)
		}
		if amount > account.Balance {
			return errs.E(errs.AmountExceedsBalance)
		}

		account.Balance -= amount
		tx := newTransaction(account, models.TypeUse, models.ResultSuccess, amount)

		if err := s.store.SaveTransactionWithBalance(ctx, account, tx); err != nil {
			return err
		}

		committed = tx
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, committed)
	return committed, nil
}

func (s *transactionService) SaveFailedUseTransaction(ctx context.Context, accountNumber string, amount int64) (*models.Transaction, error) {
	return s.saveFailed(ctx, accountNumber, models.TypeUse, amount)
}

func (s *transactionService) CancelBalance(ctx context.Context, transactionID, accountNumber string, amount int64) (*models.Transaction, error) {
	original, err := s.store.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	var committed *models.Transaction
	err = s.locks.WithAccountLock(ctx, accountNumber, func(ctx context.Context) error {
		account, err := s.store.GetAccount(ctx, accountNumber)
		if err != nil {
			return err
		}

		if original.AccountID != account.ID {
			return errs.E(errs.TransactionAccountMismatch)
		}
		if original.Amount != amount {
			return errs.E(errs.AmountMismatch)
		}
		if original.TransactedAt.Before(time.Now().Add(-models.CancelWindow)) {
			return errs.E(errs.TooOldToCancel)
		}

		account.Balance += amount
		tx := newTransaction(account, models.TypeCancel, models.ResultSuccess, amount)

		if err := s.store.SaveTransactionWithBalance(ctx, account, tx); err != nil {
			return err
		}

		committed = tx
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, committed)
	return committed, nil
}

func (s *transactionService) SaveFailedCancelTransaction(ctx context.Context, accountNumber string, amount int64) (*models.Transaction, error) {
	return s.saveFailed(ctx, accountNumber, models.TypeCancel, amount)
}

func (s *transactionService) QueryTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	return s.store.GetTransaction(ctx, transactionID)
}

// saveFailed appends a Fail record with the balance unchanged. It is the
// audit trail for attempts rejected by validation or by an out-of-band
// authorizer; there is no balance write, so it takes no lock.
func (s *transactionService) saveFailed(ctx context.Context, accountNumber string, txType models.TransactionType, amount int64) (*models.Transaction, error) {
	account, err := s.store.GetAccount(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	tx := newTransaction(account, txType, models.ResultFail, amount)
	if err := s.store.SaveTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// newTransaction builds an audit record for the account's current state.
// The caller has already applied any balance effect, so Balance here is the
// snapshot the record must carry. The caller-facing transaction ID is a
// dash-stripped UUID.
func newTransaction(account *models.Account, txType models.TransactionType, result models.TransactionResult, amount int64) *models.Transaction {
	return &models.Transaction{
		ID:              uuid.New().String(),
		TransactionID:   strings.ReplaceAll(uuid.New().String(), "-", ""),
		AccountID:       account.ID,
		AccountNumber:   account.AccountNumber,
		Type:            txType,
		Result:          result,
		Amount:          amount,
		BalanceSnapshot: account.Balance,
		TransactedAt:    time.Now(),
	}
}

func (s *transactionService) publish(ctx context.Context, tx *models.Transaction) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransaction(ctx, tx); err != nil {
		log.Printf("CRITICAL: transaction %s committed but event publish failed: %v", tx.TransactionID, err)
	}
}

package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/chris/account-ledger/pkg/errs"
	"github.com/chris/account-ledger/pkg/models"
	"github.com/chris/account-ledger/pkg/storage"
)

// AccountService owns account creation, numbering, and lifecycle.
type AccountService interface {
	// CreateAccount opens a new account for the user with the next account
	// number and the given initial balance.
	CreateAccount(ctx context.Context, userID int64, initialBalance int64) (*models.Account, error)

	// DeleteAccount unregisters the user's account. Only a zero-balance,
	// in-use account can be unregistered; the transition is terminal.
	DeleteAccount(ctx context.Context, userID int64, accountNumber string) (*models.Account, error)

	// ListAccounts returns every account owned by the user, any status.
	ListAccounts(ctx context.Context, userID int64) ([]models.Account, error)
}

type accountService struct {
	store storage.Storage
}

// NewAccountService creates an AccountService over the given storage.
func NewAccountService(store storage.Storage) AccountService {
	return &accountService{store: store}
}

func (s *accountService) CreateAccount(ctx context.Context, userID int64, initialBalance int64) (*models.Account, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	count, err := s.store.CountAccountsByOwner(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if count >= models.MaxAccountsPerUser {
		return nil, errs.E(errs.MaxAccountsPerUser)
	}

	number, err := s.nextAccountNumber(ctx)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		ID:            uuid.New().String(),
		OwnerID:       user.ID,
		AccountNumber: number,
		Balance:       initialBalance,
		Status:        models.AccountInUse,
		Version:       1,
		RegisteredAt:  time.Now(),
	}

	return s.store.CreateAccount(ctx, account)
}

// nextAccountNumber computes the successor of the highest assigned account
// number, or the initial number on an empty registry. The number space is
// fixed-width; exhausting it is surfaced as a fault instead of growing an
// eleventh digit.
func (s *accountService) nextAccountNumber(ctx context.Context) (string, error) {
	latest, err := s.store.GetLatestAccount(ctx)
	if err != nil {
		return "", err
	}
	if latest == nil {
		return models.InitialAccountNumber, nil
	}

	n, err := strconv.ParseInt(latest.AccountNumber, 10, 64)
	if err != nil {
		return "", errs.Wrap(errs.Internal, fmt.Errorf("malformed account number %q: %w", latest.AccountNumber, err))
	}

	next := strconv.FormatInt(n+1, 10)
	if len(next) > models.AccountNumberLength {
		return "", errs.Wrap(errs.Internal, fmt.Errorf("account number space exhausted at %s", latest.AccountNumber))
	}

	return next, nil
}

func (s *accountService) DeleteAccount(ctx context.Context, userID int64, accountNumber string) (*models.Account, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	account, err := s.store.GetAccount(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	if account.OwnerID != user.ID {
		return nil, errs.E(errs.OwnerMismatch)
	}
	if account.Status == models.AccountUnregistered {
		return nil, errs.E(errs.AlreadyUnregistered)
	}
	if account.Balance > 0 {
		return nil, errs.E(errs.BalanceNotEmpty)
	}

	now := time.Now()
	account.Status = models.AccountUnregistered
	account.UnregisteredAt = &now

	if err := s.store.UpdateAccount(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, userID int64) ([]models.Account, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.store.ListAccountsByOwner(ctx, user.ID)
}

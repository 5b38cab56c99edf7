// Package memory provides an in-process Storage implementation with the same
// conditional-write semantics as the DynamoDB store. It backs local
// development and the service-level tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/chris/account-ledger/pkg/errs"
	"github.com/chris/account-ledger/pkg/models"
	"github.com/chris/account-ledger/pkg/storage"
)

// Store implements the Storage interface with in-process maps.
type Store struct {
	mu           sync.RWMutex
	users        map[int64]*models.AccountUser
	accounts     map[string]*models.Account     // keyed by account number
	transactions map[string]*models.Transaction // keyed by transaction ID
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		users:        make(map[int64]*models.AccountUser),
		accounts:     make(map[string]*models.Account),
		transactions: make(map[string]*models.Transaction),
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

func (s *Store) CreateUser(_ context.Context, user *models.AccountUser) (*models.AccountUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; ok {
		return nil, fmt.Errorf("user with ID %d already exists", user.ID)
	}

	u := *user
	s.users[user.ID] = &u
	return user, nil
}

func (s *Store) GetUser(_ context.Context, userID int64) (*models.AccountUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, errs.E(errs.UserNotFound)
	}

	u := *user
	return &u, nil
}

func (s *Store) CreateAccount(_ context.Context, account *models.Account) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[account.AccountNumber]; ok {
		return nil, errs.Wrap(errs.Internal, fmt.Errorf("account number %s already assigned", account.AccountNumber))
	}

	a := *account
	s.accounts[account.AccountNumber] = &a
	return account, nil
}

func (s *Store) GetAccount(_ context.Context, accountNumber string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[accountNumber]
	if !ok {
		return nil, errs.E(errs.AccountNotFound)
	}

	a := *account
	return &a, nil
}

func (s *Store) GetLatestAccount(_ context.Context) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *models.Account
	for _, account := range s.accounts {
		if latest == nil || account.AccountNumber > latest.AccountNumber {
			latest = account
		}
	}
	if latest == nil {
		return nil, nil
	}

	a := *latest
	return &a, nil
}

func (s *Store) CountAccountsByOwner(_ context.Context, ownerID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, account := range s.accounts {
		if account.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

func (s *Store) ListAccountsByOwner(_ context.Context, ownerID int64) ([]models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var accounts []models.Account
	for _, account := range s.accounts {
		if account.OwnerID == ownerID {
			accounts = append(accounts, *account)
		}
	}

	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].AccountNumber < accounts[j].AccountNumber
	})
	return accounts, nil
}

func (s *Store) ListAllAccounts(_ context.Context) ([]models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]models.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		accounts = append(accounts, *account)
	}

	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].AccountNumber < accounts[j].AccountNumber
	})
	return accounts, nil
}

func (s *Store) UpdateAccount(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.accounts[account.AccountNumber]
	if !ok {
		return errs.E(errs.AccountNotFound)
	}
	if stored.Version != account.Version {
		return errs.Wrap(errs.Internal, fmt.Errorf("account %s modified concurrently", account.AccountNumber))
	}

	a := *account
	a.Version = account.Version + 1
	s.accounts[account.AccountNumber] = &a
	return nil
}

func (s *Store) GetTransaction(_ context.Context, transactionID string) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.transactions[transactionID]
	if !ok {
		return nil, errs.E(errs.TransactionNotFound)
	}

	t := *tx
	return &t, nil
}

func (s *Store) SaveTransaction(_ context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transactions[tx.TransactionID]; ok {
		return fmt.Errorf("transaction %s already recorded", tx.TransactionID)
	}

	t := *tx
	s.transactions[tx.TransactionID] = &t
	return nil
}

// SaveTransactionWithBalance applies the account's new balance and appends the
// record under one lock, mirroring the all-or-nothing DynamoDB write.
func (s *Store) SaveTransactionWithBalance(_ context.Context, account *models.Account, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.accounts[account.AccountNumber]
	if !ok {
		return errs.E(errs.AccountNotFound)
	}
	if stored.Version != account.Version {
		return errs.Wrap(errs.Internal, fmt.Errorf("account %s modified concurrently", account.AccountNumber))
	}
	if _, ok := s.transactions[tx.TransactionID]; ok {
		return errs.Wrap(errs.Internal, fmt.Errorf("transaction %s already recorded", tx.TransactionID))
	}

	stored.Balance = account.Balance
	stored.Version++

	t := *tx
	s.transactions[tx.TransactionID] = &t
	return nil
}

func (s *Store) ListTransactionsByAccount(_ context.Context, accountID string) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var transactions []models.Transaction
	for _, tx := range s.transactions {
		if tx.AccountID == accountID {
			transactions = append(transactions, *tx)
		}
	}

	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].TransactedAt.Before(transactions[j].TransactedAt)
	})
	return transactions, nil
}

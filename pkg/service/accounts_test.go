package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/chris/account-ledger/pkg/errs"
	"github.com/chris/account-ledger/pkg/models"
	"github.com/chris/account-ledger/pkg/storage/memory"
)

func seedUser(t *testing.T, store *memory.Store, id int64) *models.AccountUser {
	t.Helper()
	user, err := store.CreateUser(context.Background(), &models.AccountUser{
		ID:        id,
		Name:      fmt.Sprintf("user-%d", id),
		CreatedAt: time.Now(),
	})
	assert.NoError(t, err)
	return user
}

func TestCreateAccount(t *testing.T) {
	t.Run("First Account Gets Initial Number", func(t *testing.T) {
		store := memory.New()
		seedUser(t, store, 1)
		svc := NewAccountService(store)

		account, err := svc.CreateAccount(context.Background(), 1, 10000)

		assert.NoError(t, err)
		assert.Equal(t, models.InitialAccountNumber, account.AccountNumber)
		assert.Equal(t, int64(10000), account.Balance)
		assert.Equal(t, models.AccountInUse, account.Status)
		assert.NotEmpty(t, account.ID)
		assert.False(t, account.RegisteredAt.IsZero())
	})

	t.Run("Successor Of Highest Number", func(t *testing.T) {
		store := memory.New()
		seedUser(t, store, 1)
		seedUser(t, store, 2)
		svc := NewAccountService(store)

		first, err := svc.CreateAccount(context.Background(), 1, 0)
		assert.NoError(t, err)
		second, err := svc.CreateAccount(context.Background(), 2, 0)
		assert.NoError(t, err)

		assert.Equal(t, "1000000000", first.AccountNumber)
		assert.Equal(t, "1000000001", second.AccountNumber)
	})

	t.Run("Unknown User", func(t *testing.T) {
		store := memory.New()
		svc := NewAccountService(store)

		_, err := svc.CreateAccount(context.Background(), 42, 0)

		assert.Error(t, err)
		assert.True(t, errs.IsCode(err, errs.UserNotFound))
	})

	t.Run("Max Accounts Reached", func(t *testing.T) {
		store := memory.New()
		seedUser(t, store, 1)
		svc := NewAccountService(store)

		for i := 0; i < models.MaxAccountsPerUser; i++ {
			_, err := svc.CreateAccount(context.Background(), 1, 0)
			assert.NoError(t, err)
		}

		_, err := svc.CreateAccount(context.Background(), 1, 0)

		assert.Error(t, err)
		assert.True(t, errs.IsCode(err, errs.MaxAccountsPerUser))
	})
}

func TestDeleteAccount(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		store := memory.New()
		seedUser(t, store, 1)
		svc := NewAccountService(store)

		created, err := svc.CreateAccount(context.Background(), 1, 0)
		assert.NoError(t, err)

		deleted, err := svc.DeleteAccount(context.Background(), 1, created.AccountNumber)

		assert.NoError(t, err)
		assert.Equal(t, models.AccountUnregistered, deleted.Status)
		assert.NotNil(t, deleted.UnregisteredAt)

		stored, err := store.GetAccount(context.Background(), created.AccountNumber)
		assert.NoError(t, err)
		assert.Equal(t, models.AccountUnregistered, stored.Status)
	})

	t.Run("Not Owner", func(t *testing.T) {
		store := memory.New()
		seedUser(t, store, 1)
		seedUser(t, store, 2)
		svc := NewAccountService(store)

		created, err := svc.CreateAccount(context.Background(), 1, 0)
		assert.NoError(t, err)

		_, err = svc.DeleteAccount(context.Background(), 2, created.AccountNumber)

		assert.Error(t, err)
		assert.True(t, errs.IsCode(err, errs.OwnerMismatch))
	})

	t.Run("Already Unregistered", func(t *testing.T) {
		store := memory.New()
		seedUser(t, store, 1)
		svc := NewAccountService(store)

		created, err := svc.CreateAccount(context.Background(), 1, 0)
		assert.NoError(t, err)
		_, err = svc.DeleteAccount(context.Background(), 1, created.AccountNumber)
		assert.NoError(t, err)

		_, err = svc.DeleteAccount(context.Background(), 1, created.AccountNumber)

		assert.Error(t, err)
		assert.True(t, errs.IsCode(err, errs.AlreadyUnregistered))
	})

	t.Run("Balance Not Empty", func(t *testing.T) {
		store := memory.New()
		seedUser(t, store, 1)
		svc := NewAccountService(store)

		created, err := svc.CreateAccount(context.Background(), 1, 500)
		assert.NoError(t, err)

		_, err = svc.DeleteAccount(context.Background(), 1, created.AccountNumber)

		assert.Error(t, err)
		assert.True(t, errs.IsCode(err, errs.BalanceNotEmpty))

		// The rejected delete must leave the account untouched.
		stored, err := store.GetAccount(context.Background(), created.AccountNumber)
		assert.NoError(t, err)
		assert.Equal(t, models.AccountInUse, stored.Status)
		assert.Nil(t, stored.UnregisteredAt)
	})

	t.Run("Account Not Found", func(t *testing.T) {
		store := memory.New()
		seedUser(t, store, 1)
		svc := NewAccountService(store)

		_, err := svc.DeleteAccount(context.Background(), 1, "9999999999")

		assert.Error(t, err)
		assert.True(t, errs.IsCode(err, errs.AccountNotFound))
	})
}

func TestListAccounts(t *testing.T) {
	t.Run("Returns Owned Accounts In Order", func(t *testing.T) {
		store := memory.New()
		seedUser(t, store, 1)
		seedUser(t, store, 2)
		svc := NewAccountService(store)

		_, err := svc.CreateAccount(context.Background(), 1, 100)
		assert.NoError(t, err)
		_, err = svc.CreateAccount(context.Background(), 2, 200)
		assert.NoError(t, err)
		_, err = svc.CreateAccount(context.Background(), 1, 300)
		assert.NoError(t, err)

		accounts, err := svc.ListAccounts(context.Background(), 1)

		assert.NoError(t, err)
		assert.Len(t, accounts, 2)
		assert.Equal(t, "1000000000", accounts[0].AccountNumber)
		assert.Equal(t, "1000000002", accounts[1].AccountNumber)
	})

	t.Run("Unknown User", func(t *testing.T) {
		store := memory.New()
		svc := NewAccountService(store)

		_, err := svc.ListAccounts(context.Background(), 42)

		assert.Error(t, err)
		assert.True(t, errs.IsCode(err, errs.UserNotFound))
	})

	t.Run("No Accounts", func(t *testing.T) {
		store := memory.New()
		seedUser(t, store, 1)
		svc := NewAccountService(store)

		accounts, err := svc.ListAccounts(context.Background(), 1)

		assert.NoError(t, err)
		assert.Empty(t, accounts)
	})
}

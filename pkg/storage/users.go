package storage

import (
	"context"

	"github.com/chris/account-ledger/pkg/models"
)

// UserStore defines the interface for account-user identities. Users are
// created outside the core; the core only resolves them.
type UserStore interface {
	// CreateUser persists a new account user.
	CreateUser(ctx context.Context, user *models.AccountUser) (*models.AccountUser, error)

	// GetUser retrieves a user by their ID.
	GetUser(ctx context.Context, userID int64) (*models.AccountUser, error)
}

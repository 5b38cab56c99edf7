package models

import (
	"time"
)

// AccountStatus defines the lifecycle states of an account.
type AccountStatus string

const (
	AccountInUse        AccountStatus = "IN_USE"
	AccountUnregistered AccountStatus = "UNREGISTERED"
)

// TransactionType defines the kind of balance operation a transaction records.
type TransactionType string

const (
	TypeUse    TransactionType = "USE"
	TypeCancel TransactionType = "CANCEL"
)

// TransactionResult defines whether the recorded attempt succeeded or failed.
type TransactionResult string

const (
	ResultSuccess TransactionResult = "S"
	ResultFail    TransactionResult = "F"
)

// InitialAccountNumber is assigned to the very first account in an empty registry.
const InitialAccountNumber = "1000000000"

// AccountNumberLength is the fixed width of an account number. The numbering
// scheme never grows past it; the registry errors out instead.
const AccountNumberLength = 10

// MaxAccountsPerUser caps how many accounts a single user may own.
const MaxAccountsPerUser = 10

// CancelWindow is how long after a use transaction a cancel is still accepted.
const CancelWindow = 365 * 24 * time.Hour

// AccountUser is the owner identity referenced by accounts. It is created
// outside the core and never mutated by it.
type AccountUser struct {
	ID        int64     `json:"id" dynamodbav:"id"`
	Name      string    `json:"name" dynamodbav:"name"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
}

// Account represents the internal domain model for a balance-bearing account.
// It includes dynamodbav tags for marshalling.
type Account struct {
	ID             string        `json:"id" dynamodbav:"id"`
	OwnerID        int64         `json:"owner_id" dynamodbav:"owner_id"`
	AccountNumber  string        `json:"account_number" dynamodbav:"account_number"`
	Balance        int64         `json:"balance" dynamodbav:"balance"`
	Status         AccountStatus `json:"status" dynamodbav:"status"`
	Version        int64         `json:"version" dynamodbav:"version"`
	RegisteredAt   time.Time     `json:"registered_at" dynamodbav:"registered_at"`
	UnregisteredAt *time.Time    `json:"unregistered_at,omitempty" dynamodbav:"unregistered_at,omitempty"`
}

// Transaction is one immutable audit record of an attempted use or cancel,
// successful or failed. TransactionID is the caller-facing token; records
// reference their account by identifier only.
type Transaction struct {
	ID              string            `dynamodbav:"id"`
	TransactionID   string            `dynamodbav:"transaction_id"`
	AccountID       string            `dynamodbav:"account_id"`
	AccountNumber   string            `dynamodbav:"account_number"`
	Type            TransactionType   `dynamodbav:"type"`
	Result          TransactionResult `dynamodbav:"result"`
	Amount          int64             `dynamodbav:"amount"`
	BalanceSnapshot int64             `dynamodbav:"balance_snapshot"`
	TransactedAt    time.Time         `dynamodbav:"transacted_at"`
}

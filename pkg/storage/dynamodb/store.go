package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/account-ledger/pkg/storage"
)

// DynamoDBAPI is the subset of the DynamoDB client the store uses.
// Narrowing it keeps the store mockable in tests.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Store implements the Storage interface using AWS DynamoDB.
type Store struct {
	Client                DynamoDBAPI
	UsersTableName        string
	AccountsTableName     string
	TransactionsTableName string
}

// New creates a new Store.
func New(client DynamoDBAPI, usersTable, accountsTable, transactionsTable string) *Store {
	return &Store{
		Client:                client,
		UsersTableName:        usersTable,
		AccountsTableName:     accountsTable,
		TransactionsTableName: transactionsTable,
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

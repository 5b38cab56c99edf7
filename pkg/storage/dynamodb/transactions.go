package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/chris/account-ledger/pkg/errs"
	"github.com/chris/account-ledger/pkg/models"
)

const accountIDGSI = "account_id-transacted_at-index"

// GetTransaction retrieves a transaction from DynamoDB by its transaction ID.
func (s *Store) GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"transaction_id": transactionID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transaction ID: %w", err)
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.TransactionsTableName),
		Key:       key,
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, errs.E(errs.TransactionNotFound)
	}

	var tx models.Transaction
	if err := attributevalue.UnmarshalMap(result.Item, &tx); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transaction: %w", err)
	}

	return &tx, nil
}

// SaveTransaction appends a transaction record without touching any account.
func (s *Store) SaveTransaction(ctx context.Context, tx *models.Transaction) error {
	txAV, err := attributevalue.MarshalMap(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.TransactionsTableName),
		Item:                txAV,
		ConditionExpression: aws.String("attribute_not_exists(transaction_id)"), // Records are append-only.
	}

	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to save transaction in DynamoDB: %w", err)
	}

	return nil
}

// SaveTransactionWithBalance atomically writes the account's new balance and
// appends the transaction record via TransactWriteItems. If either write
// fails its condition, neither lands and the audit trail stays consistent
// with the balance.
func (s *Store) SaveTransactionWithBalance(ctx context.Context, account *models.Account, tx *models.Transaction) error {
	txAV, err := attributevalue.MarshalMap(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Write the account's post-mutation balance.
				Update: &types.Update{
					TableName: aws.String(s.AccountsTableName),
					Key: map[string]types.AttributeValue{
						"account_number": &types.AttributeValueMemberS{Value: account.AccountNumber},
					},
					UpdateExpression:    aws.String("SET balance = :balance, version = version + :inc"),
					ConditionExpression: aws.String("version = :version"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":balance": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", account.Balance)},
						":version": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", account.Version)},
						":inc":     &types.AttributeValueMemberN{Value: "1"},
					},
				},
			},
			{
				// Operation 2: Append the audit record.
				Put: &types.Put{
					TableName:           aws.String(s.TransactionsTableName),
					Item:                txAV,
					ConditionExpression: aws.String("attribute_not_exists(transaction_id)"),
				},
			},
		},
	}

	_, err = s.Client.TransactWriteItems(ctx, input)
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			for _, reason := range tce.CancellationReasons {
				if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
					// Should not happen under the account lock; surfaced as a
					// fault rather than silently retried.
					return errs.Wrap(errs.Internal, fmt.Errorf("account %s modified concurrently", account.AccountNumber))
				}
			}
		}
		return fmt.Errorf("failed to execute balance transaction: %w", err)
	}

	return nil
}

// ListTransactionsByAccount retrieves the account's records ordered by
// transaction time, oldest first.
func (s *Store) ListTransactionsByAccount(ctx context.Context, accountID string) ([]models.Transaction, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.TransactionsTableName),
		IndexName:              aws.String(accountIDGSI),
		KeyConditionExpression: aws.String("account_id = :account_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":account_id": &types.AttributeValueMemberS{Value: accountID},
		},
		ScanIndexForward: aws.Bool(true), // Oldest first.
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions by account: %w", err)
	}

	var transactions []models.Transaction
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &transactions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transactions: %w", err)
	}

	return transactions, nil
}

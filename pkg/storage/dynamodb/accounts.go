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

const (
	// accountsPartition is the constant gsi1pk value that lets a single GSI
	// return all accounts ordered by account number.
	accountsPartition = "ACCOUNTS"

	accountNumberGSI = "gsi1pk-account_number-index"
	ownerIDGSI       = "owner_id-index"
)

// CreateAccount creates a new account record in DynamoDB. The conditional
// put makes the account number the uniqueness point for concurrent creates.
func (s *Store) CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	accountAV, err := attributevalue.MarshalMap(account)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal account: %w", err)
	}
	accountAV["gsi1pk"] = &types.AttributeValueMemberS{Value: accountsPartition}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.AccountsTableName),
		Item:                accountAV,
		ConditionExpression: aws.String("attribute_not_exists(account_number)"),
	}

	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			// A concurrent create won the number; the caller may retry with a
			// freshly computed number.
			return nil, errs.Wrap(errs.Internal, fmt.Errorf("account number %s already assigned", account.AccountNumber))
		}
		return nil, fmt.Errorf("failed to create account in DynamoDB: %w", err)
	}

	return account, nil
}

// GetAccount retrieves an account from DynamoDB by its account number.
func (s *Store) GetAccount(ctx context.Context, accountNumber string) (*models.Account, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"account_number": accountNumber})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal account number: %w", err)
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.AccountsTableName),
		Key:       key,
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get account from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, errs.E(errs.AccountNotFound)
	}

	var account models.Account
	if err := attributevalue.UnmarshalMap(result.Item, &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}

	return &account, nil
}

// GetLatestAccount retrieves the account with the highest account number, or
// (nil, nil) when no account exists yet.
func (s *Store) GetLatestAccount(ctx context.Context) (*models.Account, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.AccountsTableName),
		IndexName:              aws.String(accountNumberGSI),
		KeyConditionExpression: aws.String("gsi1pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: accountsPartition},
		},
		ScanIndexForward: aws.Bool(false), // Highest account number first.
		Limit:            aws.Int32(1),
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query for latest account: %w", err)
	}

	if len(result.Items) == 0 {
		return nil, nil
	}

	var account models.Account
	if err := attributevalue.UnmarshalMap(result.Items[0], &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal latest account: %w", err)
	}

	return &account, nil
}

// ListAllAccounts retrieves every account in the registry, ordered by
// account number.
func (s *Store) ListAllAccounts(ctx context.Context) ([]models.Account, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.AccountsTableName),
		IndexName:              aws.String(accountNumberGSI),
		KeyConditionExpression: aws.String("gsi1pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: accountsPartition},
		},
		ScanIndexForward: aws.Bool(true),
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query all accounts: %w", err)
	}

	var accounts []models.Account
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &accounts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal accounts: %w", err)
	}

	return accounts, nil
}

// CountAccountsByOwner returns how many accounts the owner currently has.
func (s *Store) CountAccountsByOwner(ctx context.Context, ownerID int64) (int, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.AccountsTableName),
		IndexName:              aws.String(ownerIDGSI),
		KeyConditionExpression: aws.String("owner_id = :owner"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":owner": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", ownerID)},
		},
		Select: types.SelectCount,
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts by owner: %w", err)
	}

	return int(result.Count), nil
}

// ListAccountsByOwner retrieves every account owned by the user.
func (s *Store) ListAccountsByOwner(ctx context.Context, ownerID int64) ([]models.Account, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.AccountsTableName),
		IndexName:              aws.String(ownerIDGSI),
		KeyConditionExpression: aws.String("owner_id = :owner"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":owner": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", ownerID)},
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by owner: %w", err)
	}

	var accounts []models.Account
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &accounts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal accounts: %w", err)
	}

	return accounts, nil
}

// UpdateAccount persists a modified account, conditional on the version the
// account was read at.
func (s *Store) UpdateAccount(ctx context.Context, account *models.Account) error {
	statusAV, err := attributevalue.Marshal(account.Status)
	if err != nil {
		return fmt.Errorf("failed to marshal account status: %w", err)
	}
	unregisteredAtAV, err := attributevalue.Marshal(account.UnregisteredAt)
	if err != nil {
		return fmt.Errorf("failed to marshal unregistered_at: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Update: &types.Update{
					TableName: aws.String(s.AccountsTableName),
					Key: map[string]types.AttributeValue{
						"account_number": &types.AttributeValueMemberS{Value: account.AccountNumber},
					},
					UpdateExpression:    aws.String("SET balance = :balance, #status = :status, unregistered_at = :unregistered_at, version = version + :inc"),
					ConditionExpression: aws.String("version = :version"),
					ExpressionAttributeNames: map[string]string{
						"#status": "status",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":balance":         &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", account.Balance)},
						":status":          statusAV,
						":unregistered_at": unregisteredAtAV,
						":version":         &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", account.Version)},
						":inc":             &types.AttributeValueMemberN{Value: "1"},
					},
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
					return errs.Wrap(errs.Internal, fmt.Errorf("account %s modified concurrently", account.AccountNumber))
				}
			}
		}
		return fmt.Errorf("failed to update account in DynamoDB: %w", err)
	}

	return nil
}

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

// CreateUser creates a new account-user record in DynamoDB.
func (s *Store) CreateUser(ctx context.Context, user *models.AccountUser) (*models.AccountUser, error) {
	userAV, err := attributevalue.MarshalMap(user)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal user: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.UsersTableName),
		Item:                userAV,
		ConditionExpression: aws.String("attribute_not_exists(id)"), // Prevent overwriting existing users.
	}

	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, fmt.Errorf("user with ID %d already exists", user.ID)
		}
		return nil, fmt.Errorf("failed to create user in DynamoDB: %w", err)
	}

	return user, nil
}

// GetUser retrieves a user from DynamoDB by their ID.
func (s *Store) GetUser(ctx context.Context, userID int64) (*models.AccountUser, error) {
	key, err := attributevalue.MarshalMap(map[string]int64{"id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal user ID: %w", err)
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.UsersTableName),
		Key:       key,
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get user from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, errs.E(errs.UserNotFound)
	}

	var user models.AccountUser
	if err := attributevalue.UnmarshalMap(result.Item, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return &user, nil
}

package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"

	"github.com/chris/account-ledger/pkg/reconcile"
	dydbstore "github.com/chris/account-ledger/pkg/storage/dynamodb"
)

var auditor *reconcile.Auditor

func init() {
	// Load environment variables for local testing.
	godotenv.Load()

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	dbClient := dynamodb.NewFromConfig(cfg)
	usersTable := os.Getenv("DYNAMODB_USERS_TABLE_NAME")
	accountsTable := os.Getenv("DYNAMODB_ACCOUNTS_TABLE_NAME")
	transactionsTable := os.Getenv("DYNAMODB_TRANSACTIONS_TABLE_NAME")

	if usersTable == "" || accountsTable == "" || transactionsTable == "" {
		log.Fatal("One or more DynamoDB table name environment variables are not set")
	}

	auditor = reconcile.NewAuditor(dydbstore.New(dbClient, usersTable, accountsTable, transactionsTable))
}

// HandleRequest is triggered by an EventBridge Schedule.
func HandleRequest(ctx context.Context) error {
	log.Println("Starting audit-trail reconciliation...")

	mismatches, err := auditor.Audit(ctx)
	if err != nil {
		log.Printf("ERROR: reconciliation failed: %v", err)
		return err
	}

	if len(mismatches) == 0 {
		log.Println("All account balances reconcile with their transaction records.")
		return nil
	}

	for _, m := range mismatches {
		log.Printf("MISMATCH: account %s balance %d, expected %d (%s)",
			m.AccountNumber, m.Balance, m.ExpectedFinal, m.Detail)
	}
	log.Printf("Found %d accounts with inconsistent audit trails", len(mismatches))

	return nil
}

func main() {
	lambda.Start(HandleRequest)
}

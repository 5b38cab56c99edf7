package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"

	ledgerevents "github.com/chris/account-ledger/pkg/events"
	"github.com/chris/account-ledger/pkg/notify"
)

var notifier *notify.WebhookNotifier

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	webhookURL := os.Getenv("WEBHOOK_URL")
	if webhookURL == "" {
		log.Fatal("WEBHOOK_URL must be set")
	}

	notifier = notify.NewWebhookNotifier(webhookURL)
}

// HandleRequest delivers each queued transaction event to the webhook
// consumer. A failed delivery fails the batch so SQS redrives it.
func HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) error {
	for _, record := range sqsEvent.Records {
		var event ledgerevents.TransactionEvent
		if err := json.Unmarshal([]byte(record.Body), &event); err != nil {
			// A malformed body will never parse on retry, drop it.
			log.Printf("Skipping unparseable message %s: %v", record.MessageId, err)
			continue
		}

		if err := notifier.Send(ctx, event); err != nil {
			return fmt.Errorf("failed to notify for transaction %s: %w", event.TransactionID, err)
		}

		log.Printf("Delivered notification for transaction %s on account %s",
			event.TransactionID, event.AccountNumber)
	}

	return nil
}

func main() {
	lambda.Start(HandleRequest)
}

package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	goredislib "github.com/redis/go-redis/v9"

	"github.com/chris/account-ledger/pkg/config"
	"github.com/chris/account-ledger/pkg/events"
	accountshandler "github.com/chris/account-ledger/pkg/handlers/accounts"
	transactionshandler "github.com/chris/account-ledger/pkg/handlers/transactions"
	usershandler "github.com/chris/account-ledger/pkg/handlers/users"
	"github.com/chris/account-ledger/pkg/lock"
	"github.com/chris/account-ledger/pkg/lock/redislock"
	"github.com/chris/account-ledger/pkg/middleware"
	"github.com/chris/account-ledger/pkg/service"
	"github.com/chris/account-ledger/pkg/storage"
	dydbstore "github.com/chris/account-ledger/pkg/storage/dynamodb"
	memstore "github.com/chris/account-ledger/pkg/storage/memory"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Storage backend.
	var store storage.Storage
	switch cfg.StorageBackend {
	case config.StorageMemory:
		store = memstore.New()
	default:
		awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
		if err != nil {
			log.Fatalf("unable to load SDK config, %v", err)
		}
		dbClient := dynamodb.NewFromConfig(awsCfg)
		store = dydbstore.New(dbClient, cfg.UsersTableName, cfg.AccountsTableName, cfg.TransactionsTableName)
	}

	// Per-account exclusion.
	var locks lock.Manager
	switch cfg.LockBackend {
	case config.LockRedis:
		locks = redislock.New(goredislib.NewClient(&goredislib.Options{Addr: cfg.RedisAddr}))
	default:
		locks = lock.NewKeyedManager(cfg.LockAcquireTimeout)
	}

	// Optional transaction event feed.
	var publisher events.Publisher
	if cfg.EventsQueueURL != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
		if err != nil {
			log.Fatalf("unable to load SDK config, %v", err)
		}
		publisher = events.NewSQSPublisher(sqs.NewFromConfig(awsCfg), cfg.EventsQueueURL)
	}

	accountSvc := service.NewAccountService(store)
	transactionSvc := service.NewTransactionService(store, locks, publisher)

	usersHandler := usershandler.NewUsersHandler(store)
	accountsHandler := accountshandler.NewAccountsHandler(accountSvc)
	transactionsHandler := transactionshandler.NewTransactionsHandler(transactionSvc)

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(middleware.NewStructuredLogger(logger))
	router.Use(chimiddleware.Recoverer)

	router.Post("/users", usersHandler.CreateUser)
	router.Post("/accounts", accountsHandler.CreateAccount)
	router.Delete("/accounts", accountsHandler.DeleteAccount)
	router.Get("/accounts", accountsHandler.ListAccounts)
	router.Post("/transactions/use", transactionsHandler.UseBalance)
	router.Post("/transactions/cancel", transactionsHandler.CancelBalance)
	router.Get("/transactions/{transactionID}", transactionsHandler.GetTransaction)

	log.Printf("Starting server on port %s", cfg.HTTPPort)

	if err := http.ListenAndServe(":"+cfg.HTTPPort, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

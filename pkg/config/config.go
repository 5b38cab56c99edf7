package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Backends selectable via environment.
const (
	StorageDynamoDB = "dynamodb"
	StorageMemory   = "memory"

	LockLocal = "local"
	LockRedis = "redis"
)

// Config holds the process configuration, loaded from the environment.
type Config struct {
	HTTPPort string

	StorageBackend        string
	UsersTableName        string
	AccountsTableName     string
	TransactionsTableName string

	LockBackend        string
	RedisAddr          string
	LockAcquireTimeout time.Duration

	// EventsQueueURL enables the SQS transaction event feed when set.
	EventsQueueURL string
}

// New loads and validates configuration from environment variables. A .env
// file is honored when present.
func New() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:              getEnv("HTTP_PORT", "8080"),
		StorageBackend:        getEnv("STORAGE_BACKEND", StorageDynamoDB),
		UsersTableName:        os.Getenv("DYNAMODB_USERS_TABLE_NAME"),
		AccountsTableName:     os.Getenv("DYNAMODB_ACCOUNTS_TABLE_NAME"),
		TransactionsTableName: os.Getenv("DYNAMODB_TRANSACTIONS_TABLE_NAME"),
		LockBackend:           getEnv("LOCK_BACKEND", LockLocal),
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		LockAcquireTimeout:    getEnvDuration("LOCK_ACQUIRE_TIMEOUT", 3*time.Second),
		EventsQueueURL:        os.Getenv("SQS_QUEUE_URL"),
	}

	switch cfg.StorageBackend {
	case StorageDynamoDB:
		if cfg.UsersTableName == "" || cfg.AccountsTableName == "" || cfg.TransactionsTableName == "" {
			return nil, fmt.Errorf("missing required env for dynamodb storage: DYNAMODB_USERS/ACCOUNTS/TRANSACTIONS_TABLE_NAME")
		}
	case StorageMemory:
		// Nothing to validate; state lives and dies with the process.
	default:
		return nil, fmt.Errorf("invalid storage backend %q, must be %q or %q", cfg.StorageBackend, StorageDynamoDB, StorageMemory)
	}

	switch cfg.LockBackend {
	case LockLocal:
	case LockRedis:
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("missing required env for redis lock: REDIS_ADDR")
		}
	default:
		return nil, fmt.Errorf("invalid lock backend %q, must be %q or %q", cfg.LockBackend, LockLocal, LockRedis)
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

// Package lock provides per-account mutual exclusion around the
// read-validate-mutate-append sequence. Locks on different account numbers
// never contend; acquisition is bounded and a timeout surfaces as a
// retryable Contention error with no state mutated.
package lock

import (
	"context"
)

// Manager executes critical sections under an exclusive per-account lock.
type Manager interface {
	// WithAccountLock acquires the lock for accountNumber, runs fn, and
	// releases the lock on every exit path. If the lock cannot be acquired
	// within the manager's acquisition bound, it returns a Contention error
	// without running fn.
	WithAccountLock(ctx context.Context, accountNumber string, fn func(ctx context.Context) error) error
}

package lock

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/chris/account-ledger/pkg/errs"
)

// DefaultAcquireTimeout bounds how long a caller waits for a contended
// account before receiving a Contention error.
const DefaultAcquireTimeout = 3 * time.Second

// KeyedManager is an in-process Manager for a single service instance. Each
// account number maps to a weight-1 semaphore; entries are refcounted so the
// table only holds currently-contended accounts.
type KeyedManager struct {
	acquireTimeout time.Duration

	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	sem  *semaphore.Weighted
	refs int
}

// NewKeyedManager creates a KeyedManager. A non-positive acquireTimeout
// falls back to DefaultAcquireTimeout.
func NewKeyedManager(acquireTimeout time.Duration) *KeyedManager {
	if acquireTimeout <= 0 {
		acquireTimeout = DefaultAcquireTimeout
	}
	return &KeyedManager{
		acquireTimeout: acquireTimeout,
		entries:        make(map[string]*lockEntry),
	}
}

// Make sure we conform to the interface
var _ Manager = (*KeyedManager)(nil)

// WithAccountLock runs fn while holding the exclusive lock for accountNumber.
// Release happens in defers so validation failures, errors from fn, and
// panics all unwind through it.
func (m *KeyedManager) WithAccountLock(ctx context.Context, accountNumber string, fn func(ctx context.Context) error) error {
	entry := m.retain(accountNumber)
	defer m.release(accountNumber)

	acquireCtx, cancel := context.WithTimeout(ctx, m.acquireTimeout)
	defer cancel()

	if err := entry.sem.Acquire(acquireCtx, 1); err != nil {
		return errs.Wrap(errs.Contention, err)
	}
	defer entry.sem.Release(1)

	return fn(ctx)
}

func (m *KeyedManager) retain(key string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		entry = &lockEntry{sem: semaphore.NewWeighted(1)}
		m.entries[key] = entry
	}
	entry.refs++
	return entry
}

func (m *KeyedManager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := m.entries[key]
	entry.refs--
	if entry.refs == 0 {
		delete(m.entries, key)
	}
}

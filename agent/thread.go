package agent

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	defaultThreadTTL     = 1 * time.Hour
	defaultEvictInterval = 5 * time.Minute
)

// Persister stores thread state beyond the in-memory TTL. Load returns
// (nil, nil) for an unknown thread.
type Persister interface {
	Load(ctx context.Context, threadID string) (*State, error)
	Save(ctx context.Context, state *State) error
	Delete(ctx context.Context, threadID string) error
}

// threadEntry wraps a State with a last-accessed timestamp for TTL eviction.
type threadEntry struct {
	state      *State
	lastAccess time.Time
}

// ThreadStore is an in-memory thread state checkpointer with TTL-based
// eviction. With a Persister, misses are loaded from it and saves are
// written through.
type ThreadStore struct {
	mu        sync.RWMutex
	threads   map[string]*threadEntry
	ttl       time.Duration
	interval  time.Duration
	persister Persister
	now       func() time.Time
	stop      chan struct{}
	stopOnce  sync.Once
}

// ThreadStoreOption customizes a ThreadStore.
type ThreadStoreOption func(*ThreadStore)

// WithTTL sets how long an idle thread stays in memory.
func WithTTL(ttl time.Duration) ThreadStoreOption {
	return func(ts *ThreadStore) { ts.ttl = ttl }
}

// WithEvictInterval sets how often idle threads are evicted.
func WithEvictInterval(d time.Duration) ThreadStoreOption {
	return func(ts *ThreadStore) { ts.interval = d }
}

// WithPersister backs the store with durable storage.
func WithPersister(p Persister) ThreadStoreOption {
	return func(ts *ThreadStore) { ts.persister = p }
}

// NewThreadStore creates a thread store and starts eviction. Call Close to
// stop it.
func NewThreadStore(opts ...ThreadStoreOption) *ThreadStore {
	ts := &ThreadStore{
		threads:  make(map[string]*threadEntry),
		ttl:      defaultThreadTTL,
		interval: defaultEvictInterval,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	for _, o := range opts {
		o(ts)
	}
	go ts.evictLoop()
	return ts
}

// LoadOrCreate returns the thread state for a given ID, loading it from the
// persister or creating it if needed.
func (ts *ThreadStore) LoadOrCreate(ctx context.Context, threadID string) (*State, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if entry, ok := ts.threads[threadID]; ok {
		entry.lastAccess = ts.now()
		return entry.state, nil
	}

	var state *State
	if ts.persister != nil {
		loaded, err := ts.persister.Load(ctx, threadID)
		if err != nil {
			return nil, fmt.Errorf("load thread %s: %w", threadID, err)
		}
		state = loaded
	}
	if state == nil {
		state = NewState(threadID)
	}
	ts.threads[threadID] = &threadEntry{state: state, lastAccess: ts.now()}
	return state, nil
}

// Save stores the thread state, refreshes its TTL and writes it through to
// the persister.
func (ts *ThreadStore) Save(ctx context.Context, state *State) error {
	ts.mu.Lock()
	ts.threads[state.ThreadID] = &threadEntry{state: state, lastAccess: ts.now()}
	ts.mu.Unlock()

	if ts.persister != nil {
		if err := ts.persister.Save(ctx, state); err != nil {
			return fmt.Errorf("save thread %s: %w", state.ThreadID, err)
		}
	}
	return nil
}

// Get returns the in-memory thread state or nil.
func (ts *ThreadStore) Get(threadID string) *State {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	if entry, ok := ts.threads[threadID]; ok {
		return entry.state
	}
	return nil
}

// Delete removes a thread from memory and from the persister.
func (ts *ThreadStore) Delete(ctx context.Context, threadID string) error {
	ts.mu.Lock()
	delete(ts.threads, threadID)
	ts.mu.Unlock()

	if ts.persister != nil {
		return ts.persister.Delete(ctx, threadID)
	}
	return nil
}

// Len returns the number of threads held in memory.
func (ts *ThreadStore) Len() int {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return len(ts.threads)
}

// Close stops the eviction loop.
func (ts *ThreadStore) Close() {
	ts.stopOnce.Do(func() { close(ts.stop) })
}

// evictLoop removes threads that haven't been accessed within the TTL window.
func (ts *ThreadStore) evictLoop() {
	ticker := time.NewTicker(ts.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			ts.evict()
		case <-ts.stop:
			return
		}
	}
}

func (ts *ThreadStore) evict() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	cutoff := ts.now().Add(-ts.ttl)
	for id, entry := range ts.threads {
		if entry.lastAccess.Before(cutoff) {
			delete(ts.threads, id)
		}
	}
}

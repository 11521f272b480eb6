package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/mcoot/scorekeeper/internal/dependencies/clock"
	"github.com/mcoot/scorekeeper/internal/model"
	"github.com/mcoot/scorekeeper/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Expiry is evaluated against the injected clock, so tests can simulate
// an entry lapsing by advancing a mock clock.
type Storage struct {
	mu      sync.RWMutex
	clock   clock.Clock
	entries map[string]entry
}

type entry struct {
	data      []byte
	expiresAt time.Time // zero means no expiry
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// New creates a new in-memory storage instance using the system clock
func New() *Storage {
	return NewWithClock(clock.New())
}

// NewWithClock creates a new in-memory storage instance using the given clock
func NewWithClock(clk clock.Clock) *Storage {
	return &Storage{
		clock:   clk,
		entries: make(map[string]entry),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveSnapshot(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	e := entry{data: slices.Clone(data)}
	if ttl > 0 {
		e.expiresAt = s.clock.Now().Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = e
	return nil
}

func (s *Storage) GetSnapshot(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, model.ErrSnapshotNotFound
	}
	if e.expired(s.clock.Now()) {
		delete(s.entries, key)
		return nil, model.ErrSnapshotNotFound
	}
	return slices.Clone(e.data), nil
}

func (s *Storage) DeleteSnapshot(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *Storage) SnapshotTTL(ctx context.Context, key string) (time.Duration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	now := s.clock.Now()
	if !ok || e.expired(now) {
		return 0, model.ErrSnapshotNotFound
	}
	if e.expiresAt.IsZero() {
		return 0, nil
	}
	return e.expiresAt.Sub(now), nil
}

package factory

import (
	"context"
	"time"

	"github.com/mcoot/scorekeeper/internal/dependencies/mocks"
	"github.com/mcoot/scorekeeper/internal/services/persistence"
	"github.com/mcoot/scorekeeper/internal/services/session"
	"github.com/mcoot/scorekeeper/internal/storage/memory"
	"github.com/mcoot/scorekeeper/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock     *mocks.MockClock
	MemoryStorage *memory.Storage
}

// NewTestApp creates an App configured for testing with a mocked clock and
// in-memory storage whose expiry follows that clock
func NewTestApp() *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	store := memory.NewWithClock(mockClock)

	app := newWithDependencies(store, mockClock, persistence.DefaultConfig(), session.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:           app,
		MockClock:     mockClock,
		MemoryStorage: store,
	}
}

// Reload simulates a page reload by building a fresh controller on the same
// storage and restoring it
func (t *TestApp) Reload(ctx context.Context) {
	fresh := newWithDependencies(t.MemoryStorage, t.MockClock, persistence.DefaultConfig(), session.DefaultConfig(), testutil.NopLogger())
	fresh.SessionController.Restore(ctx)
	t.App = fresh
}

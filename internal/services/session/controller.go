package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mcoot/scorekeeper/internal/dependencies/clock"
	"github.com/mcoot/scorekeeper/internal/model"
	"github.com/mcoot/scorekeeper/internal/services/persistence"
	"github.com/mcoot/scorekeeper/internal/services/ranking"
	"github.com/mcoot/scorekeeper/internal/services/roster"
)

// Config holds session settings
type Config struct {
	// DefaultRosterSize is used for a fresh session when nothing was restored
	DefaultRosterSize int
}

// DefaultConfig returns the default session configuration
func DefaultConfig() Config {
	return Config{
		DefaultRosterSize: model.DefaultRosterSize,
	}
}

// Controller owns the authoritative session: the roster, the phase and the
// pending-reset flag. Every successful mutation is followed by a snapshot
// save. Operations are serialised, so each action including its persistence
// write completes before the next one starts.
//
// Persistence failures never reach the caller. After the first failure the
// controller stops persisting and keeps running from memory.
type Controller struct {
	mu sync.Mutex

	persistence persistence.ServiceInterface
	clock       clock.Clock
	logger      *slog.Logger

	roster       *roster.Roster
	phase        model.Phase
	rosterSize   int // last known size, used when a snapshot has lapsed
	resetPending bool
	persistent   bool
}

// NewController creates a controller holding a fresh default session.
// Call Restore to pick up a persisted snapshot.
func NewController(
	persistence persistence.ServiceInterface,
	clock clock.Clock,
	cfg Config,
	logger *slog.Logger,
) *Controller {
	size := model.ClampRosterSize(cfg.DefaultRosterSize)
	return &Controller{
		persistence: persistence,
		clock:       clock,
		logger:      logger,
		roster:      roster.New(size, clock),
		phase:       model.PhaseSetup,
		rosterSize:  size,
		persistent:  true,
	}
}

// Restore replaces the in-memory session with the persisted snapshot, as on
// a page reload. When no usable snapshot exists the session falls back to a
// fresh default roster of the last known size in the setup phase.
//
// Once persistence has failed the in-memory session is authoritative and
// Restore leaves it untouched.
func (c *Controller) Restore(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.persistent {
		c.logger.Debug("restore skipped", slog.String("reason", model.ErrPersistenceDisabled.Error()))
		return
	}

	c.resetPending = false

	snap, err := c.load(ctx)
	if err != nil {
		c.roster = roster.New(c.rosterSize, c.clock)
		c.phase = model.PhaseSetup
		c.logger.Info("started fresh session", slog.Int("roster_size", c.rosterSize))
		return
	}

	c.roster = roster.FromPlayers(snap.Players, c.clock)
	c.rosterSize = c.roster.Size()
	c.phase = snap.Phase
	c.logger.Info("restored session",
		slog.String("phase", string(c.phase)),
		slog.Int("roster_size", c.rosterSize),
		slog.Time("saved_at", snap.SavedAt),
	)
}

func (c *Controller) load(ctx context.Context) (*model.Snapshot, error) {
	snap, err := c.persistence.Load(ctx)
	if err == nil {
		return snap, nil
	}

	if persistence.IsAbsent(err) {
		c.logger.Debug("no usable snapshot", slog.String("reason", err.Error()))
	} else {
		c.degrade("load", err)
	}
	return nil, err
}

// Snapshot returns a copy of the current session for rendering
func (c *Controller) Snapshot() model.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view()
}

func (c *Controller) view() model.Session {
	return model.Session{
		Phase:        c.phase,
		RosterSize:   c.roster.Size(),
		Players:      c.roster.Players(),
		ResetPending: c.resetPending,
		Persistent:   c.persistent,
	}
}

// Rank returns the current ranking
func (c *Controller) Rank() []model.RankedPlayer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ranking.Rank(c.roster.Players())
}

// Resize changes the number of players. Only allowed during setup.
func (c *Controller) Resize(ctx context.Context, n int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != model.PhaseSetup {
		c.logger.Debug("resize ignored outside setup", slog.String("phase", string(c.phase)))
		return model.ErrNotInSetup
	}

	c.roster.Resize(n)
	c.rosterSize = c.roster.Size()
	c.save(ctx)
	return nil
}

// Rename sets a player's name; blank text restores the default label
func (c *Controller) Rename(ctx context.Context, id model.PlayerID, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.roster.Rename(id, text); err != nil {
		c.logger.Debug("rename ignored", slog.Int("player_id", int(id)), slog.String("reason", err.Error()))
		return err
	}
	c.save(ctx)
	return nil
}

// AdjustScore changes a player's score by magnitude in the given direction
func (c *Controller) AdjustScore(ctx context.Context, id model.PlayerID, magnitude int, direction model.Direction) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.adjustScore(ctx, id, magnitude, direction)
}

// AdjustScoreText is AdjustScore for free-text custom score entry
func (c *Controller) AdjustScoreText(ctx context.Context, id model.PlayerID, text string, direction model.Direction) error {
	magnitude, err := roster.ParseMagnitude(text)
	if err != nil {
		c.logger.Debug("custom score ignored", slog.Int("player_id", int(id)), slog.String("reason", err.Error()))
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.adjustScore(ctx, id, magnitude, direction)
}

func (c *Controller) adjustScore(ctx context.Context, id model.PlayerID, magnitude int, direction model.Direction) error {
	entry, err := c.roster.AdjustScore(id, magnitude, direction)
	if err != nil {
		c.logger.Debug("score change ignored",
			slog.Int("player_id", int(id)),
			slog.Int("magnitude", magnitude),
			slog.String("reason", err.Error()),
		)
		return err
	}

	c.logger.Debug("score changed",
		slog.Int("player_id", int(id)),
		slog.Int("points", entry.Points),
	)
	c.save(ctx)
	return nil
}

// SetPhase moves the session to the given phase. Both transitions are
// unconditional; the roster is retained either way.
func (c *Controller) SetPhase(ctx context.Context, phase model.Phase) error {
	if !phase.Valid() {
		return model.ErrInvalidPhase
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != phase {
		c.logger.Info("phase changed",
			slog.String("from", string(c.phase)),
			slog.String("to", string(phase)),
		)
	}
	c.phase = phase
	c.save(ctx)
	return nil
}

// Start moves the session from setup to playing
func (c *Controller) Start(ctx context.Context) error {
	return c.SetPhase(ctx, model.PhasePlaying)
}

// BackToSetup returns the session to setup, keeping players and scores
func (c *Controller) BackToSetup(ctx context.Context) error {
	return c.SetPhase(ctx, model.PhaseSetup)
}

// RequestReset arms a reset; it only takes effect on ConfirmReset
func (c *Controller) RequestReset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetPending = true
}

// CancelReset disarms a pending reset
func (c *Controller) CancelReset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetPending = false
}

// ConfirmReset zeroes all scores and histories, drops the persisted
// snapshot and writes the zeroed session back. Names, ids, roster size and
// phase are kept.
func (c *Controller) ConfirmReset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.resetPending {
		return model.ErrNoResetPending
	}

	c.resetPending = false
	c.roster.ResetAll()
	c.logger.Info("session reset", slog.Int("roster_size", c.roster.Size()))

	if c.persistent {
		if err := c.persistence.Clear(ctx); err != nil {
			c.degrade("clear", err)
		}
	}
	c.save(ctx)
	return nil
}

// save writes the current session; failures switch the controller to in-memory mode
func (c *Controller) save(ctx context.Context) {
	if !c.persistent {
		return
	}

	err := c.persistence.Save(ctx, model.Snapshot{
		Players: c.roster.Players(),
		Phase:   c.phase,
		SavedAt: c.clock.Now(),
	})
	if err != nil {
		c.degrade("save", err)
	}
}

func (c *Controller) degrade(op string, err error) {
	c.persistent = false
	c.logger.Warn("persistence failed, continuing in memory",
		slog.String("op", op),
		slog.String("error", err.Error()),
	)
}

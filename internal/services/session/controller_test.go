package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/scorekeeper/internal/dependencies/mocks"
	"github.com/mcoot/scorekeeper/internal/model"
	"github.com/mcoot/scorekeeper/internal/services/persistence"
	"github.com/mcoot/scorekeeper/internal/storage/memory"
	"github.com/mcoot/scorekeeper/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	clock       *mocks.MockClock
	storage     *memory.Storage
	persistence *persistence.Service
	controller  *Controller
	ctx         context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.storage = memory.NewWithClock(s.clock)
	s.persistence = persistence.New(s.storage, s.clock, persistence.DefaultConfig(), testutil.NopLogger())
	s.controller = s.newController()
	s.ctx = context.Background()
}

// newController simulates a page load: a new controller restored from storage
func (s *ControllerSuite) newController() *Controller {
	c := NewController(s.persistence, s.clock, DefaultConfig(), testutil.NopLogger())
	c.Restore(context.Background())
	return c
}

func (s *ControllerSuite) persisted() *model.Snapshot {
	snap, err := s.persistence.Load(s.ctx)
	s.Require().NoError(err)
	return snap
}

func (s *ControllerSuite) player(id model.PlayerID) model.Player {
	for _, p := range s.controller.Snapshot().Players {
		if p.ID == id {
			return p
		}
	}
	s.FailNow("player not found", "id %d", id)
	return model.Player{}
}

// Startup tests

func (s *ControllerSuite) TestFreshSession() {
	snap := s.controller.Snapshot()

	s.Equal(model.PhaseSetup, snap.Phase)
	s.Equal(2, snap.RosterSize)
	s.Len(snap.Players, 2)
	s.False(snap.ResetPending)
	s.True(snap.Persistent)
}

func (s *ControllerSuite) TestFreshSessionUsesConfiguredSize() {
	c := NewController(s.persistence, s.clock, Config{DefaultRosterSize: 4}, testutil.NopLogger())
	c.Restore(s.ctx)

	s.Equal(4, c.Snapshot().RosterSize)
}

func (s *ControllerSuite) TestRestoreStartsInPlayingWhenPersistedPlaying() {
	s.Require().NoError(s.controller.Resize(s.ctx, 3))
	s.Require().NoError(s.controller.Rename(s.ctx, 1, "Alice"))
	s.Require().NoError(s.controller.AdjustScore(s.ctx, 1, 5, model.DirectionIncrease))
	s.Require().NoError(s.controller.Start(s.ctx))

	reloaded := s.newController()
	snap := reloaded.Snapshot()

	s.Equal(model.PhasePlaying, snap.Phase)
	s.Equal(3, snap.RosterSize)
	s.Equal("Alice", snap.Players[0].Name)
	s.Equal(5, snap.Players[0].Score)
	s.Len(snap.Players[0].History, 1)
}

func (s *ControllerSuite) TestRestoreAfterExpiryFallsBackToLastKnownSize() {
	s.Require().NoError(s.controller.Resize(s.ctx, 3))
	s.Require().NoError(s.controller.Rename(s.ctx, 2, "Bob"))
	s.Require().NoError(s.controller.Start(s.ctx))

	s.clock.Advance(2 * time.Hour)
	s.controller.Restore(s.ctx)

	snap := s.controller.Snapshot()
	s.Equal(model.PhaseSetup, snap.Phase)
	s.Equal(3, snap.RosterSize)
	s.Equal("Player 2", snap.Players[1].Name)
}

func (s *ControllerSuite) TestRestoreAfterExpiryWithNoHistoryUsesDefaultSize() {
	s.clock.Advance(3 * time.Hour)

	s.Equal(2, s.newController().Snapshot().RosterSize)
}

func (s *ControllerSuite) TestRestoreIgnoresCorruptSnapshot() {
	s.Require().NoError(s.storage.SaveSnapshot(s.ctx, persistence.DefaultKey, []byte("garbage"), time.Hour))

	snap := s.newController().Snapshot()
	s.Equal(2, snap.RosterSize)
	s.True(snap.Persistent, "a corrupt snapshot is absent, not a storage failure")
}

// Mutation persistence tests

func (s *ControllerSuite) TestEveryMutationIsPersisted() {
	s.Require().NoError(s.controller.Resize(s.ctx, 4))
	s.Len(s.persisted().Players, 4)

	s.Require().NoError(s.controller.Rename(s.ctx, 3, "Cleo"))
	s.Equal("Cleo", s.persisted().Players[2].Name)

	s.Require().NoError(s.controller.Start(s.ctx))
	s.Equal(model.PhasePlaying, s.persisted().Phase)

	s.Require().NoError(s.controller.AdjustScore(s.ctx, 3, 2, model.DirectionIncrease))
	s.Equal(2, s.persisted().Players[2].Score)

	s.Require().NoError(s.controller.BackToSetup(s.ctx))
	s.Equal(model.PhaseSetup, s.persisted().Phase)
}

func (s *ControllerSuite) TestEachWriteRefreshesExpiry() {
	s.Require().NoError(s.controller.Rename(s.ctx, 1, "Alice"))
	s.clock.Advance(90 * time.Minute)
	s.Require().NoError(s.controller.AdjustScore(s.ctx, 1, 1, model.DirectionIncrease))
	s.clock.Advance(90 * time.Minute)

	s.Equal("Alice", s.newController().Snapshot().Players[0].Name)
}

func (s *ControllerSuite) TestRejectedMutationsAreNotPersisted() {
	err := s.controller.AdjustScore(s.ctx, 1, -3, model.DirectionIncrease)
	s.ErrorIs(err, model.ErrInvalidMagnitude)

	_, err = s.persistence.Load(s.ctx)
	s.ErrorIs(err, model.ErrSnapshotNotFound)
}

// Score tests

func (s *ControllerSuite) TestAdjustScoreScenario() {
	s.Require().NoError(s.controller.AdjustScore(s.ctx, 1, 2, model.DirectionIncrease))
	p := s.player(1)
	s.Equal(2, p.Score)
	s.Require().Len(p.History, 1)
	s.Equal(2, p.History[0].Points)
	s.Equal(model.HistoryAdd, p.History[0].Kind)

	s.Require().NoError(s.controller.AdjustScore(s.ctx, 1, 5, model.DirectionDecrease))
	p = s.player(1)
	s.Equal(0, p.Score)
	s.Require().Len(p.History, 2)
	s.Equal(-5, p.History[1].Points)
	s.Equal(model.HistorySubtract, p.History[1].Kind)
}

func (s *ControllerSuite) TestAdjustScoreInvalidMagnitudeIsNoOp() {
	before := s.controller.Snapshot()

	err := s.controller.AdjustScore(s.ctx, 1, -3, model.DirectionIncrease)
	s.ErrorIs(err, model.ErrInvalidMagnitude)
	s.True(model.IsValidationError(err))
	s.Equal(before, s.controller.Snapshot())
}

func (s *ControllerSuite) TestAdjustScoreText() {
	s.Require().NoError(s.controller.AdjustScoreText(s.ctx, 2, " 15 ", model.DirectionIncrease))
	s.Equal(15, s.player(2).Score)

	err := s.controller.AdjustScoreText(s.ctx, 2, "lots", model.DirectionIncrease)
	s.ErrorIs(err, model.ErrInvalidScoreText)

	err = s.controller.AdjustScoreText(s.ctx, 2, "0", model.DirectionDecrease)
	s.ErrorIs(err, model.ErrInvalidMagnitude)

	s.Equal(15, s.player(2).Score)
	s.Len(s.player(2).History, 1)
}

// Phase tests

func (s *ControllerSuite) TestStartWithBlankNames() {
	s.Require().NoError(s.controller.Rename(s.ctx, 1, ""))
	s.Require().NoError(s.controller.Start(s.ctx))

	s.Equal(model.PhasePlaying, s.controller.Snapshot().Phase)
	s.Equal("Player 1", s.player(1).Name)
}

func (s *ControllerSuite) TestResizeWhilePlayingIsNoOp() {
	s.Require().NoError(s.controller.Start(s.ctx))

	err := s.controller.Resize(s.ctx, 4)
	s.ErrorIs(err, model.ErrNotInSetup)
	s.True(model.IsStateError(err))
	s.Equal(2, s.controller.Snapshot().RosterSize)
}

func (s *ControllerSuite) TestBackToSetupKeepsRoster() {
	s.Require().NoError(s.controller.Resize(s.ctx, 3))
	s.Require().NoError(s.controller.Start(s.ctx))
	s.Require().NoError(s.controller.AdjustScore(s.ctx, 3, 4, model.DirectionIncrease))

	s.Require().NoError(s.controller.BackToSetup(s.ctx))

	snap := s.controller.Snapshot()
	s.Equal(model.PhaseSetup, snap.Phase)
	s.Equal(3, snap.RosterSize)
	s.Equal(4, snap.Players[2].Score)
}

func (s *ControllerSuite) TestSetPhaseRejectsUnknownPhase() {
	err := s.controller.SetPhase(s.ctx, model.Phase("finished"))
	s.ErrorIs(err, model.ErrInvalidPhase)
	s.Equal(model.PhaseSetup, s.controller.Snapshot().Phase)
}

func (s *ControllerSuite) TestResizeRoundTripKeepsPlayers() {
	s.Require().NoError(s.controller.Rename(s.ctx, 1, "Alice"))
	s.Require().NoError(s.controller.AdjustScore(s.ctx, 2, 3, model.DirectionIncrease))
	before := s.controller.Snapshot().Players

	s.Require().NoError(s.controller.Resize(s.ctx, 4))
	s.Require().NoError(s.controller.Resize(s.ctx, 2))

	s.Equal(before, s.controller.Snapshot().Players)
}

// Reset tests

func (s *ControllerSuite) TestResetRequiresConfirmation() {
	s.Require().NoError(s.controller.AdjustScore(s.ctx, 1, 3, model.DirectionIncrease))

	err := s.controller.ConfirmReset(s.ctx)
	s.ErrorIs(err, model.ErrNoResetPending)
	s.Equal(3, s.player(1).Score)

	s.controller.RequestReset()
	s.True(s.controller.Snapshot().ResetPending)
	s.controller.CancelReset()
	s.False(s.controller.Snapshot().ResetPending)

	err = s.controller.ConfirmReset(s.ctx)
	s.ErrorIs(err, model.ErrNoResetPending)
	s.Equal(3, s.player(1).Score)
}

func (s *ControllerSuite) TestConfirmResetZeroesScoresAndPersistsRoster() {
	s.Require().NoError(s.controller.Resize(s.ctx, 3))
	s.Require().NoError(s.controller.Rename(s.ctx, 2, "Bob"))
	s.Require().NoError(s.controller.Start(s.ctx))
	s.Require().NoError(s.controller.AdjustScore(s.ctx, 3, 7, model.DirectionIncrease))
	s.Require().NoError(s.controller.AdjustScore(s.ctx, 1, 2, model.DirectionIncrease))

	s.controller.RequestReset()
	s.Require().NoError(s.controller.ConfirmReset(s.ctx))

	snap := s.controller.Snapshot()
	s.False(snap.ResetPending)
	s.Equal(model.PhasePlaying, snap.Phase)
	s.Equal("Bob", snap.Players[1].Name)

	ranked := s.controller.Rank()
	s.Require().Len(ranked, 3)
	for i, r := range ranked {
		s.Equal(i+1, r.Rank)
		s.Equal(model.PlayerID(i+1), r.Player.ID)
		s.Equal(0, r.Player.Score)
		s.Empty(r.Player.History)
	}

	persisted := s.persisted()
	s.Equal(model.PhasePlaying, persisted.Phase)
	s.Require().Len(persisted.Players, 3)
	s.Equal("Bob", persisted.Players[1].Name)
	for _, p := range persisted.Players {
		s.Equal(0, p.Score)
		s.Empty(p.History)
	}
}

func (s *ControllerSuite) TestResetSurvivesReload() {
	s.Require().NoError(s.controller.Resize(s.ctx, 3))
	s.Require().NoError(s.controller.Rename(s.ctx, 1, "Alice"))
	s.Require().NoError(s.controller.Start(s.ctx))
	s.Require().NoError(s.controller.AdjustScore(s.ctx, 1, 5, model.DirectionIncrease))

	s.controller.RequestReset()
	s.Require().NoError(s.controller.ConfirmReset(s.ctx))

	s.controller = s.newController()
	snap := s.controller.Snapshot()
	s.Equal(model.PhasePlaying, snap.Phase)
	s.Equal(3, snap.RosterSize)
	s.Equal("Alice", snap.Players[0].Name)
	s.Equal(0, snap.Players[0].Score)
	s.Empty(snap.Players[0].History)
}

func (s *ControllerSuite) TestMutationAfterResetPersistsAgain() {
	s.controller.RequestReset()
	s.Require().NoError(s.controller.ConfirmReset(s.ctx))

	s.Require().NoError(s.controller.AdjustScore(s.ctx, 1, 1, model.DirectionIncrease))
	s.Equal(1, s.persisted().Players[0].Score)
}

// Ranking tests

func (s *ControllerSuite) TestRankTieBreak() {
	s.Require().NoError(s.controller.Resize(s.ctx, 3))
	s.Require().NoError(s.controller.AdjustScore(s.ctx, 1, 5, model.DirectionIncrease))
	s.Require().NoError(s.controller.AdjustScore(s.ctx, 2, 5, model.DirectionIncrease))
	s.Require().NoError(s.controller.AdjustScore(s.ctx, 3, 1, model.DirectionIncrease))

	ranked := s.controller.Rank()
	s.Require().Len(ranked, 3)
	for i, r := range ranked {
		s.Equal(i+1, r.Rank)
		s.Equal(model.PlayerID(i+1), r.Player.ID)
	}
}

// Degradation tests

// failingPersistence fails every call and counts attempts
type failingPersistence struct {
	saves, loads, clears int
}

var errStorageDown = errors.New("storage unavailable")

func (f *failingPersistence) Save(context.Context, model.Snapshot) error {
	f.saves++
	return errStorageDown
}

func (f *failingPersistence) Load(context.Context) (*model.Snapshot, error) {
	f.loads++
	return nil, errStorageDown
}

func (f *failingPersistence) Clear(context.Context) error {
	f.clears++
	return errStorageDown
}

func (s *ControllerSuite) TestSaveFailureDegradesToMemory() {
	failing := &failingPersistence{}
	c := NewController(failing, s.clock, DefaultConfig(), testutil.NopLogger())

	s.Require().NoError(c.AdjustScore(s.ctx, 1, 4, model.DirectionIncrease))
	s.Require().NoError(c.AdjustScore(s.ctx, 1, 1, model.DirectionIncrease))
	s.Require().NoError(c.Start(s.ctx))

	snap := c.Snapshot()
	s.False(snap.Persistent)
	s.Equal(5, snap.Players[0].Score)
	s.Equal(model.PhasePlaying, snap.Phase)
	s.Equal(1, failing.saves, "no further writes after the first failure")

	c.RequestReset()
	s.Require().NoError(c.ConfirmReset(s.ctx))
	s.Equal(0, failing.clears)
}

func (s *ControllerSuite) TestLoadFailureDegradesToMemory() {
	failing := &failingPersistence{}
	c := NewController(failing, s.clock, DefaultConfig(), testutil.NopLogger())

	c.Restore(s.ctx)
	s.False(c.Snapshot().Persistent)
	s.Equal(1, failing.loads)

	s.Require().NoError(c.Rename(s.ctx, 1, "Alice"))
	s.Equal(0, failing.saves)
	s.Equal("Alice", c.Snapshot().Players[0].Name)
}

func (s *ControllerSuite) TestRestoreAfterFailureKeepsMemorySession() {
	failing := &failingPersistence{}
	c := NewController(failing, s.clock, DefaultConfig(), testutil.NopLogger())

	s.Require().NoError(c.Resize(s.ctx, 4))
	s.Require().NoError(c.Rename(s.ctx, 1, "Alice"))
	s.Require().NoError(c.Start(s.ctx))
	s.Require().NoError(c.AdjustScore(s.ctx, 1, 9, model.DirectionIncrease))
	s.False(c.Snapshot().Persistent)

	c.Restore(s.ctx)

	snap := c.Snapshot()
	s.Equal(model.PhasePlaying, snap.Phase)
	s.Equal(4, snap.RosterSize)
	s.Equal("Alice", snap.Players[0].Name)
	s.Equal(9, snap.Players[0].Score)
	s.Require().Len(snap.Players[0].History, 1)
	s.Equal(0, failing.loads, "no reads once persistence is disabled")
}

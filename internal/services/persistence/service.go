package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mcoot/scorekeeper/internal/dependencies/clock"
	"github.com/mcoot/scorekeeper/internal/model"
	"github.com/mcoot/scorekeeper/internal/storage"
)

const (
	// DefaultKey is the fixed identifier the session snapshot is stored under
	DefaultKey = "scoreTrackerData"
	// DefaultTTL is how long a snapshot survives after its last write
	DefaultTTL = 2 * time.Hour
)

// Config holds persistence settings
type Config struct {
	Key string
	TTL time.Duration
}

// DefaultConfig returns the default persistence configuration
func DefaultConfig() Config {
	return Config{
		Key: DefaultKey,
		TTL: DefaultTTL,
	}
}

// envelope is the JSON document written to storage
type envelope struct {
	Players []model.Player `json:"players"`
	Phase   model.Phase    `json:"phase,omitempty"`
	SavedAt int64          `json:"savedAt"` // epoch millis, informational only

	// LegacyPhase accepts snapshots written under the old field name
	LegacyPhase model.Phase `json:"gameState,omitempty"`
}

// Service encodes session snapshots into a JSON envelope and stores them in
// a time-bounded store under a single key. It does not check expiry itself:
// a snapshot that Load returns is one the store has not yet expired.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	cfg     Config
	logger  *slog.Logger
}

// New creates a new persistence Service
func New(store storage.Storage, clk clock.Clock, cfg Config, logger *slog.Logger) *Service {
	if cfg.Key == "" {
		cfg.Key = DefaultKey
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	return &Service{
		storage: store,
		clock:   clk,
		cfg:     cfg,
		logger:  logger,
	}
}

// TTL returns the lifetime applied by Save
func (s *Service) TTL() time.Duration {
	return s.cfg.TTL
}

// Save stores the snapshot with the configured lifetime
func (s *Service) Save(ctx context.Context, snap model.Snapshot) error {
	return s.SaveFor(ctx, snap, s.cfg.TTL)
}

// SaveFor stores the snapshot, overwriting any prior value, with an expiry of now+ttl
func (s *Service) SaveFor(ctx context.Context, snap model.Snapshot, ttl time.Duration) error {
	savedAt := snap.SavedAt
	if savedAt.IsZero() {
		savedAt = s.clock.Now()
	}

	data, err := json.Marshal(envelope{
		Players: snap.Players,
		Phase:   snap.Phase,
		SavedAt: savedAt.UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := s.storage.SaveSnapshot(ctx, s.cfg.Key, data, ttl); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	s.logger.Debug("snapshot saved",
		slog.String("key", s.cfg.Key),
		slog.Int("player_count", len(snap.Players)),
		slog.Duration("ttl", ttl),
	)
	return nil
}

// Load reads the stored snapshot. It returns model.ErrSnapshotNotFound when
// nothing is stored (or the store has expired it) and model.ErrInvalidSnapshot
// when the stored value cannot be decoded into a valid session.
func (s *Service) Load(ctx context.Context) (*model.Snapshot, error) {
	data, err := s.storage.GetSnapshot(ctx, s.cfg.Key)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidSnapshot, err)
	}

	snap, err := env.toSnapshot()
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Clear removes the stored snapshot. Clearing an absent snapshot is not an error.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.storage.DeleteSnapshot(ctx, s.cfg.Key); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	s.logger.Debug("snapshot cleared", slog.String("key", s.cfg.Key))
	return nil
}

// toSnapshot validates the envelope's structure and converts it
func (e envelope) toSnapshot() (*model.Snapshot, error) {
	phase := e.Phase
	if phase == "" {
		phase = e.LegacyPhase
	}
	if phase == "" {
		phase = model.PhaseSetup
	}
	if !phase.Valid() {
		return nil, fmt.Errorf("%w: unknown phase %q", model.ErrInvalidSnapshot, phase)
	}

	if len(e.Players) < model.MinRosterSize || len(e.Players) > model.MaxRosterSize {
		return nil, fmt.Errorf("%w: roster of %d players", model.ErrInvalidSnapshot, len(e.Players))
	}

	players := make([]model.Player, len(e.Players))
	for i, p := range e.Players {
		if err := validatePlayer(p, model.PlayerID(i+1)); err != nil {
			return nil, err
		}
		p = p.Clone()
		if strings.TrimSpace(p.Name) == "" {
			p.Name = model.DefaultPlayerName(p.ID)
		}
		players[i] = p
	}

	return &model.Snapshot{
		Players: players,
		Phase:   phase,
		SavedAt: time.UnixMilli(e.SavedAt),
	}, nil
}

func validatePlayer(p model.Player, wantID model.PlayerID) error {
	if p.ID != wantID {
		return fmt.Errorf("%w: player id %d at position %d", model.ErrInvalidSnapshot, p.ID, wantID)
	}
	if p.Score < 0 {
		return fmt.Errorf("%w: player %d has negative score", model.ErrInvalidSnapshot, p.ID)
	}
	for _, h := range p.History {
		if !h.Kind.Valid() || h.Points == 0 {
			return fmt.Errorf("%w: player %d has malformed history", model.ErrInvalidSnapshot, p.ID)
		}
	}
	return nil
}

// IsAbsent reports whether a Load error means "no usable snapshot" rather
// than a failure of the store itself
func IsAbsent(err error) bool {
	return errors.Is(err, model.ErrSnapshotNotFound) || errors.Is(err, model.ErrInvalidSnapshot)
}

// ServiceInterface is the capability the session controller depends on
type ServiceInterface interface {
	Save(ctx context.Context, snap model.Snapshot) error
	Load(ctx context.Context) (*model.Snapshot, error)
	Clear(ctx context.Context) error
}

var _ ServiceInterface = (*Service)(nil)

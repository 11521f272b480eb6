package roster

import (
	"math"
	"strconv"
	"strings"

	"github.com/mcoot/scorekeeper/internal/dependencies/clock"
	"github.com/mcoot/scorekeeper/internal/model"
)

// Roster owns the ordered players of a session, their scores and their
// score history. Player IDs are always 1..Size() in order.
//
// Roster is not safe for concurrent use; the session controller serialises access.
type Roster struct {
	players []model.Player
	clock   clock.Clock
}

// New creates a roster of size default players. size is clamped to the valid range.
func New(size int, clk clock.Clock) *Roster {
	r := &Roster{clock: clk}
	r.Resize(size)
	return r
}

// FromPlayers restores a roster from previously persisted players.
// The players are expected to already satisfy the roster invariants.
func FromPlayers(players []model.Player, clk clock.Clock) *Roster {
	return &Roster{
		players: model.ClonePlayers(players),
		clock:   clk,
	}
}

// Size returns the number of players
func (r *Roster) Size() int {
	return len(r.players)
}

// Players returns a copy of the players in id order
func (r *Roster) Players() []model.Player {
	return model.ClonePlayers(r.players)
}

// Player returns a copy of the player with the given id
func (r *Roster) Player(id model.PlayerID) (model.Player, bool) {
	p := r.find(id)
	if p == nil {
		return model.Player{}, false
	}
	return p.Clone(), true
}

func (r *Roster) find(id model.PlayerID) *model.Player {
	for i := range r.players {
		if r.players[i].ID == id {
			return &r.players[i]
		}
	}
	return nil
}

// Resize sets the roster to n players, clamping n to the valid range.
// Players whose id stays in range are kept untouched; players above n are
// dropped and new default players fill any increase.
func (r *Roster) Resize(n int) {
	n = model.ClampRosterSize(n)

	resized := make([]model.Player, n)
	for i := range n {
		id := model.PlayerID(i + 1)
		if existing := r.find(id); existing != nil {
			resized[i] = *existing
			continue
		}
		resized[i] = model.NewPlayer(id)
	}
	r.players = resized
}

// Rename sets the player's name. Blank text resets it to the default label.
func (r *Roster) Rename(id model.PlayerID, text string) error {
	p := r.find(id)
	if p == nil {
		return model.ErrPlayerNotFound
	}

	name := strings.TrimSpace(text)
	if name == "" {
		name = model.DefaultPlayerName(id)
	}
	p.Name = name
	return nil
}

// AdjustScore applies a signed change of magnitude in the given direction.
// The score never drops below zero; the history entry records the requested
// change before clamping. An invalid magnitude or direction leaves the
// roster untouched.
func (r *Roster) AdjustScore(id model.PlayerID, magnitude int, direction model.Direction) (model.HistoryEntry, error) {
	if magnitude <= 0 {
		return model.HistoryEntry{}, model.ErrInvalidMagnitude
	}
	if !direction.Valid() {
		return model.HistoryEntry{}, model.ErrInvalidDirection
	}
	p := r.find(id)
	if p == nil {
		return model.HistoryEntry{}, model.ErrPlayerNotFound
	}

	entry := model.HistoryEntry{
		Points:    magnitude,
		Timestamp: clock.Timestamp(r.clock),
		Kind:      model.HistoryAdd,
	}
	if direction == model.DirectionDecrease {
		entry.Points = -magnitude
		entry.Kind = model.HistorySubtract
	}

	p.Score = applyDelta(p.Score, entry.Points)
	p.History = append(p.History, entry)
	return entry, nil
}

// applyDelta adds delta to a non-negative score, flooring at zero and
// saturating at math.MaxInt instead of wrapping
func applyDelta(score, delta int) int {
	if delta > 0 && score > math.MaxInt-delta {
		return math.MaxInt
	}
	return max(0, score+delta)
}

// ResetAll zeroes every score and clears every history, keeping ids and names
func (r *Roster) ResetAll() {
	for i := range r.players {
		r.players[i].Score = 0
		r.players[i].History = []model.HistoryEntry{}
	}
}

// ParseMagnitude parses free-text custom score input into a positive magnitude
func ParseMagnitude(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, model.ErrInvalidScoreText
	}
	if n <= 0 {
		return 0, model.ErrInvalidMagnitude
	}
	return n, nil
}

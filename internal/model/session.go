package model

import "time"

// Phase is the session lifecycle state
type Phase string

const (
	PhaseSetup   Phase = "setup"   // Players being configured
	PhasePlaying Phase = "playing" // Scores being tracked, roster size frozen
)

// Valid reports whether p is a known phase
func (p Phase) Valid() bool {
	return p == PhaseSetup || p == PhasePlaying
}

// Direction is the user's intended direction for a score change
type Direction string

const (
	DirectionIncrease Direction = "increase"
	DirectionDecrease Direction = "decrease"
)

// Valid reports whether d is a known direction
func (d Direction) Valid() bool {
	return d == DirectionIncrease || d == DirectionDecrease
}

// Roster size bounds
const (
	MinRosterSize     = 2
	MaxRosterSize     = 4
	DefaultRosterSize = 2
)

// QuickScoreSteps are the preset magnitudes offered next to the custom entry
var QuickScoreSteps = []int{1, 2}

// ClampRosterSize maps n to the nearest valid roster size
func ClampRosterSize(n int) int {
	return min(max(n, MinRosterSize), MaxRosterSize)
}

// Snapshot is the persisted state of a session
type Snapshot struct {
	Players []Player
	Phase   Phase
	SavedAt time.Time // informational only
}

// Session is the read view handed to the rendering layer
type Session struct {
	Phase        Phase
	RosterSize   int
	Players      []Player
	ResetPending bool
	Persistent   bool // false once persistence has degraded
}

// RankedPlayer is a player paired with its positional rank
type RankedPlayer struct {
	Rank   int
	Player Player
}

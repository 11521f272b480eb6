package model

import (
	"fmt"
	"slices"
)

// PlayerID identifies a player slot within a session. IDs are 1..rosterSize.
type PlayerID int

// HistoryKind records the direction the user asked for, not the clamped sign
type HistoryKind string

const (
	HistoryAdd      HistoryKind = "add"
	HistorySubtract HistoryKind = "subtract"
)

// Valid reports whether k is a known history kind
func (k HistoryKind) Valid() bool {
	return k == HistoryAdd || k == HistorySubtract
}

// HistoryEntry is an immutable record of one score mutation
type HistoryEntry struct {
	Points    int         `json:"points"` // signed, as requested (pre-clamp)
	Timestamp string      `json:"timestamp"`
	Kind      HistoryKind `json:"type"`
}

// Player is a scored participant in the session
type Player struct {
	ID      PlayerID       `json:"id"`
	Name    string         `json:"name"`
	Score   int            `json:"score"`
	History []HistoryEntry `json:"history"`
}

// DefaultPlayerName returns the label used when a player has no name
func DefaultPlayerName(id PlayerID) string {
	return fmt.Sprintf("Player %d", id)
}

// NewPlayer creates a player with the default label and an empty score
func NewPlayer(id PlayerID) Player {
	return Player{
		ID:      id,
		Name:    DefaultPlayerName(id),
		Score:   0,
		History: []HistoryEntry{},
	}
}

// Clone returns a deep copy of the player
func (p Player) Clone() Player {
	p.History = slices.Clone(p.History)
	if p.History == nil {
		p.History = []HistoryEntry{}
	}
	return p
}

// RecentHistory returns up to n of the latest entries, newest first
func (p Player) RecentHistory(n int) []HistoryEntry {
	if n <= 0 || len(p.History) == 0 {
		return []HistoryEntry{}
	}
	start := max(len(p.History)-n, 0)
	recent := slices.Clone(p.History[start:])
	slices.Reverse(recent)
	return recent
}

// ClonePlayers deep-copies a player slice
func ClonePlayers(players []Player) []Player {
	out := make([]Player, len(players))
	for i, p := range players {
		out[i] = p.Clone()
	}
	return out
}

package response

import (
	"github.com/mcoot/scorekeeper/internal/model"
	"github.com/mcoot/scorekeeper/internal/services/ranking"
)

// HistoryEntry represents one score change
type HistoryEntry struct {
	Points    int    `json:"points"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
}

// HistoryEntryFromModel converts a model.HistoryEntry
func HistoryEntryFromModel(h model.HistoryEntry) HistoryEntry {
	return HistoryEntry{
		Points:    h.Points,
		Timestamp: h.Timestamp,
		Type:      string(h.Kind),
	}
}

// RecentHistoryLength is how many entries are surfaced as recent activity
const RecentHistoryLength = 2

// Player represents a player in API responses
type Player struct {
	ID      int            `json:"id"`
	Name    string         `json:"name"`
	Score   int            `json:"score"`
	History []HistoryEntry `json:"history"`
	Recent  []HistoryEntry `json:"recent"` // newest first
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p model.Player) Player {
	return Player{
		ID:      int(p.ID),
		Name:    p.Name,
		Score:   p.Score,
		History: historyFromModel(p.History),
		Recent:  historyFromModel(p.RecentHistory(RecentHistoryLength)),
	}
}

func historyFromModel(entries []model.HistoryEntry) []HistoryEntry {
	out := make([]HistoryEntry, len(entries))
	for i, h := range entries {
		out[i] = HistoryEntryFromModel(h)
	}
	return out
}

// Session represents the session snapshot in API responses
type Session struct {
	Phase           string   `json:"phase"`
	RosterSize      int      `json:"roster_size"`
	Players         []Player `json:"players"`
	ResetPending    bool     `json:"reset_pending"`
	Persistent      bool     `json:"persistent"`
	QuickScoreSteps []int    `json:"quick_score_steps"`
}

// SessionFromModel converts model.Session
func SessionFromModel(s model.Session) Session {
	players := make([]Player, len(s.Players))
	for i, p := range s.Players {
		players[i] = PlayerFromModel(p)
	}

	return Session{
		Phase:           string(s.Phase),
		RosterSize:      s.RosterSize,
		Players:         players,
		ResetPending:    s.ResetPending,
		Persistent:      s.Persistent,
		QuickScoreSteps: model.QuickScoreSteps,
	}
}

// RankedPlayer represents one row of the ranking
type RankedPlayer struct {
	Rank  int    `json:"rank"`
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Ranking represents the ranking in API responses
type Ranking struct {
	Players []RankedPlayer `json:"players"`
	Leaders []int          `json:"leaders"` // ids sharing the top score
}

// RankingFromModel converts a ranked roster
func RankingFromModel(ranked []model.RankedPlayer) Ranking {
	rows := make([]RankedPlayer, len(ranked))
	players := make([]model.Player, len(ranked))
	for i, r := range ranked {
		rows[i] = RankedPlayer{
			Rank:  r.Rank,
			ID:    int(r.Player.ID),
			Name:  r.Player.Name,
			Score: r.Player.Score,
		}
		players[i] = r.Player
	}

	leaders := []int{}
	for _, p := range ranking.Leaders(players) {
		leaders = append(leaders, int(p.ID))
	}

	return Ranking{
		Players: rows,
		Leaders: leaders,
	}
}

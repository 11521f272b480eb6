package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Session:
		o.printSession(v)
	case Ranking:
		o.printRanking(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HistoryEntry response type (matches API)
type HistoryEntry struct {
	Points    int    `json:"points"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
}

// Player response type
type Player struct {
	ID      int            `json:"id"`
	Name    string         `json:"name"`
	Score   int            `json:"score"`
	History []HistoryEntry `json:"history"`
	Recent  []HistoryEntry `json:"recent"`
}

// Session response type
type Session struct {
	Phase           string   `json:"phase"`
	RosterSize      int      `json:"roster_size"`
	Players         []Player `json:"players"`
	ResetPending    bool     `json:"reset_pending"`
	Persistent      bool     `json:"persistent"`
	QuickScoreSteps []int    `json:"quick_score_steps"`
}

// RankedPlayer response type
type RankedPlayer struct {
	Rank  int    `json:"rank"`
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Ranking response type
type Ranking struct {
	Players []RankedPlayer `json:"players"`
	Leaders []int          `json:"leaders"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printSession(s Session) {
	_, _ = fmt.Fprintf(o.w, "Phase: %s\n", s.Phase)
	_, _ = fmt.Fprintf(o.w, "Players (%d):\n", len(s.Players))
	for _, p := range s.Players {
		_, _ = fmt.Fprintf(o.w, "  %d. %s: %d%s\n", p.ID, p.Name, p.Score, formatRecent(p.Recent))
	}
	if s.ResetPending {
		_, _ = fmt.Fprintln(o.w, "Reset pending: confirm with 'session reset --yes' or cancel with 'session reset --cancel'")
	}
	if !s.Persistent {
		_, _ = fmt.Fprintln(o.w, "Warning: scores are not being saved")
	}
}

func formatRecent(entries []HistoryEntry) string {
	if len(entries) == 0 {
		return ""
	}
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%+d @ %s", e.Points, e.Timestamp)
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

func (o *Output) printRanking(r Ranking) {
	for _, p := range r.Players {
		marker := ""
		if slices.Contains(r.Leaders, p.ID) {
			marker = " *"
		}
		_, _ = fmt.Fprintf(o.w, "%d. %s: %d%s\n", p.Rank, p.Name, p.Score, marker)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	_, _ = fmt.Fprintf(o.w, "Status: %s\n", h.Status)
}

package ranking

import (
	"sort"

	"github.com/mcoot/scorekeeper/internal/model"
)

// Rank orders players by score, highest first. Equal scores keep their input
// order (roster order, i.e. ascending id). Ranks are positional: 1..N with no
// shared ranks for ties, so two players tied for the lead are ranked 1 and 2.
//
// The input is not modified; the returned players are copies.
func Rank(players []model.Player) []model.RankedPlayer {
	sorted := model.ClonePlayers(players)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	ranked := make([]model.RankedPlayer, len(sorted))
	for i, p := range sorted {
		ranked[i] = model.RankedPlayer{
			Rank:   i + 1,
			Player: p,
		}
	}
	return ranked
}

// Leaders returns the players sharing the top score, in input order.
// It returns nil for an empty roster.
func Leaders(players []model.Player) []model.Player {
	if len(players) == 0 {
		return nil
	}

	top := players[0].Score
	for _, p := range players[1:] {
		top = max(top, p.Score)
	}

	var leaders []model.Player
	for _, p := range players {
		if p.Score == top {
			leaders = append(leaders, p.Clone())
		}
	}
	return leaders
}

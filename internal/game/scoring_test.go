package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pinochle-game/internal/shared"
)

func TestScoreRound(t *testing.T) {
	piles := [2][]shared.Card{
		shared.MustParseCards("AS TS KS QS 9S JS"), // 30
		shared.MustParseCards("AH AD"),             // 20
	}

	tests := []struct {
		name      string
		lastTrick shared.Team
		meld      shared.Scores
		bidder    shared.Team
		bid       int
		want      shared.Scores
	}{
		{"bidder makes bid", shared.TeamAC, shared.Scores{20, 0}, shared.TeamAC, 60, shared.Scores{60, 20}},
		{"bidder set back", shared.TeamAC, shared.Scores{0, 0}, shared.TeamAC, 50, shared.Scores{-50, 20}},
		{"defenders keep raw score", shared.TeamAC, shared.Scores{0, 100}, shared.TeamBD, 300, shared.Scores{40, -300}},
		{"last trick bonus", shared.TeamBD, shared.Scores{0, 0}, shared.TeamBD, 30, shared.Scores{30, 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreRound(piles, tt.lastTrick, tt.meld, tt.bidder, tt.bid))
		})
	}
}

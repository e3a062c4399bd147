package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pinochle-game/internal/shared"
)

func TestMeldPoints(t *testing.T) {
	tests := []struct {
		cards string
		trump shared.Suit
		want  int
	}{
		{"AD AD AH AC", shared.Clubs, 0},
		{"AS AD AH AC", shared.Clubs, 100},
		{"AS AD AH AC", shared.Hearts, 100},
		{"AS AD AH AC AS AD AH AC", shared.Clubs, 1000},
		{"KS KD KH KC", shared.Spades, 80},
		{"QS QD QH QC", shared.Hearts, 60},
		{"JS JD JH JC", shared.Hearts, 40},
		{"JD QS", shared.Clubs, 40},
		{"JD QS JD QS", shared.Clubs, 300},
		{"KD QD", shared.Diamonds, 40},
		{"KD QD", shared.Clubs, 20},
		{"KD QD KD QD", shared.Clubs, 40},
		{"KD QD KD QD", shared.Diamonds, 80},
		{"9D", shared.Diamonds, 10},
		{"9D 9D", shared.Diamonds, 20},
		{"9D", shared.Hearts, 0},
		// A run contains the trump marriage, which scores on top of the run.
		{"KD QD TD AD JD", shared.Diamonds, 110 + 40},
		{"KD QD TD AD JD", shared.Clubs, 20},
		{"KD QD TD AD JD 9D", shared.Diamonds, 110 + 40 + 10},
		{"KD QD TD AD JD 9D KD QD TD AD JD 9D", shared.Diamonds, 1420 + 80 + 20},
		{"KD QD KD QD TD AD JD 9D", shared.Diamonds, 200},
		{"KD QD KS QS KH QH KC QC", shared.Diamonds, 240},
		{"AC AH AS KD QD TD AD JD 9D", shared.Diamonds, 260},
		{"", shared.Spades, 0},
	}

	for _, tt := range tests {
		t.Run(tt.cards+"/"+tt.trump.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, MeldPoints(shared.MustParseCards(tt.cards), tt.trump))
		})
	}
}

func TestMeldPointsIgnoresOrder(t *testing.T) {
	a := shared.MustParseCards("QS JD KH QH AS AD AH AC")
	b := shared.MustParseCards("AC AH QH JD AD KH AS QS")
	assert.Equal(t, MeldPoints(a, shared.Hearts), MeldPoints(b, shared.Hearts))
}

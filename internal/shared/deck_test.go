package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckHasTwoOfEachCard(t *testing.T) {
	deck := NewDeck()
	require.Len(t, deck.Cards, DeckSize)

	counts := CountCards(deck.Cards)
	assert.Len(t, counts, 24)
	for card, n := range counts {
		assert.Equal(t, 2, n, card.String())
	}
	assert.Equal(t, 240, TotalPoints(deck.Cards))
}

func TestDealIsDeterministicForSeed(t *testing.T) {
	var seed [32]byte
	seed[0] = 7

	deal := func() [NumSeats][]Card {
		deck := NewDeck()
		deck.Shuffle(NewRand(seed))
		hands, err := deck.Deal()
		require.NoError(t, err)
		return hands
	}

	first, second := deal(), deal()
	assert.Equal(t, first, second)

	var all []Card
	for _, hand := range first {
		assert.Len(t, hand, HandSize)
		all = append(all, hand...)
	}
	assert.Equal(t, CountCards(NewDeck().Cards), CountCards(all))
}

func TestDealRequiresFullDeck(t *testing.T) {
	deck := NewDeck()
	deck.Cards = deck.Cards[:10]
	_, err := deck.Deal()
	assert.Error(t, err)
}

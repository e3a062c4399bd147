package shared

import (
	"fmt"
	"math/rand/v2"
)

const (
	// DeckSize is the number of cards in a double deck.
	DeckSize = 48
	// HandSize is the number of cards each seat is dealt.
	HandSize = DeckSize / NumSeats
)

// Deck represents a collection of cards.
type Deck struct {
	Cards []Card
}

// NewDeck creates the 48-card double deck: two copies of every suit and rank.
func NewDeck() *Deck {
	cards := make([]Card, 0, DeckSize)
	for copyIndex := 0; copyIndex < 2; copyIndex++ {
		for _, suit := range Suits {
			for _, rank := range Ranks {
				cards = append(cards, Card{Suit: suit, Rank: rank})
			}
		}
	}
	return &Deck{Cards: cards}
}

// NewRand returns the deterministic generator used for dealing from a 32-byte seed.
func NewRand(seed [32]byte) *rand.Rand {
	return rand.New(rand.NewChaCha8(seed))
}

// Shuffle randomizes the order of cards in the deck using rng.
func (d *Deck) Shuffle(rng *rand.Rand) {
	ShuffleCards(d.Cards, rng)
}

// ShuffleCards shuffles cards in place.
func ShuffleCards(cards []Card, rng *rand.Rand) {
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// Deal distributes the deck evenly between the four seats, in seat order.
// The deck is empty afterwards.
func (d *Deck) Deal() ([NumSeats][]Card, error) {
	var dealt [NumSeats][]Card
	if len(d.Cards) != DeckSize {
		return dealt, fmt.Errorf("cannot deal %d cards, need %d", len(d.Cards), DeckSize)
	}

	start := 0
	for i := range dealt {
		end := start + HandSize
		// Copy so the hands do not alias the deck's backing array
		hand := make([]Card, HandSize)
		copy(hand, d.Cards[start:end])
		dealt[i] = hand
		start = end
	}

	d.Cards = []Card{}
	return dealt, nil
}

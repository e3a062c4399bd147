package game

import "pinochle-game/internal/shared"

// meldPattern is a set of distinct cards scoring Single when each is present
// at least once and Double when each is present at least twice.
type meldPattern struct {
	Cards  []shared.Card
	Single int
	Double int
}

func (p meldPattern) score(counts map[shared.Card]int) int {
	least := -1
	for _, c := range p.Cards {
		if n := counts[c]; least < 0 || n < least {
			least = n
		}
	}
	switch {
	case least >= 2:
		return p.Double
	case least >= 1:
		return p.Single
	}
	return 0
}

func marriage(suit shared.Suit) meldPattern {
	return meldPattern{
		Cards:  []shared.Card{{Suit: suit, Rank: shared.King}, {Suit: suit, Rank: shared.Queen}},
		Single: 20,
		Double: 40,
	}
}

func roundOf(rank shared.Rank, points int) meldPattern {
	p := meldPattern{Single: points, Double: points * 10}
	for _, suit := range shared.Suits {
		p.Cards = append(p.Cards, shared.Card{Suit: suit, Rank: rank})
	}
	return p
}

func meldPatterns(trump shared.Suit) []meldPattern {
	patterns := []meldPattern{
		{
			Cards:  []shared.Card{{Suit: shared.Spades, Rank: shared.Queen}, {Suit: shared.Diamonds, Rank: shared.Jack}},
			Single: 40,
			Double: 300,
		},
		// The run's king and queen also score as the trump marriage below.
		{
			Cards: []shared.Card{
				{Suit: trump, Rank: shared.Jack},
				{Suit: trump, Rank: shared.Queen},
				{Suit: trump, Rank: shared.King},
				{Suit: trump, Rank: shared.Ten},
				{Suit: trump, Rank: shared.Ace},
			},
			Single: 110,
			Double: 1420,
		},
		roundOf(shared.Ace, 100),
		roundOf(shared.King, 80),
		roundOf(shared.Queen, 60),
		roundOf(shared.Jack, 40),
		marriage(trump),
	}
	for _, suit := range shared.Suits {
		patterns = append(patterns, marriage(suit))
	}
	return append(patterns, meldPattern{
		Cards:  []shared.Card{{Suit: trump, Rank: shared.Nine}},
		Single: 10,
		Double: 20,
	})
}

// MeldPoints returns the bonus a reveal of cards earns under trump. Every
// pattern scores independently, so the trump marriage counts both as the
// trump marriage and as a marriage of its suit.
func MeldPoints(cards []shared.Card, trump shared.Suit) int {
	counts := shared.CountCards(cards)
	total := 0
	for _, p := range meldPatterns(trump) {
		total += p.score(counts)
	}
	return total
}

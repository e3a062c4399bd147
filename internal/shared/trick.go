package shared

// Trick represents the cards played so far in the current trick.
// Cards[i] was played by Leader.Offset(i).
type Trick struct {
	Leader Seat   `json:"first_player"` // Seat that led the trick
	Cards  []Card `json:"cards"`        // Cards played in order
}

// NewTrick creates an empty trick led by leader.
func NewTrick(leader Seat) Trick {
	return Trick{Leader: leader, Cards: []Card{}}
}

// Clone returns a copy that does not share the card slice.
func (t Trick) Clone() Trick {
	cards := make([]Card, len(t.Cards))
	copy(cards, t.Cards)
	return Trick{Leader: t.Leader, Cards: cards}
}

// Complete reports whether every seat has played to the trick.
func (t Trick) Complete() bool {
	return len(t.Cards) == NumSeats
}

// NextSeat returns the seat expected to play next.
func (t Trick) NextSeat() Seat {
	return t.Leader.Offset(len(t.Cards))
}

// bestOf returns the highest rank of suit among cards.
func bestOf(cards []Card, suit Suit) (Rank, bool) {
	best, found := Nine, false
	for _, c := range cards {
		if c.Suit == suit && (!found || c.Rank > best) {
			best, found = c.Rank, true
		}
	}
	return best, found
}

// BestOfSuit returns the highest rank of suit already played to the trick.
func (t Trick) BestOfSuit(suit Suit) (Rank, bool) {
	return bestOf(t.Cards, suit)
}

// canBeat reports whether hand holds a card of suit ranked above rank.
func canBeat(hand []Card, suit Suit, rank Rank) bool {
	for _, c := range hand {
		if c.Suit == suit && c.Rank > rank {
			return true
		}
	}
	return false
}

// IsLegalPlay reports whether card may be played from hand onto pile.
//
// The first card of a trick is always legal. After that a player must follow
// the led suit, must trump when void in it and holding trump, and must beat the
// best card of the suit they play (led suit, or trump when trumping) if their
// hand allows it.
func IsLegalPlay(pile []Card, hand []Card, card Card, trump Suit) bool {
	if len(pile) == 0 {
		return true
	}
	lead := pile[0].Suit

	if card.Suit != lead {
		if HasSuit(hand, lead) {
			return false
		}
		if card.Suit != trump {
			return !HasSuit(hand, trump)
		}
		if best, ok := bestOf(pile, trump); ok && card.Rank <= best {
			return !canBeat(hand, trump, best)
		}
		return true
	}

	best, _ := bestOf(pile, lead)
	if card.Rank <= best {
		return !canBeat(hand, lead, best)
	}
	return true
}

// LegalCards returns the indices of hand that may legally be played onto pile.
func LegalCards(pile []Card, hand []Card, trump Suit) []int {
	var legal []int
	for i, c := range hand {
		if IsLegalPlay(pile, hand, c, trump) {
			legal = append(legal, i)
		}
	}
	return legal
}

// Compare orders two cards within a trick: positive when a beats b, negative
// when b beats a. Cards of the same suit compare by rank; otherwise trump beats
// everything and the led suit beats the remaining suits. Two cards of
// different suits that are neither trump nor led compare equal.
func Compare(a, b Card, trump, lead Suit) int {
	if a.Suit == b.Suit {
		return int(a.Rank) - int(b.Rank)
	}
	switch {
	case a.Suit == trump:
		return 1
	case b.Suit == trump:
		return -1
	case a.Suit == lead:
		return 1
	case b.Suit == lead:
		return -1
	}
	return 0
}

// Winner returns the seat holding the winning card of the trick. When two
// identical cards tie, the one played first wins. Winner panics on an empty trick.
func (t Trick) Winner(trump Suit) Seat {
	if len(t.Cards) == 0 {
		panic("shared: winner of an empty trick")
	}
	lead := t.Cards[0].Suit
	best := 0
	for i := 1; i < len(t.Cards); i++ {
		if Compare(t.Cards[i], t.Cards[best], trump, lead) > 0 {
			best = i
		}
	}
	return t.Leader.Offset(best)
}

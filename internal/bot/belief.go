package bot

import (
	"pinochle-game/internal/shared"
)

// Bound is the highest rank a seat could still hold in one suit. A void
// bound means the seat provably holds nothing of that suit.
type Bound struct {
	Rank shared.Rank `json:"rank"`
	Void bool        `json:"void"`
}

// Open is the bound before anything is known.
var Open = Bound{Rank: shared.Ace}

// Void excludes a whole suit.
var Void = Bound{Void: true}

// Allows reports whether a card of rank r is still possible under b.
func (b Bound) Allows(r shared.Rank) bool {
	return !b.Void && r <= b.Rank
}

// tighten lowers b to at most r. Bounds never loosen.
func (b Bound) tighten(r shared.Rank) Bound {
	if b.Void || b.Rank <= r {
		return b
	}
	return Bound{Rank: r}
}

// SeatBelief is what an observer has proven about one seat's hand.
type SeatBelief struct {
	Known    []shared.Card `json:"known"`     // Cards certainly in the hand
	HandSize int           `json:"hand_size"` // Cards left in the hand
	Highest  [4]Bound      `json:"highest"`   // Indexed by suit
}

// CouldHold reports whether card is consistent with everything observed.
func (s SeatBelief) CouldHold(card shared.Card) bool {
	return s.Highest[card.Suit].Allows(card.Rank)
}

// Belief tracks one observer's knowledge of every hand during trick play.
type Belief struct {
	Played []shared.Card               `json:"played"`
	Seats  [shared.NumSeats]SeatBelief `json:"seats"`
}

// NewBelief returns the belief at the start of trick play: full hands and
// nothing excluded.
func NewBelief() *Belief {
	b := &Belief{Played: []shared.Card{}}
	for i := range b.Seats {
		b.Seats[i] = SeatBelief{
			Known:    []shared.Card{},
			HandSize: shared.HandSize,
			Highest:  [4]Bound{Open, Open, Open, Open},
		}
	}
	return b
}

// AddKnown records cards proven to be in seat's hand.
func (b *Belief) AddKnown(seat shared.Seat, cards []shared.Card) {
	b.Seats[seat].Known = append(b.Seats[seat].Known, cards...)
}

// CouldHold reports whether seat may still hold card.
func (b *Belief) CouldHold(seat shared.Seat, card shared.Card) bool {
	return b.Seats[seat].CouldHold(card)
}

// Observe updates the belief after seat played card onto trick, the cards of
// the current trick before this play.
func (b *Belief) Observe(seat shared.Seat, card shared.Card, trump shared.Suit, trick []shared.Card) {
	b.Played = append(b.Played, card)
	s := &b.Seats[seat]
	s.HandSize--
	if rest, ok := shared.RemoveCard(s.Known, card); ok {
		s.Known = rest
	}

	if len(trick) == 0 {
		return
	}
	lead := trick[0].Suit

	if card.Suit != lead {
		s.Highest[lead] = Void
		if card.Suit != trump {
			s.Highest[trump] = Void
			return
		}
		// A trump that does not beat the best trump shows nothing higher is held.
		if best, ok := (shared.Trick{Cards: trick}).BestOfSuit(trump); ok && card.Rank <= best {
			s.Highest[trump] = s.Highest[trump].tighten(best)
		}
		return
	}

	best, _ := shared.Trick{Cards: trick}.BestOfSuit(lead)
	if card.Rank <= best {
		s.Highest[lead] = s.Highest[lead].tighten(best)
	}
}

// Unseen returns the cards of the double deck that are neither played nor
// known to be in some hand.
func (b *Belief) Unseen() []shared.Card {
	seen := shared.CountCards(b.Played)
	for _, s := range b.Seats {
		for _, c := range s.Known {
			seen[c]++
		}
	}

	var unseen []shared.Card
	for _, suit := range shared.Suits {
		for _, rank := range shared.Ranks {
			c := shared.Card{Suit: suit, Rank: rank}
			for n := 2 - seen[c]; n > 0; n-- {
				unseen = append(unseen, c)
			}
		}
	}
	return unseen
}

// Clone returns a deep copy of the belief.
func (b *Belief) Clone() *Belief {
	out := &Belief{Played: append([]shared.Card{}, b.Played...), Seats: b.Seats}
	for i, s := range b.Seats {
		out.Seats[i].Known = append([]shared.Card{}, s.Known...)
	}
	return out
}

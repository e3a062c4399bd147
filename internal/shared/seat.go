package shared

import (
	"encoding/json"
	"fmt"
	"strings"
)

// NumSeats is the number of players at the table.
const NumSeats = 4

// Seat identifies one of the four players. Seats A and C form one team,
// B and D the other.
type Seat int

const (
	SeatA Seat = iota
	SeatB
	SeatC
	SeatD
)

// Seats lists every seat in turn order.
var Seats = [NumSeats]Seat{SeatA, SeatB, SeatC, SeatD}

// SeatFromIndex converts an integer to a Seat, rejecting anything outside 0..3.
func SeatFromIndex(i int) (Seat, error) {
	if i < 0 || i >= NumSeats {
		return 0, fmt.Errorf("seat index %d out of range", i)
	}
	return Seat(i), nil
}

// ParseSeat parses a seat letter ("A".."D").
func ParseSeat(s string) (Seat, error) {
	if len(s) == 1 {
		if i := strings.IndexByte("ABCD", strings.ToUpper(s)[0]); i >= 0 {
			return Seat(i), nil
		}
	}
	return 0, fmt.Errorf("unknown seat %q", s)
}

// Next returns the seat that acts after s.
func (s Seat) Next() Seat {
	return (s + 1) % NumSeats
}

// Offset returns the seat n places after s.
func (s Seat) Offset(n int) Seat {
	return Seat((int(s) + n) % NumSeats)
}

// Partner returns the seat sitting across from s.
func (s Seat) Partner() Seat {
	return (s + 2) % NumSeats
}

// Team returns the team s plays for.
func (s Seat) Team() Team {
	return Team(s % 2)
}

func (s Seat) String() string {
	if s < SeatA || s > SeatD {
		return fmt.Sprintf("Seat(%d)", int(s))
	}
	return string(rune('A' + s))
}

func (s Seat) MarshalJSON() ([]byte, error) {
	if s < SeatA || s > SeatD {
		return nil, fmt.Errorf("invalid seat %d", int(s))
	}
	return json.Marshal(s.String())
}

func (s *Seat) UnmarshalJSON(data []byte) error {
	var letter string
	if err := json.Unmarshal(data, &letter); err != nil {
		return err
	}
	parsed, err := ParseSeat(letter)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// RemoveAt returns hand without the card at index i. The input is not modified.
func RemoveAt(hand []Card, i int) []Card {
	out := make([]Card, 0, len(hand)-1)
	out = append(out, hand[:i]...)
	return append(out, hand[i+1:]...)
}

// RemoveCard removes one copy of card from hand, reporting whether it was found.
func RemoveCard(hand []Card, card Card) ([]Card, bool) {
	for i, c := range hand {
		if c == card {
			return RemoveAt(hand, i), true
		}
	}
	return hand, false
}

// HasSuit reports whether any card in hand is of the given suit.
func HasSuit(hand []Card, suit Suit) bool {
	for _, card := range hand {
		if card.Suit == suit {
			return true
		}
	}
	return false
}

package shared

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Suit represents the suit of a card (Diamonds, Clubs, Hearts, Spades).
type Suit int

const (
	Diamonds Suit = iota
	Clubs
	Hearts
	Spades
)

// Suits lists every suit in canonical order.
var Suits = [4]Suit{Diamonds, Clubs, Hearts, Spades}

// Rank represents the rank of a card. Higher values beat lower ones within a suit.
type Rank int

const (
	Nine Rank = iota
	Jack
	Queen
	King
	Ten
	Ace
)

// Ranks lists every rank from weakest to strongest.
var Ranks = [6]Rank{Nine, Jack, Queen, King, Ten, Ace}

// Card represents a single card. The two copies of a card in the deck are
// indistinguishable and compare equal.
type Card struct {
	Suit Suit `json:"suit"` // The suit of the card
	Rank Rank `json:"rank"` // The rank of the card
}

var suitNames = map[Suit]string{
	Diamonds: "Diamonds",
	Clubs:    "Clubs",
	Hearts:   "Hearts",
	Spades:   "Spades",
}

var rankNames = map[Rank]string{
	Nine:  "Nine",
	Jack:  "Jack",
	Queen: "Queen",
	King:  "King",
	Ten:   "Ten",
	Ace:   "Ace",
}

// Define card values for scoring
var rankPoints = map[Rank]int{
	Nine:  0,
	Jack:  0,
	Queen: 5,
	King:  5,
	Ten:   10,
	Ace:   10,
}

const (
	suitLetters = "DCHS"
	rankLetters = "9JQKTA"
)

func (s Suit) String() string {
	if name, ok := suitNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Suit(%d)", int(s))
}

// Valid reports whether s is one of the four suits.
func (s Suit) Valid() bool {
	return s >= Diamonds && s <= Spades
}

// ParseSuit accepts a full suit name ("Hearts") or its letter ("H").
func ParseSuit(s string) (Suit, error) {
	for suit, name := range suitNames {
		if strings.EqualFold(name, s) {
			return suit, nil
		}
	}
	if len(s) == 1 {
		if i := strings.IndexByte(suitLetters, strings.ToUpper(s)[0]); i >= 0 {
			return Suit(i), nil
		}
	}
	return 0, fmt.Errorf("unknown suit %q", s)
}

func (s Suit) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid suit %d", int(s))
	}
	return json.Marshal(s.String())
}

func (s *Suit) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseSuit(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Rank(%d)", int(r))
}

// Valid reports whether r is one of the six ranks.
func (r Rank) Valid() bool {
	return r >= Nine && r <= Ace
}

// Points returns the trick points a card of this rank is worth.
func (r Rank) Points() int {
	return rankPoints[r]
}

func (r Rank) MarshalJSON() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid rank %d", int(r))
	}
	return json.Marshal(r.String())
}

func (r *Rank) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for rank, n := range rankNames {
		if strings.EqualFold(n, name) {
			*r = rank
			return nil
		}
	}
	return fmt.Errorf("unknown rank %q", name)
}

// Points returns the trick points the card is worth.
func (c Card) Points() int {
	return c.Rank.Points()
}

// String renders the card in short notation, e.g. "QS" or "TD".
func (c Card) String() string {
	if !c.Suit.Valid() || !c.Rank.Valid() {
		return "??"
	}
	return string([]byte{rankLetters[c.Rank], suitLetters[c.Suit]})
}

// Less orders cards by suit, then rank.
func (c Card) Less(o Card) bool {
	if c.Suit != o.Suit {
		return c.Suit < o.Suit
	}
	return c.Rank < o.Rank
}

// ParseCard parses the short notation produced by Card.String.
func ParseCard(s string) (Card, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 2 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}
	r := strings.IndexByte(rankLetters, s[0])
	su := strings.IndexByte(suitLetters, s[1])
	if r < 0 || su < 0 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}
	return Card{Suit: Suit(su), Rank: Rank(r)}, nil
}

// ParseCards parses a whitespace separated list of cards such as "KD QD AS".
func ParseCards(s string) ([]Card, error) {
	fields := strings.Fields(s)
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is ParseCards for literals known to be valid.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// SortCards sorts cards in place by suit, then rank.
func SortCards(cards []Card) {
	sort.Slice(cards, func(i, j int) bool { return cards[i].Less(cards[j]) })
}

// CountCards returns how many copies of each card appear in cards.
func CountCards(cards []Card) map[Card]int {
	counts := make(map[Card]int, len(cards))
	for _, c := range cards {
		counts[c]++
	}
	return counts
}

// TotalPoints sums the trick points of cards.
func TotalPoints(cards []Card) int {
	total := 0
	for _, c := range cards {
		total += c.Points()
	}
	return total
}

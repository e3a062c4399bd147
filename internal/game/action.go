package game

import (
	"encoding/json"
	"fmt"

	"pinochle-game/internal/shared"
)

// Action is one move submitted by the current seat. The concrete types are
// Bid, DeclareSuit, Pass, ShowPoints and PlayCard.
type Action interface {
	// Type returns the wire tag of the action.
	Type() string
	isAction()
}

// Bid offers to make at least Amount points this round.
type Bid struct {
	Amount int
}

// DeclareSuit names the trump suit. Only the bid winner declares.
type DeclareSuit struct {
	Suit shared.Suit
}

// Pass hands four cards, by hand index, across to the partner.
type Pass struct {
	Indices []int
}

// ShowPoints reveals the cards at the given hand indices as meld.
type ShowPoints struct {
	Indices []int
}

// PlayCard plays the card at Index in the actor's hand to the current trick.
type PlayCard struct {
	Index int
}

const (
	TypeBid         = "bid"
	TypeDeclareSuit = "declare_suit"
	TypePass        = "pass"
	TypeShowPoints  = "show_points"
	TypePlay        = "play"
)

func (Bid) Type() string         { return TypeBid }
func (DeclareSuit) Type() string { return TypeDeclareSuit }
func (Pass) Type() string        { return TypePass }
func (ShowPoints) Type() string  { return TypeShowPoints }
func (PlayCard) Type() string    { return TypePlay }

func (Bid) isAction()         {}
func (DeclareSuit) isAction() {}
func (Pass) isAction()        {}
func (ShowPoints) isAction()  {}
func (PlayCard) isAction()    {}

// actionJSON is the flat wire form of every action, e.g.
// {"type":"bid","amount":250} or {"type":"pass","cards":[0,3,5,7]}.
type actionJSON struct {
	Type   string       `json:"type"`
	Amount *int         `json:"amount,omitempty"`
	Suit   *shared.Suit `json:"suit,omitempty"`
	Cards  []int        `json:"cards,omitempty"`
	Card   *int         `json:"card,omitempty"`
}

// MarshalAction encodes an action in its wire form.
func MarshalAction(a Action) ([]byte, error) {
	w := actionJSON{Type: a.Type()}
	switch a := a.(type) {
	case Bid:
		w.Amount = &a.Amount
	case DeclareSuit:
		w.Suit = &a.Suit
	case Pass:
		w.Cards = nonNil(a.Indices)
	case ShowPoints:
		w.Cards = nonNil(a.Indices)
	case PlayCard:
		w.Card = &a.Index
	default:
		return nil, fmt.Errorf("unknown action %T", a)
	}
	return json.Marshal(w)
}

// UnmarshalAction decodes the wire form produced by MarshalAction.
func UnmarshalAction(data []byte) (Action, error) {
	var w actionJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode action: %w", err)
	}
	switch w.Type {
	case TypeBid:
		if w.Amount == nil {
			return nil, fmt.Errorf("bid without amount")
		}
		return Bid{Amount: *w.Amount}, nil
	case TypeDeclareSuit:
		if w.Suit == nil {
			return nil, fmt.Errorf("declare_suit without suit")
		}
		return DeclareSuit{Suit: *w.Suit}, nil
	case TypePass:
		return Pass{Indices: nonNil(w.Cards)}, nil
	case TypeShowPoints:
		return ShowPoints{Indices: nonNil(w.Cards)}, nil
	case TypePlay:
		if w.Card == nil {
			return nil, fmt.Errorf("play without card")
		}
		return PlayCard{Index: *w.Card}, nil
	}
	return nil, fmt.Errorf("unknown action type %q", w.Type)
}

func nonNil(indices []int) []int {
	if indices == nil {
		return []int{}
	}
	return indices
}

// Entry is one accepted action in a game's log.
type Entry struct {
	Seat   shared.Seat
	Action Action
}

type entryJSON struct {
	Seat   shared.Seat     `json:"seat"`
	Action json.RawMessage `json:"action"`
}

func (e Entry) MarshalJSON() ([]byte, error) {
	action, err := MarshalAction(e.Action)
	if err != nil {
		return nil, err
	}
	return json.Marshal(entryJSON{Seat: e.Seat, Action: action})
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var w entryJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	action, err := UnmarshalAction(w.Action)
	if err != nil {
		return err
	}
	e.Seat, e.Action = w.Seat, action
	return nil
}

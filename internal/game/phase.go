package game

import (
	"encoding/json"
	"fmt"

	"pinochle-game/internal/shared"
)

// Phase is the active stage of a round. The concrete types are BiddingPhase,
// DeclareTrumpPhase, PassingToPhase, PassingBackPhase, RevealingPhase and
// PlayPhase; each carries only the fields that stage needs.
type Phase interface {
	// Name returns the wire tag of the phase.
	Name() string
	isPhase()
}

// BiddingPhase collects one bid from each seat, starting at FirstBidder.
type BiddingPhase struct {
	FirstBidder shared.Seat `json:"first_bidder"`
	Bids        []int       `json:"bids"`
}

// DeclareTrumpPhase waits for the bid winner to name trump.
type DeclareTrumpPhase struct {
	BidWinner  shared.Seat `json:"bid_winner"`
	HighestBid int         `json:"highest_bid"`
}

// PassingToPhase waits for the bid winner's partner to pass four cards.
type PassingToPhase struct {
	BidWinner  shared.Seat `json:"bid_winner"`
	HighestBid int         `json:"highest_bid"`
	Trump      shared.Suit `json:"trump"`
}

// PassingBackPhase waits for the bid winner to pass four cards back.
type PassingBackPhase struct {
	BidWinner  shared.Seat `json:"bid_winner"`
	HighestBid int         `json:"highest_bid"`
	Trump      shared.Suit `json:"trump"`
}

// RevealingPhase collects each seat's meld reveal.
type RevealingPhase struct {
	BidWinner   shared.Seat                    `json:"bid_winner"`
	HighestBid  int                            `json:"highest_bid"`
	Trump       shared.Suit                    `json:"trump"`
	Reveals     [shared.NumSeats][]shared.Card `json:"reveals"`
	Shown       [shared.NumSeats]bool          `json:"shown"`
	ExtraPoints shared.Scores                  `json:"extra_points"`
}

// PlayPhase is trick play.
type PlayPhase struct {
	PlayState
}

func (BiddingPhase) Name() string      { return "bidding" }
func (DeclareTrumpPhase) Name() string { return "declare_trump" }
func (PassingToPhase) Name() string    { return "passing_to" }
func (PassingBackPhase) Name() string  { return "passing_back" }
func (RevealingPhase) Name() string    { return "revealing_cards" }
func (PlayPhase) Name() string         { return "play" }

func (BiddingPhase) isPhase()      {}
func (DeclareTrumpPhase) isPhase() {}
func (PassingToPhase) isPhase()    {}
func (PassingBackPhase) isPhase()  {}
func (RevealingPhase) isPhase()    {}
func (PlayPhase) isPhase()         {}

// tagged wraps a phase's fields with its name: {"phase":"bidding","state":{...}}.
func tagged[T any](name string, fields T) ([]byte, error) {
	return json.Marshal(struct {
		Phase string `json:"phase"`
		Body  T      `json:"state"`
	}{name, fields})
}

func (p BiddingPhase) MarshalJSON() ([]byte, error) {
	type fields BiddingPhase
	return tagged(p.Name(), fields(p))
}

func (p DeclareTrumpPhase) MarshalJSON() ([]byte, error) {
	type fields DeclareTrumpPhase
	return tagged(p.Name(), fields(p))
}

func (p PassingToPhase) MarshalJSON() ([]byte, error) {
	type fields PassingToPhase
	return tagged(p.Name(), fields(p))
}

func (p PassingBackPhase) MarshalJSON() ([]byte, error) {
	type fields PassingBackPhase
	return tagged(p.Name(), fields(p))
}

func (p RevealingPhase) MarshalJSON() ([]byte, error) {
	type fields RevealingPhase
	return tagged(p.Name(), fields(p))
}

func (p PlayPhase) MarshalJSON() ([]byte, error) {
	return tagged(p.Name(), p.PlayState)
}

// UnmarshalPhase decodes the tagged form written by the phases' MarshalJSON.
func UnmarshalPhase(data []byte) (Phase, error) {
	var w struct {
		Phase string          `json:"phase"`
		Body  json.RawMessage `json:"state"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode phase: %w", err)
	}
	switch w.Phase {
	case BiddingPhase{}.Name():
		return decodePhase[BiddingPhase](w.Body)
	case DeclareTrumpPhase{}.Name():
		return decodePhase[DeclareTrumpPhase](w.Body)
	case PassingToPhase{}.Name():
		return decodePhase[PassingToPhase](w.Body)
	case PassingBackPhase{}.Name():
		return decodePhase[PassingBackPhase](w.Body)
	case RevealingPhase{}.Name():
		return decodePhase[RevealingPhase](w.Body)
	case PlayPhase{}.Name():
		return decodePhase[PlayPhase](w.Body)
	}
	return nil, fmt.Errorf("unknown phase %q", w.Phase)
}

func decodePhase[P Phase](body json.RawMessage) (Phase, error) {
	var p P
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode %s phase: %w", p.Name(), err)
	}
	return p, nil
}

// PlayState is everything trick play needs besides the hands. The bot keeps
// its own copy and advances it with every observed card.
type PlayState struct {
	Trump       shared.Suit                    `json:"trump"`
	BidWinner   shared.Seat                    `json:"bid_winner"`
	HighestBid  int                            `json:"highest_bid"`
	ExtraPoints shared.Scores                  `json:"extra_points"`
	Reveals     [shared.NumSeats][]shared.Card `json:"reveals"`
	Piles       [2][]shared.Card               `json:"piles"`
	Trick       shared.Trick                   `json:"trick"`
}

// Step reports the effect of one card on the play state.
type Step struct {
	Next        shared.Seat   // Seat that acts next
	TrickDone   bool          // The card completed a trick
	TrickWinner shared.Seat   // Valid when TrickDone
	RoundOver   bool          // Every card has been won
	Delta       shared.Scores // Round scores, valid when RoundOver
}

// Clone returns a deep copy of the play state.
func (p PlayState) Clone() PlayState {
	out := p
	for i, r := range p.Reveals {
		if r != nil {
			out.Reveals[i] = append([]shared.Card{}, r...)
		}
	}
	for i, pile := range p.Piles {
		out.Piles[i] = append([]shared.Card{}, pile...)
	}
	out.Trick = p.Trick.Clone()
	return out
}

// Play validates card against hand and the current trick, then advances the
// state. hand is the player's hand before the card leaves it.
func (p *PlayState) Play(seat shared.Seat, hand []shared.Card, card shared.Card) (Step, error) {
	if !shared.IsLegalPlay(p.Trick.Cards, hand, card, p.Trump) {
		return Step{}, ErrCardIsNotLegalToPlay
	}
	return p.Advance(seat, card), nil
}

// Advance adds card to the trick without checking legality. Completed tricks
// go to the winning team's pile and the winner leads the next one; once all
// cards are won the round is scored.
func (p *PlayState) Advance(seat shared.Seat, card shared.Card) Step {
	p.Trick.Cards = append(p.Trick.Cards, card)
	if !p.Trick.Complete() {
		return Step{Next: seat.Next()}
	}

	winner := p.Trick.Winner(p.Trump)
	team := winner.Team()
	p.Piles[team] = append(p.Piles[team], p.Trick.Cards...)
	p.Trick = shared.NewTrick(winner)

	step := Step{Next: winner, TrickDone: true, TrickWinner: winner}
	if len(p.Piles[0])+len(p.Piles[1]) == shared.DeckSize {
		step.RoundOver = true
		step.Delta = ScoreRound(p.Piles, team, p.ExtraPoints, p.BidWinner.Team(), p.HighestBid)
	}
	return step
}

package game

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	mrand "math/rand/v2"

	"pinochle-game/internal/shared"
)

// Game is a sequence of rounds with running team scores. All randomness comes
// from the seed, so a game is fully described by its seed and action log.
//
// A Game is not safe for concurrent use; callers serialize access per game.
type Game struct {
	seed        [32]byte
	rng         *mrand.Rand
	round       *Round
	scores      shared.Scores
	firstBidder shared.Seat
	rounds      int
	log         []Entry
}

// Info is the public view of a game. It never includes a hand.
type Info struct {
	FirstBidder   shared.Seat   `json:"first_bidder"`
	CurrentPlayer shared.Seat   `json:"current_player"`
	Phase         Phase         `json:"phase"`
	Scores        shared.Scores `json:"scores"`
	Round         int           `json:"round"`
}

// UnmarshalJSON decodes an Info, including its tagged phase.
func (i *Info) UnmarshalJSON(data []byte) error {
	type plain Info
	var w struct {
		plain
		Phase json.RawMessage `json:"phase"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	phase, err := UnmarshalPhase(w.Phase)
	if err != nil {
		return err
	}
	*i = Info(w.plain)
	i.Phase = phase
	return nil
}

// NewSeed returns a random seed for New.
func NewSeed() ([32]byte, error) {
	var seed [32]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return seed, fmt.Errorf("generate seed: %w", err)
	}
	return seed, nil
}

// New starts a game from seed with seat A bidding first.
func New(seed [32]byte) (*Game, error) {
	rng := shared.NewRand(seed)
	round, err := NewRound(rng, shared.SeatA)
	if err != nil {
		return nil, err
	}
	return &Game{
		seed:        seed,
		rng:         rng,
		round:       round,
		firstBidder: shared.SeatA,
		rounds:      1,
	}, nil
}

// Replay rebuilds a game by applying a logged sequence of actions to a new
// game from seed. Any rejected entry aborts the replay.
func Replay(seed [32]byte, entries []Entry) (*Game, error) {
	g, err := New(seed)
	if err != nil {
		return nil, err
	}
	for i, e := range entries {
		if _, err := g.Act(e.Seat, e.Action); err != nil {
			return nil, fmt.Errorf("replay action %d (%s by %s): %w", i, e.Action.Type(), e.Seat, err)
		}
	}
	return g, nil
}

// Act applies action on behalf of seat. When it finishes a round the delta is
// added to the scores, the first bidder moves one seat on and a new round is dealt.
func (g *Game) Act(seat shared.Seat, action Action) (Outcome, error) {
	if seat != g.round.Current {
		return Outcome{}, ErrNotTheCurrentPlayer
	}
	out, err := g.round.Act(action)
	if err != nil {
		return Outcome{}, err
	}
	g.log = append(g.log, Entry{Seat: seat, Action: action})

	if out.RoundOver {
		g.scores = g.scores.Add(out.Delta)
		g.firstBidder = g.firstBidder.Next()
		round, err := NewRound(g.rng, g.firstBidder)
		if err != nil {
			return Outcome{}, err
		}
		g.round = round
		g.rounds++
	}
	return out, nil
}

// Seed returns the seed the game was created from.
func (g *Game) Seed() [32]byte {
	return g.seed
}

// Log returns a copy of every accepted action so far.
func (g *Game) Log() []Entry {
	return append([]Entry(nil), g.log...)
}

// CurrentPlayer returns the seat expected to act.
func (g *Game) CurrentPlayer() shared.Seat {
	return g.round.Current
}

// FirstBidder returns the seat that opened bidding this round.
func (g *Game) FirstBidder() shared.Seat {
	return g.firstBidder
}

// Scores returns the cumulative team scores.
func (g *Game) Scores() shared.Scores {
	return g.scores
}

// Phase returns a copy of the active phase.
func (g *Game) Phase() Phase {
	return clonePhase(g.round.Phase)
}

// Hand returns a copy of seat's hand.
func (g *Game) Hand(seat shared.Seat) []shared.Card {
	return append([]shared.Card{}, g.round.Hands[seat]...)
}

// CardsInPlay returns every card of the current round: the four hands, the
// trick in progress and both piles. It always holds a full deck.
func (g *Game) CardsInPlay() []shared.Card {
	cards := make([]shared.Card, 0, shared.DeckSize)
	for _, hand := range g.round.Hands {
		cards = append(cards, hand...)
	}
	if p, ok := g.round.Phase.(PlayPhase); ok {
		cards = append(cards, p.Piles[0]...)
		cards = append(cards, p.Piles[1]...)
		cards = append(cards, p.Trick.Cards...)
	}
	return cards
}

// Info returns the public projection of the game.
func (g *Game) Info() Info {
	return Info{
		FirstBidder:   g.firstBidder,
		CurrentPlayer: g.round.Current,
		Phase:         g.Phase(),
		Scores:        g.scores,
		Round:         g.rounds,
	}
}

func clonePhase(p Phase) Phase {
	switch p := p.(type) {
	case BiddingPhase:
		p.Bids = append([]int{}, p.Bids...)
		return p
	case RevealingPhase:
		for i, r := range p.Reveals {
			if r != nil {
				p.Reveals[i] = append([]shared.Card{}, r...)
			}
		}
		return p
	case PlayPhase:
		return PlayPhase{p.Clone()}
	}
	return p
}

package game

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"pinochle-game/internal/shared"
)

// PassSize is the number of cards exchanged in each pass.
const PassSize = 4

// Outcome is the result of an accepted action.
type Outcome struct {
	RoundOver bool          `json:"round_over"`
	Delta     shared.Scores `json:"delta"` // Valid when RoundOver
}

// Round is the state of one deal: the hands, whose turn it is and the phase.
type Round struct {
	Current shared.Seat
	Hands   [shared.NumSeats][]shared.Card
	Phase   Phase
}

// NewRound shuffles a fresh deck with rng, deals it and opens bidding at firstBidder.
func NewRound(rng *rand.Rand, firstBidder shared.Seat) (*Round, error) {
	deck := shared.NewDeck()
	deck.Shuffle(rng)
	hands, err := deck.Deal()
	if err != nil {
		return nil, fmt.Errorf("new round: %w", err)
	}
	return &Round{
		Current: firstBidder,
		Hands:   hands,
		Phase:   BiddingPhase{FirstBidder: firstBidder, Bids: []int{}},
	}, nil
}

// Act applies action for the current seat. Every check happens before any
// state changes, so a rejected action leaves the round as it was.
func (r *Round) Act(action Action) (Outcome, error) {
	switch phase := r.Phase.(type) {
	case BiddingPhase:
		a, ok := action.(Bid)
		if !ok {
			return Outcome{}, ErrIncorrectAction
		}
		r.bid(phase, a.Amount)

	case DeclareTrumpPhase:
		a, ok := action.(DeclareSuit)
		if !ok {
			return Outcome{}, ErrIncorrectAction
		}
		if !a.Suit.Valid() {
			return Outcome{}, ErrIncorrectAction
		}
		r.Current = phase.BidWinner.Partner()
		r.Phase = PassingToPhase{BidWinner: phase.BidWinner, HighestBid: phase.HighestBid, Trump: a.Suit}

	case PassingToPhase:
		a, ok := action.(Pass)
		if !ok {
			return Outcome{}, ErrIncorrectAction
		}
		if err := r.pass(a.Indices); err != nil {
			return Outcome{}, err
		}
		r.Current = phase.BidWinner
		r.Phase = PassingBackPhase(phase)

	case PassingBackPhase:
		a, ok := action.(Pass)
		if !ok {
			return Outcome{}, ErrIncorrectAction
		}
		if err := r.pass(a.Indices); err != nil {
			return Outcome{}, err
		}
		r.Current = phase.BidWinner
		r.Phase = RevealingPhase{BidWinner: phase.BidWinner, HighestBid: phase.HighestBid, Trump: phase.Trump}

	case RevealingPhase:
		a, ok := action.(ShowPoints)
		if !ok {
			return Outcome{}, ErrIncorrectAction
		}
		return Outcome{}, r.reveal(phase, a.Indices)

	case PlayPhase:
		a, ok := action.(PlayCard)
		if !ok {
			return Outcome{}, ErrIncorrectAction
		}
		return r.play(phase, a.Index)

	default:
		return Outcome{}, fmt.Errorf("unknown phase %T", r.Phase)
	}
	return Outcome{}, nil
}

func (r *Round) bid(phase BiddingPhase, amount int) {
	bids := append(append([]int{}, phase.Bids...), amount)
	r.Current = r.Current.Next()
	if len(bids) < shared.NumSeats {
		r.Phase = BiddingPhase{FirstBidder: phase.FirstBidder, Bids: bids}
		return
	}

	// Highest bid wins, the earliest of equal bids first.
	best := 0
	for i, b := range bids {
		if b > bids[best] {
			best = i
		}
	}
	winner := phase.FirstBidder.Offset(best)
	r.Current = winner
	r.Phase = DeclareTrumpPhase{BidWinner: winner, HighestBid: bids[best]}
}

// pass moves the cards at indices from the current seat to its partner.
func (r *Round) pass(indices []int) error {
	hand := r.Hands[r.Current]
	if len(indices) != PassSize || hasDuplicates(indices) {
		return ErrPassingWrongNumberOfCards
	}
	set, err := distinctIndices(indices, len(hand))
	if err != nil {
		return err
	}

	keep := make([]shared.Card, 0, len(hand)-PassSize)
	taken := make([]shared.Card, 0, PassSize)
	for i, c := range hand {
		if !set[i] {
			keep = append(keep, c)
		}
	}
	// Highest index first, the order the cards are pulled out of the hand.
	sorted := sortedIndices(set)
	for i := len(sorted) - 1; i >= 0; i-- {
		taken = append(taken, hand[sorted[i]])
	}

	partner := r.Current.Partner()
	r.Hands[r.Current] = keep
	r.Hands[partner] = append(append([]shared.Card{}, r.Hands[partner]...), taken...)
	return nil
}

func (r *Round) reveal(phase RevealingPhase, indices []int) error {
	hand := r.Hands[r.Current]
	set, err := distinctIndices(indices, len(hand))
	if err != nil {
		return err
	}
	cards := make([]shared.Card, 0, len(set))
	for _, i := range sortedIndices(set) {
		cards = append(cards, hand[i])
	}

	next := phase
	next.Reveals[r.Current] = cards
	next.Shown[r.Current] = true
	next.ExtraPoints[r.Current.Team()] += MeldPoints(cards, phase.Trump)
	r.Current = r.Current.Next()

	for _, shown := range next.Shown {
		if !shown {
			r.Phase = next
			return nil
		}
	}

	r.Current = phase.BidWinner
	r.Phase = PlayPhase{PlayState{
		Trump:       phase.Trump,
		BidWinner:   phase.BidWinner,
		HighestBid:  phase.HighestBid,
		ExtraPoints: next.ExtraPoints,
		Reveals:     next.Reveals,
		Piles:       [2][]shared.Card{{}, {}},
		Trick:       shared.NewTrick(phase.BidWinner),
	}}
	return nil
}

func (r *Round) play(phase PlayPhase, index int) (Outcome, error) {
	hand := r.Hands[r.Current]
	if index < 0 || index >= len(hand) {
		return Outcome{}, ErrPlayingNonExtantCard
	}

	state := phase.Clone()
	step, err := state.Play(r.Current, hand, hand[index])
	if err != nil {
		return Outcome{}, err
	}

	r.Hands[r.Current] = shared.RemoveAt(hand, index)
	r.Current = step.Next
	r.Phase = PlayPhase{state}
	return Outcome{RoundOver: step.RoundOver, Delta: step.Delta}, nil
}

// distinctIndices checks every index is inside a hand of size n and returns
// them as a set. Duplicates collapse.
func distinctIndices(indices []int, n int) (map[int]bool, error) {
	set := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i < 0 || i >= n {
			return nil, ErrPlayingNonExtantCard
		}
		set[i] = true
	}
	return set, nil
}

func hasDuplicates(indices []int) bool {
	seen := make(map[int]bool, len(indices))
	for _, i := range indices {
		if seen[i] {
			return true
		}
		seen[i] = true
	}
	return false
}

func sortedIndices(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for i := range set {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

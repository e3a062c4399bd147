package bot

import (
	"errors"
	"fmt"
	"sort"

	"pinochle-game/internal/game"
	"pinochle-game/internal/shared"
)

// Autopilot chooses every action for a computer-controlled seat. Trick play
// goes through the Planner; the other phases use fixed hand-evaluation rules.
type Autopilot struct {
	Planner *Planner
}

// Choose returns the action seat should take next in the game rebuilt from
// seed and entries.
func (a *Autopilot) Choose(seed [32]byte, entries []game.Entry, seat shared.Seat) (game.Action, error) {
	b, g, err := Rebuild(seed, entries, seat)
	if err != nil && !errors.Is(err, ErrNotPlaying) {
		return nil, err
	}
	if g.CurrentPlayer() != seat {
		return nil, ErrNotBotsTurn
	}
	hand := g.Hand(seat)

	switch p := g.Phase().(type) {
	case game.BiddingPhase:
		return game.Bid{Amount: EstimateBid(hand)}, nil
	case game.DeclareTrumpPhase:
		return game.DeclareSuit{Suit: ChooseTrump(hand)}, nil
	case game.PassingToPhase:
		return game.Pass{Indices: strongest(hand, p.Trump, game.PassSize)}, nil
	case game.PassingBackPhase:
		return game.Pass{Indices: weakest(hand, p.Trump, game.PassSize)}, nil
	case game.RevealingPhase:
		return game.ShowPoints{Indices: MeldIndices(hand, p.Trump)}, nil
	case game.PlayPhase:
		card, err := a.Planner.Recommend(b)
		if err != nil {
			return nil, err
		}
		for i, c := range hand {
			if c == card {
				return game.PlayCard{Index: i}, nil
			}
		}
		return nil, fmt.Errorf("bot chose %s which is not in hand", card)
	}
	return nil, fmt.Errorf("unknown phase %T", g.Phase())
}

// EstimateBid bids the best meld the hand could show plus half its card points,
// rounded down to a multiple of 10.
func EstimateBid(hand []shared.Card) int {
	best := 0
	for _, suit := range shared.Suits {
		best = max(best, game.MeldPoints(hand, suit))
	}
	return (best + shared.TotalPoints(hand)/2) / 10 * 10
}

// ChooseTrump picks the longest suit, breaking ties on meld and then card points.
func ChooseTrump(hand []shared.Card) shared.Suit {
	type rating struct{ count, meld, points int }
	rate := func(s shared.Suit) rating {
		r := rating{meld: game.MeldPoints(hand, s)}
		for _, c := range hand {
			if c.Suit == s {
				r.count++
				r.points += c.Points()
			}
		}
		return r
	}

	best := shared.Suits[0]
	bestRating := rate(best)
	for _, s := range shared.Suits[1:] {
		r := rate(s)
		if r.count > bestRating.count ||
			(r.count == bestRating.count && r.meld > bestRating.meld) ||
			(r.count == bestRating.count && r.meld == bestRating.meld && r.points > bestRating.points) {
			best, bestRating = s, r
		}
	}
	return best
}

// strength orders cards for passing: trump above everything, then rank.
func strength(c shared.Card, trump shared.Suit) int {
	s := int(c.Rank)
	if c.Suit == trump {
		s += 10
	}
	return s
}

func rankedIndices(hand []shared.Card, trump shared.Suit) []int {
	order := make([]int, len(hand))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return strength(hand[order[i]], trump) > strength(hand[order[j]], trump)
	})
	return order
}

func strongest(hand []shared.Card, trump shared.Suit, n int) []int {
	return append([]int{}, rankedIndices(hand, trump)[:n]...)
}

func weakest(hand []shared.Card, trump shared.Suit, n int) []int {
	order := rankedIndices(hand, trump)
	return append([]int{}, order[len(order)-n:]...)
}

// MeldIndices returns a minimal set of hand indices whose reveal is worth as
// much meld as the whole hand.
func MeldIndices(hand []shared.Card, trump shared.Suit) []int {
	target := game.MeldPoints(hand, trump)
	keep := make([]bool, len(hand))
	for i := range keep {
		keep[i] = true
	}

	selected := func() []shared.Card {
		var cards []shared.Card
		for i, k := range keep {
			if k {
				cards = append(cards, hand[i])
			}
		}
		return cards
	}

	for i := range hand {
		keep[i] = false
		if game.MeldPoints(selected(), trump) < target {
			keep[i] = true
		}
	}

	indices := []int{}
	for i, k := range keep {
		if k {
			indices = append(indices, i)
		}
	}
	return indices
}

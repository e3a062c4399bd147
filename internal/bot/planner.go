package bot

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"pinochle-game/internal/game"
	"pinochle-game/internal/shared"
)

// DefaultTrials is the number of sampled deals behind each recommendation.
const DefaultTrials = 30000

// ErrNotBotsTurn is returned when a move is requested out of turn.
var ErrNotBotsTurn = errors.New("bot: not the bot's turn")

// Bot is one seat's view of trick play: its hand, the public play state and
// what it has inferred about the other hands.
type Bot struct {
	seat   shared.Seat
	hand   []shared.Card
	state  game.PlayState
	belief *Belief
}

// NewBot creates a bot for seat at the start of trick play. Cards revealed as
// meld are known to be in their owners' hands.
func NewBot(seat shared.Seat, hand []shared.Card, state game.PlayState) *Bot {
	b := &Bot{
		seat:   seat,
		hand:   append([]shared.Card{}, hand...),
		state:  state.Clone(),
		belief: NewBelief(),
	}
	for _, s := range shared.Seats {
		if s == seat {
			b.belief.AddKnown(s, hand)
		} else {
			b.belief.AddKnown(s, state.Reveals[s])
		}
	}
	return b
}

// Seat returns the seat the bot plays for.
func (b *Bot) Seat() shared.Seat {
	return b.seat
}

// Hand returns a copy of the bot's remaining hand.
func (b *Bot) Hand() []shared.Card {
	return append([]shared.Card{}, b.hand...)
}

// Belief returns the bot's current belief.
func (b *Bot) Belief() *Belief {
	return b.belief.Clone()
}

// State returns the bot's copy of the play state.
func (b *Bot) State() game.PlayState {
	return b.state.Clone()
}

// Observe records that seat played card. Every play since trick play began,
// the bot's own included, must be observed in order.
func (b *Bot) Observe(seat shared.Seat, card shared.Card) {
	b.belief.Observe(seat, card, b.state.Trump, b.state.Trick.Cards)
	b.state.Advance(seat, card)
	if seat == b.seat {
		b.hand, _ = shared.RemoveCard(b.hand, card)
	}
}

// Planner recommends cards by Monte-Carlo sampling of the hidden hands.
type Planner struct {
	Trials  int         // Sampled deals per recommendation, DefaultTrials when zero
	Workers int         // Goroutines sharing the trials, GOMAXPROCS when zero
	Seed    uint64      // Seeds the sampling; zero picks a random seed per call
	Logger  *log.Logger // Defaults to log.Default()
}

type tally struct {
	sum int64
	n   int
}

// Recommend picks the card with the best average outcome for the bot's team.
// Each trial samples a deal consistent with the bot's belief, shuffles every
// hand and plays the round out with each seat playing its first legal card.
// Scores are recorded against the bot's first card in that trial.
func (p *Planner) Recommend(b *Bot) (shared.Card, error) {
	if b.state.Trick.NextSeat() != b.seat {
		return shared.Card{}, ErrNotBotsTurn
	}
	if len(b.hand) == 0 {
		return shared.Card{}, fmt.Errorf("bot %s has no cards", b.seat)
	}

	trials := p.Trials
	if trials <= 0 {
		trials = DefaultTrials
	}
	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, trials)
	seed := p.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	logger := p.Logger
	if logger == nil {
		logger = log.Default()
	}

	start := time.Now()
	results := make([]map[shared.Card]*tally, workers)
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		from, to := w*trials/workers, (w+1)*trials/workers
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(seed, uint64(w)))
			local := make(map[shared.Card]*tally)
			for i := from; i < to; i++ {
				card, score, ok, err := b.trial(rng)
				if err != nil {
					return err
				}
				if !ok {
					continue
				}
				t := local[card]
				if t == nil {
					t = &tally{}
					local[card] = t
				}
				t.sum += int64(score)
				t.n++
			}
			results[w] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return shared.Card{}, err
	}

	merged := make(map[shared.Card]*tally)
	completed := 0
	for _, local := range results {
		for card, t := range local {
			m := merged[card]
			if m == nil {
				m = &tally{}
				merged[card] = m
			}
			m.sum += t.sum
			m.n += t.n
			completed += t.n
		}
	}

	var best shared.Card
	var bestMean Mean
	found := false
	for card, t := range merged {
		mean, err := NewMean(t.sum, t.n)
		if err != nil {
			return shared.Card{}, err
		}
		if !found || mean.Compare(bestMean) > 0 || (mean.Compare(bestMean) == 0 && card.Less(best)) {
			best, bestMean, found = card, mean, true
		}
	}
	if !found {
		return shared.Card{}, fmt.Errorf("bot %s: no trial completed", b.seat)
	}

	logger.Debug("planned move", "seat", b.seat, "card", best, "mean", bestMean.Value(),
		"trials", trials, "completed", completed, "took", time.Since(start))
	return best, nil
}

// trial plays one sampled deal to the end of the round. ok is false when some
// hand had no legal card, which discards the trial.
func (b *Bot) trial(rng *rand.Rand) (first shared.Card, score int, ok bool, err error) {
	deal, err := b.belief.SolveDeal(rng)
	if err != nil {
		return first, 0, false, err
	}
	for _, hand := range deal {
		shared.ShuffleCards(hand, rng)
	}

	state := b.state.Clone()
	seat := b.seat
	for played := 0; ; played++ {
		hand := deal[seat]
		idx := -1
		for i, c := range hand {
			if shared.IsLegalPlay(state.Trick.Cards, hand, c, state.Trump) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return first, 0, false, nil
		}

		card := hand[idx]
		deal[seat] = append(hand[:idx], hand[idx+1:]...)
		if played == 0 {
			first = card
		}

		step := state.Advance(seat, card)
		if step.RoundOver {
			return first, step.Delta.Net(b.seat.Team()), true, nil
		}
		seat = step.Next
	}
}

package bot

import (
	"errors"
	"fmt"

	"pinochle-game/internal/game"
	"pinochle-game/internal/shared"
)

// ErrNotPlaying is returned when a bot is requested outside trick play.
var ErrNotPlaying = errors.New("bot: the round is not in trick play")

// Rebuild replays a game from its seed and log and returns the bot for seat
// as it stands after the last entry, together with the replayed game. The
// bot has observed every card played in the current round.
func Rebuild(seed [32]byte, entries []game.Entry, seat shared.Seat) (*Bot, *game.Game, error) {
	g, err := game.New(seed)
	if err != nil {
		return nil, nil, err
	}

	var b *Bot
	for i, e := range entries {
		var played *shared.Card
		if phase, ok := g.Phase().(game.PlayPhase); ok {
			if b == nil {
				b = NewBot(seat, g.Hand(seat), phase.PlayState)
			}
			if play, ok := e.Action.(game.PlayCard); ok {
				if hand := g.Hand(e.Seat); play.Index >= 0 && play.Index < len(hand) {
					played = &hand[play.Index]
				}
			}
		}

		out, err := g.Act(e.Seat, e.Action)
		if err != nil {
			return nil, nil, fmt.Errorf("replay action %d (%s by %s): %w", i, e.Action.Type(), e.Seat, err)
		}
		if played != nil {
			b.Observe(e.Seat, *played)
		}
		if out.RoundOver {
			b = nil
		}
	}

	phase, ok := g.Phase().(game.PlayPhase)
	if !ok {
		return nil, g, ErrNotPlaying
	}
	if b == nil {
		b = NewBot(seat, g.Hand(seat), phase.PlayState)
	}
	return b, g, nil
}

package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"pinochle-game/internal/bot"
	"pinochle-game/internal/database"
	"pinochle-game/internal/game"
	"pinochle-game/internal/protocol"
	"pinochle-game/internal/shared"
)

// botStepLimit caps how many actions bot seats take in a row before control
// returns to the caller. A full round is 59 actions.
const botStepLimit = 4 * 59

// Publisher receives encoded messages for everyone watching a game.
type Publisher interface {
	Publish(gameID string, message []byte)
}

// liveGame is a replayed game kept in memory. mu serializes every action on
// it, so the store sees appends in the order the game accepted them.
type liveGame struct {
	mu   sync.Mutex
	rec  database.Record // Actions is left empty; the game log is authoritative
	game *game.Game
}

// Service owns live games. Games are loaded from the store on first use by
// replaying their action log.
type Service struct {
	store  database.Store
	pilot  *bot.Autopilot
	pub    Publisher
	logger *log.Logger

	mu    sync.Mutex
	games map[string]*liveGame
}

func NewService(store database.Store, pilot *bot.Autopilot, pub Publisher, logger *log.Logger) *Service {
	return &Service{
		store:  store,
		pilot:  pilot,
		pub:    pub,
		logger: logger,
		games:  make(map[string]*liveGame),
	}
}

// CreateRequest describes a new game. Empty fields are generated: a random
// id, a random seed and no prior actions.
type CreateRequest struct {
	ID      string                  `json:"id"`
	Seed    *[32]byte               `json:"seed,omitempty"`
	Actions []game.Entry            `json:"actions,omitempty"`
	Names   [shared.NumSeats]string `json:"names"`
	Bots    [shared.NumSeats]bool   `json:"bots"`
}

// Create validates req by replaying its actions, stores it and lets any bot
// seats act.
func (s *Service) Create(ctx context.Context, req CreateRequest) (protocol.StatePayload, error) {
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	var seed [32]byte
	if req.Seed != nil {
		seed = *req.Seed
	} else {
		var err error
		if seed, err = game.NewSeed(); err != nil {
			return protocol.StatePayload{}, err
		}
	}

	g, err := game.Replay(seed, req.Actions)
	if err != nil {
		return protocol.StatePayload{}, err
	}
	rec := database.Record{
		ID:        id,
		Seed:      seed,
		Names:     req.Names,
		Bots:      req.Bots,
		Actions:   g.Log(),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Create(ctx, rec); err != nil {
		return protocol.StatePayload{}, err
	}
	rec.Actions = nil
	lg := &liveGame{rec: rec, game: g}

	s.mu.Lock()
	s.games[id] = lg
	s.mu.Unlock()
	s.logger.Info("game created", "game", id, "actions", len(req.Actions))

	lg.mu.Lock()
	defer lg.mu.Unlock()
	if err := s.runBots(ctx, lg); err != nil {
		return protocol.StatePayload{}, err
	}
	return s.state(lg), nil
}

// load returns the live game for id, replaying it from the store if needed.
// The store read and replay run without s.mu so a slow load holds up no
// other game.
func (s *Service) load(ctx context.Context, id string) (*liveGame, error) {
	s.mu.Lock()
	lg, ok := s.games[id]
	s.mu.Unlock()
	if ok {
		return lg, nil
	}

	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	g, err := game.Replay(rec.Seed, rec.Actions)
	if err != nil {
		return nil, fmt.Errorf("replay game %s: %w", id, err)
	}
	rec.Actions = nil

	s.mu.Lock()
	defer s.mu.Unlock()
	if lg, ok := s.games[id]; ok {
		// another request loaded it first
		return lg, nil
	}
	lg = &liveGame{rec: rec, game: g}
	s.games[id] = lg
	s.logger.Debug("game loaded", "game", id, "actions", len(g.Log()))
	return lg, nil
}

// forget drops a live game so the next request replays it from the store.
func (s *Service) forget(id string) {
	s.mu.Lock()
	delete(s.games, id)
	s.mu.Unlock()
}

func (s *Service) state(lg *liveGame) protocol.StatePayload {
	return protocol.StatePayload{
		GameID:  lg.rec.ID,
		Names:   lg.rec.Names,
		Bots:    lg.rec.Bots,
		Actions: len(lg.game.Log()),
		Info:    lg.game.Info(),
	}
}

// State returns the public view of a game.
func (s *Service) State(ctx context.Context, id string) (protocol.StatePayload, error) {
	lg, err := s.load(ctx, id)
	if err != nil {
		return protocol.StatePayload{}, err
	}
	lg.mu.Lock()
	defer lg.mu.Unlock()
	return s.state(lg), nil
}

// Record returns the stored record: seed, names and every action.
func (s *Service) Record(ctx context.Context, id string) (database.Record, error) {
	return s.store.Get(ctx, id)
}

// Hand returns one seat's cards.
func (s *Service) Hand(ctx context.Context, id string, seat shared.Seat) ([]shared.Card, error) {
	lg, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	lg.mu.Lock()
	defer lg.mu.Unlock()
	return lg.game.Hand(seat), nil
}

// List summarizes every stored game.
func (s *Service) List(ctx context.Context) ([]database.Summary, error) {
	return s.store.List(ctx)
}

// ByPlayer summarizes the games where some seat carries name.
func (s *Service) ByPlayer(ctx context.Context, name string) ([]database.Summary, error) {
	return s.store.ByPlayer(ctx, name)
}

// Act applies action for seat, then lets bot seats respond.
func (s *Service) Act(ctx context.Context, id string, seat shared.Seat, action game.Action) (game.Outcome, error) {
	lg, err := s.load(ctx, id)
	if err != nil {
		return game.Outcome{}, err
	}
	lg.mu.Lock()
	defer lg.mu.Unlock()

	out, err := s.apply(ctx, lg, seat, action)
	if err != nil {
		return game.Outcome{}, err
	}
	if err := s.runBots(ctx, lg); err != nil {
		s.logger.Error("bot failed", "game", id, "err", err)
	}
	return out, nil
}

// apply runs one action on a locked live game, persists it and publishes
// the new state.
func (s *Service) apply(ctx context.Context, lg *liveGame, seat shared.Seat, action game.Action) (game.Outcome, error) {
	id := lg.rec.ID
	out, err := lg.game.Act(seat, action)
	if err != nil {
		s.logger.Debug("action rejected", "game", id, "seat", seat, "action", action.Type(), "err", err)
		return game.Outcome{}, err
	}
	if err := s.store.Append(ctx, id, game.Entry{Seat: seat, Action: action}); err != nil {
		s.forget(id)
		return game.Outcome{}, fmt.Errorf("save action: %w", err)
	}
	s.logger.Debug("action accepted", "game", id, "seat", seat, "action", action.Type())

	if out.RoundOver {
		s.logger.Info("round over", "game", id, "delta", out.Delta, "scores", lg.game.Scores())
		s.publish(id, protocol.TypeRoundOver, protocol.RoundOverPayload{
			GameID: id,
			Delta:  out.Delta,
			Scores: lg.game.Scores(),
		})
	}
	s.publish(id, protocol.TypeState, s.state(lg))
	return out, nil
}

func (s *Service) publish(id, msgType string, payload any) {
	if s.pub == nil {
		return
	}
	msg, err := protocol.NewMessage(msgType, payload)
	if err != nil {
		s.logger.Error("encode message", "game", id, "type", msgType, "err", err)
		return
	}
	s.pub.Publish(id, msg)
}

// runBots lets bot seats act until a human seat is to move.
func (s *Service) runBots(ctx context.Context, lg *liveGame) error {
	for i := 0; i < botStepLimit; i++ {
		seat := lg.game.CurrentPlayer()
		if !lg.rec.Bots[seat] {
			return nil
		}
		if err := s.botStep(ctx, lg, seat); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) botStep(ctx context.Context, lg *liveGame, seat shared.Seat) error {
	action, err := s.pilot.Choose(lg.rec.Seed, lg.game.Log(), seat)
	if err != nil {
		return fmt.Errorf("bot %s: %w", seat, err)
	}
	_, err = s.apply(ctx, lg, seat, action)
	return err
}

// Suggest returns the action the bot would take for seat, without playing it.
func (s *Service) Suggest(ctx context.Context, id string, seat shared.Seat) (game.Action, error) {
	lg, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	lg.mu.Lock()
	seed, entries := lg.rec.Seed, lg.game.Log()
	lg.mu.Unlock()
	return s.pilot.Choose(seed, entries, seat)
}

// TriggerBot makes the bot take the current player's turn once, whether or
// not the seat is marked as a bot.
func (s *Service) TriggerBot(ctx context.Context, id string) (protocol.StatePayload, error) {
	lg, err := s.load(ctx, id)
	if err != nil {
		return protocol.StatePayload{}, err
	}
	lg.mu.Lock()
	defer lg.mu.Unlock()

	if err := s.botStep(ctx, lg, lg.game.CurrentPlayer()); err != nil {
		return protocol.StatePayload{}, err
	}
	if err := s.runBots(ctx, lg); err != nil {
		s.logger.Error("bot failed", "game", id, "err", err)
	}
	return s.state(lg), nil
}

// SetName names a seat.
func (s *Service) SetName(ctx context.Context, id string, seat shared.Seat, name string) error {
	lg, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	lg.mu.Lock()
	defer lg.mu.Unlock()
	if err := s.store.SetName(ctx, id, seat, name); err != nil {
		return err
	}
	lg.rec.Names[seat] = name
	s.publish(id, protocol.TypeState, s.state(lg))
	return nil
}

// SetBot hands a seat to the bot or back to a person. A seat handed to the
// bot on its turn acts immediately.
func (s *Service) SetBot(ctx context.Context, id string, seat shared.Seat, enabled bool) (protocol.StatePayload, error) {
	lg, err := s.load(ctx, id)
	if err != nil {
		return protocol.StatePayload{}, err
	}
	lg.mu.Lock()
	defer lg.mu.Unlock()
	if err := s.store.SetBot(ctx, id, seat, enabled); err != nil {
		return protocol.StatePayload{}, err
	}
	lg.rec.Bots[seat] = enabled
	s.publish(id, protocol.TypeState, s.state(lg))
	if err := s.runBots(ctx, lg); err != nil {
		return protocol.StatePayload{}, err
	}
	return s.state(lg), nil
}

// IsNotFound reports whether err means the game does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, database.ErrNotFound)
}

// Command advisor replays a saved game and prints the move the bot would make.
//
//	advisor --record game.json [--seat B] [--trials 30000]
//
// The record is the JSON served by GET /game/:id/full.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"pinochle-game/internal/bot"
	"pinochle-game/internal/database"
	"pinochle-game/internal/game"
	"pinochle-game/internal/logger"
	"pinochle-game/internal/shared"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	redSuit   = lipgloss.Color("#D70000")
	blackSuit = lipgloss.Color("#303030")
	pickStyle = cardStyle.BorderForeground(lipgloss.Color("#00AF00")).Bold(true)
	header    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5F87FF"))
)

func main() {
	recordPath := pflag.StringP("record", "r", "", "game record JSON (GET /game/:id/full)")
	seatFlag := pflag.StringP("seat", "s", "", "seat to advise, defaults to the seat to act")
	trials := pflag.IntP("trials", "t", bot.DefaultTrials, "sampled deals per decision")
	workers := pflag.IntP("workers", "w", 0, "goroutines sharing the trials, 0 for GOMAXPROCS")
	seed := pflag.Uint64("seed", 0, "sampling seed, 0 for random")
	level := pflag.String("log-level", "warn", "log level")
	pflag.Parse()

	l := logger.New(*level)
	if *recordPath == "" {
		pflag.Usage()
		os.Exit(2)
	}

	rec, err := readRecord(*recordPath)
	if err != nil {
		l.Fatal("read record", "path", *recordPath, "err", err)
	}
	pilot := &bot.Autopilot{Planner: &bot.Planner{Trials: *trials, Workers: *workers, Seed: *seed, Logger: l}}

	out, err := advise(rec, *seatFlag, pilot, l)
	if err != nil {
		l.Fatal("advise", "err", err)
	}
	fmt.Println(out)
}

func readRecord(path string) (database.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return database.Record{}, err
	}
	var rec database.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return database.Record{}, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}

// advise replays rec, asks the autopilot for seatName's move and renders the
// seat's hand with the chosen card highlighted.
func advise(rec database.Record, seatName string, pilot *bot.Autopilot, l *log.Logger) (string, error) {
	g, err := game.Replay(rec.Seed, rec.Actions)
	if err != nil {
		return "", err
	}
	seat := g.CurrentPlayer()
	if seatName != "" {
		if seat, err = shared.ParseSeat(seatName); err != nil {
			return "", err
		}
	}
	l.Debug("replayed", "actions", len(rec.Actions), "phase", g.Phase().Name(), "seat", seat)

	action, err := pilot.Choose(rec.Seed, rec.Actions, seat)
	if err != nil {
		return "", err
	}
	hand := g.Hand(seat)

	var b strings.Builder
	b.WriteString(header.Render(fmt.Sprintf("Seat %s  phase %s  scores %d / %d",
		seat, g.Phase().Name(), g.Scores()[shared.TeamAC], g.Scores()[shared.TeamBD])))
	b.WriteString("\n")
	b.WriteString(renderHand(hand, picked(action)))
	b.WriteString("\n")
	b.WriteString(describe(action, hand))
	return b.String(), nil
}

// picked returns the hand indices an action uses.
func picked(a game.Action) map[int]bool {
	out := map[int]bool{}
	switch a := a.(type) {
	case game.PlayCard:
		out[a.Index] = true
	case game.Pass:
		for _, i := range a.Indices {
			out[i] = true
		}
	case game.ShowPoints:
		for _, i := range a.Indices {
			out[i] = true
		}
	}
	return out
}

func renderHand(hand []shared.Card, pick map[int]bool) string {
	cells := make([]string, len(hand))
	for i, c := range hand {
		style := cardStyle
		if pick[i] {
			style = pickStyle
		}
		color := blackSuit
		if c.Suit == shared.Diamonds || c.Suit == shared.Hearts {
			color = redSuit
		}
		cells[i] = style.Foreground(color).Render(c.String())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func describe(a game.Action, hand []shared.Card) string {
	switch a := a.(type) {
	case game.Bid:
		return fmt.Sprintf("bid %d", a.Amount)
	case game.DeclareSuit:
		return fmt.Sprintf("declare %s trump", a.Suit)
	case game.Pass:
		return "pass " + cardList(hand, a.Indices)
	case game.ShowPoints:
		return "show " + cardList(hand, a.Indices)
	case game.PlayCard:
		return "play " + hand[a.Index].String()
	}
	return a.Type()
}

func cardList(hand []shared.Card, indices []int) string {
	names := make([]string, len(indices))
	for i, idx := range indices {
		names[i] = hand[idx].String()
	}
	if len(names) == 0 {
		return "nothing"
	}
	return strings.Join(names, " ")
}

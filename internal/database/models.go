package database

import (
	"encoding/hex"
	"fmt"
	"time"

	"pinochle-game/internal/game"
	"pinochle-game/internal/shared"
)

// Record is everything needed to rebuild a game: the seed it was dealt
// from and the accepted actions in order. Seat names and bot seats are
// presentation data and never affect replay.
type Record struct {
	ID        string                  `json:"id"`
	Seed      [32]byte                `json:"seed"`
	Names     [shared.NumSeats]string `json:"names"`
	Bots      [shared.NumSeats]bool   `json:"bots"`
	Actions   []game.Entry            `json:"actions"`
	CreatedAt time.Time               `json:"created_at"`
}

// Summary is a Record without its action log.
type Summary struct {
	ID        string                  `json:"id"`
	Names     [shared.NumSeats]string `json:"names"`
	Actions   int                     `json:"actions"`
	CreatedAt time.Time               `json:"created_at"`
}

// Summary drops the action log.
func (r Record) Summary() Summary {
	return Summary{ID: r.ID, Names: r.Names, Actions: len(r.Actions), CreatedAt: r.CreatedAt}
}

// HasPlayer reports whether any seat is named name.
func (r Record) HasPlayer(name string) bool {
	for _, n := range r.Names {
		if n != "" && n == name {
			return true
		}
	}
	return false
}

func encodeSeed(seed [32]byte) string {
	return hex.EncodeToString(seed[:])
}

func decodeSeed(s string) ([32]byte, error) {
	var seed [32]byte
	b, err := hex.DecodeString(s)
	if err != nil {
		return seed, fmt.Errorf("decode seed: %w", err)
	}
	if len(b) != len(seed) {
		return seed, fmt.Errorf("decode seed: want %d bytes, got %d", len(seed), len(b))
	}
	copy(seed[:], b)
	return seed, nil
}

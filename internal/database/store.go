package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"pinochle-game/internal/game"
	"pinochle-game/internal/shared"
)

var (
	ErrNotFound = errors.New("game not found")
	ErrExists   = errors.New("game already exists")
)

// Store persists game records. Implementations are safe for concurrent use;
// ordering of Append calls for one game is the caller's job.
type Store interface {
	Create(ctx context.Context, rec Record) error
	Get(ctx context.Context, id string) (Record, error)
	Append(ctx context.Context, id string, entry game.Entry) error
	SetName(ctx context.Context, id string, seat shared.Seat, name string) error
	SetBot(ctx context.Context, id string, seat shared.Seat, enabled bool) error
	List(ctx context.Context) ([]Summary, error)
	ByPlayer(ctx context.Context, name string) ([]Summary, error)
	Close() error
}

// Options selects and configures a Store.
type Options struct {
	Driver        string // memory, sqlite3, pgx or redis
	DSN           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Open returns the store named by opts.Driver.
func Open(ctx context.Context, opts Options, logger *log.Logger) (Store, error) {
	switch opts.Driver {
	case "", "memory":
		return NewMemory(), nil
	case "sqlite3", "pgx":
		s, err := OpenSQL(ctx, opts.Driver, opts.DSN, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect redis %s: %w", opts.RedisAddr, err)
		}
		return NewRedis(rdb), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
}

func byPlayer(all []Record, name string) []Summary {
	out := []Summary{}
	for _, r := range all {
		if r.HasPlayer(name) {
			out = append(out, r.Summary())
		}
	}
	return out
}

package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"pinochle-game/internal/game"
	"pinochle-game/internal/shared"
)

// Redis stores records with go-redis.
//
// key layout:
//
//	hash: pinochle:game:{id}          -> seed, created_at, name:A..D, bot:A..D
//	list: pinochle:game:{id}:actions  -> entry JSON, in order
//	zset: pinochle:games              -> id scored by creation time
type Redis struct {
	rdb *redis.Client
}

func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb}
}

const gamesIndexKey = "pinochle:games"

func gameKey(id string) string {
	return fmt.Sprintf("pinochle:game:%s", id)
}

func actionsKey(id string) string {
	return fmt.Sprintf("pinochle:game:%s:actions", id)
}

func nameField(seat shared.Seat) string { return "name:" + seat.String() }
func botField(seat shared.Seat) string  { return "bot:" + seat.String() }

// KEYS[1] = game hash, KEYS[2] = actions list, KEYS[3] = index
// ARGV[1] = id, ARGV[2] = score, ARGV[3] = n, then n hash field/value
// strings, then the entries
var createScript = redis.NewScript(`
	if redis.call("EXISTS", KEYS[1]) == 1 then
		return 0
	end
	local n = tonumber(ARGV[3])
	redis.call("DEL", KEYS[2])
	redis.call("HSET", KEYS[1], unpack(ARGV, 4, 3 + n))
	for i = 4 + n, #ARGV do
		redis.call("RPUSH", KEYS[2], ARGV[i])
	end
	redis.call("ZADD", KEYS[3], ARGV[2], ARGV[1])
	return 1
`)

// KEYS[1] = game hash, KEYS[2] = actions list, ARGV[1] = entry
var appendScript = redis.NewScript(`
	if redis.call("EXISTS", KEYS[1]) == 0 then
		return 0
	end
	redis.call("RPUSH", KEYS[2], ARGV[1])
	return 1
`)

// KEYS[1] = game hash, ARGV[1] = field, ARGV[2] = value
var setFieldScript = redis.NewScript(`
	if redis.call("EXISTS", KEYS[1]) == 0 then
		return 0
	end
	redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
	return 1
`)

func (r *Redis) Create(ctx context.Context, rec Record) error {
	args := []any{
		rec.ID,
		strconv.FormatInt(rec.CreatedAt.UnixMilli(), 10),
		2 * (2 + 2*shared.NumSeats),
		"seed", encodeSeed(rec.Seed),
		"created_at", rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	for _, seat := range shared.Seats {
		args = append(args, nameField(seat), rec.Names[seat], botField(seat), strconv.FormatBool(rec.Bots[seat]))
	}
	for _, e := range rec.Actions {
		data, err := e.MarshalJSON()
		if err != nil {
			return err
		}
		args = append(args, data)
	}

	keys := []string{gameKey(rec.ID), actionsKey(rec.ID), gamesIndexKey}
	n, err := createScript.Run(ctx, r.rdb, keys, args...).Int()
	if err != nil {
		return fmt.Errorf("create game %s: %w", rec.ID, err)
	}
	if n == 0 {
		return ErrExists
	}
	return nil
}

func (r *Redis) Get(ctx context.Context, id string) (Record, error) {
	p := r.rdb.Pipeline()
	hash := p.HGetAll(ctx, gameKey(id))
	actions := p.LRange(ctx, actionsKey(id), 0, -1)
	if _, err := p.Exec(ctx); err != nil {
		return Record{}, fmt.Errorf("load game %s: %w", id, err)
	}

	rec, err := decodeHash(id, hash.Val())
	if err != nil {
		return Record{}, err
	}
	rec.Actions = make([]game.Entry, 0, len(actions.Val()))
	for i, raw := range actions.Val() {
		var e game.Entry
		if err := e.UnmarshalJSON([]byte(raw)); err != nil {
			return Record{}, fmt.Errorf("load action %d of %s: %w", i, id, err)
		}
		rec.Actions = append(rec.Actions, e)
	}
	return rec, nil
}

func decodeHash(id string, h map[string]string) (Record, error) {
	if len(h) == 0 {
		return Record{}, ErrNotFound
	}
	rec := Record{ID: id}
	var err error
	if rec.Seed, err = decodeSeed(h["seed"]); err != nil {
		return Record{}, fmt.Errorf("load game %s: %w", id, err)
	}
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, h["created_at"]); err != nil {
		return Record{}, fmt.Errorf("load game %s: %w", id, err)
	}
	for _, seat := range shared.Seats {
		rec.Names[seat] = h[nameField(seat)]
		rec.Bots[seat] = h[botField(seat)] == "true"
	}
	return rec, nil
}

func (r *Redis) Append(ctx context.Context, id string, entry game.Entry) error {
	data, err := entry.MarshalJSON()
	if err != nil {
		return err
	}
	n, err := appendScript.Run(ctx, r.rdb, []string{gameKey(id), actionsKey(id)}, data).Int()
	if err != nil {
		return fmt.Errorf("append to %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Redis) SetName(ctx context.Context, id string, seat shared.Seat, name string) error {
	return r.setField(ctx, id, nameField(seat), name)
}

func (r *Redis) SetBot(ctx context.Context, id string, seat shared.Seat, enabled bool) error {
	return r.setField(ctx, id, botField(seat), strconv.FormatBool(enabled))
}

func (r *Redis) setField(ctx context.Context, id, field, value string) error {
	n, err := setFieldScript.Run(ctx, r.rdb, []string{gameKey(id)}, field, value).Int()
	if err != nil {
		return fmt.Errorf("update game %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Redis) List(ctx context.Context) ([]Summary, error) {
	return r.summaries(ctx, func(Record) bool { return true })
}

func (r *Redis) ByPlayer(ctx context.Context, name string) ([]Summary, error) {
	return r.summaries(ctx, func(rec Record) bool { return rec.HasPlayer(name) })
}

func (r *Redis) summaries(ctx context.Context, keep func(Record) bool) ([]Summary, error) {
	ids, err := r.rdb.ZRange(ctx, gamesIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	p := r.rdb.Pipeline()
	hashes := make([]*redis.MapStringStringCmd, len(ids))
	lens := make([]*redis.IntCmd, len(ids))
	for i, id := range ids {
		hashes[i] = p.HGetAll(ctx, gameKey(id))
		lens[i] = p.LLen(ctx, actionsKey(id))
	}
	if len(ids) > 0 {
		if _, err := p.Exec(ctx); err != nil {
			return nil, fmt.Errorf("list games: %w", err)
		}
	}

	out := []Summary{}
	for i, id := range ids {
		rec, err := decodeHash(id, hashes[i].Val())
		if err != nil {
			continue
		}
		if keep(rec) {
			sum := rec.Summary()
			sum.Actions = int(lens[i].Val())
			out = append(out, sum)
		}
	}
	sortSummaries(out)
	return out, nil
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}

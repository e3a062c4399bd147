package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/joho/godotenv/autoload"
	_ "github.com/mattn/go-sqlite3"

	"pinochle-game/internal/game"
	"pinochle-game/internal/shared"
)

const (
	gamesTable   = "pinochle_games"
	actionsTable = "pinochle_actions"
)

// SQL stores records in two tables, one row per game and one row per
// accepted action. It runs on sqlite3 and on postgres through pgx.
type SQL struct {
	db     *sql.DB
	m      *sync.Mutex
	driver string
	logger *log.Logger
}

// OpenSQL opens dsn with driver ("sqlite3" or "pgx") and creates the tables
// if they are missing.
func OpenSQL(ctx context.Context, driver, dsn string, logger *log.Logger) (*SQL, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == "sqlite3" {
		// a second connection to ":memory:" would see an empty database
		db.SetMaxOpenConns(1)
	}
	s := &SQL{db: db, m: &sync.Mutex{}, driver: driver, logger: logger}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("sql store ready", "driver", driver)
	return s, nil
}

func (s *SQL) migrate(ctx context.Context) error {
	stmts := []string{
		`create table if not exists ` + gamesTable + ` (
			id text not null primary key,
			seed text not null,
			names text not null,
			bots text not null,
			created_at text not null
		)`,
		`create table if not exists ` + actionsTable + ` (
			game_id text not null,
			seq integer not null,
			seat text not null,
			action text not null,
			primary key (game_id, seq)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *SQL) rebind(query string) string {
	if s.driver != "pgx" {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (s *SQL) Close() error {
	return s.db.Close()
}

func (s *SQL) Create(ctx context.Context, rec Record) error {
	s.m.Lock()
	defer s.m.Unlock()

	names, err := json.Marshal(rec.Names)
	if err != nil {
		return err
	}
	bots, err := json.Marshal(rec.Bots)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, s.rebind("SELECT count(*) FROM "+gamesTable+" WHERE id = ?"), rec.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("create game %s: %w", rec.ID, err)
	}
	if exists > 0 {
		return ErrExists
	}

	_, err = tx.ExecContext(ctx, s.rebind("INSERT INTO "+gamesTable+
		" (id, seed, names, bots, created_at) VALUES (?, ?, ?, ?, ?)"),
		rec.ID,
		encodeSeed(rec.Seed),
		string(names),
		string(bots),
		rec.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("create game %s: %w", rec.ID, err)
	}
	for i, e := range rec.Actions {
		if err := s.insertAction(ctx, tx, rec.ID, i, e); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQL) insertAction(ctx context.Context, tx *sql.Tx, id string, seq int, e game.Entry) error {
	action, err := game.MarshalAction(e.Action)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, s.rebind("INSERT INTO "+actionsTable+
		" (game_id, seq, seat, action) VALUES (?, ?, ?, ?)"),
		id, seq, e.Seat.String(), string(action))
	if err != nil {
		return fmt.Errorf("append action %d to %s: %w", seq, id, err)
	}
	return nil
}

func (s *SQL) Get(ctx context.Context, id string) (Record, error) {
	s.m.Lock()
	defer s.m.Unlock()

	rec, err := s.getGame(ctx, id)
	if err != nil {
		return Record{}, err
	}

	rows, err := s.db.QueryContext(ctx, s.rebind("SELECT seat, action FROM "+actionsTable+
		" WHERE game_id = ? ORDER BY seq"), id)
	if err != nil {
		return Record{}, fmt.Errorf("load actions of %s: %w", id, err)
	}
	defer rows.Close()

	rec.Actions = []game.Entry{}
	for rows.Next() {
		var seat, action string
		if err := rows.Scan(&seat, &action); err != nil {
			return Record{}, err
		}
		e, err := decodeEntry(seat, action)
		if err != nil {
			return Record{}, fmt.Errorf("load actions of %s: %w", id, err)
		}
		rec.Actions = append(rec.Actions, e)
	}
	return rec, rows.Err()
}

func (s *SQL) getGame(ctx context.Context, id string) (Record, error) {
	var seed, names, bots, created string
	err := s.db.QueryRowContext(ctx, s.rebind("SELECT seed, names, bots, created_at FROM "+gamesTable+
		" WHERE id = ?"), id).Scan(&seed, &names, &bots, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("load game %s: %w", id, err)
	}
	return decodeGame(id, seed, names, bots, created)
}

func (s *SQL) Append(ctx context.Context, id string, entry game.Entry) error {
	s.m.Lock()
	defer s.m.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var games, seq int
	err = tx.QueryRowContext(ctx, s.rebind("SELECT count(*) FROM "+gamesTable+" WHERE id = ?"), id).Scan(&games)
	if err != nil {
		return fmt.Errorf("append to %s: %w", id, err)
	}
	if games == 0 {
		return ErrNotFound
	}
	err = tx.QueryRowContext(ctx, s.rebind("SELECT count(*) FROM "+actionsTable+" WHERE game_id = ?"), id).Scan(&seq)
	if err != nil {
		return fmt.Errorf("append to %s: %w", id, err)
	}
	if err := s.insertAction(ctx, tx, id, seq, entry); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQL) SetName(ctx context.Context, id string, seat shared.Seat, name string) error {
	return s.update(ctx, id, func(rec *Record) { rec.Names[seat] = name })
}

func (s *SQL) SetBot(ctx context.Context, id string, seat shared.Seat, enabled bool) error {
	return s.update(ctx, id, func(rec *Record) { rec.Bots[seat] = enabled })
}

func (s *SQL) update(ctx context.Context, id string, change func(*Record)) error {
	s.m.Lock()
	defer s.m.Unlock()

	rec, err := s.getGame(ctx, id)
	if err != nil {
		return err
	}
	change(&rec)
	names, err := json.Marshal(rec.Names)
	if err != nil {
		return err
	}
	bots, err := json.Marshal(rec.Bots)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, s.rebind("UPDATE "+gamesTable+" SET names = ?, bots = ? WHERE id = ?"),
		string(names), string(bots), id)
	if err != nil {
		return fmt.Errorf("update game %s: %w", id, err)
	}
	return nil
}

func (s *SQL) List(ctx context.Context) ([]Summary, error) {
	s.m.Lock()
	defer s.m.Unlock()
	return s.summaries(ctx, func(Record) bool { return true })
}

func (s *SQL) ByPlayer(ctx context.Context, name string) ([]Summary, error) {
	s.m.Lock()
	defer s.m.Unlock()
	return s.summaries(ctx, func(r Record) bool { return r.HasPlayer(name) })
}

func (s *SQL) summaries(ctx context.Context, keep func(Record) bool) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT g.id, g.seed, g.names, g.bots, g.created_at, "+
		"(SELECT count(*) FROM "+actionsTable+" a WHERE a.game_id = g.id) "+
		"FROM "+gamesTable+" g")
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var id, seed, names, bots, created string
		var actions int
		if err := rows.Scan(&id, &seed, &names, &bots, &created, &actions); err != nil {
			return nil, err
		}
		rec, err := decodeGame(id, seed, names, bots, created)
		if err != nil {
			s.logger.Warn("skipping unreadable game", "game", id, "err", err)
			continue
		}
		if keep(rec) {
			sum := rec.Summary()
			sum.Actions = actions
			out = append(out, sum)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortSummaries(out)
	return out, nil
}

func decodeGame(id, seed, names, bots, created string) (Record, error) {
	rec := Record{ID: id}
	var err error
	if rec.Seed, err = decodeSeed(seed); err != nil {
		return Record{}, err
	}
	if err := json.Unmarshal([]byte(names), &rec.Names); err != nil {
		return Record{}, fmt.Errorf("decode names: %w", err)
	}
	if err := json.Unmarshal([]byte(bots), &rec.Bots); err != nil {
		return Record{}, fmt.Errorf("decode bots: %w", err)
	}
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return Record{}, fmt.Errorf("decode created_at: %w", err)
	}
	return rec, nil
}

func decodeEntry(seat, action string) (game.Entry, error) {
	s, err := shared.ParseSeat(seat)
	if err != nil {
		return game.Entry{}, err
	}
	a, err := game.UnmarshalAction([]byte(action))
	if err != nil {
		return game.Entry{}, err
	}
	return game.Entry{Seat: s, Action: a}, nil
}

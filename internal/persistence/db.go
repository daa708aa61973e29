// Package persistence stores games in SQLite: the serialized snapshots and
// the command log that replays them.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/hexsim/internal/engine"
	"github.com/talgya/hexsim/internal/game"
)

// ErrNotFound is returned when a game or snapshot does not exist.
var ErrNotFound = errors.New("not found")

// DB wraps a SQLite connection for game storage.
type DB struct {
	conn *sqlx.DB
}

// Game is a stored game's header row.
type Game struct {
	ID        string `db:"id"`
	Seed      int64  `db:"seed"`
	Players   int    `db:"players"`
	Radius    int    `db:"radius"`
	CreatedAt string `db:"created_at"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS games (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		players INTEGER NOT NULL,
		radius INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS snapshots (
		game_id TEXT NOT NULL REFERENCES games(id),
		sequence INTEGER NOT NULL,
		turn INTEGER NOT NULL,
		phase TEXT NOT NULL,
		data TEXT NOT NULL,
		PRIMARY KEY (game_id, sequence)
	);

	CREATE TABLE IF NOT EXISTS commands (
		game_id TEXT NOT NULL REFERENCES games(id),
		position INTEGER NOT NULL,
		type TEXT NOT NULL,
		actor TEXT NOT NULL,
		envelope TEXT NOT NULL,
		PRIMARY KEY (game_id, position)
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// execer is satisfied by both *sqlx.DB and *sqlx.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// SaveGame records the game's header row. Saving an existing game is a no-op.
func (db *DB) SaveGame(s *game.State) error {
	return saveGame(db.conn, s)
}

func saveGame(x execer, s *game.State) error {
	_, err := x.Exec(
		"INSERT OR IGNORE INTO games (id, seed, players, radius, created_at) VALUES (?, ?, ?, ?, ?)",
		s.ID, s.Seed, len(s.Players), s.Map.Radius, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert game %s: %w", s.ID, err)
	}
	return nil
}

// Games lists stored games, newest first.
func (db *DB) Games() ([]Game, error) {
	var games []Game
	err := db.conn.Select(&games, "SELECT id, seed, players, radius, created_at FROM games ORDER BY created_at DESC, id")
	return games, err
}

// SaveSnapshot stores s under its sequence number, replacing any snapshot
// already there.
func (db *DB) SaveSnapshot(s *game.State) error {
	return saveSnapshot(db.conn, s)
}

func saveSnapshot(x execer, s *game.State) error {
	data, err := game.Marshal(s)
	if err != nil {
		return err
	}
	_, err = x.Exec(
		"INSERT OR REPLACE INTO snapshots (game_id, sequence, turn, phase, data) VALUES (?, ?, ?, ?, ?)",
		s.ID, s.Sequence, s.Turn, s.Phase.String(), string(data),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot %s@%d: %w", s.ID, s.Sequence, err)
	}
	return nil
}

// Snapshot loads the snapshot taken after sequence commands.
func (db *DB) Snapshot(gameID string, sequence int64) (*game.State, error) {
	var data string
	err := db.conn.Get(&data, "SELECT data FROM snapshots WHERE game_id = ? AND sequence = ?", gameID, sequence)
	return decodeSnapshot(gameID, data, err)
}

// LatestSnapshot loads the game's most recent snapshot.
func (db *DB) LatestSnapshot(gameID string) (*game.State, error) {
	var data string
	err := db.conn.Get(&data, "SELECT data FROM snapshots WHERE game_id = ? ORDER BY sequence DESC LIMIT 1", gameID)
	return decodeSnapshot(gameID, data, err)
}

func decodeSnapshot(gameID, data string, err error) (*game.State, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot for %s: %w", gameID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot for %s: %w", gameID, err)
	}
	return game.Unmarshal([]byte(data))
}

// AppendCommand stores cmd at position in the game's command log.
func (db *DB) AppendCommand(gameID string, position int, cmd game.Command) error {
	return appendCommand(db.conn, gameID, position, cmd)
}

func appendCommand(x execer, gameID string, position int, cmd game.Command) error {
	env, err := game.MarshalCommand(cmd)
	if err != nil {
		return err
	}
	_, err = x.Exec(
		"INSERT INTO commands (game_id, position, type, actor, envelope) VALUES (?, ?, ?, ?, ?)",
		gameID, position, string(cmd.Type()), string(cmd.Actor()), string(env),
	)
	if err != nil {
		return fmt.Errorf("insert command %s#%d: %w", gameID, position, err)
	}
	return nil
}

// Commands returns the game's command log in order.
func (db *DB) Commands(gameID string) ([]game.Command, error) {
	var envs []string
	if err := db.conn.Select(&envs, "SELECT envelope FROM commands WHERE game_id = ? ORDER BY position", gameID); err != nil {
		return nil, fmt.Errorf("load commands for %s: %w", gameID, err)
	}
	cmds := make([]game.Command, 0, len(envs))
	for i, env := range envs {
		cmd, err := game.UnmarshalCommand([]byte(env))
		if err != nil {
			return nil, fmt.Errorf("command %d: %w", i, err)
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

// SaveMeta stores a key-value pair.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("meta %q: %w", key, ErrNotFound)
	}
	return value, err
}

// SaveSession performs a full save of a session: the header, the initial
// and current snapshots and the whole command log, in one transaction.
// Snapshots and commands from an earlier save of the same game are replaced.
func (db *DB) SaveSession(e *engine.Engine) error {
	initial, current := e.Initial(), e.State()
	history := e.History()
	slog.Info("saving session", "game", current.ID, "commands", len(history), "turn", current.Turn)

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := saveGame(tx, initial); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM snapshots WHERE game_id = ?", current.ID); err != nil {
		return fmt.Errorf("clear snapshots: %w", err)
	}
	if err := saveSnapshot(tx, initial); err != nil {
		return err
	}
	if err := saveSnapshot(tx, current); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM commands WHERE game_id = ?", current.ID); err != nil {
		return fmt.Errorf("clear commands: %w", err)
	}
	for i, cmd := range history {
		if err := appendCommand(tx, current.ID, i, cmd); err != nil {
			return err
		}
	}
	if _, err := tx.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES ('last_game', ?)", current.ID); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("session saved", "game", current.ID)
	return nil
}

// LoadSession rebuilds a session from its initial snapshot and command log.
func (db *DB) LoadSession(gameID string) (*engine.Engine, error) {
	initial, err := db.Snapshot(gameID, 0)
	if err != nil {
		return nil, err
	}
	cmds, err := db.Commands(gameID)
	if err != nil {
		return nil, err
	}
	return engine.Restore(initial, cmds)
}

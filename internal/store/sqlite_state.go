package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"taskboard/internal/model"

	_ "modernc.org/sqlite"
)

const sqliteFileName = "taskboard.sqlite"

// SQLiteStore keeps the state tree and the event log in a single SQLite file under Dir.
type SQLiteStore struct {
	Dir string
}

func (s SQLiteStore) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s SQLiteStore) Path() string {
	return filepath.Join(filepath.Clean(s.Dir), sqliteFileName)
}

func (s SQLiteStore) open(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.Path())
	if err != nil {
		return nil, err
	}
	// WAL lets the CLI read while the board writes; busy_timeout avoids "database is locked".
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			seq INTEGER NOT NULL,
			state TEXT NOT NULL,
			priority TEXT NOT NULL,
			owner_id TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_seq ON tasks(seq);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_state ON tasks(state);`,
		`CREATE TABLE IF NOT EXISTS events (
			event_id TEXT PRIMARY KEY,
			actor_id TEXT NOT NULL,
			type TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			payload_json TEXT NOT NULL,
			issued_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_issued ON events(issued_at_unixms);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the state tree. A fresh directory yields an empty state.
func (s SQLiteStore) Load(ctx context.Context) (*State, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	out := emptyState()

	readMeta := func(k string) (string, error) {
		var v string
		err := db.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = ?`, k).Scan(&v)
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		if err != nil {
			return "", fmt.Errorf("read state_meta %q: %w", k, err)
		}
		return strings.TrimSpace(v), nil
	}
	v, err := readMeta("version")
	if err != nil {
		return nil, err
	}
	if v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			out.Version = n
		}
	}
	v, err = readMeta("user")
	if err != nil {
		return nil, err
	}
	if v != "" && v != "null" {
		var u model.UserProfile
		if err := json.Unmarshal([]byte(v), &u); err != nil {
			return nil, err
		}
		out.User = &u
	}

	tasks, err := readJSONRows[model.Task](ctx, db, `SELECT json FROM tasks ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	if tasks != nil {
		out.Tasks = tasks
	}
	out.normalize()
	return out, nil
}

// Save replaces the persisted state tree with st in a single transaction.
func (s SQLiteStore) Save(ctx context.Context, st *State) error {
	if st == nil {
		return ErrNilState
	}
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	version := st.Version
	if version == 0 {
		version = Version
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, "version", strconv.Itoa(version)); err != nil {
		return err
	}
	userJSON, err := json.Marshal(st.User)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, "user", string(userJSON)); err != nil {
		return err
	}

	// Replace-all: the state tree is the unit of persistence.
	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return err
	}
	for i, t := range st.Tasks {
		if t.AssignedUsers == nil {
			t.AssignedUsers = []string{}
		}
		raw, err := json.Marshal(t)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO tasks(id, seq, state, priority, owner_id, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?, ?)`,
			t.ID, i, string(t.State), string(t.Priority), strings.TrimSpace(t.OwnerID), string(raw), t.UpdatedAt.UTC().UnixMilli(),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func readJSONRows[T any](ctx context.Context, db *sql.DB, query string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var js string
		if err := rows.Scan(&js); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(js), &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// AppendEvent records one mutation in the event log.
func (s SQLiteStore) AppendEvent(ctx context.Context, actorID, typ, entityID string, payload any) error {
	typ = strings.TrimSpace(typ)
	if typ == "" {
		return errors.New("append event: missing type")
	}
	ev, err := newEvent(actorID, typ, entityID, payload)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(ev.Payload)
	if err != nil {
		return err
	}

	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, `INSERT INTO events(event_id, actor_id, type, entity_id, payload_json, issued_at_unixms) VALUES(?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.ActorID, ev.Type, ev.EntityID, string(raw), ev.TS.UnixMilli())
	return err
}

// ReadEvents returns the most recent events, oldest first. limit <= 0 means all.
func (s SQLiteStore) ReadEvents(ctx context.Context, limit int) ([]model.Event, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT event_id, actor_id, type, entity_id, payload_json, issued_at_unixms FROM events ORDER BY issued_at_unixms DESC, rowid DESC`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		var (
			ev      model.Event
			payload string
			issued  int64
		)
		if err := rows.Scan(&ev.ID, &ev.ActorID, &ev.Type, &ev.EntityID, &payload, &issued); err != nil {
			return nil, err
		}
		ev.TS = time.UnixMilli(issued).UTC()
		if payload != "" {
			var v any
			if err := json.Unmarshal([]byte(payload), &v); err == nil {
				ev.Payload = v
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	reverseEvents(out)
	return out, nil
}

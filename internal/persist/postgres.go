package persist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ent0n29/taskboard/internal/board"
)

// PostgresStore keeps the board in a shared database instead of a local
// file. Same contract as the embedded backend; selected by DATABASE_URL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, strings.TrimSpace(databaseURL))
	if err != nil {
		return nil, opErr("open", fmt.Errorf("connect postgres: %w", err))
	}
	s := &PostgresStore{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			priority TEXT NULL,
			due_date TIMESTAMPTZ NULL,
			created_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks (status);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks (created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return opErr("migrate", fmt.Errorf("init schema failed on %q: %w", stmt, err))
		}
	}

	var version int
	err := s.pool.QueryRow(ctx, `SELECT version FROM schema_version LIMIT 1`).Scan(&version)
	if err != nil {
		// No version row yet: stamp the current schema.
		if _, err := s.pool.Exec(ctx, `INSERT INTO schema_version(version) VALUES($1)`, schemaVersion); err != nil {
			return opErr("migrate", err)
		}
		return nil
	}
	if version > schemaVersion {
		return opErr("migrate", fmt.Errorf("database schema version %d is newer than supported %d", version, schemaVersion))
	}
	return nil
}

func (s *PostgresStore) SaveAll(ctx context.Context, tasks []board.Task) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return opErr("save", fmt.Errorf("begin tx: %w", err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM tasks`); err != nil {
		return opErr("save", fmt.Errorf("clear prior tasks: %w", err))
	}
	for _, t := range tasks {
		var priority *string
		if t.Priority != nil {
			p := string(*t.Priority)
			priority = &p
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO tasks (id, title, description, status, priority, due_date, created_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			t.ID, t.Title, t.Description, string(t.Status), priority, t.DueDate, t.CreatedAt,
		)
		if err != nil {
			return opErr("save", fmt.Errorf("insert task: %w", err))
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return opErr("save", fmt.Errorf("commit tx: %w", err))
	}
	return nil
}

func (s *PostgresStore) LoadAll(ctx context.Context) ([]board.Task, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, description, status, priority, due_date, created_at
		   FROM tasks ORDER BY created_at ASC`)
	if err != nil {
		return []board.Task{}, opErr("load", err)
	}
	defer rows.Close()

	out := make([]board.Task, 0, 16)
	for rows.Next() {
		var (
			t        board.Task
			status   string
			priority *string
			due      *time.Time
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &status, &priority, &due, &t.CreatedAt); err != nil {
			return []board.Task{}, opErr("load", fmt.Errorf("scan task: %w", err))
		}
		t.Status = board.Status(status)
		if priority != nil {
			p := board.Priority(*priority)
			t.Priority = &p
		}
		t.DueDate = due
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return []board.Task{}, opErr("load", fmt.Errorf("iterate task rows: %w", err))
	}
	return out, nil
}

func (s *PostgresStore) ClearAll(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM tasks`); err != nil {
		return opErr("clear", err)
	}
	return nil
}

func (s *PostgresStore) Mode() string { return "postgres" }

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

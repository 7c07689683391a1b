package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/agencydesk/agency-tickets/internal/repository"
)

// driverName defines the database/sql driver registered by modernc.org/sqlite.
const driverName = "sqlite"

// tsLayout is fixed width so lexical order in TEXT columns matches time order.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

const pragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// ulower is the Unicode-aware lower() used by search filters; the builtin
// LOWER only folds ASCII.
func init() {
	sqlite.MustRegisterDeterministicScalarFunction("ulower", 1, unicodeLower)
}

func unicodeLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements repository.Store over an embedded SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	return open(path + "?" + pragmas)
}

// OpenInMemory opens a private in-memory database.
func OpenInMemory() (*Store, error) {
	return open(":memory:?" + pragmas)
}

func open(dsn string) (*Store, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite serializes writers; one connection also keeps :memory: databases alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store := &Store{db: db}
	if err := store.Migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the schema when missing.
func (s *Store) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS agents (
			id TEXT PRIMARY KEY,
			surname TEXT NOT NULL,
			given_names TEXT NOT NULL,
			birth_year INTEGER NOT NULL,
			category TEXT NOT NULL CHECK (category IN ('transaction', 'advisory')),
			email TEXT NOT NULL UNIQUE,
			phone TEXT NOT NULL UNIQUE,
			registered_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tickets (
			id TEXT PRIMARY KEY,
			service_category TEXT NOT NULL,
			description TEXT NOT NULL,
			agent_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			FOREIGN KEY(agent_id) REFERENCES agents(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS status_events (
			agent_id TEXT NOT NULL,
			ticket_id TEXT NOT NULL,
			status TEXT NOT NULL CHECK (status IN ('pending', 'in_progress', 'done', 'cancelled')),
			occurred_at TEXT NOT NULL,
			PRIMARY KEY (agent_id, ticket_id, occurred_at),
			FOREIGN KEY(agent_id) REFERENCES agents(id),
			FOREIGN KEY(ticket_id) REFERENCES tickets(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tickets_agent ON tickets(agent_id);`,
		`CREATE INDEX IF NOT EXISTS idx_tickets_created ON tickets(created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_status_events_ticket_occurred ON status_events(ticket_id, occurred_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_status_events_agent_status ON status_events(agent_id, status);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

func newRepositories(db dbtx) repository.Repositories {
	return repository.Repositories{
		Agents:  &agentRepository{db: db},
		Tickets: &ticketRepository{db: db},
		Events:  &statusEventRepository{db: db},
	}
}

// Repositories returns repositories running outside any explicit transaction.
func (s *Store) Repositories() repository.Repositories {
	return newRepositories(s.db)
}

// WithTx runs fn inside one transaction.
func (s *Store) WithTx(ctx context.Context, fn func(repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := fn(newRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Ping verifies the database handle.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func ts(t time.Time) string {
	return t.UTC().Format(tsLayout)
}

func parseTS(v string) (time.Time, error) {
	t, err := time.Parse(tsLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", v, err)
	}
	return t.UTC(), nil
}

func mapNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}

func mapUniqueViolation(err error) error {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}
	msg := sqliteErr.Error()
	code := sqliteErr.Code()
	isUnique := code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		(code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(msg, "UNIQUE"))
	if !isUnique {
		return err
	}
	field := "unknown"
	switch {
	case strings.Contains(msg, "agents.email"):
		field = "email"
	case strings.Contains(msg, "agents.phone"):
		field = "phone"
	}
	return &repository.UniqueViolationError{Field: field, Err: err}
}

func likePattern(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + strings.ToLower(replacer.Replace(strings.TrimSpace(term))) + "%"
}

func rowsAffected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}

var _ repository.Store = (*Store)(nil)

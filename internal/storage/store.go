package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"chartapp/pkg/contracts/domain"
)

// Driver names as registered with database/sql
const (
	DriverModernc = "sqlite"
	DriverCgo     = "sqlite3"
)

// Schema creates the charts table
const Schema = `
CREATE TABLE IF NOT EXISTS charts (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL,
	config_json TEXT NOT NULL
);
`

var (
	ErrUnknownDriver = errors.New("sqlite driver not compiled in")
	ErrNotFound      = errors.New("chart not found")
)

type options struct {
	driver      string
	busyTimeout time.Duration
	mkdirAll    bool
	logger      *slog.Logger
}

// Option customises Open
type Option func(*options)

// WithDriver selects the database/sql driver. Default: "sqlite".
func WithDriver(name string) Option { return func(o *options) { o.driver = name } }

// WithBusyTimeout sets PRAGMA busy_timeout. Default: 5s.
func WithBusyTimeout(d time.Duration) Option { return func(o *options) { o.busyTimeout = d } }

// WithMkdirAll creates the parent directory of the database file
func WithMkdirAll() Option { return func(o *options) { o.mkdirAll = true } }

// WithLogger sets the store logger
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// Store is the chart definition repository
type Store struct {
	db     *sql.DB
	driver string
	logger *slog.Logger
}

// Open opens (and if needed creates) the database at path, applies the
// connection pragmas and the schema.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	o := options{
		driver:      DriverModernc,
		busyTimeout: 5 * time.Second,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if !slices.Contains(sql.Drivers(), o.driver) {
		return nil, fmt.Errorf("storage: %w: %q", ErrUnknownDriver, o.driver)
	}

	if o.mkdirAll && path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("storage: mkdir: %w", err)
		}
	}

	db, err := sql.Open(o.driver, path)
	if err != nil {
		return nil, fmt.Errorf("storage: open: %w", err)
	}
	// one connection keeps pragmas and in-memory databases consistent
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", o.busyTimeout.Milliseconds()),
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("storage: %s: %w", p, err)
		}
	}

	if _, err := db.ExecContext(ctx, Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: exec schema: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: ping: %w", err)
	}

	s := &Store{
		db:     db,
		driver: o.driver,
		logger: o.logger.With(slog.String("component", "chart_store")),
	}
	s.logger.Info("chart store opened",
		slog.String("driver", o.driver),
		slog.String("path", path))

	return s, nil
}

// InsertChart stores a chart definition and returns it with its new id.
// The config JSON is stored verbatim.
func (s *Store) InsertChart(ctx context.Context, name, configJSON string) (domain.ChartDefinition, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO charts (name, config_json) VALUES (?, ?)`, name, configJSON)
	if err != nil {
		return domain.ChartDefinition{}, fmt.Errorf("storage: insert chart: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.ChartDefinition{}, fmt.Errorf("storage: last insert id: %w", err)
	}

	s.logger.DebugContext(ctx, "chart inserted", slog.Int64("id", id), slog.String("name", name))
	return domain.ChartDefinition{ID: id, Name: name, ConfigJSON: configJSON}, nil
}

// GetChart loads one chart definition
func (s *Store) GetChart(ctx context.Context, id int64) (domain.ChartDefinition, error) {
	var def domain.ChartDefinition
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, config_json FROM charts WHERE id = ?`, id).
		Scan(&def.ID, &def.Name, &def.ConfigJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ChartDefinition{}, fmt.Errorf("storage: chart %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return domain.ChartDefinition{}, fmt.Errorf("storage: get chart: %w", err)
	}
	return def, nil
}

// ListCharts returns every chart definition ordered by id
func (s *Store) ListCharts(ctx context.Context) ([]domain.ChartDefinition, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, config_json FROM charts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("storage: list charts: %w", err)
	}
	defer rows.Close()

	defs := []domain.ChartDefinition{}
	for rows.Next() {
		var def domain.ChartDefinition
		if err := rows.Scan(&def.ID, &def.Name, &def.ConfigJSON); err != nil {
			return nil, fmt.Errorf("storage: scan chart: %w", err)
		}
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: iterate charts: %w", err)
	}
	return defs, nil
}

// CountCharts returns the number of stored chart definitions
func (s *Store) CountCharts(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM charts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("storage: count charts: %w", err)
	}
	return n, nil
}

// Ping checks the database connection
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Driver returns the database/sql driver in use
func (s *Store) Driver() string { return s.driver }

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

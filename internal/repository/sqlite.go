package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/fieldkit/internal/apperr"
	"github.com/starford/fieldkit/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS components (
	seq           INTEGER PRIMARY KEY AUTOINCREMENT,
	id            TEXT NOT NULL UNIQUE,
	name          TEXT NOT NULL,
	type          TEXT NOT NULL,
	created_at    DATETIME NOT NULL,
	tags          TEXT NOT NULL DEFAULT '[]',
	description   TEXT NOT NULL DEFAULT '',
	options       TEXT NOT NULL DEFAULT '',
	placeholder   TEXT NOT NULL DEFAULT '',
	default_value TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_components_name ON components(name);
`

const selectColumns = `id, name, type, created_at, tags, description, options, placeholder, default_value`

// SQLite stores definitions in a SQLite database. Insertion order is the
// autoincrement sequence, which Restore keeps for replaced records.
type SQLite struct {
	conn *sql.DB
	opts options
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
func OpenSQLite(path string, opts ...Option) (*SQLite, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("repository: open db: %w", err)
	}
	// One writer keeps create/update/delete atomic with respect to each other.
	conn.SetMaxOpenConns(1)
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("repository: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("repository: apply schema: %w", err)
	}
	return &SQLite{conn: conn, opts: o}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.conn.Close()
}

func (s *SQLite) List(ctx context.Context) ([]models.Component, error) {
	return s.query(ctx, `SELECT `+selectColumns+` FROM components ORDER BY seq`)
}

// FindByName pushes case-sensitive matching down to SQLite. SQLite folds
// case for ASCII only, so case-insensitive matching is done here instead.
func (s *SQLite) FindByName(ctx context.Context, query string) ([]models.Component, error) {
	m := s.opts.matcher
	if !m.CaseSensitive {
		all, err := s.List(ctx)
		if err != nil {
			return nil, err
		}
		return filter(all, m, query), nil
	}
	if m.Mode == MatchPrefix {
		return s.query(ctx, `SELECT `+selectColumns+` FROM components
			WHERE substr(name, 1, length(?1)) = ?1 ORDER BY seq`, query)
	}
	return s.query(ctx, `SELECT `+selectColumns+` FROM components
		WHERE instr(name, ?) > 0 ORDER BY seq`, query)
}

func (s *SQLite) Get(ctx context.Context, id string) (models.Component, error) {
	row := s.conn.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM components WHERE id = ?`, id)
	c, err := scanComponent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Component{}, fmt.Errorf("component %s: %w", id, apperr.ErrNotFound)
	}
	return c, err
}

func (s *SQLite) Create(ctx context.Context, f models.Fields) (string, error) {
	c := newComponent(s.opts, f)
	tagsJSON, _ := json.Marshal(c.Tags)
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO components (id, name, type, created_at, tags, description, options, placeholder, default_value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Name, c.Type, c.CreatedAt, string(tagsJSON), c.Description, c.Options, c.Placeholder, c.DefaultValue)
	if err != nil {
		return "", fmt.Errorf("repository: insert component: %w", err)
	}
	return c.ID, nil
}

func (s *SQLite) Update(ctx context.Context, id string, p models.Patch) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repository: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	row := tx.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM components WHERE id = ?`, id)
	current, err := scanComponent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("component %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return err
	}

	next := p.Apply(current)
	tagsJSON, _ := json.Marshal(next.Tags)
	_, err = tx.ExecContext(ctx, `
		UPDATE components SET
			name = ?, type = ?, tags = ?, description = ?,
			options = ?, placeholder = ?, default_value = ?
		WHERE id = ?
	`, next.Name, next.Type, string(tagsJSON), next.Description, next.Options, next.Placeholder, next.DefaultValue, id)
	if err != nil {
		return fmt.Errorf("repository: update component: %w", err)
	}
	return tx.Commit()
}

func (s *SQLite) Delete(ctx context.Context, id string) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM components WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("repository: delete component: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("repository: delete component: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("component %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

func (s *SQLite) Restore(ctx context.Context, records ...models.Component) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repository: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO components (id, name, type, created_at, tags, description, options, placeholder, default_value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name          = excluded.name,
			type          = excluded.type,
			created_at    = excluded.created_at,
			tags          = excluded.tags,
			description   = excluded.description,
			options       = excluded.options,
			placeholder   = excluded.placeholder,
			default_value = excluded.default_value
	`)
	if err != nil {
		return fmt.Errorf("repository: prepare restore: %w", err)
	}
	defer stmt.Close()

	for _, c := range records {
		if err := validateRestore(c); err != nil {
			return err
		}
		tagsJSON, _ := json.Marshal(models.NormalizeTags(c.Tags))
		if _, err := stmt.ExecContext(ctx, c.ID, c.Name, c.Type, c.CreatedAt.UTC(), string(tagsJSON),
			c.Description, c.Options, c.Placeholder, c.DefaultValue); err != nil {
			return fmt.Errorf("repository: restore %s: %w", c.ID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLite) query(ctx context.Context, q string, args ...any) ([]models.Component, error) {
	rows, err := s.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: query components: %w", err)
	}
	defer rows.Close()

	out := []models.Component{}
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanComponent(sc scanner) (models.Component, error) {
	var (
		c        models.Component
		tagsJSON string
	)
	err := sc.Scan(&c.ID, &c.Name, &c.Type, &c.CreatedAt, &tagsJSON,
		&c.Description, &c.Options, &c.Placeholder, &c.DefaultValue)
	if err != nil {
		return models.Component{}, err
	}
	if err := json.Unmarshal([]byte(tagsJSON), &c.Tags); err != nil {
		return models.Component{}, fmt.Errorf("repository: decode tags of %s: %w", c.ID, err)
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return c, nil
}

var _ Repository = (*SQLite)(nil)

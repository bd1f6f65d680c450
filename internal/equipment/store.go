package equipment

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"astrofiler/internal/faults"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

const itemColumns = "id, kind, name, detail"

// Store manages equipment persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the equipment database.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, faults.Wrap(faults.ErrConfiguration, "equipment", "open", "equipment database path is empty", nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create equipment db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d", ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// Add inserts a record, assigning an id when the item has none.
func (s *Store) Add(ctx context.Context, item Item) (Item, error) {
	kind, err := ParseKind(string(item.Kind))
	if err != nil {
		return Item{}, faults.Wrap(faults.ErrValidation, "equipment", "add", "", err)
	}
	item.Kind = kind
	item.Name = strings.TrimSpace(item.Name)
	item.Detail = strings.TrimSpace(item.Detail)
	if item.Name == "" {
		return Item{}, faults.Wrap(faults.ErrValidation, "equipment", "add", "name is required", nil)
	}
	if strings.TrimSpace(item.ID) == "" {
		item.ID = uuid.NewString()
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO equipment (id, kind, name, detail, created_at) VALUES (?, ?, ?, ?, ?)`,
		item.ID,
		string(item.Kind),
		item.Name,
		nullableString(item.Detail),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return Item{}, fmt.Errorf("insert equipment: %w", err)
	}
	return item, nil
}

// Get fetches a record by id. It returns nil when the id is unknown.
func (s *Store) Get(ctx context.Context, id string) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM equipment WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get equipment: %w", err)
	}
	return &item, nil
}

// List returns records of the given kinds, or all records when none are given.
func (s *Store) List(ctx context.Context, kinds ...Kind) ([]Item, error) {
	query := `SELECT ` + itemColumns + ` FROM equipment`
	args := make([]any, 0, len(kinds))
	if len(kinds) > 0 {
		placeholders := make([]string, len(kinds))
		for i, k := range kinds {
			placeholders[i] = "?"
			args = append(args, string(k))
		}
		query += ` WHERE kind IN (` + strings.Join(placeholders, ", ") + `)`
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortItems(items)
	return items, nil
}

// Remove deletes a record by id.
func (s *Store) Remove(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM equipment WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete equipment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete equipment: %w", err)
	}
	if affected == 0 {
		return faults.Wrap(faults.ErrNotFound, "equipment", "remove", fmt.Sprintf("no equipment with id %s", id), nil)
	}
	return nil
}

// Directory loads every record into an in-memory resolver.
func (s *Store) Directory(ctx context.Context) (*Directory, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return NewDirectory(items...), nil
}

func scanItem(scanner interface{ Scan(dest ...any) error }) (Item, error) {
	var (
		id     string
		kind   string
		name   string
		detail sql.NullString
	)
	if err := scanner.Scan(&id, &kind, &name, &detail); err != nil {
		return Item{}, err
	}
	return Item{ID: id, Kind: Kind(kind), Name: name, Detail: detail.String}, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

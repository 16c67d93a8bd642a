// Package structdb is the SQLite-backed structure repository.
package structdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Klee319/MCBuilding-sub001/internal/schematic"
	"github.com/Klee319/MCBuilding-sub001/internal/storage"
)

type SQLiteStore struct {
	db *sql.DB
}

func Open(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS structures (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			format TEXT NOT NULL,
			sha256 TEXT NOT NULL,
			size_x INTEGER NOT NULL,
			size_y INTEGER NOT NULL,
			size_z INTEGER NOT NULL,
			block_count INTEGER NOT NULL,
			palette_json TEXT NOT NULL,
			tags_json TEXT NOT NULL,
			created_at TEXT NOT NULL,
			payload BLOB NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_structures_sha256 ON structures(sha256);`,
		`CREATE INDEX IF NOT EXISTS idx_structures_created_at ON structures(created_at);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Put(ctx context.Context, rec storage.Record) error {
	if rec.ID == "" {
		return fmt.Errorf("structdb: empty record id")
	}
	paletteJSON, err := json.Marshal(rec.Palette)
	if err != nil {
		return fmt.Errorf("structdb: marshal palette: %w", err)
	}
	tags := rec.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("structdb: marshal tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO structures
			(id, name, format, sha256, size_x, size_y, size_z, block_count,
			 palette_json, tags_json, created_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.Format, rec.Sha256,
		rec.SizeX, rec.SizeY, rec.SizeZ, rec.BlockCount,
		string(paletteJSON), string(tagsJSON),
		rec.CreatedAt.UTC().Format(time.RFC3339Nano), rec.Payload)
	if err != nil {
		return fmt.Errorf("structdb: insert: %w", err)
	}
	return nil
}

const selectCols = `id, name, format, sha256, size_x, size_y, size_z,
	block_count, palette_json, tags_json, created_at`

func (s *SQLiteStore) Get(ctx context.Context, id string) (storage.Record, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectCols+`, payload FROM structures WHERE id = ?`, id)
	rec, err := scanRecord(row, true)
	if err == sql.ErrNoRows {
		return storage.Record{}, false, nil
	}
	if err != nil {
		return storage.Record{}, false, err
	}
	return rec, true, nil
}

func (s *SQLiteStore) BySha256(ctx context.Context, sha string) (storage.Record, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectCols+`, payload FROM structures WHERE sha256 = ? LIMIT 1`, sha)
	rec, err := scanRecord(row, true)
	if err == sql.ErrNoRows {
		return storage.Record{}, false, nil
	}
	if err != nil {
		return storage.Record{}, false, err
	}
	return rec, true, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]storage.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectCols+` FROM structures ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []storage.Record
	for rows.Next() {
		rec, err := scanRecord(rows, false)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner, withPayload bool) (storage.Record, error) {
	var (
		rec         storage.Record
		paletteJSON string
		tagsJSON    string
		createdAt   string
	)
	dest := []any{
		&rec.ID, &rec.Name, &rec.Format, &rec.Sha256,
		&rec.SizeX, &rec.SizeY, &rec.SizeZ, &rec.BlockCount,
		&paletteJSON, &tagsJSON, &createdAt,
	}
	if withPayload {
		dest = append(dest, &rec.Payload)
	}
	if err := sc.Scan(dest...); err != nil {
		return storage.Record{}, err
	}

	if paletteJSON != "" {
		if err := json.Unmarshal([]byte(paletteJSON), &rec.Palette); err != nil {
			return storage.Record{}, fmt.Errorf("structdb: palette row: %w", err)
		}
	}
	if rec.Palette == nil {
		rec.Palette = []schematic.PaletteEntry{}
	}
	if tagsJSON != "" {
		if err := json.Unmarshal([]byte(tagsJSON), &rec.Tags); err != nil {
			return storage.Record{}, fmt.Errorf("structdb: tags row: %w", err)
		}
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return storage.Record{}, fmt.Errorf("structdb: created_at row: %w", err)
	}
	rec.CreatedAt = t
	return rec, nil
}

package state

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/glebarez/sqlite"
	"github.com/google/uuid"

	"shotscraper/internal/config"
)

type DB struct {
	SQL  *sql.DB
	Path string
}

// Open opens (creating if needed) <data_root>/state.db.
func Open(cfg *config.Config) (*DB, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}
	if cfg.General.DataRoot == "" {
		return nil, errors.New("general.data_root required")
	}
	if err := os.MkdirAll(cfg.General.DataRoot, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(cfg.General.DataRoot, "state.db")
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout=5000&_pragma=journal_mode(WAL)", path)
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db := &DB{SQL: sqldb, Path: path}
	if err := db.InitSchema(); err != nil {
		_ = sqldb.Close()
		return nil, err
	}
	return db, nil
}

// InitSchema creates the history tables.
func (db *DB) InitSchema() error {
	if db == nil || db.SQL == nil {
		return errors.New("nil db")
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS shots (
			id TEXT PRIMARY KEY,
			url TEXT NOT NULL,
			filename TEXT NOT NULL,
			dir TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			UNIQUE(dir, filename)
		);`,
		`CREATE TABLE IF NOT EXISTS scripts (
			path TEXT NOT NULL,
			url TEXT NOT NULL,
			sha256 TEXT NOT NULL,
			size INTEGER NOT NULL,
			fetched_at INTEGER NOT NULL,
			PRIMARY KEY(url, sha256)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_shots_created ON shots(created_at)`,
	}
	for _, s := range stmts {
		if _, err := db.SQL.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (db *DB) Close() error {
	if db == nil || db.SQL == nil {
		return nil
	}
	return db.SQL.Close()
}

type ShotRow struct {
	ID        string
	URL       string
	Filename  string
	Dir       string
	CreatedAt int64
}

// RecordShot stores an allocated filename. ID and CreatedAt are filled in
// when empty; the stored row is returned.
func (db *DB) RecordShot(row ShotRow) (ShotRow, error) {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.CreatedAt == 0 {
		row.CreatedAt = time.Now().Unix()
	}
	_, err := db.SQL.Exec(`INSERT INTO shots(id, url, filename, dir, created_at) VALUES(?,?,?,?,?)`,
		row.ID, row.URL, row.Filename, row.Dir, row.CreatedAt)
	return row, err
}

// ShotExists reports whether filename was already handed out for dir.
func (db *DB) ShotExists(dir, filename string) (bool, error) {
	var n int
	err := db.SQL.QueryRow(`SELECT COUNT(1) FROM shots WHERE dir=? AND filename=?`, dir, filename).Scan(&n)
	return n > 0, err
}

// ExistsProbe adapts ShotExists to a filename probe. Query errors count
// as taken.
func (db *DB) ExistsProbe(dir string) func(string) bool {
	return func(name string) bool {
		ok, err := db.ShotExists(dir, name)
		return ok || err != nil
	}
}

// ListShots returns up to limit rows, newest first. limit <= 0 means all.
func (db *DB) ListShots(limit int) ([]ShotRow, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.SQL.Query(`SELECT id, url, filename, dir, created_at FROM shots ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []ShotRow
	for rows.Next() {
		var r ShotRow
		if err := rows.Scan(&r.ID, &r.URL, &r.Filename, &r.Dir, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type ScriptRow struct {
	Path      string
	URL       string
	SHA256    string
	Size      int64
	FetchedAt int64
}

// RecordScript stores a fetched script's digest. Refetching identical
// content only bumps fetched_at.
func (db *DB) RecordScript(row ScriptRow) error {
	if row.FetchedAt == 0 {
		row.FetchedAt = time.Now().Unix()
	}
	_, err := db.SQL.Exec(`INSERT INTO scripts(path, url, sha256, size, fetched_at) VALUES(?,?,?,?,?)
		ON CONFLICT(url, sha256) DO UPDATE SET path=excluded.path, fetched_at=excluded.fetched_at`,
		row.Path, row.URL, row.SHA256, row.Size, row.FetchedAt)
	return err
}

// ListScripts returns up to limit rows, most recently fetched first.
func (db *DB) ListScripts(limit int) ([]ScriptRow, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.SQL.Query(`SELECT path, url, sha256, size, fetched_at FROM scripts ORDER BY fetched_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []ScriptRow
	for rows.Next() {
		var r ScriptRow
		if err := rows.Scan(&r.Path, &r.URL, &r.SHA256, &r.Size, &r.FetchedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

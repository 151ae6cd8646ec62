// Package store persists wizard, outline and handoff state for a workspace
// directory. All state lives in a single SQLite file; reads and writes are
// synchronous and best-effort (callers tolerate missing keys).
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const dbFileName = "artigen.sqlite"

// Well-known keys. Values are JSON-encoded unless noted.
const (
	KeyMaxCompletedStep = "maxCompletedStep" // plain integer
	KeyFreeText         = "freeText"         // plain string
	KeyLinkDraft        = "linkDraft"        // plain string
	KeyProductLinks     = "productLinks"
	KeyUploadedFiles    = "uploadedFiles"
	KeyOutlineData      = "outlineData"
	KeyArticleDraft     = "articleDraft"

	// HandoffPipelinePayload is the cross-screen slot written by a successful
	// generation run and read exactly once by the outline screen.
	HandoffPipelinePayload = "pipelinePayload"
)

type Store struct {
	Dir string
}

// DiscoverDir walks upward from start looking for an existing .artigen dir.
func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, ".artigen")
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func DefaultDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	return filepath.Join(cwd, ".artigen"), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, dbFileName)
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS kv (
	k TEXT PRIMARY KEY,
	v TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS handoff (
	k TEXT PRIMARY KEY,
	v TEXT NOT NULL
);
`

func (s Store) open(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Get returns the stored value for key. Any error (including a missing row)
// reads as absent; persistence here is deliberately tolerant.
func (s Store) Get(key string) (string, bool) {
	ctx := context.Background()
	db, err := s.open(ctx)
	if err != nil {
		return "", false
	}
	defer db.Close()

	var v string
	err = db.QueryRowContext(ctx, `SELECT v FROM kv WHERE k = ?`, key).Scan(&v)
	if err != nil {
		return "", false
	}
	return v, true
}

func (s Store) Set(key, value string) error {
	ctx := context.Background()
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, `INSERT OR REPLACE INTO kv(k, v) VALUES(?, ?)`, key, value)
	return err
}

func (s Store) Delete(key string) error {
	ctx := context.Background()
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, `DELETE FROM kv WHERE k = ?`, key)
	return err
}

// GetJSON unmarshals the stored value for key into v. A missing key or a
// corrupted value reads as absent.
func (s Store) GetJSON(key string, v any) bool {
	raw, ok := s.Get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false
	}
	return true
}

func (s Store) SetJSON(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(key, string(raw))
}

// PutHandoff writes a cross-screen value. An existing value under the same
// key is replaced; the producer owns the slot until it is taken.
func (s Store) PutHandoff(key, value string) error {
	ctx := context.Background()
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, `INSERT OR REPLACE INTO handoff(k, v) VALUES(?, ?)`, key, value)
	return err
}

// TakeHandoff reads and deletes a cross-screen value in one transaction, so a
// payload is consumed at most once.
func (s Store) TakeHandoff(key string) (string, bool) {
	ctx := context.Background()
	db, err := s.open(ctx)
	if err != nil {
		return "", false
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return "", false
	}
	defer func() { _ = tx.Rollback() }()

	var v string
	if err := tx.QueryRowContext(ctx, `SELECT v FROM handoff WHERE k = ?`, key).Scan(&v); err != nil {
		return "", false
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM handoff WHERE k = ?`, key); err != nil {
		return "", false
	}
	if err := tx.Commit(); err != nil {
		return "", false
	}
	return v, true
}

// PeekHandoff reports whether a handoff value is present without consuming it.
func (s Store) PeekHandoff(key string) bool {
	ctx := context.Background()
	db, err := s.open(ctx)
	if err != nil {
		return false
	}
	defer db.Close()

	var one int
	err = db.QueryRowContext(ctx, `SELECT 1 FROM handoff WHERE k = ?`, key).Scan(&one)
	return err == nil
}

// Package storage persists budget snapshots.
//
// Two stores are provided: a JSONL file, optionally encrypted with a
// passphrase, and a SQLite database. Both replace the whole snapshot on Save.
package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/etnz/budget"
)

// sqlitePrefix selects the SQLite store in a DSN.
const sqlitePrefix = "sqlite:"

// Store loads and saves the state of a book.
type Store interface {
	// Load returns the persisted snapshot, empty if nothing was saved yet.
	Load(ctx context.Context) (*budget.Snapshot, error)
	// Save replaces the persisted snapshot.
	Save(ctx context.Context, s *budget.Snapshot) error
	Close() error
}

// Open returns the store described by dsn: "sqlite:<path>" for a SQLite
// database, any other value is the path of a JSONL snapshot file, encrypted
// when passphrase is not empty.
func Open(ctx context.Context, dsn, passphrase string) (Store, error) {
	if path, ok := strings.CutPrefix(dsn, sqlitePrefix); ok {
		if passphrase != "" {
			return nil, errors.New("the sqlite store does not support encryption")
		}
		return NewSQLiteStore(ctx, path)
	}
	if dsn == "" {
		return nil, errors.New("empty store location")
	}
	return NewFileStore(dsn, passphrase), nil
}

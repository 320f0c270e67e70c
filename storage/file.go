package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"filippo.io/age"
	"github.com/etnz/budget"
)

// FileStore keeps the snapshot in a JSONL file.
//
// When a passphrase is set the file is encrypted with age. A plain file is
// still readable with a passphrase set, and is encrypted on the next Save.
type FileStore struct {
	mu         sync.Mutex
	path       string
	passphrase string
	workFactor int // scrypt work factor, 0 for the age default
}

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithWorkFactor sets the scrypt work factor (log2 of the cost) used to
// encrypt the file.
func WithWorkFactor(logN int) FileOption { return func(s *FileStore) { s.workFactor = logN } }

// NewFileStore returns a store for the file at path.
func NewFileStore(path, passphrase string, opts ...FileOption) *FileStore {
	s := &FileStore{path: path, passphrase: passphrase}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the path of the snapshot file.
func (s *FileStore) Path() string { return s.path }

// Load reads the snapshot file. A missing file is an empty snapshot.
func (s *FileStore) Load(ctx context.Context) (*budget.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &budget.Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read %q: %w", s.path, err)
	}

	if isAgeEncrypted(data) {
		if s.passphrase == "" {
			return nil, fmt.Errorf("%q is encrypted and no passphrase was given", s.path)
		}
		identity, err := age.NewScryptIdentity(s.passphrase)
		if err != nil {
			return nil, fmt.Errorf("failed to create identity: %w", err)
		}
		if data, err = decryptData(data, identity); err != nil {
			return nil, fmt.Errorf("could not decrypt %q: %w", s.path, err)
		}
	}

	snapshot, err := budget.DecodeSnapshot(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("could not decode %q: %w", s.path, err)
	}
	return snapshot, nil
}

// Save encodes the snapshot, encrypts it if needed and replaces the file
// atomically.
func (s *FileStore) Save(ctx context.Context, snapshot *budget.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := budget.EncodeSnapshot(&buf, snapshot); err != nil {
		return err
	}
	data := buf.Bytes()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.passphrase != "" {
		recipient, err := age.NewScryptRecipient(s.passphrase)
		if err != nil {
			return fmt.Errorf("failed to create recipient: %w", err)
		}
		if s.workFactor > 0 {
			recipient.SetWorkFactor(s.workFactor)
		}
		if data, err = encryptData(data, recipient); err != nil {
			return fmt.Errorf("failed to encrypt: %w", err)
		}
	}
	return atomicWrite(s.path, data, 0o600)
}

// Close does nothing, the file is only open during Load and Save.
func (s *FileStore) Close() error { return nil }

// atomicWrite writes data to a file atomically using a temp file
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Package storage owns the on-disk bbolt environment and hands out
// read and write transactions over it.
//
// bbolt allows one write transaction at a time and any number of read
// transactions, each of which sees the database as of its begin point.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/KretovDmitry/goalias/internal/errs"
	bolt "go.etcd.io/bbolt"
)

// Default options.
const (
	DefaultTimeout         = time.Second
	DefaultFileMode        = 0o600
	DefaultInitialMmapSize = 64 << 20
)

// Options configures how the environment is opened.
type Options struct {
	// Timeout is the amount of time to wait for the file lock.
	Timeout time.Duration
	// NoSync skips fsync after each commit.
	NoSync bool
	// InitialMmapSize is the initial memory map size in bytes.
	// Read transactions don't block writers while the database fits in it.
	InitialMmapSize int
	// FileMode of the database file.
	FileMode os.FileMode
	// OpenFile opens the database file. Defaults to os.OpenFile.
	OpenFile func(name string, flag int, perm os.FileMode) (*os.File, error)
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.InitialMmapSize <= 0 {
		o.InitialMmapSize = DefaultInitialMmapSize
	}
	if o.FileMode == 0 {
		o.FileMode = DefaultFileMode
	}
	return o
}

// Store is the process-wide handle of the database environment.
// It is safe for concurrent use.
type Store struct {
	db   *bolt.DB
	path string

	// mu guards closed. Transactions are registered in txns under
	// a read lock so Close can't miss one.
	mu     sync.RWMutex
	closed bool
	txns   sync.WaitGroup
}

// Open creates or opens the environment at path and makes sure every
// table exists. Any failure is reported as errs.ErrStorageInit.
func Open(path string, opts Options) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", errs.ErrStorageInit)
	}
	opts = opts.withDefaults()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create directory: %w", errs.ErrStorageInit, err)
	}

	db, err := bolt.Open(path, opts.FileMode, &bolt.Options{
		Timeout:         opts.Timeout,
		NoSync:          opts.NoSync,
		InitialMmapSize: opts.InitialMmapSize,
		FreelistType:    bolt.FreelistMapType,
		OpenFile:        opts.OpenFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: open %q: %w", errs.ErrStorageInit, path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, t := range tables() {
			if _, err := tx.CreateBucketIfNotExists(t.name); err != nil {
				return fmt.Errorf("create table %q: %w", t.name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", errs.ErrStorageInit, err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the location of the database file.
func (s *Store) Path() string {
	return s.path
}

// BeginRead starts a read transaction over a snapshot of the database.
// The caller must Close it.
func (s *Store) BeginRead() (*ReadTxn, error) {
	tx, release, err := s.begin(false)
	if err != nil {
		return nil, err
	}
	return &ReadTxn{tx: tx, release: release}, nil
}

// BeginWrite starts a write transaction. It blocks while another write
// transaction is open. The caller must Commit or Abort it.
func (s *Store) BeginWrite() (*WriteTxn, error) {
	tx, release, err := s.begin(true)
	if err != nil {
		return nil, err
	}
	return &WriteTxn{ReadTxn{tx: tx, release: release}}, nil
}

func (s *Store) begin(writable bool) (*bolt.Tx, func(), error) {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, nil, fmt.Errorf("%w: store is closed", errs.ErrStorageUnavailable)
	}
	s.txns.Add(1)
	s.mu.RUnlock()

	tx, err := s.db.Begin(writable)
	if err != nil {
		s.txns.Done()
		if errors.Is(err, bolt.ErrDatabaseNotOpen) {
			return nil, nil, fmt.Errorf("%w: %w", errs.ErrStorageUnavailable, err)
		}
		return nil, nil, fmt.Errorf("%w: begin transaction: %w", errs.ErrStorageUnavailable, err)
	}

	var once sync.Once
	return tx, func() { once.Do(s.txns.Done) }, nil
}

// Close stops handing out transactions, waits for the outstanding ones
// to end and closes the environment. Calling Close again is a no-op.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.txns.Wait()

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}

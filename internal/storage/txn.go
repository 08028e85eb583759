package storage

import (
	"errors"
	"fmt"

	"github.com/KretovDmitry/goalias/internal/errs"
	bolt "go.etcd.io/bbolt"
)

// Reader is implemented by both read and write transactions.
type Reader interface {
	// Table returns the named table as seen by the transaction.
	Table(t Table) (*bolt.Bucket, error)
	// Writable reports whether the transaction may stage writes.
	Writable() bool
}

// Interface implementation guards.
var (
	_ Reader = (*ReadTxn)(nil)
	_ Reader = (*WriteTxn)(nil)
)

// ReadTxn is a snapshot of the database. It has no identity beyond its
// scope and must not be used after Close.
type ReadTxn struct {
	tx      *bolt.Tx
	release func()
}

// Table returns the named table as seen by the transaction.
func (t *ReadTxn) Table(table Table) (*bolt.Bucket, error) {
	if t.tx.DB() == nil {
		return nil, fmt.Errorf("%w: transaction is closed", errs.ErrStorageUnavailable)
	}
	b := t.tx.Bucket(table.name)
	if b == nil {
		return nil, fmt.Errorf("%w: table %q is missing", errs.ErrStorageUnavailable, table.name)
	}
	return b, nil
}

// Writable reports whether the transaction may stage writes.
func (t *ReadTxn) Writable() bool {
	return t.tx.Writable()
}

// Close ends the transaction. It is safe to call more than once.
func (t *ReadTxn) Close() error {
	defer t.release()
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, bolt.ErrTxClosed) {
		return fmt.Errorf("close transaction: %w", err)
	}
	return nil
}

// WriteTxn stages writes that become visible to other transactions
// only after Commit.
type WriteTxn struct {
	ReadTxn
}

// Commit makes the staged writes durable and visible. On failure
// the transaction is rolled back and nothing is applied.
func (t *WriteTxn) Commit() error {
	defer t.release()
	if err := t.tx.Commit(); err != nil {
		if errors.Is(err, bolt.ErrTxClosed) {
			return fmt.Errorf("%w: %w", errs.ErrStorageUnavailable, err)
		}
		return fmt.Errorf("%w: %w", errs.ErrStorageCommit, err)
	}
	return nil
}

// Abort discards the staged writes. It is safe to call more than once
// and after Commit.
func (t *WriteTxn) Abort() error {
	return t.Close()
}

// Table is a named key-value namespace inside the environment.
type Table struct {
	name []byte
}

// Name returns the table name.
func (t Table) Name() string {
	return string(t.name)
}

// Aliases maps aliases to destination URLs.
var Aliases = Table{name: []byte("aliases")}

// tables lists every table created on Open.
func tables() []Table {
	return []Table{Aliases}
}

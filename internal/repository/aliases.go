// Package repository provides typed access to the tables of the store.
package repository

import (
	"fmt"

	"github.com/KretovDmitry/goalias/internal/errs"
	"github.com/KretovDmitry/goalias/internal/storage"
	bolt "go.etcd.io/bbolt"
)

// AliasTable maps aliases to destination URLs.
// It keeps no state of its own; every call works inside the given transaction.
type AliasTable struct {
	table storage.Table
}

// NewAliasTable returns the accessor of the aliases table.
func NewAliasTable() *AliasTable {
	return &AliasTable{table: storage.Aliases}
}

// Get looks the alias up. The second result is false if the alias is absent.
func (a *AliasTable) Get(txn storage.Reader, alias string) (string, bool, error) {
	b, err := txn.Table(a.table)
	if err != nil {
		return "", false, err
	}

	// The value is only valid for the life of the transaction,
	// string conversion copies it out.
	v := b.Get([]byte(alias))
	if v == nil {
		return "", false, nil
	}

	return string(v), true, nil
}

// Put stages the mapping. It is visible to other transactions only
// after the transaction commits.
func (a *AliasTable) Put(txn *storage.WriteTxn, alias, destination string) error {
	if err := ValidateRecord(alias, destination); err != nil {
		return err
	}

	b, err := txn.Table(a.table)
	if err != nil {
		return err
	}

	if err = b.Put([]byte(alias), []byte(destination)); err != nil {
		return fmt.Errorf("put alias %q: %w", alias, err)
	}

	return nil
}

// Len returns the number of aliases in the transaction's snapshot.
func (a *AliasTable) Len(txn storage.Reader) (int, error) {
	b, err := txn.Table(a.table)
	if err != nil {
		return 0, err
	}
	return b.Stats().KeyN, nil
}

// ValidateRecord checks the constraints the store puts on keys and values.
func ValidateRecord(alias, destination string) error {
	switch {
	case alias == "":
		return fmt.Errorf("%w: empty alias", errs.ErrInvalidRecord)
	case destination == "":
		return fmt.Errorf("%w: empty destination", errs.ErrInvalidRecord)
	case len(alias) > bolt.MaxKeySize:
		return fmt.Errorf("%w: alias exceeds %d bytes", errs.ErrInvalidRecord, bolt.MaxKeySize)
	case len(destination) > bolt.MaxValueSize:
		return fmt.Errorf("%w: destination exceeds %d bytes", errs.ErrInvalidRecord, bolt.MaxValueSize)
	}
	return nil
}

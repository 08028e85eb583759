// Package bbolt is a minimal fixture of the bbolt API for analyzer tests.
package bbolt

type DB struct{}

type Tx struct{}

func (db *DB) Begin(writable bool) (*Tx, error) { return &Tx{}, nil }

func (db *DB) Update(fn func(*Tx) error) error { return fn(&Tx{}) }

func (db *DB) View(fn func(*Tx) error) error { return fn(&Tx{}) }

func (db *DB) Batch(fn func(*Tx) error) error { return fn(&Tx{}) }

func (db *DB) Close() error { return nil }

func (db *DB) Path() string { return "" }

func (tx *Tx) Commit() error { return nil }

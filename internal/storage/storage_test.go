package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/KretovDmitry/goalias/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), Options{NoSync: true, InitialMmapSize: 1 << 20})
	require.NoError(t, err, "open store")
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "aliases.db")

	s, err := Open(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, path, s.Path())

	_, err = os.Stat(path)
	require.NoError(t, err, "database file must exist")

	txn, err := s.BeginRead()
	require.NoError(t, err)
	_, err = txn.Table(Aliases)
	assert.NoError(t, err, "aliases table must be created on open")
	require.NoError(t, txn.Close())

	require.NoError(t, s.Close())
}

func TestOpen_Fails(t *testing.T) {
	dir := t.TempDir()

	garbage := filepath.Join(dir, "garbage.db")
	require.NoError(t, os.WriteFile(garbage,
		bytes.Repeat([]byte("not a bolt database "), 1024), 0o600))

	notDir := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(notDir, []byte("x"), 0o600))

	tests := []struct {
		name string
		path string
	}{
		{name: "empty path", path: ""},
		{name: "path is a directory", path: dir},
		{name: "incompatible file", path: garbage},
		{name: "parent is a file", path: filepath.Join(notDir, "aliases.db")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(tt.path, Options{Timeout: 100 * time.Millisecond})
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrStorageInit)
			assert.Nil(t, s)
		})
	}
}

func TestOpen_Locked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locked.db")

	s, err := Open(path, Options{})
	require.NoError(t, err)
	defer s.Close()

	_, err = Open(path, Options{Timeout: 50 * time.Millisecond})
	assert.ErrorIs(t, err, errs.ErrStorageInit, "second handle must not acquire the lock")
}

func TestStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")

	s, err := Open(path, Options{})
	require.NoError(t, err)

	w, err := s.BeginWrite()
	require.NoError(t, err)
	b, err := w.Table(Aliases)
	require.NoError(t, err)
	require.NoError(t, b.Put([]byte("a"), []byte("http://x")))
	require.NoError(t, w.Commit())
	require.NoError(t, s.Close())

	s, err = Open(path, Options{})
	require.NoError(t, err)
	defer s.Close()

	r, err := s.BeginRead()
	require.NoError(t, err)
	defer r.Close()
	b, err = r.Table(Aliases)
	require.NoError(t, err)
	assert.Equal(t, []byte("http://x"), b.Get([]byte("a")))
}

func TestStore_ClosedRefusesTransactions(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "second close is a no-op")

	_, err := s.BeginRead()
	assert.ErrorIs(t, err, errs.ErrStorageUnavailable)

	_, err = s.BeginWrite()
	assert.ErrorIs(t, err, errs.ErrStorageUnavailable)
}

func TestStore_CloseDrainsTransactions(t *testing.T) {
	s := openTestStore(t)

	r, err := s.BeginRead()
	require.NoError(t, err)

	closed := make(chan error, 1)
	go func() { closed <- s.Close() }()

	select {
	case <-closed:
		t.Fatal("close returned while a transaction is outstanding")
	case <-time.After(50 * time.Millisecond):
	}

	_, err = s.BeginRead()
	assert.ErrorIs(t, err, errs.ErrStorageUnavailable, "closing store must refuse new transactions")

	require.NoError(t, r.Close())

	select {
	case err = <-closed:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("close did not return after the transaction ended")
	}
}

func TestWriteTxn_Abort(t *testing.T) {
	s := openTestStore(t)

	w, err := s.BeginWrite()
	require.NoError(t, err)
	assert.True(t, w.Writable())
	b, err := w.Table(Aliases)
	require.NoError(t, err)
	require.NoError(t, b.Put([]byte("k"), []byte("v")))
	require.NoError(t, w.Abort())
	require.NoError(t, w.Abort(), "abort is idempotent")

	r, err := s.BeginRead()
	require.NoError(t, err)
	defer r.Close()
	assert.False(t, r.Writable())
	b, err = r.Table(Aliases)
	require.NoError(t, err)
	assert.Nil(t, b.Get([]byte("k")))
}

func TestWriteTxn_CommitTwice(t *testing.T) {
	s := openTestStore(t)

	w, err := s.BeginWrite()
	require.NoError(t, err)
	require.NoError(t, w.Commit())

	err = w.Commit()
	assert.ErrorIs(t, err, errs.ErrStorageUnavailable)
	assert.NoError(t, w.Abort(), "abort after commit is a no-op")
}

// openBreakableStore returns a store and a func that closes its file
// handle, after which every commit fails to write.
func openBreakableStore(t *testing.T) (*Store, func()) {
	t.Helper()

	var file *os.File
	s, err := Open(filepath.Join(t.TempDir(), "broken.db"), Options{
		NoSync:          true,
		InitialMmapSize: 1 << 20,
		OpenFile: func(name string, flag int, perm os.FileMode) (*os.File, error) {
			f, err := os.OpenFile(name, flag, perm)
			file = f
			return f, err
		},
	})
	require.NoError(t, err)
	require.NotNil(t, file)
	t.Cleanup(func() { _ = s.Close() })

	return s, func() { require.NoError(t, file.Close()) }
}

func TestWriteTxn_CommitFailure(t *testing.T) {
	s, breakFile := openBreakableStore(t)

	put := func(key, value string) error {
		w, err := s.BeginWrite()
		require.NoError(t, err)
		b, err := w.Table(Aliases)
		require.NoError(t, err)
		require.NoError(t, b.Put([]byte(key), []byte(value)))
		return w.Commit()
	}

	require.NoError(t, put("kept", "v1"))

	breakFile()

	err := put("lost", "v2")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrStorageCommit)

	r, err := s.BeginRead()
	require.NoError(t, err)
	defer r.Close()
	b, err := r.Table(Aliases)
	require.NoError(t, err)
	assert.Nil(t, b.Get([]byte("lost")), "failed commit must apply nothing")
	assert.Equal(t, []byte("v1"), b.Get([]byte("kept")))
}

func TestReadTxn_ClosedTable(t *testing.T) {
	s := openTestStore(t)

	r, err := s.BeginRead()
	require.NoError(t, err)
	require.NoError(t, r.Close())

	_, err = r.Table(Aliases)
	assert.ErrorIs(t, err, errs.ErrStorageUnavailable)
}

func TestStore_SnapshotIsolation(t *testing.T) {
	s := openTestStore(t)

	r, err := s.BeginRead()
	require.NoError(t, err)
	defer r.Close()

	w, err := s.BeginWrite()
	require.NoError(t, err)
	b, err := w.Table(Aliases)
	require.NoError(t, err)
	require.NoError(t, b.Put([]byte("b"), []byte("http://y")))
	require.NoError(t, w.Commit())

	b, err = r.Table(Aliases)
	require.NoError(t, err)
	assert.Nil(t, b.Get([]byte("b")), "open snapshot must not see later commits")

	r2, err := s.BeginRead()
	require.NoError(t, err)
	defer r2.Close()
	b, err = r2.Table(Aliases)
	require.NoError(t, err)
	assert.Equal(t, []byte("http://y"), b.Get([]byte("b")))
}

func TestStore_SingleWriter(t *testing.T) {
	s := openTestStore(t)

	w1, err := s.BeginWrite()
	require.NoError(t, err)

	begun := make(chan *WriteTxn, 1)
	go func() {
		w2, err := s.BeginWrite()
		if err != nil {
			close(begun)
			return
		}
		begun <- w2
	}()

	select {
	case <-begun:
		t.Fatal("second writer began while the first is open")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, w1.Commit())

	select {
	case w2, ok := <-begun:
		require.True(t, ok, "second writer failed to begin")
		require.NoError(t, w2.Abort())
	case <-time.After(5 * time.Second):
		t.Fatal("second writer did not begin after the first committed")
	}
}

// Package executor runs store transactions on a dedicated set of
// goroutines so request handlers never block inside the store.
//
// Writes go through a single writer goroutine, which linearizes them.
// Reads are spread over a pool of reader goroutines.
package executor

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/KretovDmitry/goalias/internal/errs"
	"github.com/KretovDmitry/goalias/internal/logger"
	"github.com/KretovDmitry/goalias/internal/storage"
	"golang.org/x/sync/errgroup"
)

const defaultShutdownTimeout = 30 * time.Second

// Options configures the executor.
type Options struct {
	// Readers is the number of read workers. Defaults to GOMAXPROCS.
	Readers int
	// ShutdownTimeout bounds how long Stop waits for accepted tasks.
	ShutdownTimeout time.Duration
}

// Executor owns the worker goroutines. It is safe for concurrent use.
type Executor struct {
	store  *storage.Store
	logger logger.Logger

	writes chan task
	reads  chan task

	// done is closed by Stop. Workers finish the task at hand and exit.
	done     chan struct{}
	stopOnce sync.Once
	workers  errgroup.Group

	shutdownTimeout time.Duration
}

// task is a unit of store work together with the channel its result is
// delivered on. The channel is buffered so a worker never waits for a
// caller that went away.
type task struct {
	run    func() (any, error)
	result chan<- result
}

type result struct {
	value any
	err   error
}

// New starts the writer and the reader goroutines.
func New(store *storage.Store, logger logger.Logger, opts Options) (*Executor, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store", errs.ErrNilDependency)
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger", errs.ErrNilDependency)
	}
	if opts.Readers <= 0 {
		opts.Readers = runtime.GOMAXPROCS(0)
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}

	ex := &Executor{
		store:           store,
		logger:          logger,
		writes:          make(chan task),
		reads:           make(chan task),
		done:            make(chan struct{}),
		shutdownTimeout: opts.ShutdownTimeout,
	}

	ex.workers.Go(func() error {
		ex.work(ex.writes)
		return nil
	})
	for i := 0; i < opts.Readers; i++ {
		ex.workers.Go(func() error {
			ex.work(ex.reads)
			return nil
		})
	}

	logger.Debugf("executor started with 1 writer and %d readers", opts.Readers)

	return ex, nil
}

// work runs tasks from the queue until the executor is stopped.
func (ex *Executor) work(queue <-chan task) {
	for {
		select {
		case t := <-queue:
			v, err := t.run()
			t.result <- result{value: v, err: err}
		case <-ex.done:
			return
		}
	}
}

// Write begins a write transaction, runs op and commits. Any failure of
// op aborts the transaction and is returned as is. A commit failure is
// reported as errs.ErrStorageCommit and nothing is applied.
//
// If ctx is done before the executor accepts the task, op never runs.
// Once accepted, the task runs to completion even if ctx is done; the
// caller then gets ctx.Err().
func Write[T any](ctx context.Context, ex *Executor, op func(*storage.WriteTxn) (T, error)) (T, error) {
	v, err := ex.submit(ctx, ex.writes, func() (any, error) {
		return runWrite(ex.store, op)
	})
	return cast[T](v, err)
}

// Read begins a read transaction, runs op and closes the transaction
// whatever op returns.
func Read[T any](ctx context.Context, ex *Executor, op func(*storage.ReadTxn) (T, error)) (T, error) {
	v, err := ex.submit(ctx, ex.reads, func() (any, error) {
		return runRead(ex.store, op)
	})
	return cast[T](v, err)
}

func (ex *Executor) submit(ctx context.Context, queue chan<- task, run func() (any, error)) (any, error) {
	ch := make(chan result, 1)

	select {
	case queue <- task{run: run, result: ch}:
	case <-ex.done:
		return nil, fmt.Errorf("%w: executor is stopped", errs.ErrStorageUnavailable)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case r := <-ch:
		return r.value, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func runWrite[T any](store *storage.Store, op func(*storage.WriteTxn) (T, error)) (v T, err error) {
	txn, err := store.BeginWrite()
	if err != nil {
		return v, err
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("write operation panicked: %v", p)
		}
		if err != nil {
			err = errors.Join(err, txn.Abort())
		}
	}()

	if v, err = op(txn); err != nil {
		return v, err
	}

	return v, txn.Commit()
}

func runRead[T any](store *storage.Store, op func(*storage.ReadTxn) (T, error)) (v T, err error) {
	txn, err := store.BeginRead()
	if err != nil {
		return v, err
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("read operation panicked: %v", p)
		}
		err = errors.Join(err, txn.Close())
	}()

	return op(txn)
}

func cast[T any](v any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	return v.(T), nil
}

// Stop refuses new tasks, lets workers finish the tasks they accepted
// and waits for them at most the shutdown timeout.
// It is safe to call more than once.
func (ex *Executor) Stop() {
	ex.stopOnce.Do(func() {
		close(ex.done)
	})

	ready := make(chan struct{})
	go func() {
		defer close(ready)
		_ = ex.workers.Wait()
	}()

	select {
	case <-time.After(ex.shutdownTimeout):
		ex.logger.Error("executor stop: shutdown timeout exceeded")
	case <-ready:
	}
}

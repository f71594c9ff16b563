package repository

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v4"
)

// Tx is an opaque, backend-defined transaction handle (pgx.Tx for Postgres,
// *firestore.Transaction for Firestore). Repositories accept NoTX for the
// non-transactional path.
type Tx interface{}

var NoTX interface{}

// TransactionManager runs fn inside one store transaction, passing the handle
// via tx. If fn returns an error the transaction is rolled back; otherwise it
// is committed. Backends without isolation levels ignore txOpt.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}

type commitHooksKey struct{}

type commitHooks struct {
	mu  sync.Mutex
	fns []func(ctx context.Context)
}

// WithCommitHooks returns a context that collects OnCommit callbacks and a
// function running them. Transaction managers call run once the commit succeeded.
func WithCommitHooks(ctx context.Context) (hookCtx context.Context, run func(ctx context.Context)) {
	h := &commitHooks{}
	run = func(ctx context.Context) {
		h.mu.Lock()
		fns := h.fns
		h.fns = nil
		h.mu.Unlock()
		for _, fn := range fns {
			fn(ctx)
		}
	}
	return context.WithValue(ctx, commitHooksKey{}, h), run
}

// OnCommit defers fn until the surrounding transaction commits. It returns
// false when ctx carries no transaction scope; the caller then runs fn itself.
func OnCommit(ctx context.Context, fn func(ctx context.Context)) bool {
	h, ok := ctx.Value(commitHooksKey{}).(*commitHooks)
	if !ok {
		return false
	}
	h.mu.Lock()
	h.fns = append(h.fns, fn)
	h.mu.Unlock()
	return true
}

package firestore

import (
	"context"

	gfs "cloud.google.com/go/firestore"
	"github.com/jackc/pgx/v4"

	"recharge-inventory/internal/domain/ports/repository"
)

var _ repository.TransactionManager = (*TxManager)(nil)

// TxManager runs units of work as Firestore transactions. Firestore requires
// every read to happen before the first write, and fn may be retried on
// contention, so fn must not have side effects outside the store.
type TxManager struct {
	client *gfs.Client
}

func NewTxManager(client *gfs.Client) *TxManager {
	return &TxManager{client: client}
}

// WithTx ignores txOpt; Firestore transactions are always serializable.
// OnCommit hooks from the attempt that committed run after RunTransaction returns.
func (m *TxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	var runHooks func(context.Context)
	err := m.client.RunTransaction(ctx, func(ctx context.Context, ftx *gfs.Transaction) error {
		hookCtx, run := repository.WithCommitHooks(ctx)
		runHooks = run
		return fn(hookCtx, ftx)
	})
	if err != nil {
		return mapErr(err)
	}
	runHooks(context.WithoutCancel(ctx))
	return nil
}

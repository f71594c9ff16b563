package worker

import (
	"context"

	"recharge-inventory/internal/domain/model"
	"recharge-inventory/internal/domain/ports/adapter"
)

var _ adapter.SaleNotifier = (*AsyncNotifier)(nil)

// AsyncNotifier hands sale notifications to the pool so a sell never waits
// on the notification channel. Delivery errors are logged by the pool.
type AsyncNotifier struct {
	inner adapter.SaleNotifier
	pool  *Pool
}

func NewAsyncNotifier(inner adapter.SaleNotifier, pool *Pool) *AsyncNotifier {
	return &AsyncNotifier{inner: inner, pool: pool}
}

// NotifySale queues the notification. The request context is not carried
// over since it ends with the HTTP response.
func (n *AsyncNotifier) NotifySale(_ context.Context, t *model.Transaction) error {
	snapshot := *t
	return n.pool.Submit(func(ctx context.Context) error {
		return n.inner.NotifySale(ctx, &snapshot)
	})
}

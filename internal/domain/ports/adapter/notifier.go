package adapter

import (
	"context"

	"recharge-inventory/internal/domain/model"
)

// SaleNotifier announces completed sales to an out-of-band channel.
type SaleNotifier interface {
	NotifySale(ctx context.Context, t *model.Transaction) error
}

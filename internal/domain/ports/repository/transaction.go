package repository

import (
	"context"

	"recharge-inventory/internal/domain/model"
)

// TransactionQuery filters the transactions collection. Limit <= 0 means no limit.
type TransactionQuery struct {
	SoldBy   string
	Platform string
	Limit    int
}

// TransactionRepository is the port for the append-only transactions collection.
type TransactionRepository interface {
	// Save inserts a transaction; domain.ErrAlreadyExists if the code already has one.
	Save(ctx context.Context, tx Tx, t *model.Transaction) error
	// List returns matching transactions, newest first.
	List(ctx context.Context, tx Tx, q TransactionQuery) ([]*model.Transaction, error)
}

// Package noop is the storage backend used when no document store is
// configured. Every operation fails with domain.ErrStoreUnconfigured so the
// service starts and reports the problem per request instead of crashing.
package noop

import (
	"context"

	"github.com/jackc/pgx/v4"

	"recharge-inventory/internal/domain"
	"recharge-inventory/internal/domain/model"
	"recharge-inventory/internal/domain/ports/repository"
)

var (
	_ repository.RechargeCodeRepository = RechargeCodeRepo{}
	_ repository.TransactionRepository  = TransactionRepo{}
	_ repository.TransactionManager     = TxManager{}
)

type RechargeCodeRepo struct{}

func (RechargeCodeRepo) Save(context.Context, repository.Tx, *model.RechargeCode) error {
	return domain.ErrStoreUnconfigured
}

func (RechargeCodeRepo) SaveBatch(context.Context, []*model.RechargeCode) error {
	return domain.ErrStoreUnconfigured
}

func (RechargeCodeRepo) FindByID(context.Context, repository.Tx, string) (*model.RechargeCode, error) {
	return nil, domain.ErrStoreUnconfigured
}

func (RechargeCodeRepo) List(context.Context, repository.Tx, repository.CodeQuery) ([]*model.RechargeCode, error) {
	return nil, domain.ErrStoreUnconfigured
}

func (RechargeCodeRepo) Delete(context.Context, repository.Tx, string) error {
	return domain.ErrStoreUnconfigured
}

type TransactionRepo struct{}

func (TransactionRepo) Save(context.Context, repository.Tx, *model.Transaction) error {
	return domain.ErrStoreUnconfigured
}

func (TransactionRepo) List(context.Context, repository.Tx, repository.TransactionQuery) ([]*model.Transaction, error) {
	return nil, domain.ErrStoreUnconfigured
}

// TxManager never calls fn.
type TxManager struct{}

func (TxManager) WithTx(context.Context, pgx.TxOptions, func(context.Context, repository.Tx) error) error {
	return domain.ErrStoreUnconfigured
}

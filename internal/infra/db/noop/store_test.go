//go:build !integration

package noop

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v4"

	"recharge-inventory/internal/domain"
	"recharge-inventory/internal/domain/model"
	"recharge-inventory/internal/domain/ports/repository"
)

func TestEveryOperationReportsUnconfigured(t *testing.T) {
	ctx := context.Background()
	codes, txs, tm := RechargeCodeRepo{}, TransactionRepo{}, TxManager{}

	_, findErr := codes.FindByID(ctx, nil, "x")
	_, listErr := codes.List(ctx, nil, repository.CodeQuery{})
	_, txListErr := txs.List(ctx, nil, repository.TransactionQuery{})
	called := false
	tmErr := tm.WithTx(ctx, pgx.TxOptions{}, func(context.Context, repository.Tx) error {
		called = true
		return nil
	})

	errs := map[string]error{
		"Save":      codes.Save(ctx, nil, &model.RechargeCode{}),
		"SaveBatch": codes.SaveBatch(ctx, []*model.RechargeCode{{}}),
		"FindByID":  findErr,
		"List":      listErr,
		"Delete":    codes.Delete(ctx, nil, "x"),
		"TxSave":    txs.Save(ctx, nil, &model.Transaction{}),
		"TxList":    txListErr,
		"WithTx":    tmErr,
	}
	for name, err := range errs {
		if !errors.Is(err, domain.ErrStoreUnconfigured) {
			t.Errorf("%s: expected ErrStoreUnconfigured, got %v", name, err)
		}
	}
	if called {
		t.Error("WithTx must not run the unit of work")
	}
}

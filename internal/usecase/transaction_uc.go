package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"recharge-inventory/internal/csvio"
	"recharge-inventory/internal/domain/model"
	"recharge-inventory/internal/domain/ports/adapter"
	"recharge-inventory/internal/domain/ports/repository"
	"recharge-inventory/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ TransactionUseCase = (*transactionUC)(nil)

// TransactionUseCase reads the sales history. Vendors only see their own sales.
type TransactionUseCase interface {
	List(ctx context.Context, actor *model.User, f TransactionFilter) ([]*model.Transaction, TransactionSummary, error)
	// Export writes the filtered history as CSV and returns the suggested file name.
	Export(ctx context.Context, actor *model.User, f TransactionFilter, w io.Writer) (string, error)
}

type transactionUC struct {
	txs repository.TransactionRepository
	tr  adapter.Translator
	now func() time.Time

	log *zerolog.Logger
}

func NewTransactionUseCase(txs repository.TransactionRepository, tr adapter.Translator, logger *zerolog.Logger) *transactionUC {
	return &transactionUC{txs: txs, tr: tr, now: time.Now, log: logger}
}

func (u *transactionUC) load(ctx context.Context, actor *model.User, f TransactionFilter) ([]*model.Transaction, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	q := repository.TransactionQuery{}
	if !actor.IsAdmin() {
		q.SoldBy = actor.ID
	}
	if !isAll(f.Platform) {
		q.Platform = f.Platform
	}
	txs, err := u.txs.List(ctx, repository.NoTX, q)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return FilterTransactions(txs, f, u.now()), nil
}

func (u *transactionUC) List(ctx context.Context, actor *model.User, f TransactionFilter) ([]*model.Transaction, TransactionSummary, error) {
	defer logging.TraceDuration(u.log, "TransactionUC.List")()
	txs, err := u.load(ctx, actor, f)
	if err != nil {
		return nil, TransactionSummary{}, err
	}
	return txs, Summarize(txs), nil
}

func (u *transactionUC) Export(ctx context.Context, actor *model.User, f TransactionFilter, w io.Writer) (string, error) {
	defer logging.TraceDuration(u.log, "TransactionUC.Export")()
	txs, err := u.load(ctx, actor, f)
	if err != nil {
		return "", err
	}
	if err := csvio.WriteTransactions(w, txs, u.tr); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	logging.With(ctx, u.log).Info().Int("rows", len(txs)).Msg("transactions exported")
	return csvio.ExportFilename(u.now()), nil
}

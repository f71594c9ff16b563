package usecase

import (
	"context"
	"fmt"
	"time"

	"recharge-inventory/internal/domain/model"
	"recharge-inventory/internal/domain/ports/repository"
	"recharge-inventory/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

type StatsUseCase interface {
	// Dashboard aggregates the whole inventory and every recorded sale.
	Dashboard(ctx context.Context, actor *model.User) (model.DashboardStats, error)
}

type statsUC struct {
	codes repository.RechargeCodeRepository
	txs   repository.TransactionRepository
	now   func() time.Time

	log *zerolog.Logger
}

func NewStatsUseCase(codes repository.RechargeCodeRepository, txs repository.TransactionRepository, logger *zerolog.Logger) *statsUC {
	return &statsUC{codes: codes, txs: txs, now: time.Now, log: logger}
}

func (s *statsUC) Dashboard(ctx context.Context, actor *model.User) (model.DashboardStats, error) {
	defer logging.TraceDuration(s.log, "StatsUC.Dashboard")()
	if err := requireUser(actor); err != nil {
		return model.DashboardStats{}, err
	}
	codes, err := s.codes.List(ctx, repository.NoTX, repository.CodeQuery{})
	if err != nil {
		return model.DashboardStats{}, fmt.Errorf("load codes: %w", err)
	}
	txs, err := s.txs.List(ctx, repository.NoTX, repository.TransactionQuery{})
	if err != nil {
		return model.DashboardStats{}, fmt.Errorf("load transactions: %w", err)
	}
	return ComputeStats(codes, txs, s.now()), nil
}

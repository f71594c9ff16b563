// File: internal/usecase/inventory_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"recharge-inventory/internal/csvio"
	"recharge-inventory/internal/domain"
	"recharge-inventory/internal/domain/model"
	"recharge-inventory/internal/domain/ports/adapter"
	"recharge-inventory/internal/domain/ports/repository"
	"recharge-inventory/internal/infra/logging"
	"recharge-inventory/internal/infra/metrics"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ InventoryUseCase = (*inventoryUC)(nil)

type InventoryUseCase interface {
	Create(ctx context.Context, actor *model.User, in CodeInput) (*model.RechargeCode, error)
	// Update replaces the editable fields of a code. Status and sale fields are kept.
	Update(ctx context.Context, actor *model.User, id string, in CodeInput) (*model.RechargeCode, error)
	Delete(ctx context.Context, actor *model.User, id string) error
	Get(ctx context.Context, actor *model.User, id string) (*model.RechargeCode, error)
	List(ctx context.Context, actor *model.User, f CodeFilter) ([]*model.RechargeCode, error)
	// Sell marks an available code sold and records the transaction in one unit of work.
	Sell(ctx context.Context, actor *model.User, id, buyer string) (*model.Transaction, error)

	PreviewImport(ctx context.Context, actor *model.User, content string) (csvio.ImportResult, error)
	// BulkImport creates one available code per candidate, all or nothing.
	BulkImport(ctx context.Context, actor *model.User, cands []csvio.Candidate) ([]*model.RechargeCode, error)
	// ImportCSV parses content and commits it only when no row was rejected.
	ImportCSV(ctx context.Context, actor *model.User, content string) (csvio.ImportResult, []*model.RechargeCode, error)
}

type InventoryOption func(*inventoryUC)

// WithSellLock serialises concurrent sells of one code before the store transaction starts.
func WithSellLock(l adapter.Locker, ttl time.Duration) InventoryOption {
	return func(u *inventoryUC) { u.locker, u.lockTTL = l, ttl }
}

// WithImportLimit caps imports per admin per window.
func WithImportLimit(rl adapter.RateLimiter, limit int, window time.Duration) InventoryOption {
	return func(u *inventoryUC) { u.limiter, u.importLimit, u.importWindow = rl, limit, window }
}

func WithSaleNotifier(n adapter.SaleNotifier) InventoryOption {
	return func(u *inventoryUC) { u.notifier = n }
}

func WithTranslator(tr adapter.Translator) InventoryOption {
	return func(u *inventoryUC) { u.tr = tr }
}

func WithClock(now func() time.Time) InventoryOption {
	return func(u *inventoryUC) { u.now = now }
}

type inventoryUC struct {
	codes repository.RechargeCodeRepository
	txs   repository.TransactionRepository
	tm    repository.TransactionManager

	locker       adapter.Locker
	lockTTL      time.Duration
	limiter      adapter.RateLimiter
	importLimit  int
	importWindow time.Duration
	notifier     adapter.SaleNotifier
	tr           adapter.Translator
	now          func() time.Time

	log *zerolog.Logger
}

func NewInventoryUseCase(
	codes repository.RechargeCodeRepository,
	txs repository.TransactionRepository,
	tm repository.TransactionManager,
	logger *zerolog.Logger,
	opts ...InventoryOption,
) *inventoryUC {
	u := &inventoryUC{codes: codes, txs: txs, tm: tm, log: logger, now: time.Now, lockTTL: 10 * time.Second}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func requireUser(actor *model.User) error {
	if actor.IsZero() {
		return domain.ErrUnauthorized
	}
	return nil
}

func requireAdmin(actor *model.User) error {
	if err := requireUser(actor); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

func (u *inventoryUC) Create(ctx context.Context, actor *model.User, in CodeInput) (*model.RechargeCode, error) {
	defer logging.TraceDuration(u.log, "InventoryUC.Create")()
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	f, err := in.fields()
	if err != nil {
		return nil, err
	}
	c, err := model.NewRechargeCode(model.NewID(), f, u.now())
	if err != nil {
		return nil, err
	}
	if err := u.codes.Save(ctx, repository.NoTX, c); err != nil {
		return nil, fmt.Errorf("save recharge code: %w", err)
	}
	metrics.IncCodesCreated("manual", 1)
	logging.With(ctx, u.log).Info().Str("code_id", c.ID).Str("platform", c.Platform).Msg("recharge code created")
	return c, nil
}

func (u *inventoryUC) Update(ctx context.Context, actor *model.User, id string, in CodeInput) (*model.RechargeCode, error) {
	defer logging.TraceDuration(u.log, "InventoryUC.Update")()
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	f, err := in.fields()
	if err != nil {
		return nil, err
	}

	var updated *model.RechargeCode
	err = u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		c, err := u.codes.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := c.Replace(f, u.now()); err != nil {
			return err
		}
		if err := u.codes.Save(ctx, tx, c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update recharge code %s: %w", id, err)
	}
	return updated, nil
}

func (u *inventoryUC) Delete(ctx context.Context, actor *model.User, id string) error {
	defer logging.TraceDuration(u.log, "InventoryUC.Delete")()
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := u.codes.Delete(ctx, repository.NoTX, id); err != nil {
		return fmt.Errorf("delete recharge code %s: %w", id, err)
	}
	metrics.IncCodesDeleted()
	logging.With(ctx, u.log).Info().Str("code_id", id).Msg("recharge code deleted")
	return nil
}

func (u *inventoryUC) Get(ctx context.Context, actor *model.User, id string) (*model.RechargeCode, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	return u.codes.FindByID(ctx, repository.NoTX, id)
}

func (u *inventoryUC) List(ctx context.Context, actor *model.User, f CodeFilter) ([]*model.RechargeCode, error) {
	defer logging.TraceDuration(u.log, "InventoryUC.List")()
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	codes, err := u.codes.List(ctx, repository.NoTX, f.query())
	if err != nil {
		return nil, fmt.Errorf("list recharge codes: %w", err)
	}
	return FilterCodes(codes, f), nil
}

func sellLockKey(id string) string { return "lock:sell:" + id }

func (u *inventoryUC) Sell(ctx context.Context, actor *model.User, id, buyer string) (*model.Transaction, error) {
	defer logging.TraceDuration(u.log, "InventoryUC.Sell")()
	log := logging.With(ctx, u.log)
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	buyer = strings.TrimSpace(buyer)
	if buyer == "" {
		return nil, &DetailedError{Kind: domain.ErrInvalidArgument, Items: []string{"buyer name is required"}}
	}

	if u.locker != nil {
		key := sellLockKey(id)
		token, err := u.locker.TryLock(ctx, key, u.lockTTL)
		switch {
		case err == nil:
			defer func() {
				if err := u.locker.Unlock(context.WithoutCancel(ctx), key, token); err != nil {
					log.Warn().Err(err).Str("code_id", id).Msg("failed to release sell lock")
				}
			}()
		case errors.Is(err, domain.ErrSaleInProgress), ctx.Err() != nil:
			return nil, err
		default:
			// The store transaction still guarantees a single sale.
			log.Warn().Err(err).Str("code_id", id).Msg("sell lock unavailable, continuing without it")
		}
	}

	var sold *model.Transaction
	err := u.tm.WithTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(ctx context.Context, tx repository.Tx) error {
		c, err := u.codes.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := c.MarkSold(actor.ID, buyer, u.now()); err != nil {
			return err
		}
		t, err := model.NewSaleTransaction(c)
		if err != nil {
			return err
		}
		if err := u.codes.Save(ctx, tx, c); err != nil {
			return err
		}
		if err := u.txs.Save(ctx, tx, t); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				return domain.ErrCodeNotAvailable
			}
			return err
		}
		sold = t
		return nil
	})
	if err != nil {
		// Document stores report the duplicate transaction key at commit time.
		if errors.Is(err, domain.ErrAlreadyExists) {
			err = domain.ErrCodeNotAvailable
		}
		if errors.Is(err, domain.ErrCodeNotAvailable) {
			metrics.IncSale("unknown", "unavailable")
		} else {
			metrics.IncSale("unknown", "failed")
		}
		return nil, fmt.Errorf("sell recharge code %s: %w", id, err)
	}

	metrics.ObserveSale(sold.Platform, sold.SalePrice, sold.Profit)
	log.Info().Str("code_id", id).Float64("profit", sold.Profit).Msg("recharge code sold")

	if u.notifier != nil {
		if err := u.notifier.NotifySale(ctx, sold); err != nil {
			log.Warn().Err(err).Str("code_id", id).Msg("sale notification failed")
		}
	}
	return sold, nil
}

func (u *inventoryUC) PreviewImport(ctx context.Context, actor *model.User, content string) (csvio.ImportResult, error) {
	if err := requireAdmin(actor); err != nil {
		return csvio.ImportResult{}, err
	}
	return csvio.ParseImport(content, u.tr), nil
}

func (u *inventoryUC) BulkImport(ctx context.Context, actor *model.User, cands []csvio.Candidate) ([]*model.RechargeCode, error) {
	defer logging.TraceDuration(u.log, "InventoryUC.BulkImport")()
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if len(cands) == 0 {
		return nil, domain.ErrImportEmpty
	}
	if err := u.allowImport(ctx, actor); err != nil {
		return nil, err
	}

	now := u.now()
	codes := make([]*model.RechargeCode, 0, len(cands))
	for i, cand := range cands {
		c, err := model.NewRechargeCode(model.NewID(), cand.Fields(), now)
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i+1, err)
		}
		codes = append(codes, c)
	}
	if err := u.codes.SaveBatch(ctx, codes); err != nil {
		return nil, fmt.Errorf("import %d recharge codes: %w", len(codes), err)
	}
	metrics.IncCodesCreated("import", len(codes))
	logging.With(ctx, u.log).Info().Int("count", len(codes)).Msg("recharge codes imported")
	return codes, nil
}

func (u *inventoryUC) ImportCSV(ctx context.Context, actor *model.User, content string) (csvio.ImportResult, []*model.RechargeCode, error) {
	if err := requireAdmin(actor); err != nil {
		return csvio.ImportResult{}, nil, err
	}
	res := csvio.ParseImport(content, u.tr)
	metrics.ObserveImport(len(res.Candidates), len(res.Errors))
	if res.Blocking() {
		return res, nil, &DetailedError{Kind: domain.ErrImportBlocked, Items: res.Errors}
	}
	codes, err := u.BulkImport(ctx, actor, res.Candidates)
	return res, codes, err
}

func (u *inventoryUC) allowImport(ctx context.Context, actor *model.User) error {
	if u.limiter == nil || u.importLimit <= 0 {
		return nil
	}
	ok, err := u.limiter.Allow(ctx, "rate_limit:"+actor.ID+":import", u.importLimit, u.importWindow)
	if err != nil {
		// Limiter outages must not block inventory work.
		logging.With(ctx, u.log).Warn().Err(err).Msg("import rate limiter unavailable")
		return nil
	}
	if !ok {
		return domain.ErrRateLimited
	}
	return nil
}

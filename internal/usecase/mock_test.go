//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"recharge-inventory/internal/domain"
	"recharge-inventory/internal/domain/model"
	"recharge-inventory/internal/domain/ports/adapter"
	"recharge-inventory/internal/domain/ports/repository"
)

// -----------------------------
// Utilities
// -----------------------------

var (
	admin  = &model.User{ID: "admin-1", Email: "admin@example.com", Role: model.RoleAdmin}
	vendor = &model.User{ID: "vendor-1", Email: "vendor@example.com", Role: model.RoleVendor}
)

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

func cloneCode(c *model.RechargeCode) *model.RechargeCode {
	cp := *c
	return &cp
}

// ---- In-memory RechargeCodeRepository ----

type MockCodeRepo struct {
	mu   sync.Mutex
	data map[string]*model.RechargeCode

	SaveFunc      func(ctx context.Context, tx repository.Tx, c *model.RechargeCode) error
	SaveBatchFunc func(ctx context.Context, codes []*model.RechargeCode) error
	ListFunc      func(ctx context.Context, tx repository.Tx, q repository.CodeQuery) ([]*model.RechargeCode, error)

	LastQuery repository.CodeQuery
}

var _ repository.RechargeCodeRepository = (*MockCodeRepo)(nil)

func NewMockCodeRepo(seed ...*model.RechargeCode) *MockCodeRepo {
	r := &MockCodeRepo{data: map[string]*model.RechargeCode{}}
	for _, c := range seed {
		r.data[c.ID] = cloneCode(c)
	}
	return r
}

func (r *MockCodeRepo) Save(ctx context.Context, tx repository.Tx, c *model.RechargeCode) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, c)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[c.ID] = cloneCode(c)
	return nil
}

func (r *MockCodeRepo) SaveBatch(ctx context.Context, codes []*model.RechargeCode) error {
	if r.SaveBatchFunc != nil {
		return r.SaveBatchFunc(ctx, codes)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range codes {
		r.data[c.ID] = cloneCode(c)
	}
	return nil
}

func (r *MockCodeRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.RechargeCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.data[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneCode(c), nil
}

func (r *MockCodeRepo) List(ctx context.Context, tx repository.Tx, q repository.CodeQuery) ([]*model.RechargeCode, error) {
	r.mu.Lock()
	r.LastQuery = q
	r.mu.Unlock()
	if r.ListFunc != nil {
		return r.ListFunc(ctx, tx, q)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.RechargeCode{}
	for _, c := range r.data {
		if q.Status != "" && c.Status != q.Status {
			continue
		}
		if q.Type != "" && c.Type != q.Type {
			continue
		}
		if q.Platform != "" && c.Platform != q.Platform {
			continue
		}
		out = append(out, cloneCode(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MockCodeRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.data, id)
	return nil
}

func (r *MockCodeRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.data)
}

// ---- In-memory TransactionRepository ----

type MockTransactionRepo struct {
	mu   sync.Mutex
	data []*model.Transaction

	SaveFunc func(ctx context.Context, tx repository.Tx, t *model.Transaction) error

	LastQuery repository.TransactionQuery
}

var _ repository.TransactionRepository = (*MockTransactionRepo)(nil)

func NewMockTransactionRepo(seed ...*model.Transaction) *MockTransactionRepo {
	return &MockTransactionRepo{data: append([]*model.Transaction{}, seed...)}
}

func (r *MockTransactionRepo) Save(ctx context.Context, tx repository.Tx, t *model.Transaction) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, t)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.data {
		if existing.ID == t.ID {
			return domain.ErrAlreadyExists
		}
	}
	r.data = append(r.data, t)
	return nil
}

func (r *MockTransactionRepo) List(ctx context.Context, tx repository.Tx, q repository.TransactionQuery) ([]*model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.LastQuery = q
	out := []*model.Transaction{}
	for _, t := range r.data {
		if q.SoldBy != "" && t.SoldBy != q.SoldBy {
			continue
		}
		if q.Platform != "" && t.Platform != q.Platform {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r *MockTransactionRepo) All() []*model.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*model.Transaction{}, r.data...)
}

// ---- TransactionManager ----

type MockTxManager struct {
	mu         sync.Mutex
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

// WithTx runs fn with NoTX. Calls are serialised, which stands in for the
// row lock a real store takes inside the transaction.
func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx, repository.NoTX)
}

// ---- In-memory Locker ----

type MockLocker struct {
	mu    sync.Mutex
	held  map[string]string
	ErrOn map[string]error
	Keys  []string
}

var _ adapter.Locker = (*MockLocker)(nil)

func NewMockLocker() *MockLocker {
	return &MockLocker{held: map[string]string{}, ErrOn: map[string]error{}}
}

func (l *MockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Keys = append(l.Keys, key)
	if err, bad := l.ErrOn[key]; bad {
		return "", err
	}
	if tok, ok := l.held[key]; ok && tok != "" {
		return "", domain.ErrSaleInProgress
	}
	tok := uuid.NewString()
	l.held[key] = tok
	return tok, nil
}

func (l *MockLocker) Unlock(ctx context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == token {
		delete(l.held, key)
		return nil
	}
	return errors.New("unlock token mismatch")
}

func (l *MockLocker) Held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.held)
}

// ---- RateLimiter ----

type MockRateLimiter struct {
	AllowFunc func(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	Keys      []string
}

var _ adapter.RateLimiter = (*MockRateLimiter)(nil)

func (m *MockRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	m.Keys = append(m.Keys, key)
	if m.AllowFunc != nil {
		return m.AllowFunc(ctx, key, limit, window)
	}
	return true, nil
}

// ---- SaleNotifier ----

type MockNotifier struct {
	mu   sync.Mutex
	Sent []*model.Transaction
	Err  error
}

var _ adapter.SaleNotifier = (*MockNotifier)(nil)

func (n *MockNotifier) NotifySale(ctx context.Context, t *model.Transaction) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Sent = append(n.Sent, t)
	return n.Err
}

// ---- Fixtures ----

func availableCode(id string, created time.Time) *model.RechargeCode {
	return &model.RechargeCode{
		ID:            id,
		Code:          "CODE-" + id,
		Type:          model.CodeTypeOneMonth,
		Platform:      "Envato",
		Denomination:  50000,
		PurchasePrice: 45000,
		SalePrice:     55000,
		PurchaseDate:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Status:        model.CodeStatusAvailable,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

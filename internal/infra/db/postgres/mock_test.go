//go:build !integration

package postgres

import (
	"context"
	"time"

	"recharge-inventory/internal/domain/model"
	"recharge-inventory/internal/domain/ports/repository"
	red "recharge-inventory/internal/infra/redis"
)

// --- Mocks for Cache Decorator Tests ---

// mockInnerCodeRepo mocks the repository the decorator wraps.
type mockInnerCodeRepo struct {
	SaveFunc      func(ctx context.Context, tx repository.Tx, c *model.RechargeCode) error
	SaveBatchFunc func(ctx context.Context, codes []*model.RechargeCode) error
	FindByIDFunc  func(ctx context.Context, tx repository.Tx, id string) (*model.RechargeCode, error)
	ListFunc      func(ctx context.Context, tx repository.Tx, q repository.CodeQuery) ([]*model.RechargeCode, error)
	DeleteFunc    func(ctx context.Context, tx repository.Tx, id string) error
}

func (m *mockInnerCodeRepo) Save(ctx context.Context, tx repository.Tx, c *model.RechargeCode) error {
	return m.SaveFunc(ctx, tx, c)
}
func (m *mockInnerCodeRepo) SaveBatch(ctx context.Context, codes []*model.RechargeCode) error {
	return m.SaveBatchFunc(ctx, codes)
}
func (m *mockInnerCodeRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.RechargeCode, error) {
	return m.FindByIDFunc(ctx, tx, id)
}
func (m *mockInnerCodeRepo) List(ctx context.Context, tx repository.Tx, q repository.CodeQuery) ([]*model.RechargeCode, error) {
	return m.ListFunc(ctx, tx, q)
}
func (m *mockInnerCodeRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	return m.DeleteFunc(ctx, tx, id)
}

// mockRedisClient mocks our Redis client wrapper.
type mockRedisClient struct {
	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DelFunc    func(ctx context.Context, keys ...string) error
	PingFunc   func(ctx context.Context) error
	IncrFunc   func(ctx context.Context, key string) (int64, error)
	ExpireFunc func(ctx context.Context, key string, expiration time.Duration) error
	CloseFunc  func() error
}

var _ red.RedisClient = &mockRedisClient{}

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return "", red.Nil
}
func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	return nil
}
func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, keys...)
	}
	return nil
}
func (m *mockRedisClient) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}
func (m *mockRedisClient) Incr(ctx context.Context, key string) (int64, error) {
	if m.IncrFunc != nil {
		return m.IncrFunc(ctx, key)
	}
	return 1, nil
}
func (m *mockRedisClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	if m.ExpireFunc != nil {
		return m.ExpireFunc(ctx, key, expiration)
	}
	return nil
}
func (m *mockRedisClient) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

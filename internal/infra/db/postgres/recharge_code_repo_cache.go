package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"recharge-inventory/internal/domain/model"
	"recharge-inventory/internal/domain/ports/repository"
	"recharge-inventory/internal/infra/metrics"
	red "recharge-inventory/internal/infra/redis"

	"github.com/rs/zerolog"
)

var _ repository.RechargeCodeRepository = (*codeRepoCacheDecorator)(nil)

// codeRepoCacheDecorator caches single-code lookups outside transactions.
// Reads inside a transaction always go to the store so row locks are taken.
type codeRepoCacheDecorator struct {
	inner repository.RechargeCodeRepository
	cache red.RedisClient
	ttl   time.Duration
	log   *zerolog.Logger
}

func NewRechargeCodeRepoCacheDecorator(inner repository.RechargeCodeRepository, cache red.RedisClient, ttl time.Duration, logger *zerolog.Logger) repository.RechargeCodeRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &codeRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl, log: logger}
}

func codeCacheKey(id string) string { return "recharge_code:" + id }

func (d *codeRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.RechargeCode, error) {
	if tx != nil {
		return d.inner.FindByID(ctx, tx, id)
	}
	key := codeCacheKey(id)
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		var c model.RechargeCode
		if json.Unmarshal([]byte(val), &c) == nil {
			metrics.IncCacheRequest("recharge_code", "hit")
			return &c, nil
		}
	} else if !errors.Is(err, red.Nil) {
		d.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	metrics.IncCacheRequest("recharge_code", "miss")
	c, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(c); err == nil {
		_ = d.cache.Set(ctx, key, b, d.ttl)
	}
	return c, nil
}

// Writes invalidate before the delegate call and again once the change is
// visible: right away outside a transaction, after the commit inside one.
// A read between the write and the commit would otherwise cache the old row.
func (d *codeRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, c *model.RechargeCode) error {
	d.invalidate(ctx, c.ID)
	err := d.inner.Save(ctx, tx, c)
	d.invalidateAfterWrite(ctx, tx, c.ID)
	return err
}

func (d *codeRepoCacheDecorator) SaveBatch(ctx context.Context, codes []*model.RechargeCode) error {
	return d.inner.SaveBatch(ctx, codes)
}

func (d *codeRepoCacheDecorator) Delete(ctx context.Context, tx repository.Tx, id string) error {
	d.invalidate(ctx, id)
	err := d.inner.Delete(ctx, tx, id)
	d.invalidateAfterWrite(ctx, tx, id)
	return err
}

func (d *codeRepoCacheDecorator) List(ctx context.Context, tx repository.Tx, q repository.CodeQuery) ([]*model.RechargeCode, error) {
	return d.inner.List(ctx, tx, q)
}

func (d *codeRepoCacheDecorator) invalidateAfterWrite(ctx context.Context, tx repository.Tx, id string) {
	if tx != nil && repository.OnCommit(ctx, func(ctx context.Context) { d.invalidate(ctx, id) }) {
		return
	}
	d.invalidate(ctx, id)
}

func (d *codeRepoCacheDecorator) invalidate(ctx context.Context, id string) {
	if id == "" {
		return
	}
	if err := d.cache.Del(ctx, codeCacheKey(id)); err != nil {
		d.log.Warn().Err(err).Str("code_id", id).Msg("cache invalidation failed")
	}
}

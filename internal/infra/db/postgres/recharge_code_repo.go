package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"recharge-inventory/internal/domain"
	"recharge-inventory/internal/domain/model"
	"recharge-inventory/internal/domain/ports/repository"
)

// Ensure implementation satisfies the interface.
var _ repository.RechargeCodeRepository = (*rechargeCodeRepo)(nil)

type rechargeCodeRepo struct {
	pool *pgxpool.Pool
}

func NewRechargeCodeRepo(pool *pgxpool.Pool) repository.RechargeCodeRepository {
	return &rechargeCodeRepo{pool: pool}
}

const codeColumns = `id, code, type, platform, denomination, purchase_price, sale_price,
       purchase_date, sale_date, status, sold_by, sold_to, created_at, updated_at`

const upsertCodeSQL = `
INSERT INTO recharge_codes (id, code, type, platform, denomination, purchase_price, sale_price,
                            purchase_date, sale_date, status, sold_by, sold_to, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
ON CONFLICT (id) DO UPDATE SET
  code           = EXCLUDED.code,
  type           = EXCLUDED.type,
  platform       = EXCLUDED.platform,
  denomination   = EXCLUDED.denomination,
  purchase_price = EXCLUDED.purchase_price,
  sale_price     = EXCLUDED.sale_price,
  purchase_date  = EXCLUDED.purchase_date,
  sale_date      = EXCLUDED.sale_date,
  status         = EXCLUDED.status,
  sold_by        = EXCLUDED.sold_by,
  sold_to        = EXCLUDED.sold_to,
  updated_at     = EXCLUDED.updated_at;
`

func codeArgs(c *model.RechargeCode) []interface{} {
	return []interface{}{
		c.ID, c.Code, string(c.Type), c.Platform, c.Denomination, c.PurchasePrice, c.SalePrice,
		c.PurchaseDate, c.SaleDate, string(c.Status), c.SoldBy, c.SoldTo, c.CreatedAt, c.UpdatedAt,
	}
}

func (r *rechargeCodeRepo) Save(ctx context.Context, tx repository.Tx, c *model.RechargeCode) error {
	if c.ID == "" {
		c.ID = model.NewID()
	}
	if _, err := execSQL(ctx, r.pool, tx, upsertCodeSQL, codeArgs(c)...); err != nil {
		return fmt.Errorf("save recharge code: %w", err)
	}
	return nil
}

// SaveBatch queues every insert on one transaction so the batch commits or fails as a whole.
func (r *rechargeCodeRepo) SaveBatch(ctx context.Context, codes []*model.RechargeCode) error {
	if len(codes) == 0 {
		return nil
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	b := &pgx.Batch{}
	for _, c := range codes {
		if c.ID == "" {
			c.ID = model.NewID()
		}
		b.Queue(upsertCodeSQL, codeArgs(c)...)
	}
	br := tx.SendBatch(ctx, b)
	for i := range codes {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("save recharge code %d of %d: %w", i+1, len(codes), err)
		}
	}
	if err := br.Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func scanCode(row pgx.Row) (*model.RechargeCode, error) {
	var c model.RechargeCode
	var typ, status string
	err := row.Scan(
		&c.ID, &c.Code, &typ, &c.Platform, &c.Denomination, &c.PurchasePrice, &c.SalePrice,
		&c.PurchaseDate, &c.SaleDate, &status, &c.SoldBy, &c.SoldTo, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Type = model.CodeType(typ)
	c.Status = model.CodeStatus(status)
	return &c, nil
}

// FindByID locks the row when called inside a transaction.
func (r *rechargeCodeRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.RechargeCode, error) {
	q := `SELECT ` + codeColumns + ` FROM recharge_codes WHERE id = $1`
	if inTx(tx) {
		q += ` FOR UPDATE`
	}
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	c, err := scanCode(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return c, nil
}

func (r *rechargeCodeRepo) List(ctx context.Context, tx repository.Tx, q repository.CodeQuery) ([]*model.RechargeCode, error) {
	var where []string
	var args []interface{}
	add := func(col, val string) {
		args = append(args, val)
		where = append(where, col+" = $"+strconv.Itoa(len(args)))
	}
	if q.Status != "" {
		add("status", string(q.Status))
	}
	if q.Type != "" {
		add("type", string(q.Type))
	}
	if q.Platform != "" {
		add("platform", q.Platform)
	}

	sql := `SELECT ` + codeColumns + ` FROM recharge_codes`
	if len(where) > 0 {
		sql += ` WHERE ` + strings.Join(where, " AND ")
	}
	sql += ` ORDER BY created_at DESC, id DESC`

	rows, err := queryRows(ctx, r.pool, tx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list recharge codes: %w", err)
	}
	defer rows.Close()

	out := []*model.RechargeCode{}
	for rows.Next() {
		c, err := scanCode(rows)
		if err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *rechargeCodeRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	ct, err := execSQL(ctx, r.pool, tx, `DELETE FROM recharge_codes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete recharge code: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

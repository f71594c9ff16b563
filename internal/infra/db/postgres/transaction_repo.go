package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v4/pgxpool"

	"recharge-inventory/internal/domain"
	"recharge-inventory/internal/domain/model"
	"recharge-inventory/internal/domain/ports/repository"
)

var _ repository.TransactionRepository = (*transactionRepo)(nil)

type transactionRepo struct {
	pool *pgxpool.Pool
}

func NewTransactionRepo(pool *pgxpool.Pool) repository.TransactionRepository {
	return &transactionRepo{pool: pool}
}

// Save inserts only; transactions are never updated.
func (r *transactionRepo) Save(ctx context.Context, tx repository.Tx, t *model.Transaction) error {
	const q = `
INSERT INTO transactions (id, code_id, code, type, platform, denomination, sale_price, profit,
                          sold_by, sold_to, sale_date, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
`
	_, err := execSQL(ctx, r.pool, tx, q,
		t.ID, t.CodeID, t.Code, string(t.Type), t.Platform, t.Denomination, t.SalePrice, t.Profit,
		t.SoldBy, t.SoldTo, t.SaleDate, t.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("save transaction: %w", err)
	}
	return nil
}

func (r *transactionRepo) List(ctx context.Context, tx repository.Tx, q repository.TransactionQuery) ([]*model.Transaction, error) {
	var where []string
	var args []interface{}
	if q.SoldBy != "" {
		args = append(args, q.SoldBy)
		where = append(where, "sold_by = $"+strconv.Itoa(len(args)))
	}
	if q.Platform != "" {
		args = append(args, q.Platform)
		where = append(where, "platform = $"+strconv.Itoa(len(args)))
	}

	sql := `
SELECT id, code_id, code, type, platform, denomination, sale_price, profit,
       sold_by, sold_to, sale_date, created_at
  FROM transactions`
	if len(where) > 0 {
		sql += ` WHERE ` + strings.Join(where, " AND ")
	}
	sql += ` ORDER BY created_at DESC, id DESC`
	if q.Limit > 0 {
		args = append(args, q.Limit)
		sql += ` LIMIT $` + strconv.Itoa(len(args))
	}

	rows, err := queryRows(ctx, r.pool, tx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	out := []*model.Transaction{}
	for rows.Next() {
		var t model.Transaction
		var typ string
		if err := rows.Scan(
			&t.ID, &t.CodeID, &t.Code, &typ, &t.Platform, &t.Denomination, &t.SalePrice, &t.Profit,
			&t.SoldBy, &t.SoldTo, &t.SaleDate, &t.CreatedAt,
		); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		t.Type = model.CodeType(typ)
		out = append(out, &t)
	}
	return out, rows.Err()
}

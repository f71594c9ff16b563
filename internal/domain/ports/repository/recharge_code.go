package repository

import (
	"context"

	"recharge-inventory/internal/domain/model"
)

// CodeQuery holds equality filters pushed down to the store. Empty fields match everything.
type CodeQuery struct {
	Status   model.CodeStatus
	Type     model.CodeType
	Platform string
}

// RechargeCodeRepository is the port for the rechargeCodes collection.
type RechargeCodeRepository interface {
	// Save inserts the code or replaces every stored field of an existing one.
	Save(ctx context.Context, tx Tx, c *model.RechargeCode) error
	// SaveBatch inserts all codes as one all-or-nothing write.
	SaveBatch(ctx context.Context, codes []*model.RechargeCode) error
	// FindByID returns domain.ErrNotFound when absent. Inside a transaction the
	// record is read for update.
	FindByID(ctx context.Context, tx Tx, id string) (*model.RechargeCode, error)
	// List returns matching codes, newest first.
	List(ctx context.Context, tx Tx, q CodeQuery) ([]*model.RechargeCode, error)
	// Delete hard-deletes the code; domain.ErrNotFound when absent.
	Delete(ctx context.Context, tx Tx, id string) error
}

package firestore

import (
	"context"
	"fmt"
	"sort"
	"time"

	gfs "cloud.google.com/go/firestore"

	"recharge-inventory/internal/domain/model"
	"recharge-inventory/internal/domain/ports/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

type TransactionRepo struct {
	client *gfs.Client
	now    func() time.Time
}

func NewTransactionRepo(client *gfs.Client) *TransactionRepo {
	return &TransactionRepo{client: client, now: time.Now}
}

func (r *TransactionRepo) col() *gfs.CollectionRef {
	return r.client.Collection(TransactionsCollection)
}

// Save creates the document keyed by the transaction id. A second sale of the
// same code fails with domain.ErrAlreadyExists.
func (r *TransactionRepo) Save(ctx context.Context, tx repository.Tx, t *model.Transaction) error {
	ftx, err := asTx(tx)
	if err != nil {
		return err
	}
	ref := r.col().Doc(t.ID)
	if ftx != nil {
		return mapErr(ftx.Create(ref, toTxDoc(t)))
	}
	if _, err := ref.Create(ctx, toTxDoc(t)); err != nil {
		return mapErr(err)
	}
	return nil
}

func (r *TransactionRepo) List(ctx context.Context, tx repository.Tx, q repository.TransactionQuery) ([]*model.Transaction, error) {
	ftx, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	query := r.col().Query
	if q.SoldBy != "" {
		query = query.Where("soldBy", "==", q.SoldBy)
	}
	if q.Platform != "" {
		query = query.Where("platform", "==", q.Platform)
	}

	var snaps []*gfs.DocumentSnapshot
	if ftx != nil {
		snaps, err = ftx.Documents(query).GetAll()
	} else {
		snaps, err = query.Documents(ctx).GetAll()
	}
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", mapErr(err))
	}

	now := r.now()
	out := make([]*model.Transaction, 0, len(snaps))
	for _, s := range snaps {
		var d txDoc
		if err := s.DataTo(&d); err != nil {
			return nil, fmt.Errorf("decode transaction %s: %w", s.Ref.ID, err)
		}
		out = append(out, d.toModel(s.Ref.ID, now))
	}
	sortTransactions(out)
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func sortTransactions(ts []*model.Transaction) {
	sort.SliceStable(ts, func(i, j int) bool {
		if !ts[i].CreatedAt.Equal(ts[j].CreatedAt) {
			return ts[i].CreatedAt.After(ts[j].CreatedAt)
		}
		return ts[i].ID > ts[j].ID
	})
}

package firestore

import (
	"context"
	"fmt"
	"sort"
	"time"

	gfs "cloud.google.com/go/firestore"

	"recharge-inventory/internal/domain"
	"recharge-inventory/internal/domain/model"
	"recharge-inventory/internal/domain/ports/repository"
)

// maxBatchWrites is the Firestore limit on writes in one transaction.
const maxBatchWrites = 500

var _ repository.RechargeCodeRepository = (*RechargeCodeRepo)(nil)

type RechargeCodeRepo struct {
	client *gfs.Client
	now    func() time.Time
}

func NewRechargeCodeRepo(client *gfs.Client) *RechargeCodeRepo {
	return &RechargeCodeRepo{client: client, now: time.Now}
}

func (r *RechargeCodeRepo) col() *gfs.CollectionRef {
	return r.client.Collection(CodesCollection)
}

func (r *RechargeCodeRepo) Save(ctx context.Context, tx repository.Tx, c *model.RechargeCode) error {
	ftx, err := asTx(tx)
	if err != nil {
		return err
	}
	ref := r.col().Doc(c.ID)
	if ftx != nil {
		return mapErr(ftx.Set(ref, toCodeDoc(c)))
	}
	if _, err := ref.Set(ctx, toCodeDoc(c)); err != nil {
		return fmt.Errorf("set recharge code %s: %w", c.ID, mapErr(err))
	}
	return nil
}

// SaveBatch writes every code inside one Firestore transaction.
func (r *RechargeCodeRepo) SaveBatch(ctx context.Context, codes []*model.RechargeCode) error {
	if len(codes) == 0 {
		return nil
	}
	if len(codes) > maxBatchWrites {
		return fmt.Errorf("batch of %d codes exceeds the %d write limit: %w", len(codes), maxBatchWrites, domain.ErrInvalidArgument)
	}
	err := r.client.RunTransaction(ctx, func(ctx context.Context, ftx *gfs.Transaction) error {
		for _, c := range codes {
			if err := ftx.Set(r.col().Doc(c.ID), toCodeDoc(c)); err != nil {
				return err
			}
		}
		return nil
	})
	return mapErr(err)
}

func (r *RechargeCodeRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.RechargeCode, error) {
	ftx, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	ref := r.col().Doc(id)
	var snap *gfs.DocumentSnapshot
	if ftx != nil {
		snap, err = ftx.Get(ref)
	} else {
		snap, err = ref.Get(ctx)
	}
	if err != nil {
		return nil, mapErr(err)
	}
	var d codeDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("decode recharge code %s: %w", id, err)
	}
	return d.toModel(snap.Ref.ID, r.now()), nil
}

// List applies equality filters in the query and sorts in memory, so no
// composite index is needed.
func (r *RechargeCodeRepo) List(ctx context.Context, tx repository.Tx, q repository.CodeQuery) ([]*model.RechargeCode, error) {
	ftx, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	query := r.col().Query
	if q.Status != "" {
		query = query.Where("status", "==", string(q.Status))
	}
	if q.Type != "" {
		query = query.Where("type", "==", string(q.Type))
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
		return nil, fmt.Errorf("list recharge codes: %w", mapErr(err))
	}

	now := r.now()
	out := make([]*model.RechargeCode, 0, len(snaps))
	for _, s := range snaps {
		var d codeDoc
		if err := s.DataTo(&d); err != nil {
			return nil, fmt.Errorf("decode recharge code %s: %w", s.Ref.ID, err)
		}
		out = append(out, d.toModel(s.Ref.ID, now))
	}
	sortCodes(out)
	return out, nil
}

func (r *RechargeCodeRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	ftx, err := asTx(tx)
	if err != nil {
		return err
	}
	ref := r.col().Doc(id)
	if ftx != nil {
		return mapErr(ftx.Delete(ref, gfs.Exists))
	}
	_, err = ref.Delete(ctx, gfs.Exists)
	return mapErr(err)
}

// sortCodes orders newest first, breaking ties by id descending.
func sortCodes(cs []*model.RechargeCode) {
	sort.SliceStable(cs, func(i, j int) bool {
		if !cs[i].CreatedAt.Equal(cs[j].CreatedAt) {
			return cs[i].CreatedAt.After(cs[j].CreatedAt)
		}
		return cs[i].ID > cs[j].ID
	})
}

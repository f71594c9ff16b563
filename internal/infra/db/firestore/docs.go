package firestore

import (
	"time"

	"recharge-inventory/internal/domain/model"
)

// codeDoc is the stored shape of a recharge code. Timestamps are pointers so
// documents written by other tools without them still decode.
type codeDoc struct {
	Code          string     `firestore:"code"`
	Type          string     `firestore:"type"`
	Platform      string     `firestore:"platform"`
	Denomination  float64    `firestore:"denomination"`
	PurchasePrice float64    `firestore:"purchasePrice"`
	SalePrice     float64    `firestore:"salePrice"`
	PurchaseDate  *time.Time `firestore:"purchaseDate,omitempty"`
	SaleDate      *time.Time `firestore:"saleDate,omitempty"`
	Status        string     `firestore:"status"`
	SoldBy        *string    `firestore:"soldBy,omitempty"`
	SoldTo        *string    `firestore:"soldTo,omitempty"`
	CreatedAt     *time.Time `firestore:"createdAt,omitempty"`
	UpdatedAt     *time.Time `firestore:"updatedAt,omitempty"`
}

type txDoc struct {
	CodeID       string     `firestore:"codeId"`
	Code         string     `firestore:"code"`
	Type         string     `firestore:"type"`
	Platform     string     `firestore:"platform"`
	Denomination float64    `firestore:"denomination"`
	SalePrice    float64    `firestore:"salePrice"`
	Profit       float64    `firestore:"profit"`
	SoldBy       string     `firestore:"soldBy"`
	SoldTo       string     `firestore:"soldTo"`
	SaleDate     *time.Time `firestore:"saleDate,omitempty"`
	CreatedAt    *time.Time `firestore:"createdAt,omitempty"`
}

func timeOr(t *time.Time, now time.Time) time.Time {
	if t == nil || t.IsZero() {
		return now
	}
	return *t
}

func ptrTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func toCodeDoc(c *model.RechargeCode) codeDoc {
	return codeDoc{
		Code:          c.Code,
		Type:          string(c.Type),
		Platform:      c.Platform,
		Denomination:  c.Denomination,
		PurchasePrice: c.PurchasePrice,
		SalePrice:     c.SalePrice,
		PurchaseDate:  ptrTime(c.PurchaseDate),
		SaleDate:      c.SaleDate,
		Status:        string(c.Status),
		SoldBy:        c.SoldBy,
		SoldTo:        c.SoldTo,
		CreatedAt:     ptrTime(c.CreatedAt),
		UpdatedAt:     ptrTime(c.UpdatedAt),
	}
}

func (d codeDoc) toModel(id string, now time.Time) *model.RechargeCode {
	return &model.RechargeCode{
		ID:            id,
		Code:          d.Code,
		Type:          model.CodeType(d.Type),
		Platform:      d.Platform,
		Denomination:  d.Denomination,
		PurchasePrice: d.PurchasePrice,
		SalePrice:     d.SalePrice,
		PurchaseDate:  timeOr(d.PurchaseDate, now),
		SaleDate:      d.SaleDate,
		Status:        model.CodeStatus(d.Status),
		SoldBy:        d.SoldBy,
		SoldTo:        d.SoldTo,
		CreatedAt:     timeOr(d.CreatedAt, now),
		UpdatedAt:     timeOr(d.UpdatedAt, now),
	}
}

func toTxDoc(t *model.Transaction) txDoc {
	return txDoc{
		CodeID:       t.CodeID,
		Code:         t.Code,
		Type:         string(t.Type),
		Platform:     t.Platform,
		Denomination: t.Denomination,
		SalePrice:    t.SalePrice,
		Profit:       t.Profit,
		SoldBy:       t.SoldBy,
		SoldTo:       t.SoldTo,
		SaleDate:     ptrTime(t.SaleDate),
		CreatedAt:    ptrTime(t.CreatedAt),
	}
}

func (d txDoc) toModel(id string, now time.Time) *model.Transaction {
	return &model.Transaction{
		ID:           id,
		CodeID:       d.CodeID,
		Code:         d.Code,
		Type:         model.CodeType(d.Type),
		Platform:     d.Platform,
		Denomination: d.Denomination,
		SalePrice:    d.SalePrice,
		Profit:       d.Profit,
		SoldBy:       d.SoldBy,
		SoldTo:       d.SoldTo,
		SaleDate:     timeOr(d.SaleDate, now),
		CreatedAt:    timeOr(d.CreatedAt, now),
	}
}

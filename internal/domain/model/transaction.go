package model

import (
	"time"

	"recharge-inventory/internal/domain"
)

// Transaction is the immutable record of one completed sale.
// ID equals CodeID: a code yields at most one transaction.
type Transaction struct {
	ID           string    `json:"id"`
	CodeID       string    `json:"codeId"`
	Code         string    `json:"code"`
	Type         CodeType  `json:"type"`
	Platform     string    `json:"platform"`
	Denomination float64   `json:"denomination"`
	SalePrice    float64   `json:"salePrice"`
	Profit       float64   `json:"profit"`
	SoldBy       string    `json:"soldBy"`
	SoldTo       string    `json:"soldTo"`
	SaleDate     time.Time `json:"saleDate"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewSaleTransaction snapshots a code that was just marked sold.
func NewSaleTransaction(c *RechargeCode) (*Transaction, error) {
	if c == nil || c.Status != CodeStatusSold || c.SaleDate == nil || c.SoldBy == nil || c.SoldTo == nil {
		return nil, domain.ErrInvalidArgument
	}
	return &Transaction{
		ID:           c.ID,
		CodeID:       c.ID,
		Code:         c.Code,
		Type:         c.Type,
		Platform:     c.Platform,
		Denomination: c.Denomination,
		SalePrice:    c.SalePrice,
		Profit:       c.Profit(),
		SoldBy:       *c.SoldBy,
		SoldTo:       *c.SoldTo,
		SaleDate:     *c.SaleDate,
		CreatedAt:    *c.SaleDate,
	}, nil
}

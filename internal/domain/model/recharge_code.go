package model

import (
	"math"
	"strings"
	"time"

	"recharge-inventory/internal/domain"

	"github.com/oklog/ulid/v2"
)

type CodeType string

const (
	CodeTypeOneMonth    CodeType = "1-month"
	CodeTypeThreeMonths CodeType = "3-months"
)

// CodeTypes lists the recognised duration variants in display order.
var CodeTypes = []CodeType{CodeTypeOneMonth, CodeTypeThreeMonths}

func (t CodeType) Valid() bool {
	return t == CodeTypeOneMonth || t == CodeTypeThreeMonths
}

// Platforms is the fixed set of content platforms codes can be bought for.
var Platforms = []string{"Envato", "Freepik", "Motionarray"}

// ValidPlatform reports whether p is one of Platforms. Matching is exact.
func ValidPlatform(p string) bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}

type CodeStatus string

const (
	CodeStatusAvailable CodeStatus = "available"
	CodeStatusSold      CodeStatus = "sold"
	// CodeStatusExpired is part of the stored vocabulary; nothing in this service assigns it.
	CodeStatusExpired CodeStatus = "expired"
)

func (s CodeStatus) Valid() bool {
	return s == CodeStatusAvailable || s == CodeStatusSold || s == CodeStatusExpired
}

// RechargeCode is one unit of sellable inventory.
// SoldBy, SoldTo and SaleDate are set if and only if Status is sold.
type RechargeCode struct {
	ID            string     `json:"id"`
	Code          string     `json:"code"`
	Type          CodeType   `json:"type"`
	Platform      string     `json:"platform"`
	Denomination  float64    `json:"denomination"`
	PurchasePrice float64    `json:"purchasePrice"`
	SalePrice     float64    `json:"salePrice"`
	PurchaseDate  time.Time  `json:"purchaseDate"`
	SaleDate      *time.Time `json:"saleDate,omitempty"`
	Status        CodeStatus `json:"status"`
	SoldBy        *string    `json:"soldBy,omitempty"`
	SoldTo        *string    `json:"soldTo,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// CodeFields holds the editable attributes of a code, shared by create, edit and import.
type CodeFields struct {
	Code          string
	Type          CodeType
	Platform      string
	Denomination  float64
	PurchasePrice float64
	SalePrice     float64
	PurchaseDate  time.Time
}

// Validate checks the data-model rules for editable fields.
func (f CodeFields) Validate() error {
	if strings.TrimSpace(f.Code) == "" || f.PurchaseDate.IsZero() {
		return domain.ErrInvalidArgument
	}
	if !f.Type.Valid() {
		return domain.ErrInvalidType
	}
	if !ValidPlatform(f.Platform) {
		return domain.ErrInvalidPlatform
	}
	for _, v := range []float64{f.Denomination, f.PurchasePrice, f.SalePrice} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return domain.ErrNegativeAmount
		}
	}
	return nil
}

// NewID returns a lexically sortable identifier for new records.
func NewID() string {
	return ulid.Make().String()
}

// NewRechargeCode validates fields and builds an available code stamped with now.
func NewRechargeCode(id string, f CodeFields, now time.Time) (*RechargeCode, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if id == "" {
		id = NewID()
	}
	c := &RechargeCode{
		ID:        id,
		Status:    CodeStatusAvailable,
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.apply(f)
	return c, nil
}

func (c *RechargeCode) apply(f CodeFields) {
	c.Code = strings.TrimSpace(f.Code)
	c.Type = f.Type
	c.Platform = f.Platform
	c.Denomination = f.Denomination
	c.PurchasePrice = f.PurchasePrice
	c.SalePrice = f.SalePrice
	c.PurchaseDate = f.PurchaseDate
}

// Replace overwrites every editable field and refreshes UpdatedAt.
// Status and sale fields are left alone.
func (c *RechargeCode) Replace(f CodeFields, now time.Time) error {
	if err := f.Validate(); err != nil {
		return err
	}
	c.apply(f)
	c.UpdatedAt = now
	return nil
}

func (c *RechargeCode) IsAvailable() bool { return c != nil && c.Status == CodeStatusAvailable }

// MarkSold performs the only allowed status transition, available -> sold.
func (c *RechargeCode) MarkSold(sellerID, buyer string, at time.Time) error {
	if !c.IsAvailable() {
		return domain.ErrCodeNotAvailable
	}
	buyer = strings.TrimSpace(buyer)
	if sellerID == "" || buyer == "" {
		return domain.ErrInvalidArgument
	}
	c.Status = CodeStatusSold
	c.SaleDate = &at
	c.SoldBy = &sellerID
	c.SoldTo = &buyer
	c.UpdatedAt = at
	return nil
}

// Profit is what selling the code at its current prices yields.
func (c *RechargeCode) Profit() float64 { return c.SalePrice - c.PurchasePrice }

package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"recharge-inventory/internal/csvio"
	"recharge-inventory/internal/domain"
	"recharge-inventory/internal/domain/model"

	"github.com/go-playground/validator/v10"
)

// CodeInput is the payload of single create and edit.
type CodeInput struct {
	Code          string         `json:"code" validate:"required"`
	Type          model.CodeType `json:"type" validate:"required,oneof=1-month 3-months"`
	Platform      string         `json:"platform" validate:"required,oneof=Envato Freepik Motionarray"`
	Denomination  float64        `json:"denomination" validate:"gte=0"`
	PurchasePrice float64        `json:"purchasePrice" validate:"gte=0"`
	SalePrice     float64        `json:"salePrice" validate:"gte=0"`
	PurchaseDate  string         `json:"purchaseDate" validate:"required,datetime=2006-01-02"`
}

// DetailedError carries a list of human-readable problems alongside a domain error kind.
type DetailedError struct {
	Kind  error
	Items []string
}

func (e *DetailedError) Error() string {
	if len(e.Items) == 0 {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + strings.Join(e.Items, "; ")
}

func (e *DetailedError) Unwrap() error { return e.Kind }

var validate = validator.New()

func (in CodeInput) fields() (model.CodeFields, error) {
	in.Code = strings.TrimSpace(in.Code)
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			items := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				items = append(items, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
			}
			return model.CodeFields{}, &DetailedError{Kind: domain.ErrInvalidArgument, Items: items}
		}
		return model.CodeFields{}, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	purchasedAt, err := time.Parse(csvio.DateLayout, in.PurchaseDate)
	if err != nil {
		return model.CodeFields{}, &DetailedError{Kind: domain.ErrInvalidArgument, Items: []string{"PurchaseDate is not YYYY-MM-DD"}}
	}
	return model.CodeFields{
		Code:          in.Code,
		Type:          in.Type,
		Platform:      in.Platform,
		Denomination:  in.Denomination,
		PurchasePrice: in.PurchasePrice,
		SalePrice:     in.SalePrice,
		PurchaseDate:  purchasedAt,
	}, nil
}

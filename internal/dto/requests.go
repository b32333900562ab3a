package dto

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/johndcoy/woocommerce-product-fees/internal/fee"
)

type LineRequest struct {
	ProductID   int64           `json:"product_id" binding:"required,gt=0"`
	VariationID int64           `json:"variation_id" binding:"gte=0"`
	Quantity    int             `json:"quantity" binding:"required,gt=0"`
	Price       decimal.Decimal `json:"price"`
}

type CartFeesRequest struct {
	Lines []LineRequest `json:"lines" binding:"required,min=1,max=500,dive"`
}

type BatchCartFeesRequest struct {
	Carts []CartFeesRequest `json:"carts" binding:"required,min=1,max=100,dive"`
}

// Price bounds accepted from clients.
const (
	MaxPriceIntegerDigits = 12
	MaxPriceScale         = 8
)

// ValidatePrice rejects negative prices and prices outside the accepted
// magnitude. It inspects digits and exponent only, never expanding the value.
func ValidatePrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return errors.New("price must not be negative")
	}
	if p.IsZero() {
		return nil
	}
	if p.Exponent() < -MaxPriceScale {
		return fmt.Errorf("price must have at most %d decimal places", MaxPriceScale)
	}
	if int64(p.NumDigits())+int64(p.Exponent()) > MaxPriceIntegerDigits {
		return fmt.Errorf("price must have at most %d integer digits", MaxPriceIntegerDigits)
	}
	return nil
}

// ToLine converts the request into a cart line after checking the price.
func (r LineRequest) ToLine() (fee.ProductLine, error) {
	if err := ValidatePrice(r.Price); err != nil {
		return fee.ProductLine{}, err
	}
	return fee.ProductLine{
		ProductID:   r.ProductID,
		VariationID: r.VariationID,
		Quantity:    r.Quantity,
		Price:       r.Price,
	}, nil
}

// ToLines converts every line, reporting the offending indexes.
func (r CartFeesRequest) ToLines() ([]fee.ProductLine, []ValidationError) {
	var errs []ValidationError
	lines := make([]fee.ProductLine, len(r.Lines))
	for i, l := range r.Lines {
		line, err := l.ToLine()
		if err != nil {
			errs = append(errs, ValidationError{Index: i, Field: "price", Message: err.Error()})
			continue
		}
		lines[i] = line
	}
	return lines, errs
}

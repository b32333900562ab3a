package dto

import (
	"github.com/shopspring/decimal"

	"github.com/johndcoy/woocommerce-product-fees/internal/cart"
	"github.com/johndcoy/woocommerce-product-fees/internal/fee"
)

type LineFeeResponse struct {
	Index        int               `json:"index"`
	ProductID    int64             `json:"product_id"`
	Registration *fee.Registration `json:"registration"`
}

type CartFeesResponse struct {
	CartID   string            `json:"cart_id"`
	Fees     []*cart.Fee       `json:"fees"`
	FeeTotal decimal.Decimal   `json:"fee_total"`
	Lines    []LineFeeResponse `json:"lines"`
}

type BatchCartFeesResponse struct {
	Carts []CartFeesResponse `json:"carts"`
}

type QuoteResponse struct {
	Fee *fee.Resolved `json:"fee"`
}

type ValidationError struct {
	Index   int    `json:"index,omitempty"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorListResponse struct {
	Error  string            `json:"error"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// Package fee resolves per-product fees for cart lines.
//
// A product carries its fee settings as metadata: a display name, a raw amount
// (flat, or a percentage of the unit price such as "5%") and a multiplier flag
// deciding whether the fee scales with the line quantity. ProductFee reads that
// metadata, normalizes the host's decimal separator, converts percentages and
// hands the result to a Registrar that adds it to the cart.
package fee

import (
	"context"

	"github.com/shopspring/decimal"
)

// Metadata keys read for every product or variation.
const (
	MetaName       = "fee-name"
	MetaAmount     = "fee-amount"
	MetaMultiplier = "fee-multiplier"
)

// MultiplierYes is the only flag value that scales a fee by quantity.
const MultiplierYes = "yes"

// ProductLine is a single cart line. VariationID is zero for simple products.
type ProductLine struct {
	ProductID   int64
	VariationID int64
	Quantity    int
	Price       decimal.Decimal
}

// Config is the fee configuration as stored on the product, amount still raw.
type Config struct {
	Name       string `json:"name"`
	Amount     string `json:"amount"`
	Multiplier string `json:"multiplier"`
	ProductID  int64  `json:"product_id"`
}

// Resolved is a Config whose amount has been turned into a final value.
type Resolved struct {
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Multiplier string          `json:"multiplier"`
	ProductID  int64           `json:"product_id"`
}

// MetadataStore is a read-only lookup of product metadata. A missing key is
// reported as an empty string; the error is reserved for storage failures.
type MetadataStore interface {
	GetMeta(ctx context.Context, productID int64, key string) (string, error)
}

// Registration is the handle returned when a fee is added to a cart.
type Registration struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Combined bool            `json:"combined"`
}

// Registrar adds resolved fees to a cart of type C. It is shared by every kind
// of fee producer, so it must accept a nil fee and register nothing for it.
type Registrar[C any] interface {
	RegisterFee(ctx context.Context, f *Resolved, cart C) (*Registration, error)
}

// MapStore is an in-memory MetadataStore keyed by product id.
type MapStore map[int64]map[string]string

func (m MapStore) GetMeta(_ context.Context, productID int64, key string) (string, error) {
	return m[productID][key], nil
}

// Set stores a metadata value, creating the product entry when needed.
func (m MapStore) Set(productID int64, key, value string) {
	if m[productID] == nil {
		m[productID] = make(map[string]string)
	}
	m[productID][key] = value
}

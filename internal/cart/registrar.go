package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/johndcoy/woocommerce-product-fees/internal/fee"
)

type Options struct {
	// CombineFees merges fees that share a name into a single cart entry.
	CombineFees bool
	Taxable     bool
	TaxClass    string
}

// Registrar adds resolved fees to a Cart. Product, cart-level and global fee
// producers all register through it.
type Registrar struct {
	opts Options
}

func NewRegistrar(opts Options) *Registrar {
	return &Registrar{opts: opts}
}

var _ fee.Registrar[*Cart] = (*Registrar)(nil)

// RegisterFee adds f to c. Nil and zero fees are skipped and yield a nil
// registration.
func (r *Registrar) RegisterFee(_ context.Context, f *fee.Resolved, c *Cart) (*fee.Registration, error) {
	if f == nil || f.Amount.IsZero() {
		return nil, nil
	}

	if r.opts.CombineFees {
		if existing, ok := c.FindFee(f.Name); ok {
			existing.Amount = existing.Amount.Add(f.Amount)
			existing.ProductIDs = append(existing.ProductIDs, f.ProductID)

			log.Debug().
				Str("cart_id", c.ID).
				Str("fee", f.Name).
				Int64("product_id", f.ProductID).
				Msg("combined product fee")

			return &fee.Registration{
				ID:       existing.ID,
				Name:     existing.Name,
				Amount:   f.Amount,
				Combined: true,
			}, nil
		}
	}

	entry := &Fee{
		ID:         uuid.NewString(),
		Name:       f.Name,
		Amount:     f.Amount,
		Taxable:    r.opts.Taxable,
		ProductIDs: []int64{f.ProductID},
	}
	if r.opts.Taxable {
		entry.TaxClass = r.opts.TaxClass
	}
	c.add(entry)

	return &fee.Registration{
		ID:     entry.ID,
		Name:   entry.Name,
		Amount: f.Amount,
	}, nil
}

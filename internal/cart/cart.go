package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart collects the fees registered while a cart is being priced.
type Cart struct {
	ID   string `json:"id"`
	Fees []*Fee `json:"fees"`

	byName map[string]*Fee
}

// Fee is one fee line of a cart, possibly combined from several products.
type Fee struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Taxable    bool            `json:"taxable"`
	TaxClass   string          `json:"tax_class,omitempty"`
	ProductIDs []int64         `json:"product_ids"`
}

// New returns an empty cart with a fresh ID. A zero Cart is also usable.
func New() *Cart {
	return &Cart{
		ID:     uuid.NewString(),
		Fees:   []*Fee{},
		byName: make(map[string]*Fee),
	}
}

// FeeTotal sums the registered fees. It is not the cart total.
func (c *Cart) FeeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, f := range c.Fees {
		total = total.Add(f.Amount)
	}
	return total
}

// FindFee returns the first fee registered under name.
func (c *Cart) FindFee(name string) (*Fee, bool) {
	if c.byName == nil {
		for _, f := range c.Fees {
			if f.Name == name {
				return f, true
			}
		}
		return nil, false
	}
	f, ok := c.byName[name]
	return f, ok
}

func (c *Cart) add(f *Fee) {
	if c.byName == nil {
		c.byName = make(map[string]*Fee, len(c.Fees)+1)
		for _, existing := range c.Fees {
			if _, ok := c.byName[existing.Name]; !ok {
				c.byName[existing.Name] = existing
			}
		}
	}
	c.Fees = append(c.Fees, f)
	if _, ok := c.byName[f.Name]; !ok {
		c.byName[f.Name] = f
	}
}

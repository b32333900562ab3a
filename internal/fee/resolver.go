package fee

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Options carries the collaborators a ProductFee resolves and registers with.
type Options[C any] struct {
	Store     MetadataStore
	Filters   Filters
	Registrar Registrar[C]
	// DecimalSeparator is the host's price decimal separator, "." when empty.
	DecimalSeparator string
}

// ProductFee resolves the fee of one cart line and registers it with the cart.
// It holds no state besides its inputs, so Resolve can be called repeatedly.
type ProductFee[C any] struct {
	line ProductLine
	cart C
	opts Options[C]
}

// New returns the fee of line within cart.
func New[C any](line ProductLine, cart C, opts Options[C]) *ProductFee[C] {
	return &ProductFee[C]{line: line, cart: cart, opts: opts}
}

// LoadConfig reads the fee settings of the line's product. A variation without
// its own fee falls back to the parent product. It returns nil when no fee is
// configured or a filter dropped it.
func (p *ProductFee[C]) LoadConfig(ctx context.Context) (*Config, error) {
	if p.line.VariationID != 0 {
		cfg, err := p.loadFor(ctx, p.line.VariationID)
		if err != nil || cfg != nil {
			return cfg, err
		}
	}
	return p.loadFor(ctx, p.line.ProductID)
}

func (p *ProductFee[C]) loadFor(ctx context.Context, id int64) (*Config, error) {
	name, err := p.opts.Store.GetMeta(ctx, id, MetaName)
	if err != nil {
		return nil, fmt.Errorf("get %s for product %d: %w", MetaName, id, err)
	}
	amount, err := p.opts.Store.GetMeta(ctx, id, MetaAmount)
	if err != nil {
		return nil, fmt.Errorf("get %s for product %d: %w", MetaAmount, id, err)
	}
	if name == "" || amount == "" {
		return nil, nil
	}

	multiplier, err := p.opts.Store.GetMeta(ctx, id, MetaMultiplier)
	if err != nil {
		return nil, fmt.Errorf("get %s for product %d: %w", MetaMultiplier, id, err)
	}

	cfg, ok := p.opts.Filters.Apply(Config{
		Name:       name,
		Amount:     amount,
		Multiplier: multiplier,
		ProductID:  id,
	})
	if !ok {
		return nil, nil
	}
	return &cfg, nil
}

// ConvertPercentage turns a percentage of the unit price into an absolute
// amount. Anything else is parsed as a flat amount. Separators must already
// be normalized.
func (p *ProductFee[C]) ConvertPercentage(raw string) decimal.Decimal {
	if !IsPercentage(raw) {
		return ParseAmount(raw)
	}
	rate := ParseAmount(strings.ReplaceAll(raw, percentMarker, "")).Div(hundred)
	return p.line.Price.Mul(rate)
}

// Resolve computes the final fee. When cfg is nil the configuration is loaded
// from the store. A nil result means the line carries no fee.
func (p *ProductFee[C]) Resolve(ctx context.Context, cfg *Config) (*Resolved, error) {
	if cfg == nil {
		var err error
		if cfg, err = p.LoadConfig(ctx); err != nil {
			return nil, err
		}
	}
	if cfg == nil {
		return nil, nil
	}

	amount := p.ConvertPercentage(NormalizeSeparator(cfg.Amount, p.opts.DecimalSeparator))
	if cfg.Multiplier == MultiplierYes {
		amount = amount.Mul(decimal.NewFromInt(int64(p.line.Quantity)))
	}

	return &Resolved{
		Name:       cfg.Name,
		Amount:     amount,
		Multiplier: cfg.Multiplier,
		ProductID:  cfg.ProductID,
	}, nil
}

// Finalize resolves the fee and hands it, possibly nil, to the registrar.
func (p *ProductFee[C]) Finalize(ctx context.Context) (*Registration, error) {
	resolved, err := p.Resolve(ctx, nil)
	if err != nil {
		return nil, err
	}
	return p.opts.Registrar.RegisterFee(ctx, resolved, p.cart)
}

package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/johndcoy/woocommerce-product-fees/internal/cart"
	"github.com/johndcoy/woocommerce-product-fees/internal/fee"
)

type Options struct {
	Filters          fee.Filters
	DecimalSeparator string
	// Workers caps how many carts of a batch are priced at once.
	Workers int
}

type CartFeeService struct {
	store     fee.MetadataStore
	registrar *cart.Registrar
	opts      Options
}

func NewCartFeeService(store fee.MetadataStore, registrar *cart.Registrar, opts Options) *CartFeeService {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &CartFeeService{store: store, registrar: registrar, opts: opts}
}

type CartResult struct {
	Cart          *cart.Cart
	Registrations []*fee.Registration
}

func (s *CartFeeService) productFee(line fee.ProductLine, c *cart.Cart) *fee.ProductFee[*cart.Cart] {
	return fee.New(line, c, fee.Options[*cart.Cart]{
		Store:            s.store,
		Filters:          s.opts.Filters,
		Registrar:        s.registrar,
		DecimalSeparator: s.opts.DecimalSeparator,
	})
}

// Calculate registers the fee of every line with a new cart. Lines are
// finalized in order, so fee entries follow the cart's line order.
func (s *CartFeeService) Calculate(ctx context.Context, lines []fee.ProductLine) (*CartResult, error) {
	c := cart.New()
	regs := make([]*fee.Registration, len(lines))

	for i, line := range lines {
		reg, err := s.productFee(line, c).Finalize(ctx)
		if err != nil {
			return nil, fmt.Errorf("finalize fee for line %d: %w", i, err)
		}
		regs[i] = reg
	}

	log.Info().
		Str("cart_id", c.ID).
		Int("lines", len(lines)).
		Int("fees", len(c.Fees)).
		Str("fee_total", c.FeeTotal().String()).
		Msg("cart fees calculated")

	return &CartResult{Cart: c, Registrations: regs}, nil
}

// CalculateBatch prices independent carts concurrently. Results keep the
// order of carts; the first failure cancels the rest.
func (s *CartFeeService) CalculateBatch(ctx context.Context, carts [][]fee.ProductLine) ([]*CartResult, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)

	results := make([]*CartResult, len(carts))
	for i, lines := range carts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.Calculate(gctx, lines)
			if err != nil {
				return fmt.Errorf("cart %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Quote resolves the fee of a single line without registering it.
func (s *CartFeeService) Quote(ctx context.Context, line fee.ProductLine) (*fee.Resolved, error) {
	return s.productFee(line, nil).Resolve(ctx, nil)
}

// LogFilter returns a pass-through fee filter that logs every loaded config
// and warns about amounts that only resolve through permissive parsing.
func LogFilter(separator string) fee.Filter {
	return func(cfg fee.Config) (fee.Config, bool) {
		event := log.Debug()
		if err := fee.ValidateAmount(fee.NormalizeSeparator(cfg.Amount, separator)); err != nil {
			event = log.Warn().Err(err)
		}
		event.
			Str("fee", cfg.Name).
			Str("amount", cfg.Amount).
			Str("multiplier", cfg.Multiplier).
			Int64("product_id", cfg.ProductID).
			Msg("product fee loaded")
		return cfg, true
	}
}

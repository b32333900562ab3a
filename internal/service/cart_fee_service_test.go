package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johndcoy/woocommerce-product-fees/internal/cart"
	"github.com/johndcoy/woocommerce-product-fees/internal/fee"
)

func testStore() fee.MapStore {
	s := fee.MapStore{}
	add := func(id int64, name, amount, multiplier string) {
		s.Set(id, fee.MetaName, name)
		s.Set(id, fee.MetaAmount, amount)
		s.Set(id, fee.MetaMultiplier, multiplier)
	}
	add(101, "Handling fee", "2,50", "no")
	add(102, "Bottle deposit", "0,25", "yes")
	add(103, "Service charge", "5%", "yes")
	add(104, "Bottle deposit", "1", "yes")
	add(200, "Assembly", "15", "yes")
	add(201, "Assembly (large)", "25", "yes")
	return s
}

type brokenStore struct{}

func (brokenStore) GetMeta(context.Context, int64, string) (string, error) {
	return "", errors.New("database is down")
}

func newService(store fee.MetadataStore, combine bool) *CartFeeService {
	return NewCartFeeService(store, cart.NewRegistrar(cart.Options{CombineFees: combine}), Options{
		Filters:          fee.Filters{}.Add(LogFilter(",")),
		DecimalSeparator: ",",
		Workers:          2,
	})
}

func line(id int64, qty int, price int64) fee.ProductLine {
	return fee.ProductLine{ProductID: id, Quantity: qty, Price: decimal.NewFromInt(price)}
}

func TestCartFeeService_Calculate(t *testing.T) {
	ctx := context.Background()

	t.Run("happy: fees registered in line order", func(t *testing.T) {
		svc := newService(testStore(), false)
		res, err := svc.Calculate(ctx, []fee.ProductLine{
			line(101, 3, 10),
			line(103, 2, 100),
			line(999, 1, 10),
		})
		require.NoError(t, err)

		require.Len(t, res.Cart.Fees, 2)
		assert.Equal(t, "Handling fee", res.Cart.Fees[0].Name)
		assert.True(t, decimal.RequireFromString("2.5").Equal(res.Cart.Fees[0].Amount))
		assert.Equal(t, "Service charge", res.Cart.Fees[1].Name)
		assert.True(t, decimal.NewFromInt(10).Equal(res.Cart.Fees[1].Amount))

		require.Len(t, res.Registrations, 3)
		assert.NotNil(t, res.Registrations[0])
		assert.NotNil(t, res.Registrations[1])
		assert.Nil(t, res.Registrations[2], "product without fee has no registration")
		assert.True(t, decimal.RequireFromString("12.5").Equal(res.Cart.FeeTotal()))
	})

	t.Run("combine: same fee name across products", func(t *testing.T) {
		svc := newService(testStore(), true)
		res, err := svc.Calculate(ctx, []fee.ProductLine{line(102, 4, 2), line(104, 2, 5)})
		require.NoError(t, err)

		require.Len(t, res.Cart.Fees, 1)
		assert.True(t, decimal.NewFromInt(3).Equal(res.Cart.Fees[0].Amount))
		assert.Equal(t, []int64{102, 104}, res.Cart.Fees[0].ProductIDs)
		assert.True(t, res.Registrations[1].Combined)
	})

	t.Run("variation fee", func(t *testing.T) {
		svc := newService(testStore(), false)
		withOverride := line(200, 2, 80)
		withOverride.VariationID = 201
		inherited := line(200, 1, 80)
		inherited.VariationID = 202

		res, err := svc.Calculate(ctx, []fee.ProductLine{withOverride, inherited})
		require.NoError(t, err)

		require.Len(t, res.Cart.Fees, 2)
		assert.Equal(t, "Assembly (large)", res.Cart.Fees[0].Name)
		assert.True(t, decimal.NewFromInt(50).Equal(res.Cart.Fees[0].Amount))
		assert.Equal(t, "Assembly", res.Cart.Fees[1].Name)
		assert.Equal(t, []int64{200}, res.Cart.Fees[1].ProductIDs)
	})

	t.Run("bad: store failure", func(t *testing.T) {
		_, err := newService(brokenStore{}, false).Calculate(ctx, []fee.ProductLine{line(101, 1, 1)})
		assert.Error(t, err)
	})
}

func TestCartFeeService_CalculateBatch(t *testing.T) {
	ctx := context.Background()
	svc := newService(testStore(), false)

	t.Run("happy: carts keep their order", func(t *testing.T) {
		carts := [][]fee.ProductLine{
			{line(101, 1, 10)},
			{line(103, 1, 200)},
			{line(999, 1, 10)},
			{line(102, 4, 1), line(101, 1, 1)},
		}
		results, err := svc.CalculateBatch(ctx, carts)
		require.NoError(t, err)
		require.Len(t, results, 4)

		assert.True(t, decimal.RequireFromString("2.5").Equal(results[0].Cart.FeeTotal()))
		assert.True(t, decimal.NewFromInt(10).Equal(results[1].Cart.FeeTotal()))
		assert.Empty(t, results[2].Cart.Fees)
		assert.True(t, decimal.RequireFromString("3.5").Equal(results[3].Cart.FeeTotal()))

		ids := map[string]bool{}
		for _, r := range results {
			ids[r.Cart.ID] = true
		}
		assert.Len(t, ids, 4, "every cart gets its own id")
	})

	t.Run("bad: one failing cart fails the batch", func(t *testing.T) {
		_, err := newService(brokenStore{}, false).CalculateBatch(ctx, [][]fee.ProductLine{{line(1, 1, 1)}, {line(2, 1, 1)}})
		assert.Error(t, err)
	})
}

func TestCartFeeService_Quote(t *testing.T) {
	svc := newService(testStore(), false)

	got, err := svc.Quote(context.Background(), line(103, 2, 100))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, decimal.NewFromInt(10).Equal(got.Amount))

	got, err = svc.Quote(context.Background(), line(999, 1, 1))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNewCartFeeService_WorkersFloor(t *testing.T) {
	svc := NewCartFeeService(fee.MapStore{}, cart.NewRegistrar(cart.Options{}), Options{})
	assert.Equal(t, 1, svc.opts.Workers)
}

func TestLogFilter_PassesThrough(t *testing.T) {
	cfg := fee.Config{Name: "Fee", Amount: "garbage", ProductID: 1}
	got, ok := LogFilter(",")(cfg)
	assert.True(t, ok)
	assert.Equal(t, cfg, got)
}

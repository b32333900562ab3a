package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/johndcoy/woocommerce-product-fees/internal/fee"
)

type productFeeSeed struct {
	ProductID  int64
	Name       string
	Amount     string
	Multiplier string
}

// Demo catalogue covering flat, percentage, locale and variation fees.
var productFees = []productFeeSeed{
	{ProductID: 101, Name: "Handling fee", Amount: "2.50", Multiplier: "no"},
	{ProductID: 102, Name: "Bottle deposit", Amount: "0.25", Multiplier: "yes"},
	{ProductID: 103, Name: "Service charge", Amount: "5%", Multiplier: "yes"},
	{ProductID: 104, Name: "Insurance", Amount: "1,5%", Multiplier: "no"},
	{ProductID: 105, Name: "Recycling fee", Amount: "3", Multiplier: "yes"},

	// 200 is a variable product, 201 overrides its fee and 202 inherits it.
	{ProductID: 200, Name: "Assembly", Amount: "15", Multiplier: "yes"},
	{ProductID: 201, Name: "Assembly (large)", Amount: "25", Multiplier: "yes"},

	// Name without amount: no fee.
	{ProductID: 300, Name: "Incomplete", Amount: "", Multiplier: "yes"},
}

func SeedData(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM product_meta").Scan(&count)
	if err != nil {
		return fmt.Errorf("check existing data: %w", err)
	}
	if count > 0 {
		log.Info().Msg("seed data already exists, skipping")
		return nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rows := 0
	for _, p := range productFees {
		meta := map[string]string{
			fee.MetaName:       p.Name,
			fee.MetaAmount:     p.Amount,
			fee.MetaMultiplier: p.Multiplier,
		}
		for key, value := range meta {
			_, err := tx.Exec(ctx,
				"INSERT INTO product_meta (product_id, meta_key, meta_value) VALUES ($1, $2, $3)",
				p.ProductID, key, value)
			if err != nil {
				return fmt.Errorf("insert meta %s for product %d: %w", key, p.ProductID, err)
			}
			rows++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit seed data: %w", err)
	}

	log.Info().
		Int("products", len(productFees)).
		Int("rows", rows).
		Msg("seed data generation complete")
	return nil
}

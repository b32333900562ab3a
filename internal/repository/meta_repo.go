package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/johndcoy/woocommerce-product-fees/internal/fee"
)

// MetaRepository reads product metadata from the product_meta table.
type MetaRepository struct {
	pool *pgxpool.Pool
}

func NewMetaRepository(pool *pgxpool.Pool) *MetaRepository {
	return &MetaRepository{pool: pool}
}

var _ fee.MetadataStore = (*MetaRepository)(nil)

// GetMeta returns an empty string for a missing product or key.
func (r *MetaRepository) GetMeta(ctx context.Context, productID int64, key string) (string, error) {
	var value string
	err := r.pool.QueryRow(ctx,
		`SELECT meta_value FROM product_meta WHERE product_id = $1 AND meta_key = $2`,
		productID, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return value, err
}

func (r *MetaRepository) SetMeta(ctx context.Context, productID int64, key, value string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO product_meta (product_id, meta_key, meta_value)
		VALUES ($1, $2, $3)
		ON CONFLICT (product_id, meta_key) DO UPDATE SET meta_value = EXCLUDED.meta_value, updated_at = NOW()`,
		productID, key, value)
	return err
}

package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/craftline/marketplace/internal/catalog/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Reader serves fresh product state from the products table.
type Reader struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewReader(log *slog.Logger, pool *pgxpool.Pool) *Reader {
	return &Reader{log: log, pool: pool}
}

func (r *Reader) Product(ctx context.Context, id string) (domain.Product, error) {
	var p domain.Product
	err := r.pool.QueryRow(ctx, `SELECT id, name, price_cents, stock_count, is_active, seller_id FROM products WHERE id=$1`, id).
		Scan(&p.ID, &p.Name, &p.PriceCents, &p.StockCount, &p.IsActive, &p.SellerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, domain.ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/craftline/marketplace/internal/basket/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) Get(ctx context.Context, customerID string) (domain.Basket, error) {
	b := domain.Basket{CustomerID: customerID}
	rows, err := r.pool.Query(ctx, `SELECT product_id, quantity, updated_at FROM basket_items WHERE customer_id=$1 ORDER BY added_at`, customerID)
	if err != nil {
		return domain.Basket{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var item domain.Item
		var updatedAt time.Time
		if err := rows.Scan(&item.ProductID, &item.Quantity, &updatedAt); err != nil {
			return domain.Basket{}, err
		}
		if updatedAt.After(b.UpdatedAt) {
			b.UpdatedAt = updatedAt
		}
		b.Items = append(b.Items, item)
	}
	return b, rows.Err()
}

func (r *Repository) AddQuantity(ctx context.Context, customerID, productID string, qty int) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO basket_items (customer_id, product_id, quantity, added_at, updated_at)
		VALUES ($1,$2,$3,now(),now())
		ON CONFLICT (customer_id, product_id) DO UPDATE SET quantity = basket_items.quantity + EXCLUDED.quantity, updated_at = now()`,
		customerID, productID, qty)
	return err
}

func (r *Repository) SetQuantity(ctx context.Context, customerID, productID string, qty int) error {
	ct, err := r.pool.Exec(ctx, `UPDATE basket_items SET quantity=$3, updated_at=now() WHERE customer_id=$1 AND product_id=$2`,
		customerID, productID, qty)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *Repository) Remove(ctx context.Context, customerID, productID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM basket_items WHERE customer_id=$1 AND product_id=$2`, customerID, productID)
	return err
}

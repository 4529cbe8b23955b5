package postgres

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) RecordOrderCreated(ctx context.Context, orderID string, sellerIDs []string) error {
	batch := &pgx.Batch{}
	for _, sellerID := range sellerIDs {
		batch.Queue(`INSERT INTO seller_notifications (order_id, seller_id, created_at)
			VALUES ($1,$2,now()) ON CONFLICT (order_id, seller_id) DO NOTHING`,
			orderID, sellerID)
	}
	return r.pool.SendBatch(ctx, batch).Close()
}

func (r *Repository) MarkPaid(ctx context.Context, orderID string) error {
	_, err := r.pool.Exec(ctx, `UPDATE seller_notifications SET paid_at=now() WHERE order_id=$1 AND paid_at IS NULL`, orderID)
	return err
}

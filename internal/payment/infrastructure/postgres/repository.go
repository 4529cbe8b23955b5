package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/craftline/marketplace/internal/payment/domain"
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

func (r *Repository) Create(ctx context.Context, intent domain.PaymentIntent) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO payment_intents (order_id, external_order_id, amount_cents, currency, verified, created_at)
		VALUES ($1,$2,$3,$4,false,$5)`,
		intent.OrderID, intent.ExternalOrderID, intent.AmountCents, intent.Currency, time.Now().UTC())
	return err
}

func (r *Repository) ByExternalOrderID(ctx context.Context, externalOrderID string) (domain.PaymentIntent, error) {
	var intent domain.PaymentIntent
	err := r.pool.QueryRow(ctx, `SELECT order_id, external_order_id, external_payment_id, amount_cents, currency, verified, created_at
		FROM payment_intents WHERE external_order_id=$1`, externalOrderID).
		Scan(&intent.OrderID, &intent.ExternalOrderID, &intent.ExternalPaymentID, &intent.AmountCents,
			&intent.Currency, &intent.Verified, &intent.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.PaymentIntent{}, domain.ErrUnknownIntent
	}
	if err != nil {
		return domain.PaymentIntent{}, err
	}
	return intent, nil
}

// Settle runs the idempotency check and the credit as one transaction. The
// intent row is locked FOR UPDATE so two concurrent callbacks for the same
// external order serialize; the second sees verified=true and changes
// nothing. The order's paid fields are guarded by is_paid=false, keeping
// isPaid monotonic on every path.
func (r *Repository) Settle(ctx context.Context, externalOrderID, externalPaymentID, eventType string, payload []byte, traceparent string) (bool, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var orderID string
	var verified bool
	err = tx.QueryRow(ctx, `SELECT order_id, verified FROM payment_intents WHERE external_order_id=$1 FOR UPDATE`, externalOrderID).
		Scan(&orderID, &verified)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, domain.ErrUnknownIntent
	}
	if err != nil {
		return false, err
	}
	if verified {
		return true, tx.Commit(ctx)
	}

	_, err = tx.Exec(ctx, `UPDATE payment_intents SET verified=true, external_payment_id=$2 WHERE external_order_id=$1`,
		externalOrderID, externalPaymentID)
	if err != nil {
		return false, err
	}

	_, err = tx.Exec(ctx, `UPDATE orders SET is_paid=true, paid_at=now(), external_payment_order_id=$2,
		external_payment_transaction_id=$3, updated_at=now()
		WHERE id=$1 AND is_paid=false`,
		orderID, externalOrderID, externalPaymentID)
	if err != nil {
		return false, err
	}

	_, err = tx.Exec(ctx, `INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, traceparent, status)
		VALUES ($1,$2,$3,$4,$5,'pending')`,
		"order", orderID, eventType, payload, traceparent)
	if err != nil {
		return false, err
	}

	return false, tx.Commit(ctx)
}

package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/craftline/marketplace/internal/order/domain"
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

// CreateFromBasket commits a placement as one transaction: empty the basket,
// decrement stock per line with a guarded update, insert the order with its
// items, and write the outbox row. Any failed guard aborts the whole
// transaction, so there is never a partial order.
func (r *Repository) CreateFromBasket(ctx context.Context, o domain.Order, eventType string, payload []byte, traceparent string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	// Emptying first makes concurrent placement from the same basket a
	// first-writer-wins race: the loser deletes zero rows and aborts.
	ct, err := tx.Exec(ctx, `DELETE FROM basket_items WHERE customer_id=$1`, o.CustomerID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrEmptyBasket
	}

	for _, item := range o.Items {
		ct, err := tx.Exec(ctx, `UPDATE products SET stock_count = stock_count - $1 WHERE id=$2 AND is_active AND stock_count >= $1`,
			item.Quantity, item.ProductID)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return r.stockGuardError(ctx, tx, item)
		}
	}

	_, err = tx.Exec(ctx, `INSERT INTO orders (id, customer_id, ship_line, ship_city, ship_state, ship_postal_code, ship_country,
			total_cents, status, payment_method, delivery_type, is_paid, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		o.ID, o.CustomerID, o.ShippingAddress.Line, o.ShippingAddress.City, o.ShippingAddress.State,
		o.ShippingAddress.PostalCode, o.ShippingAddress.Country,
		o.TotalCents, o.Status, o.PaymentMethod, o.DeliveryType, o.IsPaid, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, item := range o.Items {
		batch.Queue(`INSERT INTO order_items (order_id, product_id, product_name, seller_id, quantity, unit_price_cents)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			o.ID, item.ProductID, item.ProductName, item.SellerID, item.Quantity, item.UnitPriceCents)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, traceparent, status)
		VALUES ($1,$2,$3,$4,$5,'pending')`,
		"order", o.ID, eventType, payload, traceparent)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// stockGuardError turns a missed stock decrement into the error the caller
// can act on: unavailable if the product vanished or went inactive,
// insufficient stock otherwise.
func (r *Repository) stockGuardError(ctx context.Context, tx pgx.Tx, item domain.LineItem) error {
	var name string
	var stock int
	var active bool
	err := tx.QueryRow(ctx, `SELECT name, stock_count, is_active FROM products WHERE id=$1`, item.ProductID).
		Scan(&name, &stock, &active)
	if errors.Is(err, pgx.ErrNoRows) {
		return &domain.ProductUnavailableError{ProductID: item.ProductID, ProductName: item.ProductName}
	}
	if err != nil {
		return err
	}
	if !active {
		return &domain.ProductUnavailableError{ProductID: item.ProductID, ProductName: name}
	}
	return &domain.InsufficientStockError{
		ProductID:   item.ProductID,
		ProductName: name,
		Requested:   item.Quantity,
		Available:   stock,
	}
}

const orderColumns = `id, customer_id, ship_line, ship_city, ship_state, ship_postal_code, ship_country,
	total_cents, status, payment_method, delivery_type, is_paid, paid_at,
	external_payment_order_id, external_payment_transaction_id, created_at, updated_at`

func scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	err := row.Scan(&o.ID, &o.CustomerID, &o.ShippingAddress.Line, &o.ShippingAddress.City, &o.ShippingAddress.State,
		&o.ShippingAddress.PostalCode, &o.ShippingAddress.Country,
		&o.TotalCents, &o.Status, &o.PaymentMethod, &o.DeliveryType, &o.IsPaid, &o.PaidAt,
		&o.ExternalPaymentOrderID, &o.ExternalPaymentTransactionID, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func (r *Repository) Get(ctx context.Context, id string) (domain.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	if o.Items, err = r.loadItems(ctx, id); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r *Repository) loadItems(ctx context.Context, orderID string) ([]domain.LineItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT product_id, product_name, seller_id, quantity, unit_price_cents
		FROM order_items WHERE order_id=$1`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.LineItem
	for rows.Next() {
		var item domain.LineItem
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.SellerID, &item.Quantity, &item.UnitPriceCents); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].Items, err = r.loadItems(ctx, orders[i].ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *Repository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE customer_id=$1 ORDER BY created_at DESC`, customerID)
}

func (r *Repository) ListBySeller(ctx context.Context, sellerID string) ([]domain.Order, error) {
	return r.list(ctx, `SELECT DISTINCT `+orderColumns+` FROM orders
		JOIN order_items ON order_items.order_id = orders.id
		WHERE order_items.seller_id=$1 ORDER BY created_at DESC`, sellerID)
}

func (r *Repository) ListAll(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

// UpdateStatus is a compare-and-swap on the status column so two concurrent
// transitions cannot both apply from the same starting state.
func (r *Repository) UpdateStatus(ctx context.Context, id string, from, to domain.Status, eventType string, payload []byte, traceparent string) (domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Order{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	ct, err := tx.Exec(ctx, `UPDATE orders SET status=$3, updated_at=now() WHERE id=$1 AND status=$2`, id, from, to)
	if err != nil {
		return domain.Order{}, err
	}
	if ct.RowsAffected() == 0 {
		var current domain.Status
		err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1`, id).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		if err != nil {
			return domain.Order{}, err
		}
		return domain.Order{}, &domain.InvalidTransitionError{From: current, To: to}
	}

	_, err = tx.Exec(ctx, `INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, traceparent, status)
		VALUES ($1,$2,$3,$4,$5,'pending')`,
		"order", id, eventType, payload, traceparent)
	if err != nil {
		return domain.Order{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Order{}, err
	}
	return r.Get(ctx, id)
}

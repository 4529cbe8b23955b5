package application

import "context"

type Repository interface {
	// RecordOrderCreated inserts one notification row per seller, ignoring
	// rows that already exist so redelivered events are harmless.
	RecordOrderCreated(ctx context.Context, orderID string, sellerIDs []string) error
	MarkPaid(ctx context.Context, orderID string) error
}

package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/craftline/marketplace/internal/notification/application"
	order "github.com/craftline/marketplace/internal/order/domain"
	"github.com/craftline/marketplace/pkg/idempotency"
	"github.com/craftline/marketplace/pkg/tracing"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Consumer drains order events into seller notifications. Delivery is
// at-least-once; redis dedupe plus idempotent inserts keep reprocessing
// harmless.
type Consumer struct {
	log    *slog.Logger
	reader *kafka.Reader
	svc    *application.Service
	idem   *idempotency.Store
	tracer trace.Tracer
}

func NewConsumer(log *slog.Logger, brokers []string, topic, group string, svc *application.Service, idem *idempotency.Store) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: group,
	})
	return &Consumer{
		log:    log,
		reader: r,
		svc:    svc,
		idem:   idem,
		tracer: otel.Tracer("notification-consumer"),
	}
}

func (c *Consumer) Run(ctx context.Context) error {
	defer c.reader.Close()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			return err
		}
		key := c.idem.MessageKey(msg.Topic, msg.Partition, msg.Offset)
		seen, err := c.idem.Seen(ctx, key)
		if err != nil {
			c.log.Error("idempotency check failed", "err", err)
			continue
		}
		if seen {
			c.log.Info("duplicate message skipped", "key", key)
			_ = c.reader.CommitMessages(ctx, msg)
			continue
		}

		msgCtx := tracing.ExtractKafkaHeaders(ctx, msg.Headers)
		msgCtx, span := c.tracer.Start(msgCtx, "ConsumeOrderEvent")
		c.handle(msgCtx, headerValue(msg.Headers, "event_type"), msg.Value)
		span.End()
		_ = c.reader.CommitMessages(ctx, msg)
	}
}

func (c *Consumer) handle(ctx context.Context, eventType string, payload []byte) {
	switch eventType {
	case "OrderCreated":
		var event order.OrderCreated
		if err := json.Unmarshal(payload, &event); err != nil {
			c.log.Error("unmarshal OrderCreated failed", "err", err)
			return
		}
		if err := c.svc.HandleOrderCreated(ctx, event); err != nil {
			c.log.Error("notify order created failed", "order_id", event.OrderID, "err", err)
		}
	case "OrderPaid":
		var event order.OrderPaid
		if err := json.Unmarshal(payload, &event); err != nil {
			c.log.Error("unmarshal OrderPaid failed", "err", err)
			return
		}
		if err := c.svc.HandleOrderPaid(ctx, event); err != nil {
			c.log.Error("notify order paid failed", "order_id", event.OrderID, "err", err)
		}
	default:
		c.log.Debug("event ignored", "type", eventType)
	}
}

func headerValue(h []kafka.Header, key string) string {
	for _, hh := range h {
		if hh.Key == key {
			return string(hh.Value)
		}
	}
	return ""
}

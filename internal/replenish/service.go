// Package replenish watches shipments and raises alerts for stock rows that
// have fallen to their minimum threshold, so stores get restocked before
// they sell out.
package replenish

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/example/go-store-orders/internal/kafka"
	"github.com/example/go-store-orders/internal/orders"
	"github.com/example/go-store-orders/internal/redisx"
	"github.com/example/go-store-orders/internal/stock"
)

// CriticalLister is the slice of the stock ledger this service reads.
type CriticalLister interface {
	ListCritical(ctx context.Context, storeID string) ([]stock.Stock, error)
}

type Service struct {
	Stocks      CriticalLister
	Redis       *redis.Client
	Producer    *kafkax.Producer // publishes stock.critical
	Log         *zap.Logger
	ServiceName string
}

// HandleOrderShipped runs as the consumer handler for order.shipped. A
// shipment is the only path that lowers store stock, so it is the right
// moment to re-check the store's thresholds.
func (s *Service) HandleOrderShipped(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderShipped {
		return nil
	}

	// dedup by event_id so redeliveries do not re-alert
	dkey := fmt.Sprintf(redisx.KeyDedup, "replenish", env.EventID)
	if exists, _ := redisx.Exists(ctx, s.Redis, dkey); exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	p, err := kafkax.UnwrapPayload[orders.OrderEventPayload](env.Payload)
	if err != nil {
		return err
	}

	critical, err := s.Stocks.ListCritical(ctx, p.StoreID)
	if err != nil {
		return err
	}
	if len(critical) == 0 {
		return nil
	}

	items := make([]orders.CriticalStockItem, 0, len(critical))
	for _, st := range critical {
		items = append(items, orders.CriticalStockItem{
			StockID:     st.ID,
			ProductID:   st.ProductID,
			OnHand:      st.Quantity,
			MinQuantity: st.MinQuantity,
		})
	}
	s.Log.Info("critical stock detected",
		zap.String("store_id", p.StoreID),
		zap.Int("rows", len(items)))

	out := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventStockCritical,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		TraceID:       env.TraceID,
		CorrelationID: p.StoreID,
		Payload:       kafkax.MustMarshal(orders.StockCriticalPayload{StoreID: p.StoreID, Items: items}),
	}
	s.Producer.Publish(orders.TopicStockCritical, []byte(p.StoreID), kafkax.MustMarshal(out),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventStockCritical)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
	return nil
}

package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated   = "OrderCreated"
	EventOrderConfirmed = "OrderConfirmed"
	EventOrderShipped   = "OrderShipped"
	EventOrderCancelled = "OrderCancelled"
	EventOrderDelivered = "OrderDelivered"
	EventStockCritical  = "StockCritical"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id for lifecycle events
	Payload       json.RawMessage `json:"payload"`
}

// OrderEventPayload is shared by every lifecycle event; Status carries the
// order's status after the transition.
type OrderEventPayload struct {
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	StoreID   string `json:"store_id"`
	Quantity  int    `json:"quantity"`
	Status    Status `json:"status"`
}

type CriticalStockItem struct {
	StockID     string `json:"stock_id"`
	ProductID   string `json:"product_id"`
	OnHand      int    `json:"on_hand"`
	MinQuantity int    `json:"min_quantity"`
}

type StockCriticalPayload struct {
	StoreID string              `json:"store_id"`
	Items   []CriticalStockItem `json:"items"`
}

package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/example/go-store-orders/internal/authz"
	kafkax "github.com/example/go-store-orders/internal/kafka"
	"github.com/example/go-store-orders/internal/orders"
	"github.com/example/go-store-orders/internal/redisx"
)

// Publisher is the slice of the kafka producer the handlers use.
type Publisher interface {
	Publish(topic string, key, value []byte, headers ...kafkago.Header)
}

// Cache is satisfied by redisx.Cache; lookups are best effort.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Del(ctx context.Context, key string)
}

type OrdersHandler struct {
	Svc     *orders.Service
	Events  Publisher
	Cache   Cache
	Log     *zap.Logger
	Service string // producer name stamped on envelopes
}

func (h *OrdersHandler) Register(r *chi.Mux, mw *Auth) {
	r.With(mw.Require(authz.PermOrderCreate)).Post("/orders", h.create)
	r.With(mw.Require(authz.PermOrderRead)).Get("/orders", h.list)
	r.With(mw.Require(authz.PermOrderRead)).Get("/orders/{id}", h.get)
	r.With(mw.Require(authz.PermOrderUpdate)).Put("/orders", h.update)
	r.With(mw.Require(authz.PermOrderDelete)).Delete("/orders/{id}", h.delete)
	r.With(mw.Require(authz.PermOrderConfirm)).Put("/orders/{id}/confirm", h.confirm)
	r.With(mw.Require(authz.PermOrderCancel)).Put("/orders/{id}/cancel", h.cancel)
	r.With(mw.Require(authz.PermOrderShip)).Put("/orders/{id}/ship", h.ship)
	r.With(mw.Require(authz.PermOrderDeliver)).Put("/orders/{id}/deliver", h.deliver)
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	var in orders.CreateOrderInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Svc.Create(ctx, in)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.cacheOrder(ctx, o)
	h.publish(r, orders.TopicOrderCreated, orders.EventOrderCreated, o)
	writeJSON(w, http.StatusCreated, o)
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// cache first, database as the source of truth
	key := fmt.Sprintf(redisx.KeyOrder, id)
	if s, ok := h.Cache.Get(ctx, key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(s))
		return
	}

	o, err := h.Svc.Get(ctx, id)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.cacheOrder(ctx, o)
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var (
		out []orders.Order
		err error
	)
	switch {
	case r.URL.Query().Get("storeId") != "":
		out, err = h.Svc.ListByStore(ctx, r.URL.Query().Get("storeId"))
	case r.URL.Query().Get("status") != "":
		out, err = h.Svc.ListByStatus(ctx, r.URL.Query().Get("status"))
	default:
		out, err = h.Svc.List(ctx)
	}
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) update(w http.ResponseWriter, r *http.Request) {
	var in orders.UpdateOrderInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Svc.Update(ctx, in)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.cacheOrder(ctx, o)
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.Delete(ctx, id); err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.Cache.Del(ctx, fmt.Sprintf(redisx.KeyOrder, id))
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrdersHandler) confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Svc.Confirm, orders.TopicOrderConfirmed, orders.EventOrderConfirmed)
}

func (h *OrdersHandler) cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Svc.Cancel, orders.TopicOrderCancelled, orders.EventOrderCancelled)
}

func (h *OrdersHandler) ship(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Svc.Ship, orders.TopicOrderShipped, orders.EventOrderShipped)
}

func (h *OrdersHandler) deliver(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Svc.Deliver, orders.TopicOrderDelivered, orders.EventOrderDelivered)
}

func (h *OrdersHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	op func(context.Context, string) (orders.Order, error),
	topic, eventType string,
) {
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := op(ctx, id)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.cacheOrder(ctx, o)
	h.publish(r, topic, eventType, o)
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) cacheOrder(ctx context.Context, o orders.Order) {
	b, err := json.Marshal(o)
	if err != nil {
		return
	}
	h.Cache.Set(ctx, fmt.Sprintf(redisx.KeyOrder, o.ID), string(b), redisx.TTLOrderCache)
}

func (h *OrdersHandler) publish(r *http.Request, topic, eventType string, o orders.Order) {
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: o.ID,
		Payload: kafkax.MustMarshal(orders.OrderEventPayload{
			OrderID:   o.ID,
			ProductID: o.ProductID,
			StoreID:   o.StoreID,
			Quantity:  o.Quantity,
			Status:    o.Status,
		}),
	}
	h.Events.Publish(topic, orders.PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

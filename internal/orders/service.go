package orders

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/example/go-store-orders/internal/servererrors"
)

// OrderStore persists orders. UpdateStatus is a compare-and-set keyed on the
// current status; a false return means a concurrent transition won.
type OrderStore interface {
	Save(ctx context.Context, o Order) (Order, error)
	FindByID(ctx context.Context, id string) (Order, error)
	FindAll(ctx context.Context) ([]Order, error)
	FindByStoreID(ctx context.Context, storeID string) ([]Order, error)
	FindByStatus(ctx context.Context, status Status) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, from, to Status) (bool, error)
	DeleteByID(ctx context.Context, id string) error
}

// StockLedger reserves and releases on-hand quantity per (product, store)
// pair. Reserve must be atomic: it either subtracts qty in full or fails with
// InsufficientStock (NotFound when no stock row exists) leaving stock
// untouched.
type StockLedger interface {
	Reserve(ctx context.Context, productID, storeID string, qty int) error
	Release(ctx context.Context, productID, storeID string, qty int) error
}

// ReferenceResolver checks the foreign references an order carries.
type ReferenceResolver interface {
	EnsureProduct(ctx context.Context, id string) error
	EnsureStore(ctx context.Context, id string) error
	EnsureUser(ctx context.Context, id string) error
}

// Service is the order lifecycle engine. Each transition is a separate
// operation so the role gate can authorize them independently, and so ship
// stays the single place where order state and stock change together.
type Service struct {
	Orders OrderStore
	Ledger StockLedger
	Refs   ReferenceResolver
	Now    func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

type CreateOrderInput struct {
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	ProductID string    `json:"product_id"`
	StoreID   string    `json:"store_id"`
	CreatorID string    `json:"creator_id"`
}

// Create resolves all references and persists the order in NEW. Callers
// cannot pick another initial status.
func (s *Service) Create(ctx context.Context, in CreateOrderInput) (Order, error) {
	if in.Quantity <= 0 {
		return Order{}, servererrors.Invalid("order quantity must be positive")
	}
	if err := s.resolveRefs(ctx, in.ProductID, in.StoreID, in.CreatorID); err != nil {
		return Order{}, err
	}

	createdAt := in.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}
	o := Order{
		ID:        uuid.NewString(),
		Status:    StatusNew,
		Quantity:  in.Quantity,
		CreatedAt: createdAt,
		ProductID: in.ProductID,
		StoreID:   in.StoreID,
		CreatedBy: in.CreatorID,
	}
	return s.Orders.Save(ctx, o)
}

func (s *Service) Get(ctx context.Context, id string) (Order, error) {
	return s.Orders.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.Orders.FindAll(ctx)
}

func (s *Service) ListByStore(ctx context.Context, storeID string) ([]Order, error) {
	return s.Orders.FindByStoreID(ctx, storeID)
}

func (s *Service) ListByStatus(ctx context.Context, status string) ([]Order, error) {
	st, ok := ParseStatus(status)
	if !ok {
		return nil, servererrors.Invalid("unknown order status %q", status)
	}
	return s.Orders.FindByStatus(ctx, st)
}

// Confirm moves a NEW order to CONFIRMED.
func (s *Service) Confirm(ctx context.Context, id string) (Order, error) {
	return s.transition(ctx, id, StatusNew, StatusConfirmed, "only NEW orders can be confirmed")
}

// Deliver moves a SHIPPED order to RECEIVED.
func (s *Service) Deliver(ctx context.Context, id string) (Order, error) {
	return s.transition(ctx, id, StatusShipped, StatusReceived, "only SHIPPED orders can be delivered")
}

// Cancel moves any non-terminal order to CANCELLED. Stock is not restored:
// it is only taken at ship time, and a cancelled shipment is handled by
// restocking, not by the lifecycle.
func (s *Service) Cancel(ctx context.Context, id string) (Order, error) {
	o, err := s.Orders.FindByID(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if o.Status.Terminal() {
		return Order{}, servererrors.InvalidState("cannot cancel order %s in status %s", id, o.Status)
	}
	ok, err := s.Orders.UpdateStatus(ctx, id, o.Status, StatusCancelled)
	if err != nil {
		return Order{}, err
	}
	if !ok {
		return Order{}, servererrors.InvalidState("order %s was transitioned concurrently", id)
	}
	o.Status = StatusCancelled
	return o, nil
}

// Ship reserves the order's quantity from the (product, store) stock row and
// moves the order to SHIPPED. The reservation is atomic; if the status
// compare-and-set then loses a concurrent race, the reservation is released
// so the transition applies all-or-nothing.
func (s *Service) Ship(ctx context.Context, id string) (Order, error) {
	o, err := s.Orders.FindByID(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if o.Status != StatusConfirmed {
		return Order{}, servererrors.InvalidState("only CONFIRMED orders can be shipped")
	}

	if err := s.Ledger.Reserve(ctx, o.ProductID, o.StoreID, o.Quantity); err != nil {
		if servererrors.IsNotFound(err) {
			// an absent stock row behaves as zero availability
			return Order{}, servererrors.InsufficientStock("not enough stock to ship order %s", id)
		}
		return Order{}, err
	}

	ok, err := s.Orders.UpdateStatus(ctx, id, StatusConfirmed, StatusShipped)
	if err == nil && !ok {
		err = servererrors.InvalidState("order %s was transitioned concurrently", id)
	}
	if err != nil {
		if rerr := s.Ledger.Release(ctx, o.ProductID, o.StoreID, o.Quantity); rerr != nil {
			return Order{}, rerr
		}
		return Order{}, err
	}
	o.Status = StatusShipped
	return o, nil
}

type UpdateOrderInput struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	ProductID string    `json:"product_id"`
	StoreID   string    `json:"store_id"`
	CreatorID string    `json:"creator_id"`
}

// Update is the administrative correction path. It deliberately bypasses the
// transition guards and overwrites status/quantity/timestamp/references as
// supplied; the status still has to be a member of the closed set. Normal
// lifecycle progression must use the transition operations instead.
func (s *Service) Update(ctx context.Context, in UpdateOrderInput) (Order, error) {
	st, ok := ParseStatus(in.Status)
	if !ok {
		return Order{}, servererrors.Invalid("unknown order status %q", in.Status)
	}
	if in.Quantity <= 0 {
		return Order{}, servererrors.Invalid("order quantity must be positive")
	}

	o, err := s.Orders.FindByID(ctx, in.ID)
	if err != nil {
		return Order{}, err
	}
	if err := s.resolveRefs(ctx, in.ProductID, in.StoreID, in.CreatorID); err != nil {
		return Order{}, err
	}

	o.Status = st
	o.Quantity = in.Quantity
	o.CreatedAt = in.CreatedAt
	o.ProductID = in.ProductID
	o.StoreID = in.StoreID
	o.CreatedBy = in.CreatorID
	return s.Orders.Save(ctx, o)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.Orders.DeleteByID(ctx, id)
}

func (s *Service) resolveRefs(ctx context.Context, productID, storeID, creatorID string) error {
	if err := s.Refs.EnsureProduct(ctx, productID); err != nil {
		return err
	}
	if err := s.Refs.EnsureStore(ctx, storeID); err != nil {
		return err
	}
	return s.Refs.EnsureUser(ctx, creatorID)
}

func (s *Service) transition(ctx context.Context, id string, from, to Status, msg string) (Order, error) {
	o, err := s.Orders.FindByID(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if o.Status != from {
		return Order{}, servererrors.InvalidState("%s", msg)
	}
	ok, err := s.Orders.UpdateStatus(ctx, id, from, to)
	if err != nil {
		return Order{}, err
	}
	if !ok {
		return Order{}, servererrors.InvalidState("order %s was transitioned concurrently", id)
	}
	o.Status = to
	return o, nil
}

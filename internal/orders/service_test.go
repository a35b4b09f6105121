package orders

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/example/go-store-orders/internal/servererrors"
)

type memOrders struct {
	mu sync.Mutex
	m  map[string]Order
}

func newMemOrders() *memOrders { return &memOrders{m: map[string]Order{}} }

func (s *memOrders) Save(_ context.Context, o Order) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[o.ID] = o
	return o, nil
}

func (s *memOrders) FindByID(_ context.Context, id string) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.m[id]
	if !ok {
		return Order{}, servererrors.NotFound("order with id %s not found", id)
	}
	return o, nil
}

func (s *memOrders) FindAll(_ context.Context) ([]Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Order, 0, len(s.m))
	for _, o := range s.m {
		out = append(out, o)
	}
	return out, nil
}

func (s *memOrders) FindByStoreID(_ context.Context, storeID string) ([]Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Order
	for _, o := range s.m {
		if o.StoreID == storeID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *memOrders) FindByStatus(_ context.Context, status Status) ([]Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Order
	for _, o := range s.m {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *memOrders) UpdateStatus(_ context.Context, id string, from, to Status) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.m[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	s.m[id] = o
	return true, nil
}

func (s *memOrders) DeleteByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[id]; !ok {
		return servererrors.NotFound("order with id %s not found", id)
	}
	delete(s.m, id)
	return nil
}

type pair struct{ product, store string }

type memLedger struct {
	mu     sync.Mutex
	onHand map[pair]int
}

func newMemLedger() *memLedger { return &memLedger{onHand: map[pair]int{}} }

func (l *memLedger) Reserve(_ context.Context, productID, storeID string, qty int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	k := pair{productID, storeID}
	have, ok := l.onHand[k]
	if !ok {
		return servererrors.NotFound("stock for product %s at store %s not found", productID, storeID)
	}
	if have < qty {
		return servererrors.InsufficientStock("need %d, have %d", qty, have)
	}
	l.onHand[k] = have - qty
	return nil
}

func (l *memLedger) Release(_ context.Context, productID, storeID string, qty int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onHand[pair{productID, storeID}] += qty
	return nil
}

func (l *memLedger) quantity(productID, storeID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.onHand[pair{productID, storeID}]
}

type memRefs struct {
	products, stores, users map[string]bool
}

func (r *memRefs) EnsureProduct(_ context.Context, id string) error {
	if !r.products[id] {
		return servererrors.NotFound("product with id %s not found", id)
	}
	return nil
}

func (r *memRefs) EnsureStore(_ context.Context, id string) error {
	if !r.stores[id] {
		return servererrors.NotFound("store with id %s not found", id)
	}
	return nil
}

func (r *memRefs) EnsureUser(_ context.Context, id string) error {
	if !r.users[id] {
		return servererrors.NotFound("user with id %s not found", id)
	}
	return nil
}

func newTestService() (*Service, *memOrders, *memLedger) {
	store := newMemOrders()
	ledger := newMemLedger()
	svc := &Service{
		Orders: store,
		Ledger: ledger,
		Refs: &memRefs{
			products: map[string]bool{"p1": true},
			stores:   map[string]bool{"s1": true},
			users:    map[string]bool{"u1": true},
		},
		Now: func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) },
	}
	return svc, store, ledger
}

func seedOrder(t *testing.T, svc *Service, status Status, qty int) Order {
	t.Helper()
	o, err := svc.Create(context.Background(), CreateOrderInput{
		Quantity: qty, ProductID: "p1", StoreID: "s1", CreatorID: "u1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if status != StatusNew {
		if ok, err := svc.Orders.UpdateStatus(context.Background(), o.ID, StatusNew, status); err != nil || !ok {
			t.Fatalf("seed status %s: ok=%v err=%v", status, ok, err)
		}
		o.Status = status
	}
	return o
}

func TestCreateStartsInNew(t *testing.T) {
	svc, _, _ := newTestService()
	o, err := svc.Create(context.Background(), CreateOrderInput{
		Quantity: 5, ProductID: "p1", StoreID: "s1", CreatorID: "u1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if o.Status != StatusNew {
		t.Fatalf("status = %s, want NEW", o.Status)
	}
	if o.Quantity != 5 {
		t.Fatalf("quantity = %d, want 5", o.Quantity)
	}
	if o.CreatedAt.IsZero() {
		t.Fatal("created_at not defaulted")
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateOrderInput{Quantity: 0, ProductID: "p1", StoreID: "s1", CreatorID: "u1"}); servererrors.KindOf(err) != servererrors.KindInvalid {
		t.Fatalf("zero quantity: got %v, want Invalid", err)
	}
	if _, err := svc.Create(ctx, CreateOrderInput{Quantity: 1, ProductID: "missing", StoreID: "s1", CreatorID: "u1"}); !servererrors.IsNotFound(err) {
		t.Fatalf("missing product: got %v, want NotFound", err)
	}
	if _, err := svc.Create(ctx, CreateOrderInput{Quantity: 1, ProductID: "p1", StoreID: "missing", CreatorID: "u1"}); !servererrors.IsNotFound(err) {
		t.Fatalf("missing store: got %v, want NotFound", err)
	}
	if _, err := svc.Create(ctx, CreateOrderInput{Quantity: 1, ProductID: "p1", StoreID: "s1", CreatorID: "missing"}); !servererrors.IsNotFound(err) {
		t.Fatalf("missing user: got %v, want NotFound", err)
	}
}

func TestConfirm(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	o := seedOrder(t, svc, StatusNew, 1)
	got, err := svc.Confirm(ctx, o.ID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if got.Status != StatusConfirmed {
		t.Fatalf("status = %s, want CONFIRMED", got.Status)
	}

	// a second confirm must fail: the order is no longer NEW
	if _, err := svc.Confirm(ctx, o.ID); !servererrors.IsInvalidState(err) {
		t.Fatalf("confirm CONFIRMED order: got %v, want InvalidState", err)
	}
	if _, err := svc.Confirm(ctx, "missing"); !servererrors.IsNotFound(err) {
		t.Fatalf("confirm missing order: got %v, want NotFound", err)
	}
}

func TestShipDecrementsStock(t *testing.T) {
	svc, _, ledger := newTestService()
	ctx := context.Background()
	ledger.onHand[pair{"p1", "s1"}] = 10

	o := seedOrder(t, svc, StatusConfirmed, 5)
	got, err := svc.Ship(ctx, o.ID)
	if err != nil {
		t.Fatalf("ship: %v", err)
	}
	if got.Status != StatusShipped {
		t.Fatalf("status = %s, want SHIPPED", got.Status)
	}
	if q := ledger.quantity("p1", "s1"); q != 5 {
		t.Fatalf("on-hand = %d, want 5", q)
	}
	if got.Quantity != 5 {
		t.Fatalf("order quantity mutated to %d", got.Quantity)
	}
}

func TestShipInsufficientStock(t *testing.T) {
	svc, store, ledger := newTestService()
	ctx := context.Background()
	ledger.onHand[pair{"p1", "s1"}] = 3

	o := seedOrder(t, svc, StatusConfirmed, 5)
	if _, err := svc.Ship(ctx, o.ID); !servererrors.IsInsufficientStock(err) {
		t.Fatalf("ship: got %v, want InsufficientStock", err)
	}
	if q := ledger.quantity("p1", "s1"); q != 3 {
		t.Fatalf("on-hand = %d, want unchanged 3", q)
	}
	cur, _ := store.FindByID(ctx, o.ID)
	if cur.Status != StatusConfirmed {
		t.Fatalf("status = %s, want unchanged CONFIRMED", cur.Status)
	}
}

func TestShipMissingStockRowIsInsufficient(t *testing.T) {
	svc, _, _ := newTestService()
	o := seedOrder(t, svc, StatusConfirmed, 1)
	if _, err := svc.Ship(context.Background(), o.ID); !servererrors.IsInsufficientStock(err) {
		t.Fatalf("ship without stock row: got %v, want InsufficientStock", err)
	}
}

func TestShipRequiresConfirmed(t *testing.T) {
	svc, _, ledger := newTestService()
	ledger.onHand[pair{"p1", "s1"}] = 10

	for _, st := range []Status{StatusNew, StatusShipped, StatusCancelled, StatusReceived} {
		o := seedOrder(t, svc, st, 1)
		if _, err := svc.Ship(context.Background(), o.ID); !servererrors.IsInvalidState(err) {
			t.Fatalf("ship from %s: got %v, want InvalidState", st, err)
		}
	}
	if q := ledger.quantity("p1", "s1"); q != 10 {
		t.Fatalf("on-hand = %d, want untouched 10", q)
	}
}

// casFailOrders simulates a concurrent transition racing past the
// precondition check: the compare-and-set always reports stale.
type casFailOrders struct{ *memOrders }

func (s *casFailOrders) UpdateStatus(context.Context, string, Status, Status) (bool, error) {
	return false, nil
}

func TestShipReleasesReservationOnLostRace(t *testing.T) {
	svc, store, ledger := newTestService()
	ledger.onHand[pair{"p1", "s1"}] = 10
	o := seedOrder(t, svc, StatusConfirmed, 4)

	svc.Orders = &casFailOrders{store}
	if _, err := svc.Ship(context.Background(), o.ID); !servererrors.IsInvalidState(err) {
		t.Fatalf("ship: got %v, want InvalidState", err)
	}
	if q := ledger.quantity("p1", "s1"); q != 10 {
		t.Fatalf("on-hand = %d, want 10 after compensating release", q)
	}
}

func TestCancel(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	for _, st := range []Status{StatusNew, StatusConfirmed, StatusShipped} {
		o := seedOrder(t, svc, st, 1)
		got, err := svc.Cancel(ctx, o.ID)
		if err != nil {
			t.Fatalf("cancel from %s: %v", st, err)
		}
		if got.Status != StatusCancelled {
			t.Fatalf("status = %s, want CANCELLED", got.Status)
		}
	}
	for _, st := range []Status{StatusCancelled, StatusReceived} {
		o := seedOrder(t, svc, st, 1)
		if _, err := svc.Cancel(ctx, o.ID); !servererrors.IsInvalidState(err) {
			t.Fatalf("cancel from %s: got %v, want InvalidState", st, err)
		}
	}
}

func TestCancelDoesNotRestock(t *testing.T) {
	svc, _, ledger := newTestService()
	ctx := context.Background()
	ledger.onHand[pair{"p1", "s1"}] = 10

	o := seedOrder(t, svc, StatusConfirmed, 4)
	if _, err := svc.Ship(ctx, o.ID); err != nil {
		t.Fatalf("ship: %v", err)
	}
	if _, err := svc.Cancel(ctx, o.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	// stock is only touched at ship time; cancellation never reverses it
	if q := ledger.quantity("p1", "s1"); q != 6 {
		t.Fatalf("on-hand = %d, want 6", q)
	}
}

func TestDeliver(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	o := seedOrder(t, svc, StatusShipped, 1)
	got, err := svc.Deliver(ctx, o.ID)
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if got.Status != StatusReceived {
		t.Fatalf("status = %s, want RECEIVED", got.Status)
	}

	for _, st := range []Status{StatusNew, StatusConfirmed, StatusCancelled, StatusReceived} {
		o := seedOrder(t, svc, st, 1)
		if _, err := svc.Deliver(ctx, o.ID); !servererrors.IsInvalidState(err) {
			t.Fatalf("deliver from %s: got %v, want InvalidState", st, err)
		}
	}
}

func TestUpdateBypassesTransitionGuards(t *testing.T) {
	svc, _, ledger := newTestService()
	ctx := context.Background()
	ledger.onHand[pair{"p1", "s1"}] = 10

	o := seedOrder(t, svc, StatusNew, 1)
	got, err := svc.Update(ctx, UpdateOrderInput{
		ID: o.ID, Status: "SHIPPED", Quantity: 7,
		CreatedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		ProductID: "p1", StoreID: "s1", CreatorID: "u1",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Status != StatusShipped || got.Quantity != 7 {
		t.Fatalf("update did not overwrite: %+v", got)
	}
	// the administrative path never touches the ledger
	if q := ledger.quantity("p1", "s1"); q != 10 {
		t.Fatalf("on-hand = %d, want 10", q)
	}
}

func TestUpdateValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	o := seedOrder(t, svc, StatusNew, 1)

	if _, err := svc.Update(ctx, UpdateOrderInput{ID: o.ID, Status: "LOST", Quantity: 1, ProductID: "p1", StoreID: "s1", CreatorID: "u1"}); servererrors.KindOf(err) != servererrors.KindInvalid {
		t.Fatalf("free-form status: got %v, want Invalid", err)
	}
	if _, err := svc.Update(ctx, UpdateOrderInput{ID: "missing", Status: "NEW", Quantity: 1, ProductID: "p1", StoreID: "s1", CreatorID: "u1"}); !servererrors.IsNotFound(err) {
		t.Fatalf("missing order: got %v, want NotFound", err)
	}
	if _, err := svc.Update(ctx, UpdateOrderInput{ID: o.ID, Status: "NEW", Quantity: 1, ProductID: "other", StoreID: "s1", CreatorID: "u1"}); !servererrors.IsNotFound(err) {
		t.Fatalf("missing product: got %v, want NotFound", err)
	}
}

func TestListByStatusRejectsUnknown(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.ListByStatus(context.Background(), "PAID"); servererrors.KindOf(err) != servererrors.KindInvalid {
		t.Fatalf("got %v, want Invalid", err)
	}
}

func TestConcurrentShipsDoNotOversell(t *testing.T) {
	svc, store, ledger := newTestService()
	ctx := context.Background()
	ledger.onHand[pair{"p1", "s1"}] = 10

	const n = 8
	const perOrder = 3
	ids := make([]string, n)
	for i := range ids {
		ids[i] = seedOrder(t, svc, StatusConfirmed, perOrder).ID
	}

	var wg sync.WaitGroup
	results := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Ship(ctx, ids[i])
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for i, err := range results {
		switch {
		case err == nil:
			succeeded++
		case servererrors.IsInsufficientStock(err):
		default:
			t.Fatalf("ship %d: unexpected error %v", i, err)
		}
	}
	// floor(10/3) ships can be covered; the rest must be rejected
	if succeeded != 3 {
		t.Fatalf("succeeded = %d, want 3", succeeded)
	}
	if q := ledger.quantity("p1", "s1"); q != 10-succeeded*perOrder {
		t.Fatalf("on-hand = %d, want %d", q, 10-succeeded*perOrder)
	}
	shipped, _ := store.FindByStatus(ctx, StatusShipped)
	if len(shipped) != succeeded {
		t.Fatalf("%d orders SHIPPED, want %d", len(shipped), succeeded)
	}
}

func TestDelete(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	o := seedOrder(t, svc, StatusNew, 1)
	if err := svc.Delete(ctx, o.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, o.ID); !servererrors.IsNotFound(err) {
		t.Fatalf("get after delete: got %v, want NotFound", err)
	}
	if err := svc.Delete(ctx, o.ID); !servererrors.IsNotFound(err) {
		t.Fatalf("double delete: got %v, want NotFound", err)
	}
}

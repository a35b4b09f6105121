package stock

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/go-store-orders/internal/postgres"
	"github.com/example/go-store-orders/internal/servererrors"
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Create(ctx context.Context, s Stock) (Stock, error) {
	if s.Quantity < 0 || s.MinQuantity < 0 {
		return Stock{}, servererrors.Invalid("stock quantities must be non-negative")
	}
	s.ID = uuid.NewString()
	_, err := r.DB.Exec(ctx, `
		INSERT INTO stocks(id, product_id, store_id, quantity, min_quantity)
		VALUES ($1,$2,$3,$4,$5)`,
		s.ID, s.ProductID, s.StoreID, s.Quantity, s.MinQuantity)
	if _, ok := postgres.UniqueViolation(err); ok {
		return Stock{}, servererrors.Conflict("stock for product %s at store %s already exists", s.ProductID, s.StoreID)
	}
	if postgres.FKViolation(err) {
		return Stock{}, servererrors.NotFound("product %s or store %s not found", s.ProductID, s.StoreID)
	}
	if err != nil {
		return Stock{}, err
	}
	return s, nil
}

func (r *Repo) Get(ctx context.Context, id string) (Stock, error) {
	var s Stock
	err := r.DB.QueryRow(ctx, `
		SELECT id, product_id, store_id, quantity, min_quantity
		FROM stocks WHERE id=$1`, id).
		Scan(&s.ID, &s.ProductID, &s.StoreID, &s.Quantity, &s.MinQuantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return Stock{}, servererrors.NotFound("stock with id %s not found", id)
	}
	if err != nil {
		return Stock{}, err
	}
	return s, nil
}

func (r *Repo) List(ctx context.Context) ([]Stock, error) {
	return r.list(ctx, `
		SELECT id, product_id, store_id, quantity, min_quantity
		FROM stocks ORDER BY store_id, product_id`)
}

func (r *Repo) ListByStore(ctx context.Context, storeID string) ([]Stock, error) {
	return r.list(ctx, `
		SELECT id, product_id, store_id, quantity, min_quantity
		FROM stocks WHERE store_id=$1 ORDER BY product_id`, storeID)
}

func (r *Repo) ListByProduct(ctx context.Context, productID string) ([]Stock, error) {
	return r.list(ctx, `
		SELECT id, product_id, store_id, quantity, min_quantity
		FROM stocks WHERE product_id=$1 ORDER BY store_id`, productID)
}

// ListCritical returns the store's rows at or below their minimum threshold.
func (r *Repo) ListCritical(ctx context.Context, storeID string) ([]Stock, error) {
	return r.list(ctx, `
		SELECT id, product_id, store_id, quantity, min_quantity
		FROM stocks WHERE store_id=$1 AND quantity <= min_quantity
		ORDER BY product_id`, storeID)
}

func (r *Repo) list(ctx context.Context, query string, args ...any) ([]Stock, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Stock
	for rows.Next() {
		var s Stock
		if err := rows.Scan(&s.ID, &s.ProductID, &s.StoreID, &s.Quantity, &s.MinQuantity); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) Update(ctx context.Context, s Stock) (Stock, error) {
	if s.Quantity < 0 || s.MinQuantity < 0 {
		return Stock{}, servererrors.Invalid("stock quantities must be non-negative")
	}
	ct, err := r.DB.Exec(ctx, `
		UPDATE stocks SET product_id=$2, store_id=$3, quantity=$4, min_quantity=$5
		WHERE id=$1`,
		s.ID, s.ProductID, s.StoreID, s.Quantity, s.MinQuantity)
	if _, ok := postgres.UniqueViolation(err); ok {
		return Stock{}, servererrors.Conflict("stock for product %s at store %s already exists", s.ProductID, s.StoreID)
	}
	if postgres.FKViolation(err) {
		return Stock{}, servererrors.NotFound("product %s or store %s not found", s.ProductID, s.StoreID)
	}
	if err != nil {
		return Stock{}, err
	}
	if ct.RowsAffected() == 0 {
		return Stock{}, servererrors.NotFound("stock with id %s not found", s.ID)
	}
	return s, nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM stocks WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return servererrors.NotFound("stock with id %s not found", id)
	}
	return nil
}

// IsAvailable reports whether the pair's on-hand covers qty. A missing row
// fails with NotFound.
func (r *Repo) IsAvailable(ctx context.Context, productID, storeID string, qty int) (bool, error) {
	var onHand int
	err := r.DB.QueryRow(ctx, `
		SELECT quantity FROM stocks WHERE product_id=$1 AND store_id=$2`,
		productID, storeID).Scan(&onHand)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, servererrors.NotFound("stock for product %s at store %s not found", productID, storeID)
	}
	if err != nil {
		return false, err
	}
	return qty <= onHand, nil
}

// Reserve is the check-and-subtract for shipping, applied as one atomic unit:
// the row is locked, availability checked, and the decrement committed only
// when on-hand covers qty. Concurrent reservations against the same pair
// serialize on the row lock, so stock can never be oversold.
func (r *Repo) Reserve(ctx context.Context, productID, storeID string, qty int) error {
	if qty <= 0 {
		return servererrors.Invalid("reserve quantity must be positive")
	}
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var onHand int
	err = tx.QueryRow(ctx, `
		SELECT quantity FROM stocks WHERE product_id=$1 AND store_id=$2 FOR UPDATE`,
		productID, storeID).Scan(&onHand)
	if errors.Is(err, pgx.ErrNoRows) {
		return servererrors.NotFound("stock for product %s at store %s not found", productID, storeID)
	}
	if err != nil {
		return err
	}
	if onHand < qty {
		return servererrors.InsufficientStock("not enough stock for product %s at store %s: need %d, have %d",
			productID, storeID, qty, onHand)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE stocks SET quantity = quantity - $3
		WHERE product_id=$1 AND store_id=$2`,
		productID, storeID, qty); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Release adds qty back to the pair, used for restocking and to compensate a
// reservation whose order transition lost a concurrent race.
func (r *Repo) Release(ctx context.Context, productID, storeID string, qty int) error {
	if qty <= 0 {
		return servererrors.Invalid("release quantity must be positive")
	}
	ct, err := r.DB.Exec(ctx, `
		UPDATE stocks SET quantity = quantity + $3
		WHERE product_id=$1 AND store_id=$2`,
		productID, storeID, qty)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return servererrors.NotFound("stock for product %s at store %s not found", productID, storeID)
	}
	return nil
}

// Increase is the manual restock adjustment, addressed by stock id.
func (r *Repo) Increase(ctx context.Context, id string, qty int) (Stock, error) {
	if qty <= 0 {
		return Stock{}, servererrors.Invalid("adjustment quantity must be positive")
	}
	_, err := r.DB.Exec(ctx, `
		UPDATE stocks SET quantity = quantity + $2 WHERE id=$1`, id, qty)
	if err != nil {
		return Stock{}, err
	}
	return r.Get(ctx, id)
}

// Decrease is the manual write-off adjustment. Same conditional subtract as
// Reserve so on-hand never goes negative.
func (r *Repo) Decrease(ctx context.Context, id string, qty int) (Stock, error) {
	if qty <= 0 {
		return Stock{}, servererrors.Invalid("adjustment quantity must be positive")
	}
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Stock{}, err
	}
	defer tx.Rollback(ctx)

	var onHand int
	err = tx.QueryRow(ctx, `
		SELECT quantity FROM stocks WHERE id=$1 FOR UPDATE`, id).Scan(&onHand)
	if errors.Is(err, pgx.ErrNoRows) {
		return Stock{}, servererrors.NotFound("stock with id %s not found", id)
	}
	if err != nil {
		return Stock{}, err
	}
	if onHand < qty {
		return Stock{}, servererrors.InsufficientStock("cannot decrease stock %s by %d, have %d", id, qty, onHand)
	}
	if _, err := tx.Exec(ctx, `
		UPDATE stocks SET quantity = quantity - $2 WHERE id=$1`, id, qty); err != nil {
		return Stock{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Stock{}, err
	}
	return r.Get(ctx, id)
}

package orders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/go-store-orders/internal/servererrors"
)

// Repo is the pgx-backed OrderStore.
type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Save(ctx context.Context, o Order) (Order, error) {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO orders(id, status, quantity, created_at, product_id, store_id, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET
			status=EXCLUDED.status, quantity=EXCLUDED.quantity,
			created_at=EXCLUDED.created_at, product_id=EXCLUDED.product_id,
			store_id=EXCLUDED.store_id, created_by=EXCLUDED.created_by`,
		o.ID, string(o.Status), o.Quantity, o.CreatedAt, o.ProductID, o.StoreID, o.CreatedBy)
	if err != nil {
		return Order{}, err
	}
	return o, nil
}

func (r *Repo) FindByID(ctx context.Context, id string) (Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx, `
		SELECT id, status, quantity, created_at, product_id, store_id, created_by
		FROM orders WHERE id=$1`, id).
		Scan(&o.ID, &o.Status, &o.Quantity, &o.CreatedAt, &o.ProductID, &o.StoreID, &o.CreatedBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, servererrors.NotFound("order with id %s not found", id)
	}
	if err != nil {
		return Order{}, err
	}
	return o, nil
}

func (r *Repo) FindAll(ctx context.Context) ([]Order, error) {
	return r.list(ctx, `
		SELECT id, status, quantity, created_at, product_id, store_id, created_by
		FROM orders ORDER BY created_at`)
}

func (r *Repo) FindByStoreID(ctx context.Context, storeID string) ([]Order, error) {
	return r.list(ctx, `
		SELECT id, status, quantity, created_at, product_id, store_id, created_by
		FROM orders WHERE store_id=$1 ORDER BY created_at`, storeID)
}

func (r *Repo) FindByStatus(ctx context.Context, status Status) ([]Order, error) {
	return r.list(ctx, `
		SELECT id, status, quantity, created_at, product_id, store_id, created_by
		FROM orders WHERE status=$1 ORDER BY created_at`, string(status))
}

func (r *Repo) list(ctx context.Context, query string, args ...any) ([]Order, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.Status, &o.Quantity, &o.CreatedAt, &o.ProductID, &o.StoreID, &o.CreatedBy); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// UpdateStatus applies the transition only when the row still holds the
// expected current status; the affected-row count is the compare-and-set
// verdict.
func (r *Repo) UpdateStatus(ctx context.Context, id string, from, to Status) (bool, error) {
	ct, err := r.DB.Exec(ctx, `
		UPDATE orders SET status=$3 WHERE id=$1 AND status=$2`,
		id, string(from), string(to))
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}

func (r *Repo) DeleteByID(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return servererrors.NotFound("order with id %s not found", id)
	}
	return nil
}

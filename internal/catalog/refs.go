package catalog

import (
	"context"

	"github.com/example/go-store-orders/internal/servererrors"
)

// The Ensure methods are the existence checks the order engine runs when it
// resolves foreign references. They satisfy orders.ReferenceResolver.

func (r *Repo) EnsureProduct(ctx context.Context, id string) error {
	return r.ensure(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id=$1)`, "product", id)
}

func (r *Repo) EnsureStore(ctx context.Context, id string) error {
	return r.ensure(ctx, `SELECT EXISTS(SELECT 1 FROM stores WHERE id=$1)`, "store", id)
}

func (r *Repo) EnsureUser(ctx context.Context, id string) error {
	return r.ensure(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id=$1)`, "user", id)
}

func (r *Repo) ensure(ctx context.Context, query, kind, id string) error {
	var exists bool
	if err := r.DB.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return servererrors.NotFound("%s with id %s not found", kind, id)
	}
	return nil
}

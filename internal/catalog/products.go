// Package catalog owns the reference entities orders point at: products,
// stores and users. All lookups fail with a typed NotFound naming the entity
// kind and id.
package catalog

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

func (r *Repo) CreateProduct(ctx context.Context, p Product) (Product, error) {
	p.ID = uuid.NewString()
	_, err := r.DB.Exec(ctx, `
		INSERT INTO products(id, name, category, barcode, price, description)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		p.ID, p.Name, p.Category, p.Barcode, p.Price, p.Description)
	if _, ok := postgres.UniqueViolation(err); ok {
		return Product{}, servererrors.Conflict("product with barcode %s already exists", p.Barcode)
	}
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *Repo) GetProduct(ctx context.Context, id string) (Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, category, barcode, price, description
		FROM products WHERE id=$1`, id).
		Scan(&p.ID, &p.Name, &p.Category, &p.Barcode, &p.Price, &p.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, servererrors.NotFound("product with id %s not found", id)
	}
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *Repo) GetProductByBarcode(ctx context.Context, barcode string) (Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, category, barcode, price, description
		FROM products WHERE barcode=$1`, barcode).
		Scan(&p.ID, &p.Name, &p.Category, &p.Barcode, &p.Price, &p.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, servererrors.NotFound("product with barcode %s not found", barcode)
	}
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *Repo) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, category, barcode, price, description
		FROM products ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Barcode, &p.Price, &p.Description); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateProduct(ctx context.Context, p Product) (Product, error) {
	ct, err := r.DB.Exec(ctx, `
		UPDATE products SET name=$2, category=$3, barcode=$4, price=$5, description=$6
		WHERE id=$1`,
		p.ID, p.Name, p.Category, p.Barcode, p.Price, p.Description)
	if _, ok := postgres.UniqueViolation(err); ok {
		return Product{}, servererrors.Conflict("product with barcode %s already exists", p.Barcode)
	}
	if err != nil {
		return Product{}, err
	}
	if ct.RowsAffected() == 0 {
		return Product{}, servererrors.NotFound("product with id %s not found", p.ID)
	}
	return p, nil
}

func (r *Repo) DeleteProduct(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return servererrors.NotFound("product with id %s not found", id)
	}
	return nil
}

package warehouse

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

func (r *Repo) Create(ctx context.Context, w Warehouse) (Warehouse, error) {
	w.ID = uuid.NewString()
	var manager any
	if w.ManagerID != "" {
		manager = w.ManagerID
	}
	_, err := r.DB.Exec(ctx, `
		INSERT INTO warehouses(id, name, location, manager_id)
		VALUES ($1,$2,$3,$4)`,
		w.ID, w.Name, w.Location, manager)
	if postgres.FKViolation(err) {
		return Warehouse{}, servererrors.NotFound("user with id %s not found", w.ManagerID)
	}
	if err != nil {
		return Warehouse{}, err
	}
	return w, nil
}

func (r *Repo) Get(ctx context.Context, id string) (Warehouse, error) {
	var w Warehouse
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, location, COALESCE(manager_id::text, '')
		FROM warehouses WHERE id=$1`, id).
		Scan(&w.ID, &w.Name, &w.Location, &w.ManagerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Warehouse{}, servererrors.NotFound("warehouse with id %s not found", id)
	}
	if err != nil {
		return Warehouse{}, err
	}
	return w, nil
}

func (r *Repo) List(ctx context.Context) ([]Warehouse, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, location, COALESCE(manager_id::text, '')
		FROM warehouses ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Warehouse
	for rows.Next() {
		var w Warehouse
		if err := rows.Scan(&w.ID, &w.Name, &w.Location, &w.ManagerID); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *Repo) Update(ctx context.Context, w Warehouse) (Warehouse, error) {
	var manager any
	if w.ManagerID != "" {
		manager = w.ManagerID
	}
	ct, err := r.DB.Exec(ctx, `
		UPDATE warehouses SET name=$2, location=$3, manager_id=$4 WHERE id=$1`,
		w.ID, w.Name, w.Location, manager)
	if postgres.FKViolation(err) {
		return Warehouse{}, servererrors.NotFound("user with id %s not found", w.ManagerID)
	}
	if err != nil {
		return Warehouse{}, err
	}
	if ct.RowsAffected() == 0 {
		return Warehouse{}, servererrors.NotFound("warehouse with id %s not found", w.ID)
	}
	return w, nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM warehouses WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return servererrors.NotFound("warehouse with id %s not found", id)
	}
	return nil
}

func (r *Repo) CreateStock(ctx context.Context, ws WarehouseStock) (WarehouseStock, error) {
	if ws.Quantity < 0 {
		return WarehouseStock{}, servererrors.Invalid("warehouse stock quantity must be non-negative")
	}
	ws.ID = uuid.NewString()
	_, err := r.DB.Exec(ctx, `
		INSERT INTO warehouse_stocks(id, warehouse_id, product_id, quantity)
		VALUES ($1,$2,$3,$4)`,
		ws.ID, ws.WarehouseID, ws.ProductID, ws.Quantity)
	if _, ok := postgres.UniqueViolation(err); ok {
		return WarehouseStock{}, servererrors.Conflict("stock for product %s at warehouse %s already exists", ws.ProductID, ws.WarehouseID)
	}
	if postgres.FKViolation(err) {
		return WarehouseStock{}, servererrors.NotFound("warehouse %s or product %s not found", ws.WarehouseID, ws.ProductID)
	}
	if err != nil {
		return WarehouseStock{}, err
	}
	return ws, nil
}

func (r *Repo) GetStock(ctx context.Context, id string) (WarehouseStock, error) {
	var ws WarehouseStock
	err := r.DB.QueryRow(ctx, `
		SELECT id, warehouse_id, product_id, quantity
		FROM warehouse_stocks WHERE id=$1`, id).
		Scan(&ws.ID, &ws.WarehouseID, &ws.ProductID, &ws.Quantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return WarehouseStock{}, servererrors.NotFound("warehouse stock with id %s not found", id)
	}
	if err != nil {
		return WarehouseStock{}, err
	}
	return ws, nil
}

func (r *Repo) ListStocks(ctx context.Context) ([]WarehouseStock, error) {
	return r.listStocks(ctx, `
		SELECT id, warehouse_id, product_id, quantity
		FROM warehouse_stocks ORDER BY warehouse_id, product_id`)
}

func (r *Repo) ListStocksByWarehouse(ctx context.Context, warehouseID string) ([]WarehouseStock, error) {
	return r.listStocks(ctx, `
		SELECT id, warehouse_id, product_id, quantity
		FROM warehouse_stocks WHERE warehouse_id=$1 ORDER BY product_id`, warehouseID)
}

func (r *Repo) ListStocksByProduct(ctx context.Context, productID string) ([]WarehouseStock, error) {
	return r.listStocks(ctx, `
		SELECT id, warehouse_id, product_id, quantity
		FROM warehouse_stocks WHERE product_id=$1 ORDER BY warehouse_id`, productID)
}

func (r *Repo) listStocks(ctx context.Context, query string, args ...any) ([]WarehouseStock, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WarehouseStock
	for rows.Next() {
		var ws WarehouseStock
		if err := rows.Scan(&ws.ID, &ws.WarehouseID, &ws.ProductID, &ws.Quantity); err != nil {
			return nil, err
		}
		out = append(out, ws)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateStock(ctx context.Context, ws WarehouseStock) (WarehouseStock, error) {
	if ws.Quantity < 0 {
		return WarehouseStock{}, servererrors.Invalid("warehouse stock quantity must be non-negative")
	}
	ct, err := r.DB.Exec(ctx, `
		UPDATE warehouse_stocks SET warehouse_id=$2, product_id=$3, quantity=$4
		WHERE id=$1`,
		ws.ID, ws.WarehouseID, ws.ProductID, ws.Quantity)
	if _, ok := postgres.UniqueViolation(err); ok {
		return WarehouseStock{}, servererrors.Conflict("stock for product %s at warehouse %s already exists", ws.ProductID, ws.WarehouseID)
	}
	if postgres.FKViolation(err) {
		return WarehouseStock{}, servererrors.NotFound("warehouse %s or product %s not found", ws.WarehouseID, ws.ProductID)
	}
	if err != nil {
		return WarehouseStock{}, err
	}
	if ct.RowsAffected() == 0 {
		return WarehouseStock{}, servererrors.NotFound("warehouse stock with id %s not found", ws.ID)
	}
	return ws, nil
}

func (r *Repo) DeleteStock(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM warehouse_stocks WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return servererrors.NotFound("warehouse stock with id %s not found", id)
	}
	return nil
}

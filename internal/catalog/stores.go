package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/example/go-store-orders/internal/postgres"
	"github.com/example/go-store-orders/internal/servererrors"
)

func (r *Repo) CreateStore(ctx context.Context, s Store) (Store, error) {
	s.ID = uuid.NewString()
	_, err := r.DB.Exec(ctx, `
		INSERT INTO stores(id, name, location, admin_id)
		VALUES ($1,$2,$3,$4)`,
		s.ID, s.Name, s.Location, nullable(s.AdminID))
	if postgres.FKViolation(err) {
		return Store{}, servererrors.NotFound("user with id %s not found", s.AdminID)
	}
	if err != nil {
		return Store{}, err
	}
	return s, nil
}

func (r *Repo) GetStore(ctx context.Context, id string) (Store, error) {
	var s Store
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, location, COALESCE(admin_id::text, '')
		FROM stores WHERE id=$1`, id).
		Scan(&s.ID, &s.Name, &s.Location, &s.AdminID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Store{}, servererrors.NotFound("store with id %s not found", id)
	}
	if err != nil {
		return Store{}, err
	}
	return s, nil
}

func (r *Repo) ListStores(ctx context.Context) ([]Store, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, location, COALESCE(admin_id::text, '')
		FROM stores ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Store
	for rows.Next() {
		var s Store
		if err := rows.Scan(&s.ID, &s.Name, &s.Location, &s.AdminID); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateStore(ctx context.Context, s Store) (Store, error) {
	ct, err := r.DB.Exec(ctx, `
		UPDATE stores SET name=$2, location=$3, admin_id=$4 WHERE id=$1`,
		s.ID, s.Name, s.Location, nullable(s.AdminID))
	if postgres.FKViolation(err) {
		return Store{}, servererrors.NotFound("user with id %s not found", s.AdminID)
	}
	if err != nil {
		return Store{}, err
	}
	if ct.RowsAffected() == 0 {
		return Store{}, servererrors.NotFound("store with id %s not found", s.ID)
	}
	return s, nil
}

func (r *Repo) DeleteStore(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM stores WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return servererrors.NotFound("store with id %s not found", id)
	}
	return nil
}

// nullable maps an empty id to NULL for optional uuid columns.
func nullable(id string) any {
	if id == "" {
		return nil
	}
	return id
}

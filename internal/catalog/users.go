package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/example/go-store-orders/internal/authz"
	"github.com/example/go-store-orders/internal/postgres"
	"github.com/example/go-store-orders/internal/servererrors"
)

func (r *Repo) CreateUser(ctx context.Context, u User) (User, error) {
	if _, ok := authz.ParseRole(string(u.Role)); !ok {
		return User{}, servererrors.Invalid("unknown role %q", u.Role)
	}
	u.ID = uuid.NewString()
	_, err := r.DB.Exec(ctx, `
		INSERT INTO users(id, username, email, role)
		VALUES ($1,$2,$3,$4)`,
		u.ID, u.Username, u.Email, string(u.Role))
	if constraint, ok := postgres.UniqueViolation(err); ok {
		return User{}, conflictFor(constraint, u)
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func conflictFor(constraint string, u User) error {
	if strings.Contains(constraint, "email") {
		return servererrors.Conflict("email %s already exists", u.Email)
	}
	return servererrors.Conflict("username %s already exists", u.Username)
}

func (r *Repo) GetUser(ctx context.Context, id string) (User, error) {
	var u User
	err := r.DB.QueryRow(ctx, `
		SELECT id, username, email, role FROM users WHERE id=$1`, id).
		Scan(&u.ID, &u.Username, &u.Email, &u.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, servererrors.NotFound("user with id %s not found", id)
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *Repo) GetUserByUsername(ctx context.Context, username string) (User, error) {
	var u User
	err := r.DB.QueryRow(ctx, `
		SELECT id, username, email, role FROM users WHERE username=$1`, username).
		Scan(&u.ID, &u.Username, &u.Email, &u.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, servererrors.NotFound("user with username %s not found", username)
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := r.DB.QueryRow(ctx, `
		SELECT id, username, email, role FROM users WHERE email=$1`, email).
		Scan(&u.ID, &u.Username, &u.Email, &u.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, servererrors.NotFound("user with email %s not found", email)
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *Repo) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, username, email, role FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Role); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateUser(ctx context.Context, u User) (User, error) {
	if _, ok := authz.ParseRole(string(u.Role)); !ok {
		return User{}, servererrors.Invalid("unknown role %q", u.Role)
	}
	ct, err := r.DB.Exec(ctx, `
		UPDATE users SET username=$2, email=$3, role=$4 WHERE id=$1`,
		u.ID, u.Username, u.Email, string(u.Role))
	if constraint, ok := postgres.UniqueViolation(err); ok {
		return User{}, conflictFor(constraint, u)
	}
	if err != nil {
		return User{}, err
	}
	if ct.RowsAffected() == 0 {
		return User{}, servererrors.NotFound("user with id %s not found", u.ID)
	}
	return u, nil
}

func (r *Repo) DeleteUser(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return servererrors.NotFound("user with id %s not found", id)
	}
	return nil
}

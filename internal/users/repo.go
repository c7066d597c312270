package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

type Repo struct{ DB *pgxpool.Pool }

const userCols = `id, name, email, password_hash, role, created_at, updated_at`

func (r *Repo) Create(ctx context.Context, name, email, passwordHash string) (User, error) {
	u := User{ID: uuid.NewString(), Name: name, Email: email, Role: "user"}
	err := r.DB.QueryRow(ctx, `
		INSERT INTO users(id, name, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`,
		u.ID, name, email, passwordHash).Scan(&u.CreatedAt, &u.UpdatedAt)
	if isUniqueViolation(err) {
		return User{}, ErrEmailTaken
	}
	if err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	u.PasswordHash = passwordHash
	return u, nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (User, error) {
	return r.scanOne(r.DB.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE email=$1`, email))
}

func (r *Repo) GetByID(ctx context.Context, id string) (User, error) {
	return r.scanOne(r.DB.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE id=$1`, id))
}

func (r *Repo) List(ctx context.Context) ([]User, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+userCols+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateProfile(ctx context.Context, id, name, email string) (User, error) {
	row := r.DB.QueryRow(ctx, `
		UPDATE users SET name=$2, email=$3, updated_at=now()
		WHERE id=$1
		RETURNING `+userCols, id, name, email)
	u, err := r.scanOne(row)
	if isUniqueViolation(err) {
		return User{}, ErrEmailTaken
	}
	return u, err
}

func (r *Repo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE users SET password_hash=$2, updated_at=now() WHERE id=$1`, id, passwordHash)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) UpdateRole(ctx context.Context, id, role string) (User, error) {
	row := r.DB.QueryRow(ctx, `
		UPDATE users SET role=$2, updated_at=now()
		WHERE id=$1
		RETURNING `+userCols, id, role)
	return r.scanOne(row)
}

func (r *Repo) scanOne(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RapidMaulana/NgeBaju-BE/internal/catalog"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type Repo struct{ DB *pgxpool.Pool }

// Create bikin order dalam SATU transaksi: reservasi stok (decrement
// kondisional), header, lalu items. Gagal di langkah manapun = rollback
// semuanya; tidak ada state parsial dan tidak perlu compensating delete.
// Harga diambil dari tabel products, bukan dari client.
func (r *Repo) Create(ctx context.Context, userID string, lines []LineInput) (Order, error) {
	if len(lines) == 0 {
		return Order{}, fmt.Errorf("no line items")
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	o := Order{ID: uuid.NewString(), UserID: userID, Status: StatusPending}
	for _, ln := range lines {
		if ln.Qty <= 0 {
			return Order{}, fmt.Errorf("invalid qty for product %s", ln.ProductID)
		}
		var price int
		err := tx.QueryRow(ctx,
			`SELECT price_cents FROM products WHERE id=$1`, ln.ProductID).Scan(&price)
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, catalog.ErrProductNotFound
		}
		if err != nil {
			return Order{}, err
		}
		o.Items = append(o.Items, OrderItem{
			OrderID:    o.ID,
			ProductID:  ln.ProductID,
			Size:       ln.Size,
			Qty:        ln.Qty,
			PriceCents: price,
		})
		o.TotalCents += price * ln.Qty
	}

	if err := Reserve(ctx, tx, o.Items); err != nil {
		return Order{}, err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO orders(id, user_id, status, total_cents)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`,
		o.ID, userID, o.Status, o.TotalCents).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return Order{}, fmt.Errorf("insert order: %w", err)
	}

	for i := range o.Items {
		it := &o.Items[i]
		err = tx.QueryRow(ctx, `
			INSERT INTO order_items(order_id, product_id, size, qty, price_cents)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			it.OrderID, it.ProductID, it.Size, it.Qty, it.PriceCents).Scan(&it.ID)
		if err != nil {
			return Order{}, fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	return o, nil
}

// Get tanpa scope (admin).
func (r *Repo) Get(ctx context.Context, orderID string) (Order, error) {
	return r.get(ctx, `SELECT `+orderCols+` FROM orders WHERE id=$1`, orderID)
}

// GetForUser discope ke pemilik: order orang lain keliatan seperti tidak ada
// (404, bukan 403).
func (r *Repo) GetForUser(ctx context.Context, orderID, userID string) (Order, error) {
	return r.get(ctx, `SELECT `+orderCols+` FROM orders WHERE id=$1 AND user_id=$2`, orderID, userID)
}

func (r *Repo) ListAll(ctx context.Context) ([]Order, error) {
	return r.list(ctx, `SELECT `+orderCols+` FROM orders ORDER BY created_at DESC`)
}

func (r *Repo) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return r.list(ctx, `SELECT `+orderCols+` FROM orders WHERE user_id=$1 ORDER BY created_at DESC`, userID)
}

// Transition validasi lewat state machine lalu persist status baru.
// Transisi ke cancelled balikin stok di transaksi yang sama.
func (r *Repo) Transition(ctx context.Context, orderID string, target Status) (Order, error) {
	return r.transition(ctx, orderID, "", target)
}

// Cancel versi user: query discope user_id, dan UserCanCancel menolak cancel
// di luar pending/processing.
func (r *Repo) Cancel(ctx context.Context, orderID, userID string) (Order, error) {
	return r.transition(ctx, orderID, userID, StatusCancelled)
}

func (r *Repo) transition(ctx context.Context, orderID, scopeUserID string, target Status) (Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	q := `SELECT ` + orderCols + ` FROM orders WHERE id=$1`
	args := []any{orderID}
	if scopeUserID != "" {
		q += ` AND user_id=$2`
		args = append(args, scopeUserID)
	}
	var o Order
	err = tx.QueryRow(ctx, q+` FOR UPDATE`, args...).Scan(
		&o.ID, &o.UserID, &o.Status, &o.TotalCents, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}

	// cancel versi user: eksplisit dibatasi pending/processing
	if scopeUserID != "" && !UserCanCancel(o.Status) {
		return Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, target)
	}
	if !CanTransition(o.Status, target) {
		return Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, target)
	}

	err = tx.QueryRow(ctx, `
		UPDATE orders SET status=$2, updated_at=now()
		WHERE id=$1
		RETURNING updated_at`, o.ID, target).Scan(&o.UpdatedAt)
	if err != nil {
		return Order{}, err
	}
	o.Status = target

	if target == StatusCancelled {
		items, err := itemsOf(ctx, tx, o.ID)
		if err != nil {
			return Order{}, err
		}
		if err := Release(ctx, tx, items); err != nil {
			return Order{}, fmt.Errorf("release stock: %w", err)
		}
		o.Items = items
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	return o, nil
}

const orderCols = `id, user_id, status, total_cents, created_at, updated_at`

func (r *Repo) get(ctx context.Context, q string, args ...any) (Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx, q, args...).Scan(
		&o.ID, &o.UserID, &o.Status, &o.TotalCents, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	o.Items, err = itemsOf(ctx, r.DB, o.ID)
	return o, err
}

func (r *Repo) list(ctx context.Context, q string, args ...any) ([]Order, error) {
	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.TotalCents, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func itemsOf(ctx context.Context, q querier, orderID string) ([]OrderItem, error) {
	rows, err := q.Query(ctx, `
		SELECT id, order_id, product_id, size, qty, price_cents
		FROM order_items WHERE order_id=$1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Size, &it.Qty, &it.PriceCents); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

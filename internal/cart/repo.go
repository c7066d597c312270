package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RapidMaulana/NgeBaju-BE/internal/catalog"
)

var ErrItemNotFound = errors.New("cart item not found")

type Repo struct{ DB *pgxpool.Pool }

// Add masukin item ke cart. Kalau (product, size) sudah ada di cart user,
// qty digabung dan total gabungan dicek ulang terhadap stok saat ini.
func (r *Repo) Add(ctx context.Context, userID, productID, size string, qty int) (Item, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Item{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	stock, err := availableStock(ctx, tx, productID, size)
	if err != nil {
		return Item{}, err
	}

	var (
		existingID  string
		existingQty int
	)
	err = tx.QueryRow(ctx, `
		SELECT id, qty FROM cart_items
		WHERE user_id=$1 AND product_id=$2 AND size=$3
		FOR UPDATE`, userID, productID, size).Scan(&existingID, &existingQty)

	var it Item
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		if qty > stock {
			return Item{}, catalog.ErrInsufficientStock
		}
		it = Item{ID: uuid.NewString(), UserID: userID, ProductID: productID, Size: size, Qty: qty}
		err = tx.QueryRow(ctx, `
			INSERT INTO cart_items(id, user_id, product_id, size, qty)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING created_at, updated_at`,
			it.ID, userID, productID, size, qty).Scan(&it.CreatedAt, &it.UpdatedAt)
		if err != nil {
			return Item{}, fmt.Errorf("insert cart item: %w", err)
		}
	case err != nil:
		return Item{}, err
	default:
		merged := existingQty + qty
		if merged > stock {
			return Item{}, catalog.ErrInsufficientStock
		}
		it = Item{ID: existingID, UserID: userID, ProductID: productID, Size: size, Qty: merged}
		err = tx.QueryRow(ctx, `
			UPDATE cart_items SET qty=$2, updated_at=now()
			WHERE id=$1
			RETURNING created_at, updated_at`,
			existingID, merged).Scan(&it.CreatedAt, &it.UpdatedAt)
		if err != nil {
			return Item{}, fmt.Errorf("merge cart item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Item{}, err
	}
	return it, nil
}

func (r *Repo) UpdateQty(ctx context.Context, userID, itemID string, qty int) (Item, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Item{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var it Item
	err = tx.QueryRow(ctx, `
		SELECT id, user_id, product_id, size, qty FROM cart_items
		WHERE id=$1 AND user_id=$2
		FOR UPDATE`, itemID, userID).Scan(&it.ID, &it.UserID, &it.ProductID, &it.Size, &it.Qty)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, ErrItemNotFound
	}
	if err != nil {
		return Item{}, err
	}

	stock, err := availableStock(ctx, tx, it.ProductID, it.Size)
	if err != nil {
		return Item{}, err
	}
	if qty > stock {
		return Item{}, catalog.ErrInsufficientStock
	}

	it.Qty = qty
	err = tx.QueryRow(ctx, `
		UPDATE cart_items SET qty=$2, updated_at=now()
		WHERE id=$1
		RETURNING created_at, updated_at`, itemID, qty).Scan(&it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return Item{}, err
	}
	return it, tx.Commit(ctx)
}

func (r *Repo) Remove(ctx context.Context, userID, itemID string) error {
	ct, err := r.DB.Exec(ctx,
		`DELETE FROM cart_items WHERE id=$1 AND user_id=$2`, itemID, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *Repo) Clear(ctx context.Context, userID string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM cart_items WHERE user_id=$1`, userID)
	return err
}

func (r *Repo) Items(ctx context.Context, userID string) ([]Item, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT ci.id, ci.user_id, ci.product_id, ci.size, ci.qty,
		       ci.created_at, ci.updated_at, p.name, p.price_cents
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id=$1
		ORDER BY ci.created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.UserID, &it.ProductID, &it.Size, &it.Qty,
			&it.CreatedAt, &it.UpdatedAt, &it.ProductName, &it.PriceCents); err != nil {
			return nil, err
		}
		it.SubtotalCents = it.PriceCents * it.Qty
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *Repo) Count(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM cart_items WHERE user_id=$1`, userID).Scan(&n)
	return n, err
}

func (r *Repo) Summary(ctx context.Context, userID string) (Summary, error) {
	var s Summary
	err := r.DB.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(ci.qty), 0), COALESCE(SUM(ci.qty * p.price_cents), 0)
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id=$1`, userID).Scan(&s.ItemCount, &s.TotalQty, &s.TotalCents)
	return s, err
}

// Checkout preview doang: order tidak dibuat, cart tidak dikosongkan.
func (r *Repo) Checkout(ctx context.Context, userID string) (CheckoutPreview, error) {
	items, err := r.Items(ctx, userID)
	if err != nil {
		return CheckoutPreview{}, err
	}
	var total int
	for _, it := range items {
		total += it.SubtotalCents
	}
	return CheckoutPreview{Items: items, TotalCents: total}, nil
}

// availableStock: stok per-size kalau size keisi, kalau tidak stok umum produk.
func availableStock(ctx context.Context, tx pgx.Tx, productID, size string) (int, error) {
	var stock int
	if size != "" {
		err := tx.QueryRow(ctx,
			`SELECT stock FROM product_sizes WHERE product_id=$1 AND size=$2`,
			productID, size).Scan(&stock)
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, catalog.ErrSizeNotFound
		}
		return stock, err
	}
	err := tx.QueryRow(ctx, `SELECT stock FROM products WHERE id=$1`, productID).Scan(&stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, catalog.ErrProductNotFound
	}
	return stock, err
}

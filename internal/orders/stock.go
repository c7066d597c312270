package orders

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/RapidMaulana/NgeBaju-BE/internal/catalog"
)

// Reserve kurangi stok tiap line item di dalam transaksi caller.
// Decrement-nya kondisional (stock >= qty) jadi cek dan tulis satu statement:
// tidak ada jendela check-then-act, dan stok tidak pernah minus.
// Error di item manapun → caller rollback → tidak ada stok yang berubah.
func Reserve(ctx context.Context, tx pgx.Tx, items []OrderItem) error {
	for _, it := range items {
		if err := adjust(ctx, tx, it.ProductID, it.Size, -it.Qty); err != nil {
			return err
		}
	}
	return nil
}

// Release kebalikannya: balikin stok saat order di-cancel. Jalan di transaksi
// yang sama dengan update status, jadi tidak mungkin stok balik sebagian.
func Release(ctx context.Context, tx pgx.Tx, items []OrderItem) error {
	for _, it := range items {
		if err := adjust(ctx, tx, it.ProductID, it.Size, it.Qty); err != nil {
			return err
		}
	}
	return nil
}

func adjust(ctx context.Context, tx pgx.Tx, productID, size string, delta int) error {
	var (
		ct  pgconn.CommandTag
		err error
	)
	if size != "" {
		ct, err = tx.Exec(ctx, `
			UPDATE product_sizes SET stock = stock + $3
			WHERE product_id=$1 AND size=$2 AND stock + $3 >= 0`,
			productID, size, delta)
	} else {
		ct, err = tx.Exec(ctx, `
			UPDATE products SET stock = stock + $2, updated_at=now()
			WHERE id=$1 AND stock + $2 >= 0`,
			productID, delta)
	}
	if err != nil {
		return fmt.Errorf("adjust stock product=%s size=%q: %w", productID, size, err)
	}
	if ct.RowsAffected() == 1 {
		return nil
	}

	// Nggak ada row yang kena: bedain "row tidak ada" vs "stok kurang".
	var exists bool
	if size != "" {
		err = tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM product_sizes WHERE product_id=$1 AND size=$2)`,
			productID, size).Scan(&exists)
	} else {
		err = tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM products WHERE id=$1)`, productID).Scan(&exists)
	}
	if err != nil {
		return err
	}
	if !exists {
		if size != "" {
			return catalog.ErrSizeNotFound
		}
		return catalog.ErrProductNotFound
	}
	return catalog.ErrInsufficientStock
}

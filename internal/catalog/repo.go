package catalog

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
	ErrProductNotFound   = errors.New("product not found")
	ErrSizeNotFound      = errors.New("product size not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrCategoryNameTaken = errors.New("category name already exists")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Repo struct{ DB *pgxpool.Pool }

const productCols = `id, category_id, name, description, price_cents, stock, image_url, created_at, updated_at`

type SizeInput struct {
	Size  string `json:"size" validate:"required"`
	Stock int    `json:"stock" validate:"min=0"`
}

func (r *Repo) CreateProduct(ctx context.Context, p Product, sizes []SizeInput) (Product, error) {
	p.ID = uuid.NewString()
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Product{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO products(id, category_id, name, description, price_cents, stock, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		p.ID, p.CategoryID, p.Name, p.Description, p.PriceCents, p.Stock, p.ImageURL,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if isFKViolation(err) {
		return Product{}, ErrCategoryNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("insert product: %w", err)
	}

	for _, s := range sizes {
		ps := ProductSize{ID: uuid.NewString(), ProductID: p.ID, Size: s.Size, Stock: s.Stock}
		if _, err := tx.Exec(ctx, `
			INSERT INTO product_sizes(id, product_id, size, stock)
			VALUES ($1, $2, $3, $4)`, ps.ID, ps.ProductID, ps.Size, ps.Stock); err != nil {
			return Product{}, fmt.Errorf("insert size %q: %w", s.Size, err)
		}
		p.Sizes = append(p.Sizes, ps)
	}

	if err := tx.Commit(ctx); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *Repo) GetProduct(ctx context.Context, id string) (Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx,
		`SELECT `+productCols+` FROM products WHERE id=$1`, id))
	if err != nil {
		return Product{}, err
	}
	p.Sizes, err = r.sizesOf(ctx, id)
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *Repo) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productCols+` FROM products ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *Repo) ListProductsByCategory(ctx context.Context, categoryID string) ([]Product, error) {
	if _, err := r.GetCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	rows, err := r.DB.Query(ctx,
		`SELECT `+productCols+` FROM products WHERE category_id=$1 ORDER BY name`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

// UpdateProduct ganti field produk dan replace seluruh daftar size.
// Stok umum & per-size dari payload admin dianggap sumber kebenaran.
func (r *Repo) UpdateProduct(ctx context.Context, p Product, sizes []SizeInput) (Product, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Product{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		UPDATE products
		SET category_id=$2, name=$3, description=$4, price_cents=$5, stock=$6, image_url=$7, updated_at=now()
		WHERE id=$1
		RETURNING created_at, updated_at`,
		p.ID, p.CategoryID, p.Name, p.Description, p.PriceCents, p.Stock, p.ImageURL,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrProductNotFound
	}
	if isFKViolation(err) {
		return Product{}, ErrCategoryNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("update product: %w", err)
	}

	if sizes != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM product_sizes WHERE product_id=$1`, p.ID); err != nil {
			return Product{}, err
		}
		p.Sizes = nil
		for _, s := range sizes {
			ps := ProductSize{ID: uuid.NewString(), ProductID: p.ID, Size: s.Size, Stock: s.Stock}
			if _, err := tx.Exec(ctx, `
				INSERT INTO product_sizes(id, product_id, size, stock)
				VALUES ($1, $2, $3, $4)`, ps.ID, ps.ProductID, ps.Size, ps.Stock); err != nil {
				return Product{}, fmt.Errorf("insert size %q: %w", s.Size, err)
			}
			p.Sizes = append(p.Sizes, ps)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *Repo) DeleteProduct(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *Repo) CreateCategory(ctx context.Context, name, description string) (Category, error) {
	c := Category{ID: uuid.NewString(), Name: name, Description: description}
	err := r.DB.QueryRow(ctx, `
		INSERT INTO categories(id, name, description)
		VALUES ($1, $2, $3)
		RETURNING created_at`, c.ID, name, description).Scan(&c.CreatedAt)
	if isUniqueViolation(err) {
		return Category{}, ErrCategoryNameTaken
	}
	if err != nil {
		return Category{}, fmt.Errorf("insert category: %w", err)
	}
	return c, nil
}

func (r *Repo) GetCategory(ctx context.Context, id string) (Category, error) {
	var c Category
	err := r.DB.QueryRow(ctx,
		`SELECT id, name, description, created_at FROM categories WHERE id=$1`, id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, ErrCategoryNotFound
	}
	return c, err
}

func (r *Repo) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, description, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateCategory(ctx context.Context, id, name, description string) (Category, error) {
	var c Category
	err := r.DB.QueryRow(ctx, `
		UPDATE categories SET name=$2, description=$3
		WHERE id=$1
		RETURNING id, name, description, created_at`,
		id, name, description).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, ErrCategoryNotFound
	}
	if isUniqueViolation(err) {
		return Category{}, ErrCategoryNameTaken
	}
	return c, err
}

func (r *Repo) DeleteCategory(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *Repo) sizesOf(ctx context.Context, productID string) ([]ProductSize, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, product_id, size, stock FROM product_sizes WHERE product_id=$1 ORDER BY size`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProductSize
	for rows.Next() {
		var s ProductSize
		if err := rows.Scan(&s.ID, &s.ProductID, &s.Size, &s.Stock); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.PriceCents, &p.Stock, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrProductNotFound
	}
	return p, err
}

func collectProducts(rows pgx.Rows) ([]Product, error) {
	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.PriceCents, &p.Stock, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isFKViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

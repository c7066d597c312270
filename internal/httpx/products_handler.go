package httpx

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/RapidMaulana/NgeBaju-BE/internal/auth"
	"github.com/RapidMaulana/NgeBaju-BE/internal/catalog"
)

type CatalogStore interface {
	CreateProduct(ctx context.Context, p catalog.Product, sizes []catalog.SizeInput) (catalog.Product, error)
	GetProduct(ctx context.Context, id string) (catalog.Product, error)
	ListProducts(ctx context.Context) ([]catalog.Product, error)
	ListProductsByCategory(ctx context.Context, categoryID string) ([]catalog.Product, error)
	UpdateProduct(ctx context.Context, p catalog.Product, sizes []catalog.SizeInput) (catalog.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	CreateCategory(ctx context.Context, name, description string) (catalog.Category, error)
	GetCategory(ctx context.Context, id string) (catalog.Category, error)
	ListCategories(ctx context.Context) ([]catalog.Category, error)
	UpdateCategory(ctx context.Context, id, name, description string) (catalog.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

type ProductsHandler struct {
	Catalog  CatalogStore
	Validate *validator.Validate
	Log      *slog.Logger
}

type productReq struct {
	CategoryID  *string             `json:"category_id"`
	Name        string              `json:"name" validate:"required"`
	Description string              `json:"description"`
	PriceCents  int                 `json:"price_cents" validate:"min=0"`
	Stock       int                 `json:"stock" validate:"min=0"`
	ImageURL    string              `json:"image_url"`
	Sizes       []catalog.SizeInput `json:"sizes" validate:"dive"`
}

// Register: GET katalog terbuka, tulis khusus admin.
func (h *ProductsHandler) Register(r chi.Router, keys *auth.Keys) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/{id}", h.get)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(keys), RequireAdmin)
			r.Post("/", h.create)
			r.Put("/{id}", h.update)
			r.Delete("/{id}", h.delete)
		})
	})
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Catalog.ListProducts(r.Context())
	if err != nil {
		h.Log.Error("list products", slog.String("error", err.Error()))
		respondDomainError(w, err)
		return
	}
	respondOK(w, http.StatusOK, map[string]any{"products": ps})
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondOK(w, http.StatusOK, map[string]any{"product": p})
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req productReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if errs := validate(h.Validate, req); errs != nil {
		respondValidation(w, errs)
		return
	}

	p, err := h.Catalog.CreateProduct(r.Context(), catalog.Product{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	}, req.Sizes)
	if err != nil {
		h.Log.Error("create product", slog.String("error", err.Error()))
		respondDomainError(w, err)
		return
	}
	respondOK(w, http.StatusCreated, map[string]any{"product": p})
}

func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request) {
	var req productReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if errs := validate(h.Validate, req); errs != nil {
		respondValidation(w, errs)
		return
	}

	p, err := h.Catalog.UpdateProduct(r.Context(), catalog.Product{
		ID:          chi.URLParam(r, "id"),
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	}, req.Sizes)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondOK(w, http.StatusOK, map[string]any{"product": p})
}

func (h *ProductsHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondDomainError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "product deleted")
}

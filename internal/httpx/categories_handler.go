package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/RapidMaulana/NgeBaju-BE/internal/auth"
)

type CategoriesHandler struct {
	Catalog  CatalogStore
	Validate *validator.Validate
	Log      *slog.Logger
}

type categoryReq struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (h *CategoriesHandler) Register(r chi.Router, keys *auth.Keys) {
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Get("/{id}/products", h.products)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(keys), RequireAdmin)
			r.Post("/", h.create)
			r.Put("/{id}", h.update)
			r.Delete("/{id}", h.delete)
		})
	})
}

func (h *CategoriesHandler) list(w http.ResponseWriter, r *http.Request) {
	cs, err := h.Catalog.ListCategories(r.Context())
	if err != nil {
		h.Log.Error("list categories", slog.String("error", err.Error()))
		respondDomainError(w, err)
		return
	}
	respondOK(w, http.StatusOK, map[string]any{"categories": cs})
}

func (h *CategoriesHandler) get(w http.ResponseWriter, r *http.Request) {
	c, err := h.Catalog.GetCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondOK(w, http.StatusOK, map[string]any{"category": c})
}

func (h *CategoriesHandler) products(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Catalog.ListProductsByCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondOK(w, http.StatusOK, map[string]any{"products": ps})
}

func (h *CategoriesHandler) create(w http.ResponseWriter, r *http.Request) {
	var req categoryReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if errs := validate(h.Validate, req); errs != nil {
		respondValidation(w, errs)
		return
	}
	c, err := h.Catalog.CreateCategory(r.Context(), req.Name, req.Description)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondOK(w, http.StatusCreated, map[string]any{"category": c})
}

func (h *CategoriesHandler) update(w http.ResponseWriter, r *http.Request) {
	var req categoryReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if errs := validate(h.Validate, req); errs != nil {
		respondValidation(w, errs)
		return
	}
	c, err := h.Catalog.UpdateCategory(r.Context(), chi.URLParam(r, "id"), req.Name, req.Description)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondOK(w, http.StatusOK, map[string]any{"category": c})
}

func (h *CategoriesHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondDomainError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "category deleted")
}

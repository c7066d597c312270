package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"github.com/RapidMaulana/NgeBaju-BE/internal/auth"
	"github.com/RapidMaulana/NgeBaju-BE/internal/cart"
	"github.com/RapidMaulana/NgeBaju-BE/internal/redisx"
)

type CartStore interface {
	Add(ctx context.Context, userID, productID, size string, qty int) (cart.Item, error)
	UpdateQty(ctx context.Context, userID, itemID string, qty int) (cart.Item, error)
	Remove(ctx context.Context, userID, itemID string) error
	Clear(ctx context.Context, userID string) error
	Items(ctx context.Context, userID string) ([]cart.Item, error)
	Count(ctx context.Context, userID string) (int, error)
	Summary(ctx context.Context, userID string) (cart.Summary, error)
	Checkout(ctx context.Context, userID string) (cart.CheckoutPreview, error)
}

type CartHandler struct {
	Cart     CartStore
	Redis    *redis.Client
	Validate *validator.Validate
	Log      *slog.Logger
}

type addCartReq struct {
	ProductID string `json:"product_id" validate:"required"`
	Size      string `json:"size"`
	Qty       int    `json:"qty" validate:"required,min=1"`
}

type updateCartReq struct {
	Qty int `json:"qty" validate:"required,min=1"`
}

func (h *CartHandler) Register(r chi.Router, keys *auth.Keys) {
	r.Route("/cart", func(r chi.Router) {
		r.Use(Authenticate(keys))
		r.Get("/", h.items)
		r.Post("/", h.add)
		r.Delete("/", h.clear)
		r.Get("/count", h.count)
		r.Get("/summary", h.summary)
		r.Get("/checkout", h.checkout)
		r.Put("/{id}", h.updateQty)
		r.Delete("/{id}", h.remove)
	})
}

func (h *CartHandler) items(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFrom(r.Context())
	items, err := h.Cart.Items(r.Context(), claims.Subject)
	if err != nil {
		h.Log.Error("list cart", slog.String("error", err.Error()))
		respondDomainError(w, err)
		return
	}
	respondOK(w, http.StatusOK, map[string]any{"items": items})
}

func (h *CartHandler) add(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFrom(r.Context())
	var req addCartReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if errs := validate(h.Validate, req); errs != nil {
		respondValidation(w, errs)
		return
	}

	it, err := h.Cart.Add(r.Context(), claims.Subject, req.ProductID, req.Size, req.Qty)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	h.invalidateCount(r.Context(), claims.Subject)
	respondOK(w, http.StatusCreated, map[string]any{"item": it})
}

func (h *CartHandler) updateQty(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFrom(r.Context())
	var req updateCartReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if errs := validate(h.Validate, req); errs != nil {
		respondValidation(w, errs)
		return
	}

	it, err := h.Cart.UpdateQty(r.Context(), claims.Subject, chi.URLParam(r, "id"), req.Qty)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	h.invalidateCount(r.Context(), claims.Subject)
	respondOK(w, http.StatusOK, map[string]any{"item": it})
}

func (h *CartHandler) remove(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFrom(r.Context())
	if err := h.Cart.Remove(r.Context(), claims.Subject, chi.URLParam(r, "id")); err != nil {
		respondDomainError(w, err)
		return
	}
	h.invalidateCount(r.Context(), claims.Subject)
	respondMessage(w, http.StatusOK, "item removed")
}

func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFrom(r.Context())
	if err := h.Cart.Clear(r.Context(), claims.Subject); err != nil {
		respondDomainError(w, err)
		return
	}
	h.invalidateCount(r.Context(), claims.Subject)
	respondMessage(w, http.StatusOK, "cart cleared")
}

// count: coba Redis dulu, miss baru ke DB. Gagal cache cuma dicatat.
func (h *CartHandler) count(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFrom(r.Context())
	key := fmt.Sprintf(redisx.KeyCartCount, claims.Subject)

	if h.Redis != nil {
		if s, err := h.Redis.Get(r.Context(), key).Result(); err == nil {
			if n, err := strconv.Atoi(s); err == nil {
				respondOK(w, http.StatusOK, map[string]any{"count": n})
				return
			}
		}
	}

	n, err := h.Cart.Count(r.Context(), claims.Subject)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if h.Redis != nil {
		if err := h.Redis.Set(r.Context(), key, n, redisx.TTLCartCount).Err(); err != nil {
			h.Log.Warn("cache cart count", slog.String("error", err.Error()))
		}
	}
	respondOK(w, http.StatusOK, map[string]any{"count": n})
}

func (h *CartHandler) summary(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFrom(r.Context())
	s, err := h.Cart.Summary(r.Context(), claims.Subject)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondOK(w, http.StatusOK, map[string]any{"summary": s})
}

// checkout: preview bentuk order, TIDAK bikin order dan TIDAK mengosongkan cart.
func (h *CartHandler) checkout(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFrom(r.Context())
	p, err := h.Cart.Checkout(r.Context(), claims.Subject)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondOK(w, http.StatusOK, map[string]any{"checkout": p})
}

func (h *CartHandler) invalidateCount(ctx context.Context, userID string) {
	if h.Redis == nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyCartCount, userID)
	if err := h.Redis.Del(ctx, key).Err(); err != nil {
		h.Log.Warn("invalidate cart count", slog.String("error", err.Error()))
	}
}

package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"github.com/RapidMaulana/NgeBaju-BE/internal/auth"
	"github.com/RapidMaulana/NgeBaju-BE/internal/orders"
	"github.com/RapidMaulana/NgeBaju-BE/internal/redisx"
)

type OrderStore interface {
	Create(ctx context.Context, userID string, lines []orders.LineInput) (orders.Order, error)
	Get(ctx context.Context, orderID string) (orders.Order, error)
	GetForUser(ctx context.Context, orderID, userID string) (orders.Order, error)
	ListAll(ctx context.Context) ([]orders.Order, error)
	ListByUser(ctx context.Context, userID string) ([]orders.Order, error)
	Transition(ctx context.Context, orderID string, target orders.Status) (orders.Order, error)
	Cancel(ctx context.Context, orderID, userID string) (orders.Order, error)
}

type OrdersHandler struct {
	Orders   OrderStore
	Redis    *redis.Client
	Validate *validator.Validate
	Log      *slog.Logger
}

type createOrderReq struct {
	Items []orders.LineInput `json:"items" validate:"required,min=1,dive"`
}

type updateStatusReq struct {
	Status string `json:"status" validate:"required"`
}

func (h *OrdersHandler) Register(r chi.Router, keys *auth.Keys) {
	r.Route("/orders", func(r chi.Router) {
		r.Use(Authenticate(keys))
		r.With(RequireAdmin).Get("/", h.listAll)
		r.Get("/me", h.listMine)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Get("/{id}/status", h.status)
		r.Post("/{id}/cancel", h.cancel)
		r.With(RequireAdmin).Put("/{id}/status", h.updateStatus)
	})
}

func (h *OrdersHandler) listAll(w http.ResponseWriter, r *http.Request) {
	os, err := h.Orders.ListAll(r.Context())
	if err != nil {
		h.Log.Error("list orders", slog.String("error", err.Error()))
		respondDomainError(w, err)
		return
	}
	respondOK(w, http.StatusOK, map[string]any{"orders": os})
}

func (h *OrdersHandler) listMine(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFrom(r.Context())
	os, err := h.Orders.ListByUser(r.Context(), claims.Subject)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondOK(w, http.StatusOK, map[string]any{"orders": os})
}

// get: admin boleh lihat order siapa pun; user pakai query yang discope
// user_id, jadi order orang lain jatuh sebagai 404 — bukan 403.
func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFrom(r.Context())
	orderID := chi.URLParam(r, "id")

	var (
		o   orders.Order
		err error
	)
	if claims.Role == auth.RoleAdmin {
		o, err = h.Orders.Get(r.Context(), orderID)
	} else {
		o, err = h.Orders.GetForUser(r.Context(), orderID, claims.Subject)
	}
	if err != nil {
		respondDomainError(w, err)
		return
	}
	h.cacheStatus(r.Context(), o)
	respondOK(w, http.StatusOK, map[string]any{"order": o})
}

// status: baca ringan, cek Redis dulu baru fallback ke Postgres (isi cache
// waktu miss). Nilai cache bawa user_id pemilik, jadi cek kepemilikan tetap
// jalan waktu hit — order orang lain tetap 404.
func (h *OrdersHandler) status(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFrom(r.Context())
	orderID := chi.URLParam(r, "id")

	if h.Redis != nil {
		key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
		if raw, err := h.Redis.Get(r.Context(), key).Result(); err == nil {
			var v statusCacheVal
			if json.Unmarshal([]byte(raw), &v) == nil {
				if !auth.CanAccessResource(claims.Role, claims.Subject, v.UserID) {
					respondDomainError(w, orders.ErrNotFound)
					return
				}
				respondOK(w, http.StatusOK, map[string]any{"order_id": orderID, "status": v.Status})
				return
			}
		}
	}

	var (
		o   orders.Order
		err error
	)
	if claims.Role == auth.RoleAdmin {
		o, err = h.Orders.Get(r.Context(), orderID)
	} else {
		o, err = h.Orders.GetForUser(r.Context(), orderID, claims.Subject)
	}
	if err != nil {
		respondDomainError(w, err)
		return
	}
	h.cacheStatus(r.Context(), o)
	respondOK(w, http.StatusOK, map[string]any{"order_id": o.ID, "status": o.Status})
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFrom(r.Context())
	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if errs := validate(h.Validate, req); errs != nil {
		respondValidation(w, errs)
		return
	}

	o, err := h.Orders.Create(r.Context(), claims.Subject, req.Items)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	h.cacheStatus(r.Context(), o)
	respondOK(w, http.StatusCreated, map[string]any{
		"order_id":    o.ID,
		"total_cents": o.TotalCents,
		"order":       o,
	})
}

// cancel: user cuma order sendiri (scoped), admin bebas. State machine yang
// menolak cancel dari status selain pending/processing.
func (h *OrdersHandler) cancel(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFrom(r.Context())
	orderID := chi.URLParam(r, "id")

	var (
		o   orders.Order
		err error
	)
	if auth.CanTransitionOrder(claims.Role) {
		o, err = h.Orders.Transition(r.Context(), orderID, orders.StatusCancelled)
	} else {
		o, err = h.Orders.Cancel(r.Context(), orderID, claims.Subject)
	}
	if err != nil {
		respondDomainError(w, err)
		return
	}
	h.cacheStatus(r.Context(), o)
	respondOK(w, http.StatusOK, map[string]any{"order": o})
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if errs := validate(h.Validate, req); errs != nil {
		respondValidation(w, errs)
		return
	}
	target := orders.Status(req.Status)
	if !orders.ValidStatus(target) {
		respondError(w, http.StatusBadRequest, "unknown status: "+req.Status)
		return
	}

	o, err := h.Orders.Transition(r.Context(), chi.URLParam(r, "id"), target)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	h.cacheStatus(r.Context(), o)
	respondOK(w, http.StatusOK, map[string]any{"order": o})
}

// statusCacheVal: isi key order_status:{id}.
type statusCacheVal struct {
	Status orders.Status `json:"status"`
	UserID string        `json:"user_id"`
}

// cacheStatus: refresh cache status order, gagal cuma dicatat —
// Postgres tetap sumber kebenaran.
func (h *OrdersHandler) cacheStatus(ctx context.Context, o orders.Order) {
	if h.Redis == nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyOrderStatus, o.ID)
	val, err := json.Marshal(statusCacheVal{Status: o.Status, UserID: o.UserID})
	if err != nil {
		return
	}
	if err := h.Redis.Set(ctx, key, val, redisx.TTLStatusCache).Err(); err != nil {
		h.Log.Warn("cache order status", slog.String("error", err.Error()))
	}
}

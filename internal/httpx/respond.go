package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/RapidMaulana/NgeBaju-BE/internal/cart"
	"github.com/RapidMaulana/NgeBaju-BE/internal/catalog"
	"github.com/RapidMaulana/NgeBaju-BE/internal/orders"
	"github.com/RapidMaulana/NgeBaju-BE/internal/users"
)

// Semua response pakai amplop {success, message?, ...payload}.

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func respondOK(w http.ResponseWriter, code int, payload map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	writeJSON(w, code, body)
}

func respondMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"success": true, "message": msg})
}

func respondError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"success": false, "message": msg})
}

func respondValidation(w http.ResponseWriter, errs []string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"success": false,
		"message": "validation failed",
		"errors":  errs,
	})
}

// respondDomainError petakan error sentinel domain ke kode HTTP sesuai
// taksonomi: 404 entity absen, 400 konflik/stok/transisi, 500 sisanya.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, users.ErrNotFound),
		errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, catalog.ErrSizeNotFound),
		errors.Is(err, catalog.ErrCategoryNotFound),
		errors.Is(err, cart.ErrItemNotFound),
		errors.Is(err, orders.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, users.ErrEmailTaken),
		errors.Is(err, catalog.ErrCategoryNameTaken),
		errors.Is(err, catalog.ErrInsufficientStock),
		errors.Is(err, orders.ErrInvalidTransition):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

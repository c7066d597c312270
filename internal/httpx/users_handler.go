package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/RapidMaulana/NgeBaju-BE/internal/auth"
)

type UsersHandler struct {
	Users    UserStore
	Validate *validator.Validate
	Log      *slog.Logger
}

type updateUserReq struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type updatePasswordReq struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type updateRoleReq struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

func (h *UsersHandler) Register(r chi.Router, keys *auth.Keys) {
	r.Route("/users", func(r chi.Router) {
		r.Use(Authenticate(keys))
		r.With(RequireAdmin).Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Put("/{id}/password", h.updatePassword)
		r.With(RequireAdmin).Put("/{id}/role", h.updateRole)
	})
}

func (h *UsersHandler) list(w http.ResponseWriter, r *http.Request) {
	us, err := h.Users.List(r.Context())
	if err != nil {
		h.Log.Error("list users", slog.String("error", err.Error()))
		respondDomainError(w, err)
		return
	}
	respondOK(w, http.StatusOK, map[string]any{"users": us})
}

func (h *UsersHandler) get(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFrom(r.Context())
	id := chi.URLParam(r, "id")
	if !auth.CanAccessResource(claims.Role, claims.Subject, id) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}
	u, err := h.Users.GetByID(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondOK(w, http.StatusOK, map[string]any{"user": u})
}

func (h *UsersHandler) update(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFrom(r.Context())
	id := chi.URLParam(r, "id")
	if !auth.CanAccessResource(claims.Role, claims.Subject, id) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	var req updateUserReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if errs := validate(h.Validate, req); errs != nil {
		respondValidation(w, errs)
		return
	}

	u, err := h.Users.UpdateProfile(r.Context(), id, req.Name, req.Email)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondOK(w, http.StatusOK, map[string]any{"user": u})
}

// updatePassword: cuma pemilik akun, dan password lama harus cocok.
func (h *UsersHandler) updatePassword(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFrom(r.Context())
	id := chi.URLParam(r, "id")
	if claims.Subject != id {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	var req updatePasswordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if errs := validate(h.Validate, req); errs != nil {
		respondValidation(w, errs)
		return
	}

	u, err := h.Users.GetByID(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if !auth.CheckPassword(u.PasswordHash, req.OldPassword) {
		respondError(w, http.StatusBadRequest, "old password does not match")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		h.Log.Error("hash password", slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if err := h.Users.UpdatePassword(r.Context(), id, hash); err != nil {
		respondDomainError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "password updated")
}

func (h *UsersHandler) updateRole(w http.ResponseWriter, r *http.Request) {
	var req updateRoleReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if errs := validate(h.Validate, req); errs != nil {
		respondValidation(w, errs)
		return
	}

	u, err := h.Users.UpdateRole(r.Context(), chi.URLParam(r, "id"), req.Role)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondOK(w, http.StatusOK, map[string]any{"user": u})
}

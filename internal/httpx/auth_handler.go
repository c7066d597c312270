package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/RapidMaulana/NgeBaju-BE/internal/auth"
	"github.com/RapidMaulana/NgeBaju-BE/internal/users"
)

// UserStore: irisan users.Repo yang dipakai handler auth/users.
type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash string) (users.User, error)
	GetByEmail(ctx context.Context, email string) (users.User, error)
	GetByID(ctx context.Context, id string) (users.User, error)
	List(ctx context.Context) ([]users.User, error)
	UpdateProfile(ctx context.Context, id, name, email string) (users.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateRole(ctx context.Context, id, role string) (users.User, error)
}

type AuthHandler struct {
	Users    UserStore
	Keys     *auth.Keys
	Validate *validator.Validate
	Log      *slog.Logger
}

type registerReq struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Register(r chi.Router, keys *auth.Keys) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.With(Authenticate(keys)).Get("/profile", h.profile)
	})
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if errs := validate(h.Validate, req); errs != nil {
		respondValidation(w, errs)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.Log.Error("hash password", slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	u, err := h.Users.Create(r.Context(), req.Name, req.Email, hash)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	token, err := h.Keys.GenerateToken(u.ID, u.Role)
	if err != nil {
		h.Log.Error("generate token", slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondOK(w, http.StatusCreated, map[string]any{"user": u, "token": token})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if errs := validate(h.Validate, req); errs != nil {
		respondValidation(w, errs)
		return
	}

	u, err := h.Users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		respondDomainError(w, err)
		return
	}
	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.Keys.GenerateToken(u.ID, u.Role)
	if err != nil {
		h.Log.Error("generate token", slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondOK(w, http.StatusOK, map[string]any{"user": u, "token": token})
}

func (h *AuthHandler) profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	u, err := h.Users.GetByID(r.Context(), claims.Subject)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondOK(w, http.StatusOK, map[string]any{"user": u})
}

// validate balikin daftar pesan per field, nil kalau lolos.
func validate(v *validator.Validate, s any) []string {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return []string{"invalid request"}
	}
	out := make([]string, 0, len(vErrs))
	for _, fe := range vErrs {
		switch fe.Tag() {
		case "required":
			out = append(out, fe.Field()+" is required")
		case "email":
			out = append(out, fe.Field()+" must be a valid email")
		case "min":
			out = append(out, fe.Field()+" must be at least "+fe.Param())
		default:
			out = append(out, fe.Field()+" is invalid")
		}
	}
	return out
}

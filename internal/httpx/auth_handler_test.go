package httpx

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/RapidMaulana/NgeBaju-BE/internal/auth"
	"github.com/RapidMaulana/NgeBaju-BE/internal/users"
)

type mockUserStore struct {
	byID    map[string]users.User
	byEmail map[string]users.User
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{byID: map[string]users.User{}, byEmail: map[string]users.User{}}
}

func (m *mockUserStore) put(u users.User) {
	m.byID[u.ID] = u
	m.byEmail[u.Email] = u
}

func (m *mockUserStore) Create(_ context.Context, name, email, passwordHash string) (users.User, error) {
	if _, ok := m.byEmail[email]; ok {
		return users.User{}, users.ErrEmailTaken
	}
	u := users.User{ID: "u-" + name, Name: name, Email: email, PasswordHash: passwordHash, Role: auth.RoleUser}
	m.put(u)
	return u, nil
}

func (m *mockUserStore) GetByEmail(_ context.Context, email string) (users.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}

func (m *mockUserStore) GetByID(_ context.Context, id string) (users.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}

func (m *mockUserStore) List(_ context.Context) ([]users.User, error) {
	var out []users.User
	for _, u := range m.byID {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockUserStore) UpdateProfile(_ context.Context, id, name, email string) (users.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	u.Name, u.Email = name, email
	m.put(u)
	return u, nil
}

func (m *mockUserStore) UpdatePassword(_ context.Context, id, passwordHash string) error {
	u, ok := m.byID[id]
	if !ok {
		return users.ErrNotFound
	}
	u.PasswordHash = passwordHash
	m.put(u)
	return nil
}

func (m *mockUserStore) UpdateRole(_ context.Context, id, role string) (users.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	u.Role = role
	m.put(u)
	return u, nil
}

func authRouter(t *testing.T, store UserStore) (*chi.Mux, *auth.Keys) {
	t.Helper()
	keys := testKeys()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	v := validator.New()
	r := chi.NewRouter()
	(&AuthHandler{Users: store, Keys: keys, Validate: v, Log: log}).Register(r, keys)
	(&UsersHandler{Users: store, Validate: v, Log: log}).Register(r, keys)
	return r, keys
}

func TestRegisterLoginProfile(t *testing.T) {
	r, keys := authRouter(t, newMockUserStore())

	w := doReq(t, r, http.MethodPost, "/auth/register", "",
		`{"name":"Budi","email":"budi@test.local","password":"rahasia-banget"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d: %s", w.Code, w.Body.String())
	}
	var reg struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &reg); err != nil {
		t.Fatal(err)
	}
	if _, err := keys.VerifyToken(reg.Token); err != nil {
		t.Errorf("register token invalid: %v", err)
	}

	w = doReq(t, r, http.MethodPost, "/auth/login", "",
		`{"email":"budi@test.local","password":"rahasia-banget"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", w.Code, w.Body.String())
	}

	w = doReq(t, r, http.MethodPost, "/auth/login", "",
		`{"email":"budi@test.local","password":"salah-semua"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad password status = %d, want 401", w.Code)
	}

	w = doReq(t, r, http.MethodGet, "/auth/profile", reg.Token, "")
	if w.Code != http.StatusOK {
		t.Errorf("profile status = %d, want 200", w.Code)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	r, _ := authRouter(t, newMockUserStore())
	body := `{"name":"Budi","email":"budi@test.local","password":"rahasia-banget"}`
	if w := doReq(t, r, http.MethodPost, "/auth/register", "", body); w.Code != http.StatusCreated {
		t.Fatalf("first register = %d", w.Code)
	}
	if w := doReq(t, r, http.MethodPost, "/auth/register", "", body); w.Code != http.StatusBadRequest {
		t.Errorf("duplicate register = %d, want 400", w.Code)
	}
}

func TestRegister_Validation(t *testing.T) {
	r, _ := authRouter(t, newMockUserStore())
	// email jelek + password kependekan
	w := doReq(t, r, http.MethodPost, "/auth/register", "",
		`{"name":"Budi","email":"bukan-email","password":"x"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var body struct {
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Errors) < 2 {
		t.Errorf("errors = %v, want email + password complaints", body.Errors)
	}
}

func TestUsers_OwnershipChecks(t *testing.T) {
	store := newMockUserStore()
	store.put(users.User{ID: "alice", Name: "Alice", Email: "alice@test.local", Role: auth.RoleUser})
	store.put(users.User{ID: "bob", Name: "Bob", Email: "bob@test.local", Role: auth.RoleUser})
	r, keys := authRouter(t, store)

	bobToken, _ := keys.GenerateToken("bob", auth.RoleUser)
	if w := doReq(t, r, http.MethodGet, "/users/alice", bobToken, ""); w.Code != http.StatusForbidden {
		t.Errorf("cross-user get = %d, want 403", w.Code)
	}
	if w := doReq(t, r, http.MethodGet, "/users/bob", bobToken, ""); w.Code != http.StatusOK {
		t.Errorf("self get = %d, want 200", w.Code)
	}

	adminToken, _ := keys.GenerateToken("root", auth.RoleAdmin)
	if w := doReq(t, r, http.MethodGet, "/users/alice", adminToken, ""); w.Code != http.StatusOK {
		t.Errorf("admin get = %d, want 200", w.Code)
	}

	// role change: admin only
	if w := doReq(t, r, http.MethodPut, "/users/bob/role", bobToken, `{"role":"admin"}`); w.Code != http.StatusForbidden {
		t.Errorf("user role change = %d, want 403", w.Code)
	}
	if w := doReq(t, r, http.MethodPut, "/users/bob/role", adminToken, `{"role":"admin"}`); w.Code != http.StatusOK {
		t.Errorf("admin role change = %d, want 200", w.Code)
	}
}

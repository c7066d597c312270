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
	"github.com/RapidMaulana/NgeBaju-BE/internal/catalog"
)

type mockCatalogStore struct {
	products   map[string]catalog.Product
	categories map[string]catalog.Category
}

func newMockCatalogStore() *mockCatalogStore {
	return &mockCatalogStore{
		products:   map[string]catalog.Product{},
		categories: map[string]catalog.Category{},
	}
}

func (m *mockCatalogStore) CreateProduct(_ context.Context, p catalog.Product, _ []catalog.SizeInput) (catalog.Product, error) {
	p.ID = "p-new"
	m.products[p.ID] = p
	return p, nil
}

func (m *mockCatalogStore) GetProduct(_ context.Context, id string) (catalog.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return catalog.Product{}, catalog.ErrProductNotFound
	}
	return p, nil
}

func (m *mockCatalogStore) ListProducts(_ context.Context) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockCatalogStore) ListProductsByCategory(_ context.Context, categoryID string) ([]catalog.Product, error) {
	if _, ok := m.categories[categoryID]; !ok {
		return nil, catalog.ErrCategoryNotFound
	}
	return nil, nil
}

func (m *mockCatalogStore) UpdateProduct(_ context.Context, p catalog.Product, _ []catalog.SizeInput) (catalog.Product, error) {
	if _, ok := m.products[p.ID]; !ok {
		return catalog.Product{}, catalog.ErrProductNotFound
	}
	m.products[p.ID] = p
	return p, nil
}

func (m *mockCatalogStore) DeleteProduct(_ context.Context, id string) error {
	if _, ok := m.products[id]; !ok {
		return catalog.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockCatalogStore) CreateCategory(_ context.Context, name, description string) (catalog.Category, error) {
	for _, c := range m.categories {
		if c.Name == name {
			return catalog.Category{}, catalog.ErrCategoryNameTaken
		}
	}
	c := catalog.Category{ID: "c-new", Name: name, Description: description}
	m.categories[c.ID] = c
	return c, nil
}

func (m *mockCatalogStore) GetCategory(_ context.Context, id string) (catalog.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return catalog.Category{}, catalog.ErrCategoryNotFound
	}
	return c, nil
}

func (m *mockCatalogStore) ListCategories(_ context.Context) ([]catalog.Category, error) {
	var out []catalog.Category
	for _, c := range m.categories {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCatalogStore) UpdateCategory(_ context.Context, id, name, description string) (catalog.Category, error) {
	if _, ok := m.categories[id]; !ok {
		return catalog.Category{}, catalog.ErrCategoryNotFound
	}
	c := catalog.Category{ID: id, Name: name, Description: description}
	m.categories[id] = c
	return c, nil
}

func (m *mockCatalogStore) DeleteCategory(_ context.Context, id string) error {
	if _, ok := m.categories[id]; !ok {
		return catalog.ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

func catalogRouter(t *testing.T, store CatalogStore) (*chi.Mux, *auth.Keys) {
	t.Helper()
	keys := testKeys()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	v := validator.New()
	r := chi.NewRouter()
	(&ProductsHandler{Catalog: store, Validate: v, Log: log}).Register(r, keys)
	(&CategoriesHandler{Catalog: store, Validate: v, Log: log}).Register(r, keys)
	return r, keys
}

func TestCreateProduct_AdminGate(t *testing.T) {
	r, keys := catalogRouter(t, newMockCatalogStore())
	body := `{"name":"Kaos Polos","price_cents":15000,"stock":10}`

	if w := doReq(t, r, http.MethodPost, "/products/", "", body); w.Code != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", w.Code)
	}

	userToken, _ := keys.GenerateToken("bob", auth.RoleUser)
	if w := doReq(t, r, http.MethodPost, "/products/", userToken, body); w.Code != http.StatusForbidden {
		t.Errorf("user status = %d, want 403", w.Code)
	}

	adminToken, _ := keys.GenerateToken("root", auth.RoleAdmin)
	if w := doReq(t, r, http.MethodPost, "/products/", adminToken, body); w.Code != http.StatusCreated {
		t.Errorf("admin status = %d, want 201: %s", w.Code, w.Body.String())
	}
}

func TestCreateProduct_ValidationErrors(t *testing.T) {
	r, keys := catalogRouter(t, newMockCatalogStore())
	adminToken, _ := keys.GenerateToken("root", auth.RoleAdmin)

	w := doReq(t, r, http.MethodPost, "/products/", adminToken, `{"price_cents":-5}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var body struct {
		Success bool     `json:"success"`
		Errors  []string `json:"errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Success || len(body.Errors) == 0 {
		t.Errorf("want success=false with error list, got %+v", body)
	}
}

func TestGetProduct_Unknown404(t *testing.T) {
	r, _ := catalogRouter(t, newMockCatalogStore())
	if w := doReq(t, r, http.MethodGet, "/products/nope", "", ""); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestCreateCategory_DuplicateNameIs400(t *testing.T) {
	store := newMockCatalogStore()
	r, keys := catalogRouter(t, store)
	adminToken, _ := keys.GenerateToken("root", auth.RoleAdmin)

	if w := doReq(t, r, http.MethodPost, "/categories/", adminToken, `{"name":"Kaos"}`); w.Code != http.StatusCreated {
		t.Fatalf("first create status = %d, want 201", w.Code)
	}
	if w := doReq(t, r, http.MethodPost, "/categories/", adminToken, `{"name":"Kaos"}`); w.Code != http.StatusBadRequest {
		t.Errorf("duplicate status = %d, want 400", w.Code)
	}
}

func TestCategoryProducts_UnknownCategory404(t *testing.T) {
	r, _ := catalogRouter(t, newMockCatalogStore())
	if w := doReq(t, r, http.MethodGet, "/categories/nope/products", "", ""); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

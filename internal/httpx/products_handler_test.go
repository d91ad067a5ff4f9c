package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apiantsiak/go-catalog-import/internal/catalog"
)

type memStore struct {
	products map[string]catalog.ProductView
	creates  int
	fail     error
}

func newMemStore() *memStore {
	return &memStore{products: map[string]catalog.ProductView{}}
}

func (m *memStore) List(context.Context) ([]catalog.ProductView, error) {
	if m.fail != nil {
		return nil, m.fail
	}
	out := make([]catalog.ProductView, 0, len(m.products))
	for _, v := range m.products {
		out = append(out, v)
	}
	return out, nil
}

func (m *memStore) Get(_ context.Context, id string) (catalog.ProductView, error) {
	v, ok := m.products[id]
	if !ok {
		return catalog.ProductView{}, catalog.ErrNotFound
	}
	return v, nil
}

func (m *memStore) Create(_ context.Context, req catalog.CreateRequest) (catalog.ProductView, error) {
	m.creates++
	if m.fail != nil {
		return catalog.ProductView{}, m.fail
	}
	v := catalog.ProductView{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Count:       req.Count,
	}
	m.products[v.ID] = v
	return v, nil
}

func productsRouter(store ProductStore) http.Handler {
	r := NewRouter()
	(&ProductsHandler{Store: store}).Register(r)
	return r
}

func TestProducts_CreateThenGetRoundTrip(t *testing.T) {
	store := newMemStore()
	router := productsRouter(store)

	rec := httptest.NewRecorder()
	body := `{"count":3,"price":9.99,"title":"Foo","description":"Bar"}`
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created catalog.ProductView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 3, created.Count)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/"+created.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched catalog.ProductView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, "Foo", fetched.Title)
	assert.Equal(t, "Bar", fetched.Description)
	assert.True(t, fetched.Price.Equal(decimal.RequireFromString("9.99")))
	assert.Equal(t, 3, fetched.Count)
}

func TestProducts_InvalidCountRejectedBeforeWrite(t *testing.T) {
	store := newMemStore()
	router := productsRouter(store)

	for _, body := range []string{
		`{"count":0,"price":9.99,"title":"Foo","description":"Bar"}`,
		`{"count":-5,"price":9.99,"title":"Foo","description":"Bar"}`,
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "count must be a positive integer")
	}
	assert.Zero(t, store.creates, "no write may occur for an invalid request")
}

func TestProducts_GetUnknown(t *testing.T) {
	rec := httptest.NewRecorder()
	productsRouter(newMemStore()).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/products/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Product with nope not found"}`, rec.Body.String())
}

func TestProducts_ListEmpty(t *testing.T) {
	rec := httptest.NewRecorder()
	productsRouter(newMemStore()).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/products", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestProducts_CreateConflict(t *testing.T) {
	store := newMemStore()
	store.fail = catalog.ErrConflict

	rec := httptest.NewRecorder()
	body := `{"count":1,"price":1.00,"title":"Foo","description":"Bar"}`
	productsRouter(store).ServeHTTP(rec,
		httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body)))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestProducts_CreateBackendFailure(t *testing.T) {
	store := newMemStore()
	store.fail = errors.New("storage down")

	rec := httptest.NewRecorder()
	body := `{"count":1,"price":1.00,"title":"Foo","description":"Bar"}`
	productsRouter(store).ServeHTTP(rec,
		httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["message"])
}

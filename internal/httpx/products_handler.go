package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/apiantsiak/go-catalog-import/internal/catalog"
	"github.com/apiantsiak/go-catalog-import/internal/redisx"
)

type ProductStore interface {
	List(ctx context.Context) ([]catalog.ProductView, error)
	Get(ctx context.Context, id string) (catalog.ProductView, error)
	Create(ctx context.Context, req catalog.CreateRequest) (catalog.ProductView, error)
}

type ProductsHandler struct {
	Store ProductStore
	Cache *redis.Client // optional; products are immutable so cached views never go stale
}

func (h *ProductsHandler) Register(r *chi.Mux) {
	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.getProduct)
	r.Post("/products", h.createProduct)
}

func (h *ProductsHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	views, err := h.Store.List(ctx)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}
	if views == nil {
		views = []catalog.ProductView{}
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *ProductsHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyProduct, id)
	if h.Cache != nil {
		if s, err := h.Cache.Get(ctx, key).Result(); err == nil && s != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(s))
			return
		}
	}

	view, err := h.Store.Get(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, fmt.Sprintf("Product with %s not found", id))
		return
	}
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}

	if h.Cache != nil {
		b, _ := json.Marshal(view)
		_ = h.Cache.Set(ctx, key, b, redisx.TTLProductCache).Err()
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *ProductsHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req catalog.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := req.Validate(); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	view, err := h.Store.Create(ctx, req)
	var verr *catalog.ValidationError
	switch {
	case errors.As(err, &verr):
		writeMessage(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, catalog.ErrConflict):
		writeMessage(w, http.StatusConflict, err.Error())
	case err != nil:
		writeMessage(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusCreated, view)
	}
}

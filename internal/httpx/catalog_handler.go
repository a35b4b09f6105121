package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/go-store-orders/internal/authz"
	"github.com/example/go-store-orders/internal/catalog"
	"github.com/example/go-store-orders/internal/redisx"
)

// CatalogHandler serves the reference entities: products, stores and users.
// Product lookups are read-through cached; products are the hot path for
// order validation.
type CatalogHandler struct {
	Repo  *catalog.Repo
	Cache Cache
	Log   *zap.Logger
}

func (h *CatalogHandler) Register(r *chi.Mux, mw *Auth) {
	products := mw.Require(authz.PermProductManage)
	r.With(products).Post("/products", h.createProduct)
	r.With(products).Get("/products", h.listProducts)
	r.With(products).Get("/products/{id}", h.getProduct)
	r.With(products).Put("/products", h.updateProduct)
	r.With(products).Delete("/products/{id}", h.deleteProduct)

	stores := mw.Require(authz.PermStoreManage)
	r.With(stores).Post("/stores", h.createStore)
	r.With(stores).Get("/stores", h.listStores)
	r.With(stores).Get("/stores/{id}", h.getStore)
	r.With(stores).Put("/stores", h.updateStore)
	r.With(stores).Delete("/stores/{id}", h.deleteStore)

	users := mw.Require(authz.PermUserManage)
	r.With(users).Post("/users", h.createUser)
	r.With(users).Get("/users", h.listUsers)
	r.With(users).Get("/users/{id}", h.getUser)
	r.With(users).Put("/users", h.updateUser)
	r.With(users).Delete("/users/{id}", h.deleteUser)
}

// --- products ---

func (h *CatalogHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.Product
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.Repo.CreateProduct(ctx, in)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *CatalogHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyProduct, id)
	if s, ok := h.Cache.Get(ctx, key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(s))
		return
	}

	p, err := h.Repo.GetProduct(ctx, id)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if b, err := json.Marshal(p); err == nil {
		h.Cache.Set(ctx, key, string(b), redisx.TTLProductCache)
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if barcode := r.URL.Query().Get("barcode"); barcode != "" {
		p, err := h.Repo.GetProductByBarcode(ctx, barcode)
		if err != nil {
			writeError(w, h.Log, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
		return
	}

	out, err := h.Repo.ListProducts(ctx)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CatalogHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.Product
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.Repo.UpdateProduct(ctx, in)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.Cache.Del(ctx, fmt.Sprintf(redisx.KeyProduct, p.ID))
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Repo.DeleteProduct(ctx, id); err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.Cache.Del(ctx, fmt.Sprintf(redisx.KeyProduct, id))
	w.WriteHeader(http.StatusNoContent)
}

// --- stores ---

func (h *CatalogHandler) createStore(w http.ResponseWriter, r *http.Request) {
	var in catalog.Store
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	s, err := h.Repo.CreateStore(ctx, in)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

func (h *CatalogHandler) getStore(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	s, err := h.Repo.GetStore(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *CatalogHandler) listStores(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := h.Repo.ListStores(ctx)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CatalogHandler) updateStore(w http.ResponseWriter, r *http.Request) {
	var in catalog.Store
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	s, err := h.Repo.UpdateStore(ctx, in)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *CatalogHandler) deleteStore(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Repo.DeleteStore(ctx, chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- users ---

func (h *CatalogHandler) createUser(w http.ResponseWriter, r *http.Request) {
	var in catalog.User
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.Repo.CreateUser(ctx, in)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *CatalogHandler) getUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	u, err := h.Repo.GetUser(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *CatalogHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	q := r.URL.Query()
	switch {
	case q.Get("username") != "":
		u, err := h.Repo.GetUserByUsername(ctx, q.Get("username"))
		if err != nil {
			writeError(w, h.Log, err)
			return
		}
		writeJSON(w, http.StatusOK, u)
	case q.Get("email") != "":
		u, err := h.Repo.GetUserByEmail(ctx, q.Get("email"))
		if err != nil {
			writeError(w, h.Log, err)
			return
		}
		writeJSON(w, http.StatusOK, u)
	default:
		out, err := h.Repo.ListUsers(ctx)
		if err != nil {
			writeError(w, h.Log, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (h *CatalogHandler) updateUser(w http.ResponseWriter, r *http.Request) {
	var in catalog.User
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.Repo.UpdateUser(ctx, in)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *CatalogHandler) deleteUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Repo.DeleteUser(ctx, chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

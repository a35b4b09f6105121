package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/go-store-orders/internal/authz"
	"github.com/example/go-store-orders/internal/stock"
)

type StocksHandler struct {
	Repo *stock.Repo
	Log  *zap.Logger
}

func (h *StocksHandler) Register(r *chi.Mux, mw *Auth) {
	gate := mw.Require(authz.PermStockManage)
	r.With(gate).Post("/stocks", h.create)
	r.With(gate).Get("/stocks", h.list)
	r.With(gate).Get("/stocks/critical", h.listCritical)
	r.With(gate).Get("/stocks/{id}", h.get)
	r.With(gate).Put("/stocks", h.update)
	r.With(gate).Put("/stocks/{id}/increase", h.adjust(h.Repo.Increase))
	r.With(gate).Put("/stocks/{id}/decrease", h.adjust(h.Repo.Decrease))
	r.With(gate).Delete("/stocks/{id}", h.delete)
}

func (h *StocksHandler) adjust(op func(context.Context, string, int) (stock.Stock, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Quantity int `json:"quantity"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		s, err := op(ctx, chi.URLParam(r, "id"), in.Quantity)
		if err != nil {
			writeError(w, h.Log, err)
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

func (h *StocksHandler) create(w http.ResponseWriter, r *http.Request) {
	var in stock.Stock
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	s, err := h.Repo.Create(ctx, in)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

func (h *StocksHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	s, err := h.Repo.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *StocksHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var (
		out []stock.Stock
		err error
	)
	switch {
	case r.URL.Query().Get("storeId") != "":
		out, err = h.Repo.ListByStore(ctx, r.URL.Query().Get("storeId"))
	case r.URL.Query().Get("productId") != "":
		out, err = h.Repo.ListByProduct(ctx, r.URL.Query().Get("productId"))
	default:
		out, err = h.Repo.List(ctx)
	}
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *StocksHandler) listCritical(w http.ResponseWriter, r *http.Request) {
	storeID := r.URL.Query().Get("storeId")
	if storeID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "missing storeId"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := h.Repo.ListCritical(ctx, storeID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *StocksHandler) update(w http.ResponseWriter, r *http.Request) {
	var in stock.Stock
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	s, err := h.Repo.Update(ctx, in)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *StocksHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Repo.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

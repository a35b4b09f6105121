package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/go-store-orders/internal/authz"
	"github.com/example/go-store-orders/internal/warehouse"
)

type WarehousesHandler struct {
	Repo *warehouse.Repo
	Log  *zap.Logger
}

func (h *WarehousesHandler) Register(r *chi.Mux, mw *Auth) {
	gate := mw.Require(authz.PermWarehouseManage)
	r.With(gate).Post("/warehouses", h.create)
	r.With(gate).Get("/warehouses", h.list)
	r.With(gate).Get("/warehouses/{id}", h.get)
	r.With(gate).Put("/warehouses", h.update)
	r.With(gate).Delete("/warehouses/{id}", h.delete)

	r.With(gate).Post("/warehouse-stocks", h.createStock)
	r.With(gate).Get("/warehouse-stocks", h.listStocks)
	r.With(gate).Get("/warehouse-stocks/{id}", h.getStock)
	r.With(gate).Put("/warehouse-stocks", h.updateStock)
	r.With(gate).Delete("/warehouse-stocks/{id}", h.deleteStock)
}

func (h *WarehousesHandler) create(w http.ResponseWriter, r *http.Request) {
	var in warehouse.Warehouse
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	wh, err := h.Repo.Create(ctx, in)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, wh)
}

func (h *WarehousesHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	wh, err := h.Repo.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, wh)
}

func (h *WarehousesHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := h.Repo.List(ctx)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *WarehousesHandler) update(w http.ResponseWriter, r *http.Request) {
	var in warehouse.Warehouse
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	wh, err := h.Repo.Update(ctx, in)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, wh)
}

func (h *WarehousesHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Repo.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *WarehousesHandler) createStock(w http.ResponseWriter, r *http.Request) {
	var in warehouse.WarehouseStock
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ws, err := h.Repo.CreateStock(ctx, in)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, ws)
}

func (h *WarehousesHandler) getStock(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ws, err := h.Repo.GetStock(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, ws)
}

func (h *WarehousesHandler) listStocks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var (
		out []warehouse.WarehouseStock
		err error
	)
	switch {
	case r.URL.Query().Get("warehouseId") != "":
		out, err = h.Repo.ListStocksByWarehouse(ctx, r.URL.Query().Get("warehouseId"))
	case r.URL.Query().Get("productId") != "":
		out, err = h.Repo.ListStocksByProduct(ctx, r.URL.Query().Get("productId"))
	default:
		out, err = h.Repo.ListStocks(ctx)
	}
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *WarehousesHandler) updateStock(w http.ResponseWriter, r *http.Request) {
	var in warehouse.WarehouseStock
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ws, err := h.Repo.UpdateStock(ctx, in)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, ws)
}

func (h *WarehousesHandler) deleteStock(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Repo.DeleteStock(ctx, chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/custodia-labs/bistro-cli/internal/adapters/driven/rest"
	"github.com/custodia-labs/bistro-cli/internal/core/domain"
	"github.com/custodia-labs/bistro-cli/internal/core/ports/driven"
)

type handler struct {
	backend driven.RestaurantBackend
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.backend.Ping(r.Context()); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) listTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.backend.ListTables(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := rest.TableList{Tables: make([]rest.TableDTO, len(tables))}
	for i, t := range tables {
		out.Tables[i] = rest.FromTable(t)
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *handler) getTable(w http.ResponseWriter, r *http.Request) {
	t, err := h.backend.GetTable(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rest.FromTable(*t))
}

func (h *handler) openTable(w http.ResponseWriter, r *http.Request) {
	var req rest.OpenTableRequest
	if err := decodeRequest(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	t, err := h.backend.OpenTable(r.Context(), domain.OpenTable{
		TableID: chi.URLParam(r, "id"),
		Guests:  req.Guests,
		Server:  req.Server,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rest.FromTable(*t))
}

func (h *handler) setTableStatus(w http.ResponseWriter, r *http.Request) {
	var req rest.StatusRequest
	if err := decodeRequest(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	t, err := h.backend.SetTableStatus(r.Context(), chi.URLParam(r, "id"), domain.TableStatus(req.Status))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rest.FromTable(*t))
}

func (h *handler) listOrders(w http.ResponseWriter, r *http.Request) {
	filter := domain.OrderFilter{TableID: r.URL.Query().Get("table")}
	if v := r.URL.Query().Get("open"); v != "" {
		open, err := strconv.ParseBool(v)
		if err != nil {
			respondError(w, r, fmt.Errorf("%w: open must be a boolean", domain.ErrInvalidInput))
			return
		}
		filter.OpenOnly = open
	}

	orders, err := h.backend.ListOrders(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := rest.OrderList{Orders: make([]rest.OrderDTO, len(orders))}
	for i, o := range orders {
		out.Orders[i] = rest.FromOrder(o)
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.backend.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rest.FromOrder(*o))
}

func (h *handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req rest.PlaceOrderRequest
	if err := decodeRequest(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	o, err := h.backend.PlaceOrder(r.Context(), req.Domain())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, rest.FromOrder(*o))
}

func (h *handler) setOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req rest.StatusRequest
	if err := decodeRequest(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	o, err := h.backend.SetOrderStatus(r.Context(), chi.URLParam(r, "id"), domain.OrderStatus(req.Status))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rest.FromOrder(*o))
}

func (h *handler) listMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.backend.ListMenu(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := rest.MenuList{Items: make([]rest.MenuItemDTO, len(items))}
	for i, m := range items {
		out.Items[i] = rest.FromMenuItem(m)
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *handler) setAvailability(w http.ResponseWriter, r *http.Request) {
	var req rest.AvailabilityRequest
	if err := decodeRequest(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	m, err := h.backend.SetMenuAvailability(r.Context(), chi.URLParam(r, "id"), *req.Available)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rest.FromMenuItem(*m))
}

func (h *handler) listStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.backend.ListStock(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := rest.StockList{Items: make([]rest.StockItemDTO, len(items))}
	for i, s := range items {
		out.Items[i] = rest.FromStockItem(s)
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	var req rest.AdjustStockRequest
	if err := decodeRequest(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	s, err := h.backend.AdjustStock(r.Context(), domain.StockAdjustment{
		ItemID: chi.URLParam(r, "id"),
		Delta:  req.Delta,
		Reason: req.Reason,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rest.FromStockItem(*s))
}

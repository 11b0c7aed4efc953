package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bansalKrishna311/tryo/internal/catalog"
	"github.com/bansalKrishna311/tryo/internal/collection"
	"github.com/bansalKrishna311/tryo/internal/domain"
	"github.com/bansalKrishna311/tryo/pkg/httputil"
	"github.com/bansalKrishna311/tryo/pkg/validator"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	engine  *collection.CartEngine
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(engine *collection.CartEngine, cat *catalog.Catalog, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		engine:  engine,
		catalog: cat,
		logger:  logger,
	}
}

// --- Request DTOs ---

// UpsertItemRequest is the JSON request body for adding to or decrementing a
// cart line. An omitted quantity_delta adds one.
type UpsertItemRequest struct {
	ProductID     string `json:"product_id" validate:"notblank"`
	QuantityDelta *int   `json:"quantity_delta" validate:"omitempty,gte=-99,lte=99"`
}

// SetQuantityRequest is the JSON request body for replacing a line quantity.
// Out-of-range values are not a validation error; the engine ignores them.
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	if reload(r) {
		res, err := h.engine.Load(r.Context(), collection.CartKey)
		if err != nil {
			httputil.WriteErrorWithData(w, r, err, cartResultView(res), h.logger)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newCartView(res.Snapshot)})
		return
	}

	cart, err := h.engine.Current(r.Context(), collection.CartKey)
	if err != nil {
		httputil.WriteErrorWithData(w, r, err, newCartView(cart), h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newCartView(cart)})
}

// UpsertItem handles POST /api/v1/cart/items
func (h *CartHandler) UpsertItem(w http.ResponseWriter, r *http.Request) {
	var req UpsertItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.catalog.Get(req.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	delta := 1
	if req.QuantityDelta != nil {
		delta = *req.QuantityDelta
	}

	res, err := h.engine.Upsert(r.Context(), collection.CartKey, product, delta)
	h.writeResult(w, r, res, err)
}

// SetQuantity handles PUT /api/v1/cart/items/{productId}
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req SetQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	res, err := h.engine.SetQuantity(r.Context(), collection.CartKey, chi.URLParam(r, "productId"), req.Quantity)
	h.writeResult(w, r, res, err)
}

// RemoveItem handles DELETE /api/v1/cart/items/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	res, err := h.engine.Remove(r.Context(), collection.CartKey, chi.URLParam(r, "productId"))
	h.writeResult(w, r, res, err)
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	res, err := h.engine.Clear(r.Context(), collection.CartKey)
	h.writeResult(w, r, res, err)
}

func (h *CartHandler) writeResult(w http.ResponseWriter, r *http.Request, res collection.Result[domain.CartItem], err error) {
	if err != nil {
		httputil.WriteErrorWithData(w, r, err, cartResultView(res), h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cartResultView(res)})
}

func reload(r *http.Request) bool {
	return r.URL.Query().Get("reload") == "true"
}

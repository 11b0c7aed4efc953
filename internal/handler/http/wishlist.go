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

// WishlistHandler handles HTTP requests for wishlist endpoints.
type WishlistHandler struct {
	engine  *collection.WishlistEngine
	catalog *catalog.Catalog
	logger  *slog.Logger
}

func NewWishlistHandler(engine *collection.WishlistEngine, cat *catalog.Catalog, logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{engine: engine, catalog: cat, logger: logger}
}

// ToggleRequest is the JSON request body for toggling wishlist membership.
type ToggleRequest struct {
	ProductID string `json:"product_id" validate:"notblank"`
}

// GetWishlist handles GET /api/v1/wishlist
func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	if reload(r) {
		res, err := h.engine.Load(r.Context(), collection.WishlistKey)
		if err != nil {
			httputil.WriteErrorWithData(w, r, err, wishlistResultView(res), h.logger)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newWishlistView(res.Snapshot)})
		return
	}

	wl, err := h.engine.Current(r.Context(), collection.WishlistKey)
	if err != nil {
		httputil.WriteErrorWithData(w, r, err, newWishlistView(wl), h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newWishlistView(wl)})
}

// Toggle handles POST /api/v1/wishlist/toggle
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req ToggleRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.catalog.Get(req.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	res, member, err := h.engine.Toggle(r.Context(), collection.WishlistKey, product)
	view := wishlistResultView(res)
	view.Member = &member
	if err != nil {
		httputil.WriteErrorWithData(w, r, err, view, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
}

// RemoveItem handles DELETE /api/v1/wishlist/items/{productId}
func (h *WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	res, err := h.engine.Remove(r.Context(), collection.WishlistKey, chi.URLParam(r, "productId"))
	h.writeResult(w, r, res, err)
}

// ClearWishlist handles DELETE /api/v1/wishlist
func (h *WishlistHandler) ClearWishlist(w http.ResponseWriter, r *http.Request) {
	res, err := h.engine.Clear(r.Context(), collection.WishlistKey)
	h.writeResult(w, r, res, err)
}

func (h *WishlistHandler) writeResult(w http.ResponseWriter, r *http.Request, res collection.Result[domain.WishlistItem], err error) {
	if err != nil {
		httputil.WriteErrorWithData(w, r, err, wishlistResultView(res), h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: wishlistResultView(res)})
}

package http

import (
	"log/slog"
	"net/http"

	"github.com/bansalKrishna311/tryo/internal/catalog"
	"github.com/bansalKrishna311/tryo/internal/collection"
	"github.com/bansalKrishna311/tryo/internal/history"
	"github.com/bansalKrishna311/tryo/pkg/httputil"
	"github.com/bansalKrishna311/tryo/pkg/validator"
)

// HistoryHandler serves the try-on history.
type HistoryHandler struct {
	log     *history.Log
	catalog *catalog.Catalog
	logger  *slog.Logger
}

func NewHistoryHandler(log *history.Log, cat *catalog.Catalog, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{log: log, catalog: cat, logger: logger}
}

// RecordTryOnRequest is the JSON request body for recording a try-on.
type RecordTryOnRequest struct {
	ProductID string `json:"product_id" validate:"notblank"`
}

// ListHistory handles GET /api/v1/try-on/history
func (h *HistoryHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	if reload(r) {
		res, err := h.log.Load(r.Context(), collection.HistoryKey)
		view := newHistoryView(res.Snapshot, h.log.Capacity())
		if err != nil {
			httputil.WriteErrorWithData(w, r, err, view, h.logger)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
		return
	}

	entries, err := h.log.List(r.Context(), collection.HistoryKey)
	view := newHistoryView(entries, h.log.Capacity())
	if err != nil {
		httputil.WriteErrorWithData(w, r, err, view, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
}

// RecordTryOn handles POST /api/v1/try-on/history
func (h *HistoryHandler) RecordTryOn(w http.ResponseWriter, r *http.Request) {
	var req RecordTryOnRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.catalog.Get(req.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	res, err := h.log.Record(r.Context(), collection.HistoryKey, product)
	view := newHistoryView(res.Snapshot, h.log.Capacity())
	view.Outcome, view.Reason = string(res.Outcome), res.Reason
	if err != nil {
		httputil.WriteErrorWithData(w, r, err, view, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: view})
}

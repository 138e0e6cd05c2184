package handler

import (
	"net/http"

	"order-desk/internal/model"
	"order-desk/internal/service"

	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Submit handles POST /api/order requests.
func (h *OrderHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, r, http.MethodPost, h.logger)
		return
	}

	var req model.OrderRequest
	if err := decodeJSON(r, &req); err != nil {
		if detail, ok := typeErrorDetail(err); ok {
			writeDomainError(w, r, model.InvalidOrder(detail), h.logger)
			return
		}
		writeDomainError(w, r, model.ErrInvalidJSON, h.logger)
		return
	}

	if _, err := h.service.SubmitOrder(r.Context(), &req); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.StatusResponse{Status: "ok"})
}

// Today handles GET /api/orders/today requests.
func (h *OrderHandler) Today(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, r, http.MethodGet, h.logger)
		return
	}

	orders, err := h.service.TodayOrders(r.Context())
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// History handles GET /api/orders/history requests.
func (h *OrderHandler) History(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, r, http.MethodGet, h.logger)
		return
	}

	orders, err := h.service.OrderHistory(r.Context())
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

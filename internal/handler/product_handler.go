package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"order-desk/internal/model"
	"order-desk/internal/service"

	"github.com/rs/zerolog"
)

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// Products dispatches /api/products by method.
func (h *ProductHandler) Products(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.List(w, r)
	case http.MethodPost:
		h.Replace(w, r)
	default:
		writeMethodNotAllowed(w, r, "GET, POST", h.logger)
	}
}

// List handles GET /api/products requests.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetProducts(r.Context())
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// Replace handles POST /api/products requests.
func (h *ProductHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var inputs []model.ProductInput
	if err := decodeJSON(r, &inputs); err != nil {
		if detail, ok := typeErrorDetail(err); ok {
			writeDomainError(w, r, model.InvalidProducts(detail), h.logger)
			return
		}
		writeDomainError(w, r, model.ErrInvalidJSON, h.logger)
		return
	}

	if err := h.service.ReplaceProducts(r.Context(), inputs); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "products updated"})
}

// typeErrorDetail describes a well-formed body whose values have the wrong type.
func typeErrorDetail(err error) (string, bool) {
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) {
		return "", false
	}

	field := typeErr.Field
	if field == "" {
		field = "body"
	}

	switch typeErr.Type.Kind() {
	case reflect.Int, reflect.Int64:
		return fmt.Sprintf("%s must be an integer", field), true
	case reflect.String:
		return fmt.Sprintf("%s must be a string", field), true
	case reflect.Slice:
		return fmt.Sprintf("%s must be an array", field), true
	default:
		return fmt.Sprintf("%s has the wrong type", field), true
	}
}

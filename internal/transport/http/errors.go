package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cimillas/dropship-api/internal/domain"
)

const (
	codeMethodNotAllowed    = "method_not_allowed"
	codeNotFound            = "not_found"
	codeInvalidRequestBody  = "invalid_request_body"
	codeUnauthorized        = "unauthorized"
	codeEmptyOrder          = "empty_order"
	codeInvalidQuantity     = "invalid_quantity"
	codeShippingRequired    = "shipping_address_required"
	codeInvalidID           = "invalid_id"
	codeInvalidStatus       = "invalid_status"
	codeOrderNotFound       = "order_not_found"
	codeProductNotFound     = "product_not_found"
	codeInvalidTransition   = "invalid_status_transition"
	codeCatalogUnavailable  = "catalog_unavailable"
	codeSupplierUnavailable = "supplier_unavailable"
	codeInvalidPrice        = "invalid_price"
	codeInternalError       = "internal_error"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"success":false,"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeServiceError maps domain sentinels onto HTTP statuses. Ownership
// violations already surface as ErrOrderNotFound upstream, so nothing here
// can leak existence.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyOrder):
		writeError(w, http.StatusBadRequest, codeEmptyOrder, err.Error())
	case errors.Is(err, domain.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, codeInvalidQuantity, err.Error())
	case errors.Is(err, domain.ErrShippingAddressRequired):
		writeError(w, http.StatusBadRequest, codeShippingRequired, err.Error())
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case errors.Is(err, domain.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, codeInvalidStatus, err.Error())
	case errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, codeOrderNotFound, domain.ErrOrderNotFound.Error())
	case errors.Is(err, domain.ErrProductNotFound):
		writeError(w, http.StatusNotFound, codeProductNotFound, domain.ErrProductNotFound.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		writeError(w, http.StatusConflict, codeInvalidTransition, err.Error())
	case errors.Is(err, domain.ErrCatalogUnavailable):
		writeError(w, http.StatusBadGateway, codeCatalogUnavailable, domain.ErrCatalogUnavailable.Error())
	case errors.Is(err, domain.ErrSupplierUnavailable):
		writeError(w, http.StatusBadGateway, codeSupplierUnavailable, domain.ErrSupplierUnavailable.Error())
	case errors.Is(err, domain.ErrInvalidPrice):
		writeError(w, http.StatusBadGateway, codeInvalidPrice, domain.ErrInvalidPrice.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

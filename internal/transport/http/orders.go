package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cimillas/dropship-api/internal/app"
	"github.com/cimillas/dropship-api/internal/domain"
)

// OrderManager is the order surface the handlers need.
type OrderManager interface {
	CreateOrder(ctx context.Context, in app.CreateOrderInput) (app.CreateOrderResult, error)
	GetOrder(ctx context.Context, orderID, ownerID string) (domain.Order, error)
	ListOrders(ctx context.Context, ownerID string) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, in app.UpdateStatusInput) (domain.Order, error)
	DeleteOrder(ctx context.Context, orderID, ownerID string) error
}

const placementWarning = "supplier placement failed; order recorded and pending placement"

// HandleCreateOrder records a new order for the authenticated owner.
func HandleCreateOrder(svc OrderManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		res, err := svc.CreateOrder(r.Context(), app.CreateOrderInput{
			OwnerID:         ownerFromContext(r.Context()),
			Lines:           req.lineInputs(),
			ShippingAddress: req.ShippingAddress.toDomain(),
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		resp := createOrderResponse{
			Success: true,
			Order:   toOrderResponse(res.Order),
		}
		if res.PlacementFailed {
			resp.Warning = placementWarning
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}

// HandleGetOrder returns one of the owner's orders.
func HandleGetOrder(svc OrderManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := svc.GetOrder(r.Context(), chi.URLParam(r, "id"), ownerFromContext(r.Context()))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, getOrderResponse{Success: true, Order: toOrderResponse(order)})
	}
}

// HandleListOrders returns all of the owner's orders in creation order.
func HandleListOrders(svc OrderManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := svc.ListOrders(r.Context(), ownerFromContext(r.Context()))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		out := make([]orderResponse, 0, len(orders))
		for _, o := range orders {
			out = append(out, toOrderResponse(o))
		}
		writeJSON(w, http.StatusOK, listOrdersResponse{Success: true, Orders: out})
	}
}

// HandleUpdateOrderStatus applies a validated lifecycle transition.
func HandleUpdateOrderStatus(svc OrderManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateStatusRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		status, ok := domain.ParseStatus(req.Status)
		if !ok {
			writeError(w, http.StatusBadRequest, codeInvalidStatus, "invalid status")
			return
		}

		order, err := svc.UpdateOrderStatus(r.Context(), app.UpdateStatusInput{
			OrderID: chi.URLParam(r, "id"),
			OwnerID: ownerFromContext(r.Context()),
			Next:    status,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, getOrderResponse{Success: true, Order: toOrderResponse(order)})
	}
}

// HandleDeleteOrder removes one of the owner's orders permanently.
func HandleDeleteOrder(svc OrderManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteOrder(r.Context(), chi.URLParam(r, "id"), ownerFromContext(r.Context())); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, deleteOrderResponse{Success: true, Message: "order deleted"})
	}
}

type orderLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type addressRequest struct {
	Name       string `json:"name,omitempty"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

func (a addressRequest) toDomain() domain.Address {
	return domain.Address{
		Name:       a.Name,
		Street:     a.Street,
		City:       a.City,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

type createOrderRequest struct {
	Lines           []orderLineRequest `json:"lines"`
	ShippingAddress addressRequest     `json:"shipping_address"`
}

func (r createOrderRequest) lineInputs() []app.OrderLineInput {
	lines := make([]app.OrderLineInput, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, app.OrderLineInput{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return lines
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type orderLineResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Title     string `json:"title,omitempty"`
	Image     string `json:"image,omitempty"`
}

type orderResponse struct {
	ID              string              `json:"id"`
	Status          string              `json:"status"`
	TotalAmount     string              `json:"total_amount"`
	Lines           []orderLineResponse `json:"lines"`
	ShippingAddress addressRequest      `json:"shipping_address"`
	SupplierRef     string              `json:"supplier_ref,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

type createOrderResponse struct {
	Success bool          `json:"success"`
	Order   orderResponse `json:"order"`
	Warning string        `json:"warning,omitempty"`
}

type getOrderResponse struct {
	Success bool          `json:"success"`
	Order   orderResponse `json:"order"`
}

type listOrdersResponse struct {
	Success bool            `json:"success"`
	Orders  []orderResponse `json:"orders"`
}

type deleteOrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func toOrderResponse(o domain.Order) orderResponse {
	lines := make([]orderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, orderLineResponse{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice.StringFixed(2),
			Title:     l.Title,
			Image:     l.Image,
		})
	}
	addr := o.ShippingAddress
	return orderResponse{
		ID:          o.ID,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount.StringFixed(2),
		Lines:       lines,
		ShippingAddress: addressRequest{
			Name:       addr.Name,
			Street:     addr.Street,
			City:       addr.City,
			PostalCode: addr.PostalCode,
			Country:    addr.Country,
		},
		SupplierRef: o.SupplierRef,
		CreatedAt:   o.CreatedAt,
	}
}

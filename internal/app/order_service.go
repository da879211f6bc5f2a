package app

import (
	"context"
	"errors"
	"time"

	"github.com/cimillas/dropship-api/internal/clock"
	"github.com/cimillas/dropship-api/internal/domain"
	"github.com/cimillas/dropship-api/internal/pricing"
)

// OrderRepository is the ledger of orders. Every lookup is owner-scoped:
// an order that exists but belongs to another owner surfaces as
// domain.ErrOrderNotFound, identical to absence.
type OrderRepository interface {
	Create(ctx context.Context, order domain.Order) error
	Get(ctx context.Context, orderID, ownerID string) (domain.Order, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Order, error)
	// UpdateStatus applies the lifecycle rule atomically against the
	// current status and returns the updated order.
	UpdateStatus(ctx context.Context, orderID, ownerID string, next domain.Status) (domain.Order, error)
	Delete(ctx context.Context, orderID, ownerID string) error
}

// ProductFetcher is the minimal catalog surface the order flow needs.
type ProductFetcher interface {
	GetProduct(ctx context.Context, id string) (domain.Product, error)
}

// SupplierPlacer commits an order downstream.
type SupplierPlacer interface {
	Place(ctx context.Context, ownerID string, lines []domain.OrderLine, placedAt time.Time) (string, error)
}

type OrderService struct {
	repo     OrderRepository
	catalog  ProductFetcher
	supplier SupplierPlacer
	pricer   *pricing.Engine
	clock    clock.Clock
}

func NewOrderService(repo OrderRepository, catalog ProductFetcher, supplier SupplierPlacer, pricer *pricing.Engine, clk clock.Clock) *OrderService {
	return &OrderService{
		repo:     repo,
		catalog:  catalog,
		supplier: supplier,
		pricer:   pricer,
		clock:    clk,
	}
}

type OrderLineInput struct {
	ProductID string
	Quantity  int
}

type CreateOrderInput struct {
	OwnerID         string
	Lines           []OrderLineInput
	ShippingAddress domain.Address
}

type CreateOrderResult struct {
	Order domain.Order
	// PlacementFailed is set when the supplier could not be reached; the
	// order is still recorded, with no supplier reference.
	PlacementFailed bool
}

// CreateOrder resolves each line against the catalog, snapshots marked-up
// unit prices, attempts supplier placement and records the order. A
// supplier failure does not prevent the ledger write.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (CreateOrderResult, error) {
	if in.OwnerID == "" {
		return CreateOrderResult{}, domain.ErrInvalidID
	}
	if len(in.Lines) == 0 {
		return CreateOrderResult{}, domain.ErrEmptyOrder
	}
	if in.ShippingAddress.IsZero() {
		return CreateOrderResult{}, domain.ErrShippingAddressRequired
	}
	for _, line := range in.Lines {
		if line.ProductID == "" {
			return CreateOrderResult{}, domain.ErrInvalidID
		}
		if line.Quantity < 1 {
			return CreateOrderResult{}, domain.ErrInvalidQuantity
		}
	}

	lines := make([]domain.OrderLine, 0, len(in.Lines))
	for _, line := range in.Lines {
		product, err := s.catalog.GetProduct(ctx, line.ProductID)
		if err != nil {
			return CreateOrderResult{}, err
		}
		unit, err := s.pricer.UnitPrice(product.Price)
		if err != nil {
			return CreateOrderResult{}, err
		}
		lines = append(lines, domain.OrderLine{
			ProductID: product.ID,
			Quantity:  line.Quantity,
			UnitPrice: unit,
			Title:     product.Title,
			Image:     product.Image,
		})
	}

	now := s.clock.Now()

	supplierRef, placeErr := s.supplier.Place(ctx, in.OwnerID, lines, now)
	placementFailed := false
	if placeErr != nil {
		if !errors.Is(placeErr, domain.ErrSupplierUnavailable) {
			return CreateOrderResult{}, placeErr
		}
		placementFailed = true
		supplierRef = ""
	}

	order := domain.Order{
		ID:              newOrderID(),
		OwnerID:         in.OwnerID,
		Lines:           lines,
		TotalAmount:     s.pricer.OrderTotal(lines),
		Status:          domain.StatusPending,
		ShippingAddress: in.ShippingAddress,
		SupplierRef:     supplierRef,
		CreatedAt:       now,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return CreateOrderResult{}, err
	}
	return CreateOrderResult{Order: order, PlacementFailed: placementFailed}, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID, ownerID string) (domain.Order, error) {
	if orderID == "" {
		return domain.Order{}, domain.ErrInvalidID
	}
	return s.repo.Get(ctx, orderID, ownerID)
}

func (s *OrderService) ListOrders(ctx context.Context, ownerID string) ([]domain.Order, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

type UpdateStatusInput struct {
	OrderID string
	OwnerID string
	Next    domain.Status
}

// UpdateOrderStatus is the only way an order changes state; reads never
// advance the lifecycle.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, in UpdateStatusInput) (domain.Order, error) {
	if in.OrderID == "" {
		return domain.Order{}, domain.ErrInvalidID
	}
	if _, ok := domain.ParseStatus(string(in.Next)); !ok {
		return domain.Order{}, domain.ErrInvalidStatus
	}
	return s.repo.UpdateStatus(ctx, in.OrderID, in.OwnerID, in.Next)
}

func (s *OrderService) DeleteOrder(ctx context.Context, orderID, ownerID string) error {
	if orderID == "" {
		return domain.ErrInvalidID
	}
	return s.repo.Delete(ctx, orderID, ownerID)
}

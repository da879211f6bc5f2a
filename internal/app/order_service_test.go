package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cimillas/dropship-api/internal/clock"
	"github.com/cimillas/dropship-api/internal/domain"
	"github.com/cimillas/dropship-api/internal/pricing"
	"github.com/cimillas/dropship-api/internal/storage/memory"
)

type fakeCatalog struct {
	products map[string]domain.Product
	err      error
}

func (f *fakeCatalog) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	if f.err != nil {
		return domain.Product{}, f.err
	}
	p, ok := f.products[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeCatalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

type fakeSupplier struct {
	ref      string
	err      error
	placed   int
	lastSeen []domain.OrderLine
}

func (f *fakeSupplier) Place(ctx context.Context, ownerID string, lines []domain.OrderLine, placedAt time.Time) (string, error) {
	f.placed++
	f.lastSeen = lines
	if f.err != nil {
		return "", f.err
	}
	return f.ref, nil
}

func newTestService(t *testing.T, cat *fakeCatalog, sup *fakeSupplier) (*OrderService, *memory.OrderRepository) {
	t.Helper()
	now := time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)
	repo := memory.NewOrderRepository()
	svc := NewOrderService(repo, cat, sup, pricing.NewEngine(pricing.DefaultMarkupRate), clock.NewFixed(now))
	return svc, repo
}

func testAddress() domain.Address {
	return domain.Address{Street: "1 Main St", City: "Springfield", Country: "US"}
}

func TestOrderService_CreateOrder(t *testing.T) {
	t.Parallel()

	catalogTwo := func() *fakeCatalog {
		return &fakeCatalog{products: map[string]domain.Product{
			"1": {ID: "1", Title: "Backpack", Price: decimal.NewFromInt(10), Image: "a.jpg"},
			"2": {ID: "2", Title: "Mug", Price: decimal.RequireFromString("16.666666")},
		}}
	}

	t.Run("creates priced order and records supplier ref", func(t *testing.T) {
		sup := &fakeSupplier{ref: "11"}
		svc, _ := newTestService(t, catalogTwo(), sup)

		res, err := svc.CreateOrder(context.Background(), CreateOrderInput{
			OwnerID: "u1",
			Lines: []OrderLineInput{
				{ProductID: "1", Quantity: 1},
				{ProductID: "2", Quantity: 2},
			},
			ShippingAddress: testAddress(),
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if res.PlacementFailed {
			t.Fatalf("expected placement to succeed")
		}
		if res.Order.ID == "" {
			t.Fatalf("expected order id assigned")
		}
		if res.Order.Status != domain.StatusPending {
			t.Fatalf("expected Pending, got %s", res.Order.Status)
		}
		if res.Order.SupplierRef != "11" {
			t.Fatalf("expected supplier ref 11, got %q", res.Order.SupplierRef)
		}
		// 10 * 1.2 = 12.00; 16.666666 * 1.2 = 20.00 (rounded)
		if got := res.Order.Lines[0].UnitPrice.StringFixed(2); got != "12.00" {
			t.Fatalf("expected unit 12.00, got %s", got)
		}
		if got := res.Order.Lines[1].UnitPrice.StringFixed(2); got != "20.00" {
			t.Fatalf("expected unit 20.00, got %s", got)
		}
		if got := res.Order.TotalAmount.StringFixed(2); got != "52.00" {
			t.Fatalf("expected total 52.00, got %s", got)
		}
		if res.Order.Lines[0].Title != "Backpack" || res.Order.Lines[0].Image != "a.jpg" {
			t.Fatalf("expected title/image snapshot, got %+v", res.Order.Lines[0])
		}
		if sup.placed != 1 {
			t.Fatalf("expected one placement, got %d", sup.placed)
		}
	})

	t.Run("assigns unique identities", func(t *testing.T) {
		svc, _ := newTestService(t, catalogTwo(), &fakeSupplier{ref: "11"})
		in := CreateOrderInput{
			OwnerID:         "u1",
			Lines:           []OrderLineInput{{ProductID: "1", Quantity: 1}},
			ShippingAddress: testAddress(),
		}
		first, err := svc.CreateOrder(context.Background(), in)
		if err != nil {
			t.Fatalf("first create: %v", err)
		}
		second, err := svc.CreateOrder(context.Background(), in)
		if err != nil {
			t.Fatalf("second create: %v", err)
		}
		if first.Order.ID == second.Order.ID {
			t.Fatalf("expected distinct order ids, both %s", first.Order.ID)
		}
	})

	t.Run("empty lines rejected", func(t *testing.T) {
		svc, _ := newTestService(t, catalogTwo(), &fakeSupplier{ref: "11"})
		_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
			OwnerID:         "u1",
			ShippingAddress: testAddress(),
		})
		if err != domain.ErrEmptyOrder {
			t.Fatalf("expected ErrEmptyOrder, got %v", err)
		}
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		svc, _ := newTestService(t, catalogTwo(), &fakeSupplier{ref: "11"})
		_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
			OwnerID:         "u1",
			Lines:           []OrderLineInput{{ProductID: "1", Quantity: 0}},
			ShippingAddress: testAddress(),
		})
		if err != domain.ErrInvalidQuantity {
			t.Fatalf("expected ErrInvalidQuantity, got %v", err)
		}
	})

	t.Run("missing shipping address rejected", func(t *testing.T) {
		svc, _ := newTestService(t, catalogTwo(), &fakeSupplier{ref: "11"})
		_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
			OwnerID: "u1",
			Lines:   []OrderLineInput{{ProductID: "1", Quantity: 1}},
		})
		if err != domain.ErrShippingAddressRequired {
			t.Fatalf("expected ErrShippingAddressRequired, got %v", err)
		}
	})

	t.Run("validation runs before catalog calls", func(t *testing.T) {
		cat := &fakeCatalog{err: domain.ErrCatalogUnavailable}
		svc, _ := newTestService(t, cat, &fakeSupplier{ref: "11"})
		_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
			OwnerID:         "u1",
			ShippingAddress: testAddress(),
		})
		if err != domain.ErrEmptyOrder {
			t.Fatalf("expected ErrEmptyOrder, got %v", err)
		}
	})

	t.Run("unknown product surfaces not found", func(t *testing.T) {
		sup := &fakeSupplier{ref: "11"}
		svc, repo := newTestService(t, catalogTwo(), sup)
		_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
			OwnerID:         "u1",
			Lines:           []OrderLineInput{{ProductID: "99", Quantity: 1}},
			ShippingAddress: testAddress(),
		})
		if !errors.Is(err, domain.ErrProductNotFound) {
			t.Fatalf("expected ErrProductNotFound, got %v", err)
		}
		if sup.placed != 0 {
			t.Fatalf("expected no placement attempt")
		}
		orders, _ := repo.ListByOwner(context.Background(), "u1")
		if len(orders) != 0 {
			t.Fatalf("expected no order recorded")
		}
	})

	t.Run("supplier failure still records the order", func(t *testing.T) {
		sup := &fakeSupplier{err: domain.ErrSupplierUnavailable}
		svc, repo := newTestService(t, catalogTwo(), sup)

		res, err := svc.CreateOrder(context.Background(), CreateOrderInput{
			OwnerID:         "u1",
			Lines:           []OrderLineInput{{ProductID: "1", Quantity: 3}},
			ShippingAddress: testAddress(),
		})
		if err != nil {
			t.Fatalf("expected order capture to succeed, got %v", err)
		}
		if !res.PlacementFailed {
			t.Fatalf("expected PlacementFailed")
		}
		if res.Order.SupplierRef != "" {
			t.Fatalf("expected empty supplier ref, got %q", res.Order.SupplierRef)
		}
		if res.Order.Status != domain.StatusPending {
			t.Fatalf("expected Pending, got %s", res.Order.Status)
		}
		if res.Order.TotalAmount.StringFixed(2) != "36.00" {
			t.Fatalf("expected total 36.00, got %s", res.Order.TotalAmount)
		}

		stored, err := repo.Get(context.Background(), res.Order.ID, "u1")
		if err != nil {
			t.Fatalf("expected order in ledger, got %v", err)
		}
		if stored.SupplierRef != "" {
			t.Fatalf("expected stored supplier ref empty, got %q", stored.SupplierRef)
		}
	})

	t.Run("invalid catalog price rejected", func(t *testing.T) {
		cat := &fakeCatalog{products: map[string]domain.Product{
			"1": {ID: "1", Title: "Broken", Price: decimal.NewFromInt(-5)},
		}}
		svc, _ := newTestService(t, cat, &fakeSupplier{ref: "11"})
		_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
			OwnerID:         "u1",
			Lines:           []OrderLineInput{{ProductID: "1", Quantity: 1}},
			ShippingAddress: testAddress(),
		})
		if !errors.Is(err, domain.ErrInvalidPrice) {
			t.Fatalf("expected ErrInvalidPrice, got %v", err)
		}
	})
}

func TestOrderService_GetListUpdateDelete(t *testing.T) {
	t.Parallel()

	cat := &fakeCatalog{products: map[string]domain.Product{
		"1": {ID: "1", Title: "Backpack", Price: decimal.NewFromInt(10)},
	}}

	create := func(t *testing.T, svc *OrderService, owner string) domain.Order {
		t.Helper()
		res, err := svc.CreateOrder(context.Background(), CreateOrderInput{
			OwnerID:         owner,
			Lines:           []OrderLineInput{{ProductID: "1", Quantity: 1}},
			ShippingAddress: testAddress(),
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		return res.Order
	}

	t.Run("get is owner scoped", func(t *testing.T) {
		svc, _ := newTestService(t, cat, &fakeSupplier{ref: "11"})
		order := create(t, svc, "u1")

		if _, err := svc.GetOrder(context.Background(), order.ID, "u1"); err != nil {
			t.Fatalf("get: %v", err)
		}
		if _, err := svc.GetOrder(context.Background(), order.ID, "u2"); err != domain.ErrOrderNotFound {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})

	t.Run("list returns own orders in creation order", func(t *testing.T) {
		svc, _ := newTestService(t, cat, &fakeSupplier{ref: "11"})
		first := create(t, svc, "u1")
		second := create(t, svc, "u1")
		create(t, svc, "u2")

		orders, err := svc.ListOrders(context.Background(), "u1")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(orders) != 2 || orders[0].ID != first.ID || orders[1].ID != second.ID {
			t.Fatalf("unexpected list %+v", orders)
		}
	})

	t.Run("update status enforces lifecycle", func(t *testing.T) {
		svc, _ := newTestService(t, cat, &fakeSupplier{ref: "11"})
		order := create(t, svc, "u1")

		updated, err := svc.UpdateOrderStatus(context.Background(), UpdateStatusInput{
			OrderID: order.ID, OwnerID: "u1", Next: domain.StatusShipped,
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Status != domain.StatusShipped {
			t.Fatalf("expected Shipped, got %s", updated.Status)
		}

		if _, err := svc.UpdateOrderStatus(context.Background(), UpdateStatusInput{
			OrderID: order.ID, OwnerID: "u1", Next: domain.Status("Refunded"),
		}); err != domain.ErrInvalidStatus {
			t.Fatalf("expected ErrInvalidStatus, got %v", err)
		}

		if _, err := svc.UpdateOrderStatus(context.Background(), UpdateStatusInput{
			OrderID: order.ID, OwnerID: "u2", Next: domain.StatusDelivered,
		}); err != domain.ErrOrderNotFound {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})

	t.Run("delete removes permanently", func(t *testing.T) {
		svc, _ := newTestService(t, cat, &fakeSupplier{ref: "11"})
		order := create(t, svc, "u1")

		if err := svc.DeleteOrder(context.Background(), order.ID, "u2"); err != domain.ErrOrderNotFound {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
		if err := svc.DeleteOrder(context.Background(), order.ID, "u1"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := svc.GetOrder(context.Background(), order.ID, "u1"); err != domain.ErrOrderNotFound {
			t.Fatalf("expected ErrOrderNotFound after delete, got %v", err)
		}
	})
}

// Package memory is the default order ledger: a process-local map, used in
// tests and when no DATABASE_URL is configured.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cimillas/dropship-api/internal/domain"
)

type record struct {
	order domain.Order
	seq   uint64
}

type OrderRepository struct {
	mu   sync.RWMutex
	seq  uint64
	rows map[string]record
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{rows: make(map[string]record)}
}

func (r *OrderRepository) Create(ctx context.Context, order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rows[order.ID]; exists {
		return fmt.Errorf("order %s already exists", order.ID)
	}
	r.seq++
	r.rows[order.ID] = record{order: cloneOrder(order), seq: r.seq}
	return nil
}

func (r *OrderRepository) Get(ctx context.Context, orderID, ownerID string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.rows[orderID]
	if !ok || rec.order.OwnerID != ownerID {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return cloneOrder(rec.order), nil
}

func (r *OrderRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recs := make([]record, 0)
	for _, rec := range r.rows {
		if rec.order.OwnerID == ownerID {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })

	orders := make([]domain.Order, 0, len(recs))
	for _, rec := range recs {
		orders = append(orders, cloneOrder(rec.order))
	}
	return orders, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID, ownerID string, next domain.Status) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.rows[orderID]
	if !ok || rec.order.OwnerID != ownerID {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	if !domain.CanTransition(rec.order.Status, next) {
		return domain.Order{}, domain.ErrInvalidTransition
	}
	rec.order.Status = next
	r.rows[orderID] = rec
	return cloneOrder(rec.order), nil
}

func (r *OrderRepository) Delete(ctx context.Context, orderID, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.rows[orderID]
	if !ok || rec.order.OwnerID != ownerID {
		return domain.ErrOrderNotFound
	}
	delete(r.rows, orderID)
	return nil
}

// cloneOrder copies the line slice so callers can never alias stored state.
func cloneOrder(o domain.Order) domain.Order {
	lines := make([]domain.OrderLine, len(o.Lines))
	copy(lines, o.Lines)
	o.Lines = lines
	return o
}

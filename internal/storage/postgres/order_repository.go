// Package postgres is the persistent order ledger for production
// deployments.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/cimillas/dropship-api/internal/domain"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) Create(ctx context.Context, order domain.Order) error {
	return withTx(ctx, r.pool, func(txCtx context.Context) error {
		const stmt = `
INSERT INTO orders (id, owner_id, status, total_amount, ship_name, ship_street, ship_city, ship_postal_code, ship_country, supplier_ref, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

		addr := order.ShippingAddress
		_, err := r.exec(txCtx, stmt,
			order.ID, order.OwnerID, string(order.Status), order.TotalAmount.StringFixed(2),
			addr.Name, addr.Street, addr.City, addr.PostalCode, addr.Country,
			order.SupplierRef, order.CreatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("order %s already exists: %w", order.ID, err)
			}
			return fmt.Errorf("insert order: %w", err)
		}

		const lineStmt = `
INSERT INTO order_lines (order_id, line_no, product_id, quantity, unit_price, title, image)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

		for i, line := range order.Lines {
			_, err := r.exec(txCtx, lineStmt,
				order.ID, i, line.ProductID, line.Quantity, line.UnitPrice.StringFixed(2), line.Title, line.Image,
			)
			if err != nil {
				return fmt.Errorf("insert order line %d: %w", i, err)
			}
		}
		return nil
	})
}

func (r *OrderRepository) Get(ctx context.Context, orderID, ownerID string) (domain.Order, error) {
	const query = `
SELECT id, owner_id, status, total_amount::text, ship_name, ship_street, ship_city, ship_postal_code, ship_country, supplier_ref, created_at
FROM orders
WHERE id = $1 AND owner_id = $2`

	order, err := r.scanOrder(r.queryRow(ctx, query, orderID, ownerID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Order{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}

	order.Lines, err = r.loadLines(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (r *OrderRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Order, error) {
	const query = `
SELECT id, owner_id, status, total_amount::text, ship_name, ship_street, ship_city, ship_postal_code, ship_country, supplier_ref, created_at
FROM orders
WHERE owner_id = $1
ORDER BY seq`

	rows, err := r.query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	for i := range orders {
		orders[i].Lines, err = r.loadLines(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// UpdateStatus validates the lifecycle transition against the current row
// under a row lock, so concurrent updates cannot skip states.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID, ownerID string, next domain.Status) (domain.Order, error) {
	var updated domain.Order
	err := withTx(ctx, r.pool, func(txCtx context.Context) error {
		const lockQuery = `SELECT status FROM orders WHERE id = $1 AND owner_id = $2 FOR UPDATE`

		var current string
		if err := r.queryRow(txCtx, lockQuery, orderID, ownerID).Scan(&current); err != nil {
			if isInvalidUUID(err) {
				return domain.ErrInvalidID
			}
			if err == pgx.ErrNoRows {
				return domain.ErrOrderNotFound
			}
			return fmt.Errorf("lock order: %w", err)
		}

		if !domain.CanTransition(domain.Status(current), next) {
			return domain.ErrInvalidTransition
		}

		const stmt = `UPDATE orders SET status = $3 WHERE id = $1 AND owner_id = $2`
		if _, err := r.exec(txCtx, stmt, orderID, ownerID, string(next)); err != nil {
			return fmt.Errorf("update order status: %w", err)
		}

		var err error
		updated, err = r.Get(txCtx, orderID, ownerID)
		return err
	})
	if err != nil {
		return domain.Order{}, err
	}
	return updated, nil
}

func (r *OrderRepository) Delete(ctx context.Context, orderID, ownerID string) error {
	const stmt = `DELETE FROM orders WHERE id = $1 AND owner_id = $2`

	tag, err := r.exec(ctx, stmt, orderID, ownerID)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) loadLines(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	const query = `
SELECT product_id, quantity, unit_price::text, title, image
FROM order_lines
WHERE order_id = $1
ORDER BY line_no`

	rows, err := r.query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var line domain.OrderLine
		var unitPrice string
		if err := rows.Scan(&line.ProductID, &line.Quantity, &unitPrice, &line.Title, &line.Image); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		line.UnitPrice, err = decimal.NewFromString(unitPrice)
		if err != nil {
			return nil, fmt.Errorf("parse unit price %q: %w", unitPrice, err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load order lines: %w", err)
	}
	return lines, nil
}

func (r *OrderRepository) scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	var status, total string
	addr := &o.ShippingAddress
	err := row.Scan(
		&o.ID, &o.OwnerID, &status, &total,
		&addr.Name, &addr.Street, &addr.City, &addr.PostalCode, &addr.Country,
		&o.SupplierRef, &o.CreatedAt,
	)
	if err != nil {
		return domain.Order{}, err
	}
	o.Status = domain.Status(status)
	o.TotalAmount, err = decimal.NewFromString(total)
	if err != nil {
		return domain.Order{}, fmt.Errorf("parse total %q: %w", total, err)
	}
	return o, nil
}

func (r *OrderRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *OrderRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *OrderRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

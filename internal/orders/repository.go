// Package orders implements the order query collaborator backed by Postgres.
// It fetches raw order records for a filter; all metric derivation happens
// in the metrics engine.
package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finsight-bo/finsight/internal/metrics"
	"github.com/finsight-bo/finsight/internal/platform/db"
)

// Repository loads orders and their lines from Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const baseOrderQuery = `
SELECT o.id, o.user_id, o.subtotal, o.tax, o.shipping_cost, o.total,
       o.payment_status, o.order_status, o.created_at
FROM orders o`

const orderItemsQuery = `
SELECT i.order_id, i.quantity, i.unit_price, i.total_price, i.category_id
FROM order_items i
WHERE i.order_id = ANY($1)
ORDER BY i.order_id, i.id`

// ListOrders fetches raw orders restricted to the filter. Date ranges are
// half-open: created_at >= from AND created_at < to. Orders and their lines
// are read from one database snapshot.
func (r *Repository) ListOrders(ctx context.Context, filter metrics.FilterContext) ([]metrics.RawOrder, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("orders: repository not configured")
	}
	var raw []metrics.RawOrder
	err := db.WithSnapshot(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		raw, err = listOrdersTx(ctx, tx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func listOrdersTx(ctx context.Context, tx pgx.Tx, filter metrics.FilterContext) ([]metrics.RawOrder, error) {
	where, args, err := buildWhere(filter)
	if err != nil {
		return nil, err
	}

	query := baseOrderQuery
	if where != "" {
		query += "\nWHERE " + where
	}
	query += "\nORDER BY o.created_at, o.id"

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("orders: query orders: %w", err)
	}
	defer rows.Close()

	var raw []metrics.RawOrder
	var ids []uuid.UUID
	index := make(map[string]int)
	for rows.Next() {
		var (
			id           uuid.UUID
			userID       pgtype.UUID
			subtotal     pgtype.Float8
			tax          pgtype.Float8
			shippingCost pgtype.Float8
			total        pgtype.Float8
			payment      pgtype.Text
			status       pgtype.Text
			createdAt    pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &userID, &subtotal, &tax, &shippingCost, &total, &payment, &status, &createdAt); err != nil {
			return nil, fmt.Errorf("orders: scan order: %w", err)
		}
		order := metrics.RawOrder{
			ID: id.String(),
			Totals: &metrics.OrderTotals{
				Subtotal:     subtotal.Float64,
				Tax:          tax.Float64,
				ShippingCost: shippingCost.Float64,
				Total:        total.Float64,
			},
			PaymentStatus: payment.String,
			OrderStatus:   status.String,
		}
		if createdAt.Valid {
			order.CreatedAt = createdAt.Time
		}
		if userID.Valid {
			user := uuid.UUID(userID.Bytes).String()
			order.UserID = &user
		}
		index[order.ID] = len(raw)
		raw = append(raw, order)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("orders: iterate orders: %w", err)
	}
	if len(raw) == 0 {
		return []metrics.RawOrder{}, nil
	}

	if err := attachItems(ctx, tx, ids, index, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func attachItems(ctx context.Context, tx pgx.Tx, ids []uuid.UUID, index map[string]int, raw []metrics.RawOrder) error {
	rows, err := tx.Query(ctx, orderItemsQuery, ids)
	if err != nil {
		return fmt.Errorf("orders: query items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID    uuid.UUID
			quantity   pgtype.Int4
			unitPrice  pgtype.Float8
			totalPrice pgtype.Float8
			categoryID pgtype.UUID
		)
		if err := rows.Scan(&orderID, &quantity, &unitPrice, &totalPrice, &categoryID); err != nil {
			return fmt.Errorf("orders: scan item: %w", err)
		}
		pos, ok := index[orderID.String()]
		if !ok {
			continue
		}
		item := metrics.RawItem{
			Quantity:   int(quantity.Int32),
			UnitPrice:  unitPrice.Float64,
			TotalPrice: totalPrice.Float64,
		}
		if categoryID.Valid {
			category := uuid.UUID(categoryID.Bytes).String()
			item.CategoryID = &category
		}
		raw[pos].Items = append(raw[pos].Items, item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("orders: iterate items: %w", err)
	}
	return nil
}

// buildWhere assembles the filter predicate with positional arguments.
func buildWhere(filter metrics.FilterContext) (string, []any, error) {
	var clauses []string
	var args []any

	next := func() string { return fmt.Sprintf("$%d", len(args)+1) }

	if filter.DateRange != nil {
		args = append(args, filter.DateRange.From)
		clauses = append(clauses, "o.created_at >= "+next())
		args = append(args, filter.DateRange.To)
		clauses = append(clauses, "o.created_at < "+next())
	}
	if filter.UserID != "" {
		userID, err := uuid.Parse(filter.UserID)
		if err != nil {
			return "", nil, fmt.Errorf("orders: invalid user id: %w", err)
		}
		args = append(args, userID)
		clauses = append(clauses, "o.user_id = "+next())
	}
	if filter.PaymentStatus != "" {
		args = append(args, string(filter.PaymentStatus))
		clauses = append(clauses, "o.payment_status = "+next())
	}
	if filter.OrderStatus != "" {
		args = append(args, string(filter.OrderStatus))
		clauses = append(clauses, "o.order_status = "+next())
	}
	if filter.CategoryID != "" {
		categoryID, err := uuid.Parse(filter.CategoryID)
		if err != nil {
			return "", nil, fmt.Errorf("orders: invalid category id: %w", err)
		}
		args = append(args, categoryID)
		clauses = append(clauses, "EXISTS (SELECT 1 FROM order_items ci WHERE ci.order_id = o.id AND ci.category_id = "+next()+")")
	}
	if filter.ProductID != "" {
		productID, err := uuid.Parse(filter.ProductID)
		if err != nil {
			return "", nil, fmt.Errorf("orders: invalid product id: %w", err)
		}
		args = append(args, productID)
		clauses = append(clauses, "EXISTS (SELECT 1 FROM order_items pi WHERE pi.order_id = o.id AND pi.product_id = "+next()+")")
	}

	return strings.Join(clauses, " AND "), args, nil
}

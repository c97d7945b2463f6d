package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/talegos/bagmfg-api/internal/domain/entity"
	"github.com/talegos/bagmfg-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación de PurchaseOrderRepository sobre PostgreSQL.
// Cabecera en purchase_orders, líneas en purchase_order_items.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const purchaseOrderColumns = `id, vendor_id, order_date, status, notes, created_by,
	received_by, received_at, cancelled_by, cancelled_at, created_at`

// Create persiste la cabecera y las líneas de una orden de compra.
func (r *PurchaseOrderRepo) Create(ctx context.Context, order *entity.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (` + purchaseOrderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.VendorID, order.OrderDate, order.Status, order.Notes,
		nullIfEmpty(order.CreatedBy), nullIfEmpty(order.ReceivedBy), order.ReceivedAt,
		nullIfEmpty(order.CancelledBy), order.CancelledAt, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create purchase order: %w", err)
	}
	for i := range order.Items {
		item := &order.Items[i]
		_, err := r.q.Exec(ctx,
			`INSERT INTO purchase_order_items (id, purchase_order_id, material_id, quantity, received_quantity, unit, unit_price)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			item.ID, order.ID, item.MaterialID, item.Quantity, item.ReceivedQuantity, item.Unit, item.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("create purchase order item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la orden con sus líneas. Devuelve nil si no existe.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetForUpdate obtiene la orden con sus líneas y bloquea la cabecera, para
// serializar recepciones y cancelaciones concurrentes sobre la misma orden.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

func (r *PurchaseOrderRepo) getOne(ctx context.Context, query, id string) (*entity.PurchaseOrder, error) {
	order, err := scanPurchaseOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateHeader actualiza estado, sellos y notas de la cabecera.
func (r *PurchaseOrderRepo) UpdateHeader(ctx context.Context, order *entity.PurchaseOrder) error {
	query := `
		UPDATE purchase_orders SET status = $2, notes = $3,
			received_by = $4, received_at = $5, cancelled_by = $6, cancelled_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.Status, order.Notes,
		nullIfEmpty(order.ReceivedBy), order.ReceivedAt,
		nullIfEmpty(order.CancelledBy), order.CancelledAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	return nil
}

// UpdateItemReceived actualiza el acumulado recibido de una línea.
func (r *PurchaseOrderRepo) UpdateItemReceived(ctx context.Context, itemID string, received decimal.Decimal) error {
	_, err := r.q.Exec(ctx,
		`UPDATE purchase_order_items SET received_quantity = $2 WHERE id = $1`,
		itemID, received,
	)
	if err != nil {
		return fmt.Errorf("update purchase order item: %w", err)
	}
	return nil
}

// List lista órdenes con filtros, más recientes primero, con sus líneas.
func (r *PurchaseOrderRepo) List(ctx context.Context, filter repository.PurchaseOrderFilter) ([]*entity.PurchaseOrder, error) {
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders po WHERE 1=1`
	args := []any{}
	idx := 1
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, filter.Status)
		idx++
	}
	if filter.VendorID != "" {
		query += fmt.Sprintf(" AND vendor_id = $%d", idx)
		args = append(args, filter.VendorID)
		idx++
	}
	if filter.DateFrom != nil {
		query += fmt.Sprintf(" AND order_date >= $%d", idx)
		args = append(args, *filter.DateFrom)
		idx++
	}
	if filter.DateTo != nil {
		query += fmt.Sprintf(" AND order_date <= $%d", idx)
		args = append(args, *filter.DateTo)
		idx++
	}
	if filter.Search != "" {
		query += fmt.Sprintf(` AND (po.id::text ILIKE $%d OR po.notes ILIKE $%d
			OR EXISTS (SELECT 1 FROM partners p WHERE p.id = po.vendor_id AND p.name ILIKE $%d)
			OR EXISTS (SELECT 1 FROM purchase_order_items i
				JOIN raw_materials m ON m.id = i.material_id
				WHERE i.purchase_order_id = po.id AND m.name ILIKE $%d))`, idx, idx, idx, idx)
		args = append(args, "%"+filter.Search+"%")
		idx++
	}
	query += " ORDER BY order_date DESC, created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", idx, idx+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()

	var orders []*entity.PurchaseOrder
	for rows.Next() {
		order, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, order := range orders {
		if err := r.loadItems(ctx, order); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *PurchaseOrderRepo) loadItems(ctx context.Context, order *entity.PurchaseOrder) error {
	rows, err := r.q.Query(ctx,
		`SELECT id, purchase_order_id, material_id, quantity, received_quantity, unit, unit_price
		 FROM purchase_order_items WHERE purchase_order_id = $1 ORDER BY material_id`,
		order.ID,
	)
	if err != nil {
		return fmt.Errorf("load purchase order items: %w", err)
	}
	defer rows.Close()
	order.Items = nil
	for rows.Next() {
		var item entity.PurchaseOrderItem
		err := rows.Scan(
			&item.ID, &item.PurchaseOrderID, &item.MaterialID,
			&item.Quantity, &item.ReceivedQuantity, &item.Unit, &item.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("scan purchase order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	return rows.Err()
}

func scanPurchaseOrder(row pgxScanner) (*entity.PurchaseOrder, error) {
	var o entity.PurchaseOrder
	var createdBy, receivedBy, cancelledBy *string
	err := row.Scan(
		&o.ID, &o.VendorID, &o.OrderDate, &o.Status, &o.Notes, &createdBy,
		&receivedBy, &o.ReceivedAt, &cancelledBy, &o.CancelledAt, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		o.CreatedBy = *createdBy
	}
	if receivedBy != nil {
		o.ReceivedBy = *receivedBy
	}
	if cancelledBy != nil {
		o.CancelledBy = *cancelledBy
	}
	return &o, nil
}

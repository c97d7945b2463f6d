package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/talegos/bagmfg-api/internal/domain/entity"
	"github.com/talegos/bagmfg-api/internal/domain/repository"
)

var _ repository.ProductionOrderRepository = (*ProductionOrderRepo)(nil)

// ProductionOrderRepo implementación de ProductionOrderRepository sobre PostgreSQL.
type ProductionOrderRepo struct {
	q Querier
}

// NewProductionOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductionOrderRepository(q Querier) *ProductionOrderRepo {
	return &ProductionOrderRepo{q: q}
}

const productionOrderColumns = `id, product_id, quantity, planned_qty, produced_qty, scrap_qty,
	raw_material_released, status, notes, created_by, completed_by, completed_at, created_at`

// Create persiste la cabecera de una orden de producción.
func (r *ProductionOrderRepo) Create(ctx context.Context, order *entity.ProductionOrder) error {
	query := `
		INSERT INTO production_orders (` + productionOrderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.ProductID, order.Quantity, order.PlannedQty, order.ProducedQty,
		order.ScrapQty, order.RawMaterialReleased, order.Status, order.Notes,
		nullIfEmpty(order.CreatedBy), nullIfEmpty(order.CompletedBy), order.CompletedAt, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create production order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por id. Devuelve nil si no existe.
func (r *ProductionOrderRepo) GetByID(ctx context.Context, id string) (*entity.ProductionOrder, error) {
	query := `SELECT ` + productionOrderColumns + ` FROM production_orders WHERE id = $1`
	order, err := scanProductionOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get production order: %w", err)
	}
	return order, nil
}

// GetForUpdate obtiene la orden y bloquea la fila (SELECT FOR UPDATE).
func (r *ProductionOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.ProductionOrder, error) {
	query := `SELECT ` + productionOrderColumns + ` FROM production_orders WHERE id = $1 FOR UPDATE`
	order, err := scanProductionOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get production order for update: %w", err)
	}
	return order, nil
}

// Update actualiza el estado y los campos mutables de la orden.
func (r *ProductionOrderRepo) Update(ctx context.Context, order *entity.ProductionOrder) error {
	query := `
		UPDATE production_orders SET produced_qty = $2, scrap_qty = $3,
			raw_material_released = $4, status = $5, notes = $6,
			completed_by = $7, completed_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.ProducedQty, order.ScrapQty, order.RawMaterialReleased,
		order.Status, order.Notes, nullIfEmpty(order.CompletedBy), order.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("update production order: %w", err)
	}
	return nil
}

// CreateConsumptions persiste los requerimientos de material expandidos del BOM.
func (r *ProductionOrderRepo) CreateConsumptions(ctx context.Context, orderID string, consumptions []entity.ProductionConsumption) error {
	for i := range consumptions {
		c := &consumptions[i]
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		_, err := r.q.Exec(ctx,
			`INSERT INTO production_consumptions (id, production_order_id, material_id, required_qty)
			 VALUES ($1, $2, $3, $4)`,
			c.ID, orderID, c.MaterialID, c.RequiredQty,
		)
		if err != nil {
			return fmt.Errorf("create production consumption: %w", err)
		}
	}
	return nil
}

// ListConsumptions lista los requerimientos de una orden.
func (r *ProductionOrderRepo) ListConsumptions(ctx context.Context, orderID string) ([]entity.ProductionConsumption, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, production_order_id, material_id, required_qty
		 FROM production_consumptions WHERE production_order_id = $1 ORDER BY material_id`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("list production consumptions: %w", err)
	}
	defer rows.Close()

	var consumptions []entity.ProductionConsumption
	for rows.Next() {
		var c entity.ProductionConsumption
		if err := rows.Scan(&c.ID, &c.ProductionOrderID, &c.MaterialID, &c.RequiredQty); err != nil {
			return nil, fmt.Errorf("scan production consumption: %w", err)
		}
		consumptions = append(consumptions, c)
	}
	return consumptions, rows.Err()
}

// List lista órdenes con filtros, más recientes primero.
func (r *ProductionOrderRepo) List(ctx context.Context, filter repository.ProductionOrderFilter) ([]*entity.ProductionOrder, error) {
	query := `SELECT ` + productionOrderColumns + ` FROM production_orders WHERE 1=1`
	args := []any{}
	idx := 1
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, filter.Status)
		idx++
	}
	if filter.ProductID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", idx)
		args = append(args, filter.ProductID)
		idx++
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", idx, idx+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list production orders: %w", err)
	}
	defer rows.Close()

	var orders []*entity.ProductionOrder
	for rows.Next() {
		order, err := scanProductionOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan production order: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func scanProductionOrder(row pgxScanner) (*entity.ProductionOrder, error) {
	var o entity.ProductionOrder
	var createdBy, completedBy *string
	err := row.Scan(
		&o.ID, &o.ProductID, &o.Quantity, &o.PlannedQty, &o.ProducedQty, &o.ScrapQty,
		&o.RawMaterialReleased, &o.Status, &o.Notes, &createdBy, &completedBy,
		&o.CompletedAt, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		o.CreatedBy = *createdBy
	}
	if completedBy != nil {
		o.CompletedBy = *completedBy
	}
	return &o, nil
}

// nullIfEmpty convierte "" en NULL para columnas con FK opcional.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

package postgres

import (
	"context"
	"fmt"

	"github.com/talegos/bagmfg-api/internal/domain/entity"
	"github.com/talegos/bagmfg-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas agregadas de solo lectura para el panel.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

// Counts devuelve los contadores del panel. Cada consulta va por separado; no
// hay garantía point-in-time entre tablas y para el panel no hace falta.
func (r *DashboardRepo) Counts(ctx context.Context) (*repository.DashboardCounts, error) {
	counts := &repository.DashboardCounts{
		ProductionByStatus: make(map[string]int64),
	}

	singles := []struct {
		query string
		dest  *int64
	}{
		{`SELECT COUNT(*) FROM raw_materials`, &counts.Materials},
		{`SELECT COUNT(*) FROM raw_materials WHERE current_stock <= reorder_level`, &counts.LowStockMaterials},
		{`SELECT COUNT(*) FROM partners`, &counts.Partners},
		{`SELECT COUNT(*) FROM finished_products`, &counts.FinishedProducts},
		{`SELECT COUNT(*) FROM purchase_orders WHERE status IN ($1, $2)`, &counts.OpenPurchaseOrders},
	}
	for _, s := range singles {
		var args []any
		if s.dest == &counts.OpenPurchaseOrders {
			args = []any{entity.PurchaseOpen, entity.PurchasePartiallyReceived}
		}
		if err := r.q.QueryRow(ctx, s.query, args...).Scan(s.dest); err != nil {
			return nil, fmt.Errorf("dashboard count: %w", err)
		}
	}

	rows, err := r.q.Query(ctx, `SELECT status, COUNT(*) FROM production_orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("dashboard production counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan production count: %w", err)
		}
		counts.ProductionByStatus[status] = count
	}
	return counts, rows.Err()
}

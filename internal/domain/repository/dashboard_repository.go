package repository

import "context"

// DashboardCounts agrupa los contadores del panel.
type DashboardCounts struct {
	Materials          int64
	LowStockMaterials  int64
	Partners           int64
	FinishedProducts   int64
	OpenPurchaseOrders int64 // open + partially_received
	ProductionByStatus map[string]int64
}

// DashboardRepository define consultas agregadas de solo lectura para el panel.
// No participa en transacciones; las lecturas no son point-in-time entre tablas.
type DashboardRepository interface {
	Counts(ctx context.Context) (*DashboardCounts, error)
}

package dto

// DashboardResponse resumen del panel principal.
type DashboardResponse struct {
	Materials          int64                 `json:"materials"`
	LowStockMaterials  int64                 `json:"low_stock_materials"`
	Partners           int64                 `json:"partners"`
	FinishedProducts   int64                 `json:"finished_products"`
	OpenPurchaseOrders int64                 `json:"open_purchase_orders"`
	ProductionByStatus map[string]int64      `json:"production_by_status"`
	LowStock           []MaterialResponse    `json:"low_stock"`
	RecentLedger       []LedgerEntryResponse `json:"recent_ledger"`
}

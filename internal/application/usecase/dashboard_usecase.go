package usecase

import (
	"context"

	"github.com/talegos/bagmfg-api/internal/application/dto"
	"github.com/talegos/bagmfg-api/internal/domain/repository"
)

// DashboardUseCase arma el resumen del panel: contadores, materiales bajo
// mínimo y últimos movimientos del ledger. Solo lectura.
type DashboardUseCase struct {
	dashRepo     repository.DashboardRepository
	materialRepo repository.MaterialRepository
	ledgerRepo   repository.LedgerRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	dashRepo repository.DashboardRepository,
	materialRepo repository.MaterialRepository,
	ledgerRepo repository.LedgerRepository,
) *DashboardUseCase {
	return &DashboardUseCase{
		dashRepo:     dashRepo,
		materialRepo: materialRepo,
		ledgerRepo:   ledgerRepo,
	}
}

// Summary devuelve el resumen del panel.
func (uc *DashboardUseCase) Summary(ctx context.Context) (*dto.DashboardResponse, error) {
	counts, err := uc.dashRepo.Counts(ctx)
	if err != nil {
		return nil, err
	}
	lowStock, err := uc.materialRepo.List(ctx, repository.MaterialFilter{LowStockOnly: true, Limit: 20})
	if err != nil {
		return nil, err
	}
	recent, err := uc.ledgerRepo.ListRecent(ctx, 20)
	if err != nil {
		return nil, err
	}

	resp := &dto.DashboardResponse{
		Materials:          counts.Materials,
		LowStockMaterials:  counts.LowStockMaterials,
		Partners:           counts.Partners,
		FinishedProducts:   counts.FinishedProducts,
		OpenPurchaseOrders: counts.OpenPurchaseOrders,
		ProductionByStatus: counts.ProductionByStatus,
		LowStock:           make([]dto.MaterialResponse, 0, len(lowStock)),
		RecentLedger:       make([]dto.LedgerEntryResponse, 0, len(recent)),
	}
	for _, m := range lowStock {
		resp.LowStock = append(resp.LowStock, dto.MaterialToResponse(m))
	}
	for _, e := range recent {
		resp.RecentLedger = append(resp.RecentLedger, dto.LedgerEntryToResponse(e))
	}
	return resp, nil
}

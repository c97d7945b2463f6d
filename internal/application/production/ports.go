package production

import (
	"context"

	"github.com/talegos/bagmfg-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los repositorios
// que necesita el flujo de producción (materiales, ledger, órdenes, producto terminado).
type TxRunner interface {
	RunProduction(ctx context.Context, fn func(
		matRepo repository.MaterialRepository,
		ledgerRepo repository.LedgerRepository,
		orderRepo repository.ProductionOrderRepository,
		productRepo repository.FinishedProductRepository,
		finLedgerRepo repository.FinishedLedgerRepository,
	) error) error
}

package inventory

import (
	"context"

	"github.com/talegos/bagmfg-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza atomicidad entre la caché de stock y el ledger.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		matRepo repository.MaterialRepository,
		ledgerRepo repository.LedgerRepository,
	) error) error
}

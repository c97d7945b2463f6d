package purchasing

import (
	"context"

	"github.com/talegos/bagmfg-api/internal/domain/entity"
	"github.com/talegos/bagmfg-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los repositorios
// que necesita el flujo de compras (materiales, ledger, órdenes de compra).
type TxRunner interface {
	RunPurchasing(ctx context.Context, fn func(
		matRepo repository.MaterialRepository,
		ledgerRepo repository.LedgerRepository,
		poRepo repository.PurchaseOrderRepository,
	) error) error
}

// DocumentGenerator produce los documentos de una orden de compra para descarga.
// materials indexa las materias primas de las líneas por id.
type DocumentGenerator interface {
	PurchaseOrderPDF(ctx context.Context, order *entity.PurchaseOrder, vendor *entity.Partner, materials map[string]*entity.Material) ([]byte, error)
	PurchaseOrderExcel(ctx context.Context, order *entity.PurchaseOrder, vendor *entity.Partner, materials map[string]*entity.Material) ([]byte, error)
}

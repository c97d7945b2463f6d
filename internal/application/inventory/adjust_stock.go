package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/talegos/bagmfg-api/internal/domain"
	"github.com/talegos/bagmfg-api/internal/domain/entity"
	"github.com/talegos/bagmfg-api/internal/domain/repository"
)

// AdjustStock aplica un ajuste manual de stock: bloquea la fila del material,
// verifica que el saldo no quede negativo y escribe la entrada del ledger,
// todo en una transacción. Delta positivo entra como IN, negativo como OUT.
func (uc *MaterialUseCase) AdjustStock(ctx context.Context, userID, materialID string, delta decimal.Decimal, reason string) (*entity.Material, error) {
	if delta.IsZero() || reason == "" {
		return nil, domain.ErrInvalidInput
	}

	var adjusted *entity.Material
	err := uc.txRunner.Run(ctx, func(matRepo repository.MaterialRepository, ledgerRepo repository.LedgerRepository) error {
		material, err := matRepo.GetForUpdate(ctx, materialID)
		if err != nil {
			return err
		}
		if material == nil {
			return domain.ErrNotFound
		}

		newStock := material.CurrentStock.Add(delta)
		if newStock.IsNegative() {
			return domain.ErrNegativeStock
		}
		if err := matRepo.UpdateStock(ctx, material.ID, newStock); err != nil {
			return err
		}

		txnType := entity.TxnTypeIN
		if delta.IsNegative() {
			txnType = entity.TxnTypeOUT
		}
		if err := ledgerRepo.Append(ctx, &entity.LedgerEntry{
			MaterialID:    material.ID,
			TxnType:       txnType,
			Quantity:      delta.Abs(),
			Unit:          material.Unit,
			Reason:        reason,
			ReferenceType: entity.RefManualAdjustment,
			ReferenceID:   material.ID,
			CreatedBy:     userID,
			CreatedAt:     time.Now(),
		}); err != nil {
			return err
		}

		material.CurrentStock = newStock
		adjusted = material
		return nil
	})
	if err != nil {
		return nil, err
	}
	return adjusted, nil
}

package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/talegos/bagmfg-api/internal/application/dto"
	"github.com/talegos/bagmfg-api/internal/domain"
	"github.com/talegos/bagmfg-api/internal/domain/entity"
	"github.com/talegos/bagmfg-api/internal/domain/repository"
)

// MaterialUseCase administra el catálogo de materias primas y su stock.
// Toda mutación de stock pasa por el TxRunner: caché y ledger en la misma transacción.
type MaterialUseCase struct {
	txRunner     TxRunner
	materialRepo repository.MaterialRepository
	partnerRepo  repository.PartnerRepository
	ledgerRepo   repository.LedgerRepository
}

// NewMaterialUseCase construye el caso de uso.
func NewMaterialUseCase(
	txRunner TxRunner,
	materialRepo repository.MaterialRepository,
	partnerRepo repository.PartnerRepository,
	ledgerRepo repository.LedgerRepository,
) *MaterialUseCase {
	return &MaterialUseCase{
		txRunner:     txRunner,
		materialRepo: materialRepo,
		partnerRepo:  partnerRepo,
		ledgerRepo:   ledgerRepo,
	}
}

// resolveCodes normaliza rm_id y colour_code a mayúsculas y deriva el code si falta.
func resolveCodes(rmID, colourCode, code string) (string, string, string, error) {
	resolvedRMID := strings.ToUpper(strings.TrimSpace(rmID))
	resolvedColour := strings.ToUpper(strings.TrimSpace(colourCode))
	resolvedCode := strings.ToUpper(strings.TrimSpace(code))
	if resolvedRMID == "" || resolvedColour == "" {
		return "", "", "", domain.ErrInvalidInput
	}
	if resolvedCode == "" {
		resolvedCode = resolvedRMID + "-" + resolvedColour
	}
	return resolvedRMID, resolvedColour, resolvedCode, nil
}

// checkSuppliers verifica que el vendor principal y los adicionales sean proveedores.
func (uc *MaterialUseCase) checkSuppliers(ctx context.Context, vendorID string, extraIDs []string) error {
	vendor, err := uc.partnerRepo.GetByID(ctx, vendorID)
	if err != nil {
		return err
	}
	if vendor == nil {
		return domain.ErrNotFound
	}
	if !vendor.IsSupplier() {
		return domain.ErrVendorNotSupplier
	}
	for _, id := range extraIDs {
		extra, err := uc.partnerRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if extra == nil {
			return domain.ErrNotFound
		}
		if !extra.IsSupplier() {
			return domain.ErrVendorNotSupplier
		}
	}
	return nil
}

// CreateMaterial crea la materia prima y, si hay stock de apertura, escribe la
// entrada IN "Opening stock" en la misma transacción.
func (uc *MaterialUseCase) CreateMaterial(ctx context.Context, userID string, in dto.CreateMaterialRequest) (*entity.Material, error) {
	if in.Name == "" || !entity.ValidUnit(in.Unit) || !entity.ValidMaterialType(in.MaterialType) {
		return nil, domain.ErrInvalidInput
	}
	if in.OpeningStock.IsNegative() || in.ReorderLevel.IsNegative() || in.CostPerUnit.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	rmID, colourCode, code, err := resolveCodes(in.RMID, in.ColourCode, in.Code)
	if err != nil {
		return nil, err
	}
	if err := uc.checkSuppliers(ctx, in.VendorID, in.ExtraVendorIDs); err != nil {
		return nil, err
	}

	vendorIDs := append([]string{in.VendorID}, in.ExtraVendorIDs...)
	material := &entity.Material{
		ID:           uuid.New().String(),
		Name:         in.Name,
		RMID:         rmID,
		Code:         code,
		MaterialType: in.MaterialType,
		Colour:       strings.TrimSpace(in.Colour),
		ColourCode:   colourCode,
		Unit:         in.Unit,
		CostPerUnit:  in.CostPerUnit,
		CurrentStock: in.OpeningStock,
		ReorderLevel: in.ReorderLevel,
		VendorID:     in.VendorID,
		VendorIDs:    vendorIDs,
		CreatedAt:    time.Now(),
	}

	err = uc.txRunner.Run(ctx, func(matRepo repository.MaterialRepository, ledgerRepo repository.LedgerRepository) error {
		if err := matRepo.Create(ctx, material); err != nil {
			return err
		}
		if err := matRepo.ReplaceVendorLinks(ctx, material.ID, vendorIDs); err != nil {
			return err
		}
		if in.OpeningStock.IsPositive() {
			return ledgerRepo.Append(ctx, &entity.LedgerEntry{
				MaterialID:    material.ID,
				TxnType:       entity.TxnTypeIN,
				Quantity:      in.OpeningStock,
				Unit:          material.Unit,
				Reason:        "Opening stock",
				ReferenceType: entity.RefOpeningStock,
				ReferenceID:   material.ID,
				CreatedBy:     userID,
				CreatedAt:     time.Now(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return material, nil
}

// UpdateMaterial actualiza los datos maestros y reescribe los vínculos de proveedor.
// El stock no se modifica por esta vía.
func (uc *MaterialUseCase) UpdateMaterial(ctx context.Context, id string, in dto.UpdateMaterialRequest) (*entity.Material, error) {
	if in.Name == "" || !entity.ValidUnit(in.Unit) || !entity.ValidMaterialType(in.MaterialType) {
		return nil, domain.ErrInvalidInput
	}
	if in.ReorderLevel.IsNegative() || in.CostPerUnit.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	rmID, colourCode, code, err := resolveCodes(in.RMID, in.ColourCode, in.Code)
	if err != nil {
		return nil, err
	}
	if err := uc.checkSuppliers(ctx, in.VendorID, in.ExtraVendorIDs); err != nil {
		return nil, err
	}

	vendorIDs := append([]string{in.VendorID}, in.ExtraVendorIDs...)
	var updated *entity.Material
	err = uc.txRunner.Run(ctx, func(matRepo repository.MaterialRepository, _ repository.LedgerRepository) error {
		material, err := matRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if material == nil {
			return domain.ErrNotFound
		}
		material.Name = in.Name
		material.RMID = rmID
		material.Code = code
		material.MaterialType = in.MaterialType
		material.Colour = strings.TrimSpace(in.Colour)
		material.ColourCode = colourCode
		material.Unit = in.Unit
		material.CostPerUnit = in.CostPerUnit
		material.ReorderLevel = in.ReorderLevel
		material.VendorID = in.VendorID
		material.VendorIDs = vendorIDs
		if err := matRepo.Update(ctx, material); err != nil {
			return err
		}
		if err := matRepo.ReplaceVendorLinks(ctx, material.ID, vendorIDs); err != nil {
			return err
		}
		updated = material
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GetMaterial devuelve una materia prima por id.
func (uc *MaterialUseCase) GetMaterial(ctx context.Context, id string) (*entity.Material, error) {
	material, err := uc.materialRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, domain.ErrNotFound
	}
	return material, nil
}

// ListMaterials lista materias primas con filtros.
func (uc *MaterialUseCase) ListMaterials(ctx context.Context, filter repository.MaterialFilter) ([]*entity.Material, error) {
	return uc.materialRepo.List(ctx, filter)
}

// ListByVendor lista los materiales habilitados para un proveedor.
func (uc *MaterialUseCase) ListByVendor(ctx context.Context, vendorID string) ([]*entity.Material, error) {
	return uc.materialRepo.ListByVendor(ctx, vendorID)
}

// ListLedger lista las entradas del ledger de un material en un rango de fechas.
func (uc *MaterialUseCase) ListLedger(ctx context.Context, materialID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error) {
	material, err := uc.materialRepo.GetByID(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, domain.ErrNotFound
	}
	return uc.ledgerRepo.ListByMaterial(ctx, materialID, from, to, limit, offset)
}

// LedgerAudit compara la caché current_stock contra la suma con signo del ledger.
type LedgerAudit struct {
	MaterialID  string
	CachedStock decimal.Decimal
	LedgerSum   decimal.Decimal
	Consistent  bool
}

// AuditStock verifica el invariante current_stock == suma del ledger para un material.
func (uc *MaterialUseCase) AuditStock(ctx context.Context, materialID string) (*LedgerAudit, error) {
	material, err := uc.materialRepo.GetByID(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, domain.ErrNotFound
	}
	sum, err := uc.ledgerRepo.SumByMaterial(ctx, materialID)
	if err != nil {
		return nil, err
	}
	return &LedgerAudit{
		MaterialID:  materialID,
		CachedStock: material.CurrentStock,
		LedgerSum:   sum,
		Consistent:  material.CurrentStock.Equal(sum),
	}, nil
}

package purchasing

import (
	"context"

	"github.com/talegos/bagmfg-api/internal/domain"
	"github.com/talegos/bagmfg-api/internal/domain/entity"
	"github.com/talegos/bagmfg-api/internal/domain/repository"
)

// ExportUseCase genera los documentos descargables de una orden de compra.
// Es solo formateo: carga la orden, el proveedor y los materiales y delega
// en el generador.
type ExportUseCase struct {
	poRepo       repository.PurchaseOrderRepository
	partnerRepo  repository.PartnerRepository
	materialRepo repository.MaterialRepository
	generator    DocumentGenerator
}

// NewExportUseCase construye el caso de uso de exportación.
func NewExportUseCase(
	poRepo repository.PurchaseOrderRepository,
	partnerRepo repository.PartnerRepository,
	materialRepo repository.MaterialRepository,
	generator DocumentGenerator,
) *ExportUseCase {
	return &ExportUseCase{
		poRepo:       poRepo,
		partnerRepo:  partnerRepo,
		materialRepo: materialRepo,
		generator:    generator,
	}
}

func (uc *ExportUseCase) load(ctx context.Context, orderID string) (*entity.PurchaseOrder, *entity.Partner, map[string]*entity.Material, error) {
	order, err := uc.poRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, nil, err
	}
	if order == nil {
		return nil, nil, nil, domain.ErrNotFound
	}
	vendor, err := uc.partnerRepo.GetByID(ctx, order.VendorID)
	if err != nil {
		return nil, nil, nil, err
	}
	if vendor == nil {
		return nil, nil, nil, domain.ErrNotFound
	}
	materials := make(map[string]*entity.Material, len(order.Items))
	for i := range order.Items {
		material, err := uc.materialRepo.GetByID(ctx, order.Items[i].MaterialID)
		if err != nil {
			return nil, nil, nil, err
		}
		if material != nil {
			materials[material.ID] = material
		}
	}
	return order, vendor, materials, nil
}

// ExportPDF devuelve el PDF de la orden.
func (uc *ExportUseCase) ExportPDF(ctx context.Context, orderID string) ([]byte, error) {
	order, vendor, materials, err := uc.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return uc.generator.PurchaseOrderPDF(ctx, order, vendor, materials)
}

// ExportExcel devuelve el XLSX de la orden.
func (uc *ExportUseCase) ExportExcel(ctx context.Context, orderID string) ([]byte, error) {
	order, vendor, materials, err := uc.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return uc.generator.PurchaseOrderExcel(ctx, order, vendor, materials)
}

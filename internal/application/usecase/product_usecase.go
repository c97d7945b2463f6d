package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/talegos/bagmfg-api/internal/application/dto"
	"github.com/talegos/bagmfg-api/internal/domain"
	"github.com/talegos/bagmfg-api/internal/domain/entity"
	"github.com/talegos/bagmfg-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos terminados y su BOM.
// El stock de terminados no se edita por aquí: lo mueven las órdenes de producción.
type ProductUseCase struct {
	repo         repository.FinishedProductRepository
	materialRepo repository.MaterialRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.FinishedProductRepository, materialRepo repository.MaterialRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, materialRepo: materialRepo}
}

// buildBOM valida las líneas: materiales existentes, cantidades positivas y sin repetidos.
func (uc *ProductUseCase) buildBOM(ctx context.Context, lines []dto.BOMItemRequest) ([]entity.BOMItem, error) {
	if len(lines) == 0 {
		return nil, domain.ErrEmptyBOM
	}
	seen := make(map[string]bool, len(lines))
	bom := make([]entity.BOMItem, 0, len(lines))
	for _, line := range lines {
		if !line.QtyPerUnit.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		if seen[line.MaterialID] {
			return nil, domain.ErrDuplicate
		}
		seen[line.MaterialID] = true
		material, err := uc.materialRepo.GetByID(ctx, line.MaterialID)
		if err != nil {
			return nil, err
		}
		if material == nil {
			return nil, domain.ErrNotFound
		}
		bom = append(bom, entity.BOMItem{
			MaterialID: line.MaterialID,
			QtyPerUnit: line.QtyPerUnit.Round(3),
		})
	}
	return bom, nil
}

// Create crea un producto terminado con su BOM. El SKU es único.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.ProductRequest) (*entity.FinishedProduct, error) {
	sku := strings.ToUpper(strings.TrimSpace(in.SKU))
	if in.Name == "" || sku == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	bom, err := uc.buildBOM(ctx, in.BOM)
	if err != nil {
		return nil, err
	}
	product := &entity.FinishedProduct{
		ID:        uuid.New().String(),
		Name:      in.Name,
		SKU:       sku,
		BOM:       bom,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update actualiza nombre, SKU y BOM. Las órdenes ya creadas conservan sus
// consumos expandidos; el cambio solo afecta órdenes futuras.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.ProductRequest) (*entity.FinishedProduct, error) {
	sku := strings.ToUpper(strings.TrimSpace(in.SKU))
	if in.Name == "" || sku == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if sku != product.SKU {
		existing, err := uc.repo.GetBySKU(ctx, sku)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	bom, err := uc.buildBOM(ctx, in.BOM)
	if err != nil {
		return nil, err
	}
	product.Name = in.Name
	product.SKU = sku
	product.BOM = bom
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetByID obtiene un producto por id con su BOM.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*entity.FinishedProduct, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// List lista productos terminados.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) ([]*entity.FinishedProduct, error) {
	return uc.repo.List(ctx, limit, offset)
}

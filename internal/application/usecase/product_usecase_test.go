package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talegos/bagmfg-api/internal/application/dto"
	"github.com/talegos/bagmfg-api/internal/application/usecase"
	"github.com/talegos/bagmfg-api/internal/domain"
	"github.com/talegos/bagmfg-api/internal/domain/entity"
	"github.com/talegos/bagmfg-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	products map[string]*entity.FinishedProduct
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*entity.FinishedProduct)}
}

func (r *fakeProductRepo) Create(_ context.Context, p *entity.FinishedProduct) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.FinishedProduct, error) {
	return r.products[id], nil
}

func (r *fakeProductRepo) GetBySKU(_ context.Context, sku string) (*entity.FinishedProduct, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *entity.FinishedProduct) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) List(_ context.Context, _, _ int) ([]*entity.FinishedProduct, error) {
	out := make([]*entity.FinishedProduct, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProductRepo) GetStockForUpdate(_ context.Context, productID string) (*entity.FinishedStock, error) {
	return &entity.FinishedStock{ProductID: productID, CurrentStock: decimal.Zero}, nil
}

func (r *fakeProductRepo) UpsertStock(_ context.Context, _ *entity.FinishedStock) error {
	return nil
}

// fakeMaterialCatalog solo resuelve GetByID; el resto no se usa en este caso de uso.
type fakeMaterialCatalog struct {
	materials map[string]*entity.Material
}

func (r *fakeMaterialCatalog) Create(_ context.Context, m *entity.Material) error {
	r.materials[m.ID] = m
	return nil
}

func (r *fakeMaterialCatalog) GetByID(_ context.Context, id string) (*entity.Material, error) {
	return r.materials[id], nil
}

func (r *fakeMaterialCatalog) GetForUpdate(_ context.Context, id string) (*entity.Material, error) {
	return r.materials[id], nil
}

func (r *fakeMaterialCatalog) LockByIDs(_ context.Context, _ []string) (map[string]*entity.Material, error) {
	return nil, nil
}

func (r *fakeMaterialCatalog) Update(_ context.Context, _ *entity.Material) error { return nil }

func (r *fakeMaterialCatalog) UpdateStock(_ context.Context, _ string, _ decimal.Decimal) error {
	return nil
}

func (r *fakeMaterialCatalog) ReplaceVendorLinks(_ context.Context, _ string, _ []string) error {
	return nil
}

func (r *fakeMaterialCatalog) List(_ context.Context, _ repository.MaterialFilter) ([]*entity.Material, error) {
	return nil, nil
}

func (r *fakeMaterialCatalog) ListByVendor(_ context.Context, _ string) ([]*entity.Material, error) {
	return nil, nil
}

func buildProductUC(t *testing.T) (*usecase.ProductUseCase, *fakeProductRepo) {
	t.Helper()
	repo := newFakeProductRepo()
	materials := &fakeMaterialCatalog{materials: map[string]*entity.Material{
		"mat-lona":   {ID: "mat-lona", Name: "Lona", Unit: entity.UnitKG},
		"mat-cierre": {ID: "mat-cierre", Name: "Cierre", Unit: entity.UnitPieces},
	}}
	return usecase.NewProductUseCase(repo, materials), repo
}

func bagRequest() dto.ProductRequest {
	return dto.ProductRequest{
		Name: "Morral urbano",
		SKU:  "bag-001",
		BOM: []dto.BOMItemRequest{
			{MaterialID: "mat-lona", QtyPerUnit: decimal.NewFromFloat(2.7539)},
			{MaterialID: "mat-cierre", QtyPerUnit: decimal.NewFromInt(2)},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestProductCreate_NormalizaSKUYRedondeaBOM(t *testing.T) {
	uc, _ := buildProductUC(t)

	product, err := uc.Create(context.Background(), bagRequest())
	require.NoError(t, err)

	assert.Equal(t, "BAG-001", product.SKU, "el SKU se guarda en mayúsculas")
	require.Len(t, product.BOM, 2)
	assert.True(t, decimal.NewFromFloat(2.754).Equal(product.BOM[0].QtyPerUnit),
		"qty_per_unit redondeado a 3 decimales, quedó %s", product.BOM[0].QtyPerUnit)
}

func TestProductCreate_SKUDuplicado(t *testing.T) {
	uc, _ := buildProductUC(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, bagRequest())
	require.NoError(t, err)

	// Mismo SKU con otra capitalización sigue siendo duplicado.
	dup := bagRequest()
	dup.SKU = "Bag-001"
	_, err = uc.Create(ctx, dup)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductCreate_ValidacionesBOM(t *testing.T) {
	uc, _ := buildProductUC(t)
	ctx := context.Background()

	req := bagRequest()
	req.BOM = nil
	_, err := uc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrEmptyBOM)

	req = bagRequest()
	req.BOM[0].QtyPerUnit = decimal.Zero
	_, err = uc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = bagRequest()
	req.BOM[1].MaterialID = "mat-lona" // repetido
	_, err = uc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	req = bagRequest()
	req.BOM[0].MaterialID = "no-existe"
	_, err = uc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update
// ──────────────────────────────────────────────────────────────────────────────

func TestProductUpdate_CambioDeSKUVerificaUnicidad(t *testing.T) {
	uc, _ := buildProductUC(t)
	ctx := context.Background()

	first, err := uc.Create(ctx, bagRequest())
	require.NoError(t, err)

	second := bagRequest()
	second.SKU = "BAG-002"
	other, err := uc.Create(ctx, second)
	require.NoError(t, err)

	// Tomar el SKU del primero no es válido.
	req := bagRequest()
	req.SKU = first.SKU
	_, err = uc.Update(ctx, other.ID, req)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// Conservar el propio SKU sí.
	req.SKU = other.SKU
	updated, err := uc.Update(ctx, other.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "BAG-002", updated.SKU)
}

func TestProductUpdate_NoEncontrado(t *testing.T) {
	uc, _ := buildProductUC(t)
	_, err := uc.Update(context.Background(), "no-existe", bagRequest())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

package production_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talegos/bagmfg-api/internal/application/dto"
	"github.com/talegos/bagmfg-api/internal/application/production"
	"github.com/talegos/bagmfg-api/internal/domain"
	"github.com/talegos/bagmfg-api/internal/domain/entity"
	"github.com/talegos/bagmfg-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. El descuento verifica todos los faltantes antes de escribir,
// así que los casos de error no necesitan rollback: basta comprobar que no hubo
// escritura alguna.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	materials    map[string]*entity.Material
	ledger       []*entity.LedgerEntry
	orders       map[string]*entity.ProductionOrder
	consumptions map[string][]entity.ProductionConsumption
	products     map[string]*entity.FinishedProduct
	finStock     map[string]*entity.FinishedStock
	finLedger    []*entity.FinishedLedgerEntry
}

func newMemStore() *memStore {
	return &memStore{
		materials:    make(map[string]*entity.Material),
		orders:       make(map[string]*entity.ProductionOrder),
		consumptions: make(map[string][]entity.ProductionConsumption),
		products:     make(map[string]*entity.FinishedProduct),
		finStock:     make(map[string]*entity.FinishedStock),
	}
}

type memMaterialRepo struct{ s *memStore }

func (r *memMaterialRepo) Create(_ context.Context, m *entity.Material) error {
	r.s.materials[m.ID] = m
	return nil
}

func (r *memMaterialRepo) GetByID(_ context.Context, id string) (*entity.Material, error) {
	return r.s.materials[id], nil
}

func (r *memMaterialRepo) GetForUpdate(_ context.Context, id string) (*entity.Material, error) {
	return r.s.materials[id], nil
}

func (r *memMaterialRepo) LockByIDs(_ context.Context, ids []string) (map[string]*entity.Material, error) {
	out := make(map[string]*entity.Material, len(ids))
	for _, id := range ids {
		if m, ok := r.s.materials[id]; ok {
			out[id] = m
		}
	}
	return out, nil
}

func (r *memMaterialRepo) Update(_ context.Context, m *entity.Material) error {
	r.s.materials[m.ID] = m
	return nil
}

func (r *memMaterialRepo) UpdateStock(_ context.Context, id string, stock decimal.Decimal) error {
	m, ok := r.s.materials[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.CurrentStock = stock
	return nil
}

func (r *memMaterialRepo) ReplaceVendorLinks(_ context.Context, materialID string, vendorIDs []string) error {
	if m, ok := r.s.materials[materialID]; ok {
		m.VendorIDs = vendorIDs
	}
	return nil
}

func (r *memMaterialRepo) List(_ context.Context, _ repository.MaterialFilter) ([]*entity.Material, error) {
	out := make([]*entity.Material, 0, len(r.s.materials))
	for _, m := range r.s.materials {
		out = append(out, m)
	}
	return out, nil
}

func (r *memMaterialRepo) ListByVendor(_ context.Context, _ string) ([]*entity.Material, error) {
	return nil, nil
}

type memLedgerRepo struct{ s *memStore }

func (r *memLedgerRepo) Append(_ context.Context, e *entity.LedgerEntry) error {
	r.s.ledger = append(r.s.ledger, e)
	return nil
}

func (r *memLedgerRepo) ListByMaterial(_ context.Context, materialID string, _, _ *time.Time, _, _ int) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	for _, e := range r.s.ledger {
		if e.MaterialID == materialID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memLedgerRepo) ListRecent(_ context.Context, _ int) ([]*entity.LedgerEntry, error) {
	return r.s.ledger, nil
}

func (r *memLedgerRepo) SumByMaterial(_ context.Context, materialID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, e := range r.s.ledger {
		if e.MaterialID == materialID {
			sum = sum.Add(e.SignedDelta())
		}
	}
	return sum, nil
}

type memOrderRepo struct{ s *memStore }

func (r *memOrderRepo) Create(_ context.Context, o *entity.ProductionOrder) error {
	r.s.orders[o.ID] = o
	return nil
}

func (r *memOrderRepo) GetByID(_ context.Context, id string) (*entity.ProductionOrder, error) {
	return r.s.orders[id], nil
}

func (r *memOrderRepo) GetForUpdate(_ context.Context, id string) (*entity.ProductionOrder, error) {
	return r.s.orders[id], nil
}

func (r *memOrderRepo) Update(_ context.Context, o *entity.ProductionOrder) error {
	r.s.orders[o.ID] = o
	return nil
}

func (r *memOrderRepo) CreateConsumptions(_ context.Context, orderID string, cs []entity.ProductionConsumption) error {
	r.s.consumptions[orderID] = cs
	return nil
}

func (r *memOrderRepo) ListConsumptions(_ context.Context, orderID string) ([]entity.ProductionConsumption, error) {
	return r.s.consumptions[orderID], nil
}

func (r *memOrderRepo) List(_ context.Context, _ repository.ProductionOrderFilter) ([]*entity.ProductionOrder, error) {
	out := make([]*entity.ProductionOrder, 0, len(r.s.orders))
	for _, o := range r.s.orders {
		out = append(out, o)
	}
	return out, nil
}

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) Create(_ context.Context, p *entity.FinishedProduct) error {
	r.s.products[p.ID] = p
	return nil
}

func (r *memProductRepo) GetByID(_ context.Context, id string) (*entity.FinishedProduct, error) {
	return r.s.products[id], nil
}

func (r *memProductRepo) GetBySKU(_ context.Context, sku string) (*entity.FinishedProduct, error) {
	for _, p := range r.s.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) Update(_ context.Context, p *entity.FinishedProduct) error {
	r.s.products[p.ID] = p
	return nil
}

func (r *memProductRepo) List(_ context.Context, _, _ int) ([]*entity.FinishedProduct, error) {
	return nil, nil
}

func (r *memProductRepo) GetStockForUpdate(_ context.Context, productID string) (*entity.FinishedStock, error) {
	if s, ok := r.s.finStock[productID]; ok {
		return s, nil
	}
	return &entity.FinishedStock{ProductID: productID, CurrentStock: decimal.Zero}, nil
}

func (r *memProductRepo) UpsertStock(_ context.Context, stock *entity.FinishedStock) error {
	r.s.finStock[stock.ProductID] = stock
	return nil
}

type memFinLedgerRepo struct{ s *memStore }

func (r *memFinLedgerRepo) Append(_ context.Context, e *entity.FinishedLedgerEntry) error {
	r.s.finLedger = append(r.s.finLedger, e)
	return nil
}

func (r *memFinLedgerRepo) ListByProduct(_ context.Context, productID string, _, _ int) ([]*entity.FinishedLedgerEntry, error) {
	var out []*entity.FinishedLedgerEntry
	for _, e := range r.s.finLedger {
		if e.ProductID == productID {
			out = append(out, e)
		}
	}
	return out, nil
}

type memTxRunner struct{ s *memStore }

func (t *memTxRunner) RunProduction(_ context.Context, fn func(
	repository.MaterialRepository,
	repository.LedgerRepository,
	repository.ProductionOrderRepository,
	repository.FinishedProductRepository,
	repository.FinishedLedgerRepository,
) error) error {
	return fn(
		&memMaterialRepo{t.s},
		&memLedgerRepo{t.s},
		&memOrderRepo{t.s},
		&memProductRepo{t.s},
		&memFinLedgerRepo{t.s},
	)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: lona con 10 kg en stock, cierre con 40 piezas y un morral cuyo BOM
// consume 3 kg de lona y 2 cierres por unidad.
// ──────────────────────────────────────────────────────────────────────────────

const (
	matLona   = "mat-lona"
	matCierre = "mat-cierre"
	prodBolso = "prod-bolso"
)

func buildFixture(t *testing.T) (*production.ProductionUseCase, *memStore) {
	t.Helper()
	s := newMemStore()
	s.materials[matLona] = &entity.Material{
		ID: matLona, Name: "Lona impermeable", Unit: entity.UnitKG,
		CurrentStock: decimal.NewFromInt(10),
	}
	s.materials[matCierre] = &entity.Material{
		ID: matCierre, Name: "Cierre #5", Unit: entity.UnitPieces,
		CurrentStock: decimal.NewFromInt(40),
	}
	s.products[prodBolso] = &entity.FinishedProduct{
		ID: prodBolso, Name: "Morral urbano", SKU: "BAG-001",
		BOM: []entity.BOMItem{
			{MaterialID: matLona, QtyPerUnit: decimal.NewFromInt(3)},
			{MaterialID: matCierre, QtyPerUnit: decimal.NewFromInt(2)},
		},
	}
	uc := production.NewProductionUseCase(&memTxRunner{s}, &memProductRepo{s}, &memOrderRepo{s})
	return uc, s
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateOrder — descuento atómico
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateOrder_DescuentaStockYEscribeLedger(t *testing.T) {
	uc, s := buildFixture(t)

	order, err := uc.CreateOrder(context.Background(), "user-1", dto.CreateProductionOrderRequest{
		ProductID: prodBolso,
		Quantity:  2,
	})
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, entity.ProductionPlanned, order.Status)
	assert.True(t, order.RawMaterialReleased)

	// 10 - 2×3 = 4 kg de lona; 40 - 2×2 = 36 cierres
	assert.True(t, decimal.NewFromInt(4).Equal(s.materials[matLona].CurrentStock),
		"lona esperada 4, quedó %s", s.materials[matLona].CurrentStock)
	assert.True(t, decimal.NewFromInt(36).Equal(s.materials[matCierre].CurrentStock))

	// Una entrada OUT por material, referenciando la orden
	require.Len(t, s.ledger, 2)
	for _, e := range s.ledger {
		assert.Equal(t, entity.TxnTypeOUT, e.TxnType)
		assert.Equal(t, entity.RefProductionOrder, e.ReferenceType)
		assert.Equal(t, order.ID, e.ReferenceID)
		assert.True(t, e.Quantity.IsPositive(), "las cantidades del ledger siempre son positivas")
	}

	// Consumos expandidos del BOM persistidos
	require.Len(t, s.consumptions[order.ID], 2)
	assert.True(t, decimal.NewFromInt(6).Equal(s.consumptions[order.ID][0].RequiredQty))
}

func TestCreateOrder_FaltanteReportaListaCompletaSinMutar(t *testing.T) {
	uc, s := buildFixture(t)

	// Primera orden consume la mayor parte del stock de lona.
	_, err := uc.CreateOrder(context.Background(), "user-1", dto.CreateProductionOrderRequest{
		ProductID: prodBolso, Quantity: 2,
	})
	require.NoError(t, err)

	// Para 2 unidades más faltan 2 kg de lona (requiere 6, quedan 4).
	// Dejamos también el cierre corto para verificar la lista completa.
	s.materials[matCierre].CurrentStock = decimal.NewFromInt(1)
	ledgerBefore := len(s.ledger)
	ordersBefore := len(s.orders)

	_, err = uc.CreateOrder(context.Background(), "user-1", dto.CreateProductionOrderRequest{
		ProductID: prodBolso, Quantity: 2,
	})
	require.Error(t, err)

	var shortErr *production.ShortageError
	require.ErrorAs(t, err, &shortErr, "el error debe ser ShortageError")
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	require.Len(t, shortErr.Shortages, 2, "se reportan todos los faltantes, no solo el primero")

	byMaterial := make(map[string]entity.Shortage)
	for _, sh := range shortErr.Shortages {
		byMaterial[sh.MaterialID] = sh
	}
	assert.True(t, decimal.NewFromInt(6).Equal(byMaterial[matLona].Required))
	assert.True(t, decimal.NewFromInt(4).Equal(byMaterial[matLona].Available))
	assert.True(t, decimal.NewFromInt(4).Equal(byMaterial[matCierre].Required))
	assert.True(t, decimal.NewFromInt(1).Equal(byMaterial[matCierre].Available))

	// Nada cambió: ni stock, ni ledger, ni órdenes nuevas.
	assert.True(t, decimal.NewFromInt(4).Equal(s.materials[matLona].CurrentStock))
	assert.Len(t, s.ledger, ledgerBefore)
	assert.Len(t, s.orders, ordersBefore)
}

func TestCreateOrder_Validaciones(t *testing.T) {
	uc, s := buildFixture(t)
	ctx := context.Background()

	_, err := uc.CreateOrder(ctx, "u", dto.CreateProductionOrderRequest{ProductID: prodBolso, Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateOrder(ctx, "u", dto.CreateProductionOrderRequest{ProductID: "no-existe", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	s.products["sin-bom"] = &entity.FinishedProduct{ID: "sin-bom", SKU: "BAG-X"}
	_, err = uc.CreateOrder(ctx, "u", dto.CreateProductionOrderRequest{ProductID: "sin-bom", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrEmptyBOM)
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo awaiting_rm_release: solicitar, liberar, rechazar
// ──────────────────────────────────────────────────────────────────────────────

func TestReleaseRM_DescuentaLoDiferido(t *testing.T) {
	uc, s := buildFixture(t)
	ctx := context.Background()

	order, err := uc.CreateOrder(ctx, "user-1", dto.CreateProductionOrderRequest{
		ProductID: prodBolso, Quantity: 2, RequestRMRelease: true,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ProductionAwaitingRMRelease, order.Status)
	assert.False(t, order.RawMaterialReleased)
	// El stock no se toca hasta la liberación.
	assert.True(t, decimal.NewFromInt(10).Equal(s.materials[matLona].CurrentStock))
	assert.Empty(t, s.ledger)

	released, err := uc.ReleaseRM(ctx, "almacen-1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ProductionPlanned, released.Status)
	assert.True(t, released.RawMaterialReleased)
	assert.True(t, decimal.NewFromInt(4).Equal(s.materials[matLona].CurrentStock))
	assert.Len(t, s.ledger, 2)

	// Liberar dos veces no es válido.
	_, err = uc.ReleaseRM(ctx, "almacen-1", order.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestRejectRM_CancelaSinTocarStock(t *testing.T) {
	uc, s := buildFixture(t)
	ctx := context.Background()

	order, err := uc.CreateOrder(ctx, "user-1", dto.CreateProductionOrderRequest{
		ProductID: prodBolso, Quantity: 2, RequestRMRelease: true,
	})
	require.NoError(t, err)

	rejected, err := uc.RejectRM(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ProductionCancelled, rejected.Status)
	assert.True(t, decimal.NewFromInt(10).Equal(s.materials[matLona].CurrentStock))
	assert.Empty(t, s.ledger)

	// Rechazar una orden ya planificada no es válido.
	planned, err := uc.CreateOrder(ctx, "user-1", dto.CreateProductionOrderRequest{
		ProductID: prodBolso, Quantity: 1,
	})
	require.NoError(t, err)
	_, err = uc.RejectRM(ctx, planned.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateStatus, Complete, Cancel
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateStatus_PlannedAInProgress(t *testing.T) {
	uc, _ := buildFixture(t)
	ctx := context.Background()

	order, err := uc.CreateOrder(ctx, "u", dto.CreateProductionOrderRequest{ProductID: prodBolso, Quantity: 1})
	require.NoError(t, err)

	updated, err := uc.UpdateStatus(ctx, order.ID, entity.ProductionInProgress)
	require.NoError(t, err)
	assert.Equal(t, entity.ProductionInProgress, updated.Status)

	_, err = uc.UpdateStatus(ctx, order.ID, "completed")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "los estados terminales tienen operaciones propias")
}

func TestUpdateStatus_AwaitingNoPuedeAvanzar(t *testing.T) {
	uc, _ := buildFixture(t)
	ctx := context.Background()

	order, err := uc.CreateOrder(ctx, "u", dto.CreateProductionOrderRequest{
		ProductID: prodBolso, Quantity: 1, RequestRMRelease: true,
	})
	require.NoError(t, err)

	_, err = uc.UpdateStatus(ctx, order.ID, entity.ProductionInProgress)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestComplete_SumaProductoTerminado(t *testing.T) {
	uc, s := buildFixture(t)
	ctx := context.Background()

	order, err := uc.CreateOrder(ctx, "u", dto.CreateProductionOrderRequest{ProductID: prodBolso, Quantity: 2})
	require.NoError(t, err)

	completed, err := uc.Complete(ctx, "jefe-1", order.ID, decimal.NewFromInt(2), decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, entity.ProductionCompleted, completed.Status)
	assert.Equal(t, "jefe-1", completed.CompletedBy)
	require.NotNil(t, completed.CompletedAt)

	require.NotNil(t, s.finStock[prodBolso])
	assert.True(t, decimal.NewFromInt(2).Equal(s.finStock[prodBolso].CurrentStock))
	require.Len(t, s.finLedger, 1)
	assert.Equal(t, entity.TxnTypeIN, s.finLedger[0].TxnType)
	assert.Equal(t, order.ID, s.finLedger[0].ReferenceID)

	// Completar dos veces no es válido.
	_, err = uc.Complete(ctx, "jefe-1", order.ID, decimal.NewFromInt(1), decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestComplete_ConMermaYCantidadInvalida(t *testing.T) {
	uc, _ := buildFixture(t)
	ctx := context.Background()

	order, err := uc.CreateOrder(ctx, "u", dto.CreateProductionOrderRequest{ProductID: prodBolso, Quantity: 2})
	require.NoError(t, err)

	_, err = uc.Complete(ctx, "u", order.ID, decimal.Zero, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Complete(ctx, "u", order.ID, decimal.NewFromInt(1), decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	completed, err := uc.Complete(ctx, "u", order.ID, decimal.NewFromInt(1), decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(-1).Equal(completed.VarianceQty()), "producido 1 vs planificado 2")
}

func TestCancel_DevuelveStockConEntradasIN(t *testing.T) {
	uc, s := buildFixture(t)
	ctx := context.Background()

	order, err := uc.CreateOrder(ctx, "u", dto.CreateProductionOrderRequest{ProductID: prodBolso, Quantity: 2})
	require.NoError(t, err)
	require.True(t, decimal.NewFromInt(4).Equal(s.materials[matLona].CurrentStock))

	cancelled, err := uc.Cancel(ctx, "u", order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ProductionCancelled, cancelled.Status)

	// El stock vuelve al inicial vía entradas IN compensatorias, nunca editando el ledger.
	assert.True(t, decimal.NewFromInt(10).Equal(s.materials[matLona].CurrentStock))
	assert.True(t, decimal.NewFromInt(40).Equal(s.materials[matCierre].CurrentStock))
	require.Len(t, s.ledger, 4, "2 OUT del descuento + 2 IN de la devolución")

	// La suma con signo del ledger queda en cero para ambos materiales.
	lr := &memLedgerRepo{s}
	sum, err := lr.SumByMaterial(ctx, matLona)
	require.NoError(t, err)
	assert.True(t, sum.IsZero())
}

func TestCancel_SinLiberarNoDevuelveNada(t *testing.T) {
	uc, s := buildFixture(t)
	ctx := context.Background()

	order, err := uc.CreateOrder(ctx, "u", dto.CreateProductionOrderRequest{
		ProductID: prodBolso, Quantity: 2, RequestRMRelease: true,
	})
	require.NoError(t, err)

	_, err = uc.Cancel(ctx, "u", order.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(s.materials[matLona].CurrentStock))
	assert.Empty(t, s.ledger)
}

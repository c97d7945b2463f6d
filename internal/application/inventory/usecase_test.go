package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talegos/bagmfg-api/internal/application/dto"
	"github.com/talegos/bagmfg-api/internal/application/inventory"
	"github.com/talegos/bagmfg-api/internal/domain"
	"github.com/talegos/bagmfg-api/internal/domain/entity"
	"github.com/talegos/bagmfg-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type invStore struct {
	partners  map[string]*entity.Partner
	materials map[string]*entity.Material
	ledger    []*entity.LedgerEntry
}

func newInvStore() *invStore {
	return &invStore{
		partners:  make(map[string]*entity.Partner),
		materials: make(map[string]*entity.Material),
	}
}

type invPartnerRepo struct{ s *invStore }

func (r *invPartnerRepo) Create(_ context.Context, p *entity.Partner) error {
	r.s.partners[p.ID] = p
	return nil
}

func (r *invPartnerRepo) GetByID(_ context.Context, id string) (*entity.Partner, error) {
	return r.s.partners[id], nil
}

func (r *invPartnerRepo) Update(_ context.Context, p *entity.Partner) error {
	r.s.partners[p.ID] = p
	return nil
}

func (r *invPartnerRepo) List(_ context.Context, _ repository.PartnerFilter) ([]*entity.Partner, error) {
	return nil, nil
}

type invMaterialRepo struct{ s *invStore }

func (r *invMaterialRepo) Create(_ context.Context, m *entity.Material) error {
	r.s.materials[m.ID] = m
	return nil
}

func (r *invMaterialRepo) GetByID(_ context.Context, id string) (*entity.Material, error) {
	return r.s.materials[id], nil
}

func (r *invMaterialRepo) GetForUpdate(_ context.Context, id string) (*entity.Material, error) {
	return r.s.materials[id], nil
}

func (r *invMaterialRepo) LockByIDs(_ context.Context, ids []string) (map[string]*entity.Material, error) {
	out := make(map[string]*entity.Material, len(ids))
	for _, id := range ids {
		if m, ok := r.s.materials[id]; ok {
			out[id] = m
		}
	}
	return out, nil
}

func (r *invMaterialRepo) Update(_ context.Context, m *entity.Material) error {
	r.s.materials[m.ID] = m
	return nil
}

func (r *invMaterialRepo) UpdateStock(_ context.Context, id string, stock decimal.Decimal) error {
	m, ok := r.s.materials[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.CurrentStock = stock
	return nil
}

func (r *invMaterialRepo) ReplaceVendorLinks(_ context.Context, materialID string, vendorIDs []string) error {
	if m, ok := r.s.materials[materialID]; ok {
		m.VendorIDs = vendorIDs
	}
	return nil
}

func (r *invMaterialRepo) List(_ context.Context, filter repository.MaterialFilter) ([]*entity.Material, error) {
	var out []*entity.Material
	for _, m := range r.s.materials {
		if filter.LowStockOnly && !m.IsLowStock() {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *invMaterialRepo) ListByVendor(_ context.Context, vendorID string) ([]*entity.Material, error) {
	var out []*entity.Material
	for _, m := range r.s.materials {
		if m.HasVendor(vendorID) {
			out = append(out, m)
		}
	}
	return out, nil
}

type invLedgerRepo struct{ s *invStore }

func (r *invLedgerRepo) Append(_ context.Context, e *entity.LedgerEntry) error {
	r.s.ledger = append(r.s.ledger, e)
	return nil
}

func (r *invLedgerRepo) ListByMaterial(_ context.Context, materialID string, _, _ *time.Time, _, _ int) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	for _, e := range r.s.ledger {
		if e.MaterialID == materialID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *invLedgerRepo) ListRecent(_ context.Context, _ int) ([]*entity.LedgerEntry, error) {
	return r.s.ledger, nil
}

func (r *invLedgerRepo) SumByMaterial(_ context.Context, materialID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, e := range r.s.ledger {
		if e.MaterialID == materialID {
			sum = sum.Add(e.SignedDelta())
		}
	}
	return sum, nil
}

type invTxRunner struct{ s *invStore }

func (t *invTxRunner) Run(_ context.Context, fn func(
	repository.MaterialRepository,
	repository.LedgerRepository,
) error) error {
	return fn(&invMaterialRepo{t.s}, &invLedgerRepo{t.s})
}

const supplierID = "partner-textiles"

func buildInvFixture(t *testing.T) (*inventory.MaterialUseCase, *invStore) {
	t.Helper()
	s := newInvStore()
	s.partners[supplierID] = &entity.Partner{ID: supplierID, Name: "Textiles SA", Type: entity.PartnerTypeSupplier}
	s.partners["partner-retail"] = &entity.Partner{ID: "partner-retail", Name: "Retail SA", Type: entity.PartnerTypeBuyer}
	uc := inventory.NewMaterialUseCase(&invTxRunner{s}, &invMaterialRepo{s}, &invPartnerRepo{s}, &invLedgerRepo{s})
	return uc, s
}

func validCreateReq() dto.CreateMaterialRequest {
	return dto.CreateMaterialRequest{
		Name:         "Lona impermeable",
		RMID:         "rm-017",
		MaterialType: entity.MaterialTypeFabric,
		Colour:       "Negro",
		ColourCode:   "blk",
		Unit:         entity.UnitKG,
		CostPerUnit:  decimal.NewFromFloat(85.00),
		VendorID:     supplierID,
		OpeningStock: decimal.NewFromInt(25),
		ReorderLevel: decimal.NewFromInt(5),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateMaterial
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateMaterial_NormalizaCodigosYRegistraApertura(t *testing.T) {
	uc, s := buildInvFixture(t)

	material, err := uc.CreateMaterial(context.Background(), "user-1", validCreateReq())
	require.NoError(t, err)

	assert.Equal(t, "RM-017", material.RMID)
	assert.Equal(t, "BLK", material.ColourCode)
	assert.Equal(t, "RM-017-BLK", material.Code, "code derivado de RMID-COLOURCODE")
	assert.True(t, decimal.NewFromInt(25).Equal(material.CurrentStock))

	// Entrada de apertura en el ledger.
	require.Len(t, s.ledger, 1)
	entry := s.ledger[0]
	assert.Equal(t, entity.TxnTypeIN, entry.TxnType)
	assert.Equal(t, entity.RefOpeningStock, entry.ReferenceType)
	assert.Equal(t, "Opening stock", entry.Reason)
	assert.True(t, decimal.NewFromInt(25).Equal(entry.Quantity))

	// El invariante caché == suma del ledger arranca consistente.
	audit, err := uc.AuditStock(context.Background(), material.ID)
	require.NoError(t, err)
	assert.True(t, audit.Consistent)
}

func TestCreateMaterial_SinAperturaNoEscribeLedger(t *testing.T) {
	uc, s := buildInvFixture(t)
	req := validCreateReq()
	req.OpeningStock = decimal.Zero

	material, err := uc.CreateMaterial(context.Background(), "user-1", req)
	require.NoError(t, err)
	assert.True(t, material.CurrentStock.IsZero())
	assert.Empty(t, s.ledger)
}

func TestCreateMaterial_Rechazos(t *testing.T) {
	uc, _ := buildInvFixture(t)
	ctx := context.Background()

	req := validCreateReq()
	req.Unit = "galones"
	_, err := uc.CreateMaterial(ctx, "u", req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = validCreateReq()
	req.OpeningStock = decimal.NewFromInt(-1)
	_, err = uc.CreateMaterial(ctx, "u", req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = validCreateReq()
	req.VendorID = "partner-retail" // comprador puro
	_, err = uc.CreateMaterial(ctx, "u", req)
	assert.ErrorIs(t, err, domain.ErrVendorNotSupplier)

	req = validCreateReq()
	req.ExtraVendorIDs = []string{"no-existe"}
	_, err = uc.CreateMaterial(ctx, "u", req)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// AdjustStock
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjustStock_PositivoYNegativo(t *testing.T) {
	uc, s := buildInvFixture(t)
	ctx := context.Background()

	material, err := uc.CreateMaterial(ctx, "user-1", validCreateReq())
	require.NoError(t, err)

	// +5 entra como IN.
	adjusted, err := uc.AdjustStock(ctx, "user-1", material.ID, decimal.NewFromInt(5), "Conteo físico")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(30).Equal(adjusted.CurrentStock))

	// -12 entra como OUT con cantidad positiva.
	adjusted, err = uc.AdjustStock(ctx, "user-1", material.ID, decimal.NewFromInt(-12), "Material dañado")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(18).Equal(adjusted.CurrentStock))

	require.Len(t, s.ledger, 3) // apertura + 2 ajustes
	last := s.ledger[2]
	assert.Equal(t, entity.TxnTypeOUT, last.TxnType)
	assert.True(t, decimal.NewFromInt(12).Equal(last.Quantity))
	assert.Equal(t, entity.RefManualAdjustment, last.ReferenceType)

	// La caché sigue cuadrando contra el ledger.
	audit, err := uc.AuditStock(ctx, material.ID)
	require.NoError(t, err)
	assert.True(t, audit.Consistent)
	assert.True(t, decimal.NewFromInt(18).Equal(audit.LedgerSum))
}

func TestAdjustStock_NuncaDejaSaldoNegativo(t *testing.T) {
	uc, s := buildInvFixture(t)
	ctx := context.Background()

	material, err := uc.CreateMaterial(ctx, "user-1", validCreateReq())
	require.NoError(t, err)

	_, err = uc.AdjustStock(ctx, "user-1", material.ID, decimal.NewFromInt(-26), "Merma")
	assert.ErrorIs(t, err, domain.ErrNegativeStock)
	assert.True(t, decimal.NewFromInt(25).Equal(s.materials[material.ID].CurrentStock))
	assert.Len(t, s.ledger, 1, "el rechazo no escribe en el ledger")

	// Vaciar hasta exactamente cero sí es válido.
	adjusted, err := uc.AdjustStock(ctx, "user-1", material.ID, decimal.NewFromInt(-25), "Cierre de inventario")
	require.NoError(t, err)
	assert.True(t, adjusted.CurrentStock.IsZero())
}

func TestAdjustStock_Validaciones(t *testing.T) {
	uc, _ := buildInvFixture(t)
	ctx := context.Background()

	_, err := uc.AdjustStock(ctx, "u", "cualquiera", decimal.Zero, "razón")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.AdjustStock(ctx, "u", "cualquiera", decimal.NewFromInt(1), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.AdjustStock(ctx, "u", "no-existe", decimal.NewFromInt(1), "razón")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateMaterial
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateMaterial_NoTocaStock(t *testing.T) {
	uc, _ := buildInvFixture(t)
	ctx := context.Background()

	material, err := uc.CreateMaterial(ctx, "user-1", validCreateReq())
	require.NoError(t, err)

	updated, err := uc.UpdateMaterial(ctx, material.ID, dto.UpdateMaterialRequest{
		Name:         "Lona reforzada",
		RMID:         "RM-017",
		MaterialType: entity.MaterialTypeFabric,
		ColourCode:   "BLK",
		Unit:         entity.UnitKG,
		CostPerUnit:  decimal.NewFromFloat(92.00),
		VendorID:     supplierID,
		ReorderLevel: decimal.NewFromInt(8),
	})
	require.NoError(t, err)
	assert.Equal(t, "Lona reforzada", updated.Name)
	assert.True(t, decimal.NewFromInt(25).Equal(updated.CurrentStock), "el stock solo cambia vía ledger")
}

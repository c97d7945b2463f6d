package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talegos/bagmfg-api/internal/application/dto"
	"github.com/talegos/bagmfg-api/internal/application/usecase"
	"github.com/talegos/bagmfg-api/internal/domain"
	"github.com/talegos/bagmfg-api/internal/domain/entity"
	"github.com/talegos/bagmfg-api/internal/domain/repository"
)

type fakePartnerRepo struct {
	partners map[string]*entity.Partner
}

func newFakePartnerRepo() *fakePartnerRepo {
	return &fakePartnerRepo{partners: make(map[string]*entity.Partner)}
}

func (r *fakePartnerRepo) Create(_ context.Context, p *entity.Partner) error {
	r.partners[p.ID] = p
	return nil
}

func (r *fakePartnerRepo) GetByID(_ context.Context, id string) (*entity.Partner, error) {
	return r.partners[id], nil
}

func (r *fakePartnerRepo) Update(_ context.Context, p *entity.Partner) error {
	r.partners[p.ID] = p
	return nil
}

func (r *fakePartnerRepo) List(_ context.Context, _ repository.PartnerFilter) ([]*entity.Partner, error) {
	out := make([]*entity.Partner, 0, len(r.partners))
	for _, p := range r.partners {
		out = append(out, p)
	}
	return out, nil
}

func supplierRequest() dto.PartnerRequest {
	return dto.PartnerRequest{
		VendorID:     "ven-001",
		Name:         "Textiles del Norte",
		Type:         entity.PartnerTypeSupplier,
		GSTNumber:    "27aapfu0939f1zv",
		AddressLine1: "Plot 12, MIDC",
		City:         "Mumbai",
		State:        "Maharashtra",
		Pincode:      "400001",
	}
}

func TestPartnerCreate_NormalizaIdentificadores(t *testing.T) {
	uc := usecase.NewPartnerUseCase(newFakePartnerRepo())

	partner, err := uc.Create(context.Background(), supplierRequest())
	require.NoError(t, err)

	assert.Equal(t, "VEN-001", partner.VendorID)
	assert.Equal(t, "27AAPFU0939F1ZV", partner.GSTNumber, "el GSTIN se normaliza antes de validar")
	assert.True(t, partner.IsSupplier())
}

func TestPartnerCreate_Rechazos(t *testing.T) {
	uc := usecase.NewPartnerUseCase(newFakePartnerRepo())
	ctx := context.Background()

	req := supplierRequest()
	req.GSTNumber = "GSTIN-INVALIDO"
	_, err := uc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = supplierRequest()
	req.Pincode = "40001"
	_, err = uc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = supplierRequest()
	req.Type = "customer"
	_, err = uc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = supplierRequest()
	req.Name = ""
	_, err = uc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPartnerUpdate_CambiaTipo(t *testing.T) {
	repo := newFakePartnerRepo()
	uc := usecase.NewPartnerUseCase(repo)
	ctx := context.Background()

	partner, err := uc.Create(ctx, supplierRequest())
	require.NoError(t, err)

	req := supplierRequest()
	req.Type = entity.PartnerTypeBoth
	updated, err := uc.Update(ctx, partner.ID, req)
	require.NoError(t, err)
	assert.Equal(t, entity.PartnerTypeBoth, updated.Type)

	_, err = uc.Update(ctx, "no-existe", supplierRequest())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPartnerGetByID_NoEncontrado(t *testing.T) {
	uc := usecase.NewPartnerUseCase(newFakePartnerRepo())
	_, err := uc.GetByID(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

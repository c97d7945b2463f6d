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

// PartnerUseCase casos de uso CRUD para partners (proveedores y compradores).
type PartnerUseCase struct {
	repo repository.PartnerRepository
}

// NewPartnerUseCase construye el caso de uso.
func NewPartnerUseCase(repo repository.PartnerRepository) *PartnerUseCase {
	return &PartnerUseCase{repo: repo}
}

func validatePartner(in dto.PartnerRequest) error {
	if in.Name == "" || in.VendorID == "" {
		return domain.ErrInvalidInput
	}
	if !entity.ValidPartnerType(in.Type) {
		return domain.ErrInvalidInput
	}
	if !entity.ValidGSTNumber(in.GSTNumber) {
		return domain.ErrInvalidInput
	}
	if !entity.ValidPincode(in.Pincode) {
		return domain.ErrInvalidInput
	}
	return nil
}

// Create crea un partner. El GSTIN se normaliza a mayúsculas antes de validar.
func (uc *PartnerUseCase) Create(ctx context.Context, in dto.PartnerRequest) (*entity.Partner, error) {
	in.VendorID = strings.ToUpper(strings.TrimSpace(in.VendorID))
	in.GSTNumber = strings.ToUpper(strings.TrimSpace(in.GSTNumber))
	if err := validatePartner(in); err != nil {
		return nil, err
	}
	partner := &entity.Partner{
		ID:            uuid.New().String(),
		VendorID:      in.VendorID,
		Name:          in.Name,
		Type:          in.Type,
		GSTNumber:     in.GSTNumber,
		AddressLine1:  in.AddressLine1,
		AddressLine2:  in.AddressLine2,
		City:          in.City,
		State:         in.State,
		Pincode:       in.Pincode,
		ContactPerson: in.ContactPerson,
		Phone:         in.Phone,
		Email:         in.Email,
		CreatedAt:     time.Now(),
	}
	if err := uc.repo.Create(ctx, partner); err != nil {
		return nil, err
	}
	return partner, nil
}

// Update actualiza los datos de un partner existente.
func (uc *PartnerUseCase) Update(ctx context.Context, id string, in dto.PartnerRequest) (*entity.Partner, error) {
	in.VendorID = strings.ToUpper(strings.TrimSpace(in.VendorID))
	in.GSTNumber = strings.ToUpper(strings.TrimSpace(in.GSTNumber))
	if err := validatePartner(in); err != nil {
		return nil, err
	}
	partner, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, domain.ErrNotFound
	}
	partner.VendorID = in.VendorID
	partner.Name = in.Name
	partner.Type = in.Type
	partner.GSTNumber = in.GSTNumber
	partner.AddressLine1 = in.AddressLine1
	partner.AddressLine2 = in.AddressLine2
	partner.City = in.City
	partner.State = in.State
	partner.Pincode = in.Pincode
	partner.ContactPerson = in.ContactPerson
	partner.Phone = in.Phone
	partner.Email = in.Email
	if err := uc.repo.Update(ctx, partner); err != nil {
		return nil, err
	}
	return partner, nil
}

// GetByID obtiene un partner por id.
func (uc *PartnerUseCase) GetByID(ctx context.Context, id string) (*entity.Partner, error) {
	partner, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, domain.ErrNotFound
	}
	return partner, nil
}

// List lista partners con filtros.
func (uc *PartnerUseCase) List(ctx context.Context, filter repository.PartnerFilter) ([]*entity.Partner, error) {
	return uc.repo.List(ctx, filter)
}

package repository

import (
	"context"

	"github.com/talegos/bagmfg-api/internal/domain/entity"
)

// PartnerFilter filtros de listado de partners.
type PartnerFilter struct {
	Type   string // supplier, buyer, both; vacío = todos
	Search string // nombre, vendor_id o contacto
	Limit  int
	Offset int
}

// PartnerRepository define el puerto de persistencia para Partner.
type PartnerRepository interface {
	Create(ctx context.Context, partner *entity.Partner) error
	GetByID(ctx context.Context, id string) (*entity.Partner, error)
	Update(ctx context.Context, partner *entity.Partner) error
	List(ctx context.Context, filter PartnerFilter) ([]*entity.Partner, error)
}

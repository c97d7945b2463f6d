package repository

import (
	"context"

	"github.com/talegos/bagmfg-api/internal/domain/entity"
)

// ProductionOrderFilter filtros de listado de órdenes de producción.
type ProductionOrderFilter struct {
	Status    string
	ProductID string
	Limit     int
	Offset    int
}

// ProductionOrderRepository define el puerto de persistencia para órdenes de producción.
type ProductionOrderRepository interface {
	Create(ctx context.Context, order *entity.ProductionOrder) error
	GetByID(ctx context.Context, id string) (*entity.ProductionOrder, error)
	GetForUpdate(ctx context.Context, id string) (*entity.ProductionOrder, error)
	Update(ctx context.Context, order *entity.ProductionOrder) error
	CreateConsumptions(ctx context.Context, orderID string, consumptions []entity.ProductionConsumption) error
	ListConsumptions(ctx context.Context, orderID string) ([]entity.ProductionConsumption, error)
	List(ctx context.Context, filter ProductionOrderFilter) ([]*entity.ProductionOrder, error)
}

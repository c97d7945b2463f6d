package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/talegos/bagmfg-api/internal/domain/entity"
)

// PurchaseOrderFilter filtros de listado de órdenes de compra.
type PurchaseOrderFilter struct {
	Status   string
	VendorID string
	Search   string // nombre de proveedor, notas, material o número de orden
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

// PurchaseOrderRepository define el puerto de persistencia para órdenes de compra.
// GetByID y GetForUpdate cargan la cabecera con sus líneas; GetForUpdate además
// bloquea la cabecera (SELECT FOR UPDATE) para serializar recepciones/cancelaciones.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, order *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	UpdateHeader(ctx context.Context, order *entity.PurchaseOrder) error
	UpdateItemReceived(ctx context.Context, itemID string, received decimal.Decimal) error
	List(ctx context.Context, filter PurchaseOrderFilter) ([]*entity.PurchaseOrder, error)
}

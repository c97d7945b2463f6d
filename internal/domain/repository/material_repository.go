package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/talegos/bagmfg-api/internal/domain/entity"
)

// MaterialFilter filtros de listado de materias primas.
type MaterialFilter struct {
	MaterialType string
	Search       string // nombre, rm_id, code o colour
	LowStockOnly bool
	Limit        int
	Offset       int
}

// MaterialRepository define el puerto de persistencia para Material.
// Los métodos *ForUpdate bloquean la fila (SELECT FOR UPDATE) y solo tienen
// sentido dentro de una transacción.
type MaterialRepository interface {
	Create(ctx context.Context, material *entity.Material) error
	GetByID(ctx context.Context, id string) (*entity.Material, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Material, error)
	// LockByIDs bloquea varias filas en orden estable (por id) para evitar deadlocks
	// entre operaciones concurrentes que tocan los mismos materiales.
	LockByIDs(ctx context.Context, ids []string) (map[string]*entity.Material, error)
	Update(ctx context.Context, material *entity.Material) error
	UpdateStock(ctx context.Context, id string, stock decimal.Decimal) error
	ReplaceVendorLinks(ctx context.Context, materialID string, vendorIDs []string) error
	List(ctx context.Context, filter MaterialFilter) ([]*entity.Material, error)
	ListByVendor(ctx context.Context, vendorID string) ([]*entity.Material, error)
}

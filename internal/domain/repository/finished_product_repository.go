package repository

import (
	"context"

	"github.com/talegos/bagmfg-api/internal/domain/entity"
)

// FinishedProductRepository define el puerto para productos terminados y su BOM.
// Create y Update persisten las líneas de BOM junto con la cabecera.
type FinishedProductRepository interface {
	Create(ctx context.Context, product *entity.FinishedProduct) error
	GetByID(ctx context.Context, id string) (*entity.FinishedProduct, error)
	GetBySKU(ctx context.Context, sku string) (*entity.FinishedProduct, error)
	Update(ctx context.Context, product *entity.FinishedProduct) error
	List(ctx context.Context, limit, offset int) ([]*entity.FinishedProduct, error)
	// GetStockForUpdate bloquea (o inicializa en cero) el saldo de producto terminado.
	GetStockForUpdate(ctx context.Context, productID string) (*entity.FinishedStock, error)
	UpsertStock(ctx context.Context, stock *entity.FinishedStock) error
}

package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/talegos/bagmfg-api/internal/domain/entity"
)

// LedgerRepository define el puerto del ledger de materias primas.
// Append-only: no hay Update ni Delete.
type LedgerRepository interface {
	Append(ctx context.Context, entry *entity.LedgerEntry) error
	ListByMaterial(ctx context.Context, materialID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.LedgerEntry, error)
	// SumByMaterial devuelve la suma con signo de todas las entradas del material,
	// para auditar que coincida con la caché current_stock.
	SumByMaterial(ctx context.Context, materialID string) (decimal.Decimal, error)
}

// FinishedLedgerRepository es el puerto del ledger de producto terminado.
type FinishedLedgerRepository interface {
	Append(ctx context.Context, entry *entity.FinishedLedgerEntry) error
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.FinishedLedgerEntry, error)
}

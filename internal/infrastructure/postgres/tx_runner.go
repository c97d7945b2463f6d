package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/talegos/bagmfg-api/internal/application/inventory"
	"github.com/talegos/bagmfg-api/internal/application/production"
	"github.com/talegos/bagmfg-api/internal/application/purchasing"
	"github.com/talegos/bagmfg-api/internal/domain/repository"
)

// Ensure TxRunner implements the application TxRunner ports.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ production.TxRunner = (*TxRunner)(nil)
var _ purchasing.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	matRepo repository.MaterialRepository,
	ledgerRepo repository.LedgerRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	matRepo := NewMaterialRepository(tx)
	ledgerRepo := NewLedgerRepository(tx)

	if err := fn(matRepo, ledgerRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunProduction inicia una transacción con los repos del flujo de producción
// (descuento de BOM, órdenes, producto terminado).
func (r *TxRunner) RunProduction(ctx context.Context, fn func(
	matRepo repository.MaterialRepository,
	ledgerRepo repository.LedgerRepository,
	orderRepo repository.ProductionOrderRepository,
	productRepo repository.FinishedProductRepository,
	finLedgerRepo repository.FinishedLedgerRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	matRepo := NewMaterialRepository(tx)
	ledgerRepo := NewLedgerRepository(tx)
	orderRepo := NewProductionOrderRepository(tx)
	productRepo := NewFinishedProductRepository(tx)
	finLedgerRepo := NewFinishedLedgerRepository(tx)

	if err := fn(matRepo, ledgerRepo, orderRepo, productRepo, finLedgerRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunPurchasing inicia una transacción con los repos del flujo de compras
// (recepciones parciales: stock, ledger y orden en la misma tx).
func (r *TxRunner) RunPurchasing(ctx context.Context, fn func(
	matRepo repository.MaterialRepository,
	ledgerRepo repository.LedgerRepository,
	poRepo repository.PurchaseOrderRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	matRepo := NewMaterialRepository(tx)
	ledgerRepo := NewLedgerRepository(tx)
	poRepo := NewPurchaseOrderRepository(tx)

	if err := fn(matRepo, ledgerRepo, poRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

package production

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/talegos/bagmfg-api/internal/application/dto"
	"github.com/talegos/bagmfg-api/internal/domain"
	"github.com/talegos/bagmfg-api/internal/domain/entity"
	"github.com/talegos/bagmfg-api/internal/domain/repository"
)

// ProductionUseCase orquesta el ciclo de vida de las órdenes de producción:
// explosión de BOM, verificación de disponibilidad y descuento atómico de stock.
type ProductionUseCase struct {
	txRunner    TxRunner
	productRepo repository.FinishedProductRepository
	orderRepo   repository.ProductionOrderRepository
}

// NewProductionUseCase construye el caso de uso.
func NewProductionUseCase(
	txRunner TxRunner,
	productRepo repository.FinishedProductRepository,
	orderRepo repository.ProductionOrderRepository,
) *ProductionUseCase {
	return &ProductionUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

// expandBOM calcula los requerimientos: qty_per_unit × cantidad, a 3 decimales.
func expandBOM(orderID string, bom []entity.BOMItem, quantity int64) []entity.ProductionConsumption {
	qty := decimal.NewFromInt(quantity)
	reqs := make([]entity.ProductionConsumption, 0, len(bom))
	for _, item := range bom {
		reqs = append(reqs, entity.ProductionConsumption{
			ProductionOrderID: orderID,
			MaterialID:        item.MaterialID,
			RequiredQty:       item.QtyPerUnit.Mul(qty).Round(3),
		})
	}
	return reqs
}

// deductForOrder bloquea todos los materiales requeridos, verifica disponibilidad
// y descuenta escribiendo las entradas OUT del ledger. Si hay cualquier faltante
// devuelve ShortageError con la lista completa y no muta nada (la tx hace rollback).
func deductForOrder(
	ctx context.Context,
	matRepo repository.MaterialRepository,
	ledgerRepo repository.LedgerRepository,
	reqs []entity.ProductionConsumption,
	orderID, userID, reason string,
) error {
	ids := make([]string, 0, len(reqs))
	for _, req := range reqs {
		ids = append(ids, req.MaterialID)
	}
	materials, err := matRepo.LockByIDs(ctx, ids)
	if err != nil {
		return err
	}

	var shortages []entity.Shortage
	for _, req := range reqs {
		material, ok := materials[req.MaterialID]
		if !ok {
			return domain.ErrNotFound
		}
		if material.CurrentStock.LessThan(req.RequiredQty) {
			shortages = append(shortages, entity.Shortage{
				MaterialID:   material.ID,
				MaterialName: material.Name,
				Required:     req.RequiredQty,
				Available:    material.CurrentStock,
				Unit:         material.Unit,
			})
		}
	}
	if len(shortages) > 0 {
		return &ShortageError{Shortages: shortages}
	}

	now := time.Now()
	for _, req := range reqs {
		material := materials[req.MaterialID]
		newStock := material.CurrentStock.Sub(req.RequiredQty)
		if err := matRepo.UpdateStock(ctx, material.ID, newStock); err != nil {
			return err
		}
		material.CurrentStock = newStock
		if err := ledgerRepo.Append(ctx, &entity.LedgerEntry{
			MaterialID:    material.ID,
			TxnType:       entity.TxnTypeOUT,
			Quantity:      req.RequiredQty,
			Unit:          material.Unit,
			Reason:        reason,
			ReferenceType: entity.RefProductionOrder,
			ReferenceID:   orderID,
			CreatedBy:     userID,
			CreatedAt:     now,
		}); err != nil {
			return err
		}
	}
	return nil
}

// CreateOrder crea una orden de producción. Por defecto verifica y descuenta las
// materias primas en la misma transacción (todo o nada); con RequestRMRelease la
// orden queda en awaiting_rm_release y el descuento se difiere a ReleaseRM.
func (uc *ProductionUseCase) CreateOrder(ctx context.Context, userID string, in dto.CreateProductionOrderRequest) (*entity.ProductionOrder, error) {
	if in.Quantity < 1 {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if len(product.BOM) == 0 {
		return nil, domain.ErrEmptyBOM
	}

	order := &entity.ProductionOrder{
		ID:         uuid.New().String(),
		ProductID:  product.ID,
		Quantity:   in.Quantity,
		PlannedQty: decimal.NewFromInt(in.Quantity).Round(3),
		Notes:      in.Notes,
		CreatedBy:  userID,
		CreatedAt:  time.Now(),
	}
	reqs := expandBOM(order.ID, product.BOM, in.Quantity)

	err = uc.txRunner.RunProduction(ctx, func(
		matRepo repository.MaterialRepository,
		ledgerRepo repository.LedgerRepository,
		orderRepo repository.ProductionOrderRepository,
		_ repository.FinishedProductRepository,
		_ repository.FinishedLedgerRepository,
	) error {
		if in.RequestRMRelease {
			order.Status = entity.ProductionAwaitingRMRelease
			order.RawMaterialReleased = false
		} else {
			reason := fmt.Sprintf("Consumed by production order %s", order.ID)
			if err := deductForOrder(ctx, matRepo, ledgerRepo, reqs, order.ID, userID, reason); err != nil {
				return err
			}
			order.Status = entity.ProductionPlanned
			order.RawMaterialReleased = true
		}
		if err := orderRepo.Create(ctx, order); err != nil {
			return err
		}
		return orderRepo.CreateConsumptions(ctx, order.ID, reqs)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ReleaseRM descuenta las materias primas de una orden en awaiting_rm_release.
func (uc *ProductionUseCase) ReleaseRM(ctx context.Context, userID, orderID string) (*entity.ProductionOrder, error) {
	var released *entity.ProductionOrder
	err := uc.txRunner.RunProduction(ctx, func(
		matRepo repository.MaterialRepository,
		ledgerRepo repository.LedgerRepository,
		orderRepo repository.ProductionOrderRepository,
		_ repository.FinishedProductRepository,
		_ repository.FinishedLedgerRepository,
	) error {
		order, err := orderRepo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status != entity.ProductionAwaitingRMRelease || order.RawMaterialReleased {
			return domain.ErrInvalidTransition
		}
		reqs, err := orderRepo.ListConsumptions(ctx, orderID)
		if err != nil {
			return err
		}
		if len(reqs) == 0 {
			return domain.ErrEmptyBOM
		}
		reason := fmt.Sprintf("Released for production order %s", orderID)
		if err := deductForOrder(ctx, matRepo, ledgerRepo, reqs, orderID, userID, reason); err != nil {
			return err
		}
		order.RawMaterialReleased = true
		order.Status = entity.ProductionPlanned
		if err := orderRepo.Update(ctx, order); err != nil {
			return err
		}
		released = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return released, nil
}

// RejectRM rechaza una solicitud de materiales: awaiting_rm_release -> cancelled.
func (uc *ProductionUseCase) RejectRM(ctx context.Context, orderID string) (*entity.ProductionOrder, error) {
	var rejected *entity.ProductionOrder
	err := uc.txRunner.RunProduction(ctx, func(
		_ repository.MaterialRepository,
		_ repository.LedgerRepository,
		orderRepo repository.ProductionOrderRepository,
		_ repository.FinishedProductRepository,
		_ repository.FinishedLedgerRepository,
	) error {
		order, err := orderRepo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status != entity.ProductionAwaitingRMRelease || order.RawMaterialReleased {
			return domain.ErrInvalidTransition
		}
		order.Status = entity.ProductionCancelled
		if err := orderRepo.Update(ctx, order); err != nil {
			return err
		}
		rejected = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rejected, nil
}

// UpdateStatus mueve la orden entre planned e in_progress. Los estados terminales
// y awaiting_rm_release se gestionan por sus operaciones propias.
func (uc *ProductionUseCase) UpdateStatus(ctx context.Context, orderID, next string) (*entity.ProductionOrder, error) {
	if next != entity.ProductionPlanned && next != entity.ProductionInProgress {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.ProductionOrder
	err := uc.txRunner.RunProduction(ctx, func(
		_ repository.MaterialRepository,
		_ repository.LedgerRepository,
		orderRepo repository.ProductionOrderRepository,
		_ repository.FinishedProductRepository,
		_ repository.FinishedLedgerRepository,
	) error {
		order, err := orderRepo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		switch order.Status {
		case entity.ProductionAwaitingRMRelease, entity.ProductionCancelled, entity.ProductionCompleted:
			return domain.ErrInvalidTransition
		}
		if next == entity.ProductionInProgress && !order.RawMaterialReleased {
			return domain.ErrInvalidTransition
		}
		order.Status = next
		if err := orderRepo.Update(ctx, order); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Complete cierra la orden: suma lo producido al stock de producto terminado y
// escribe la entrada IN del ledger de terminados, todo en una transacción.
func (uc *ProductionUseCase) Complete(ctx context.Context, userID, orderID string, produced, scrap decimal.Decimal) (*entity.ProductionOrder, error) {
	produced = produced.Round(3)
	scrap = scrap.Round(3)
	if !produced.IsPositive() || scrap.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	var completed *entity.ProductionOrder
	err := uc.txRunner.RunProduction(ctx, func(
		_ repository.MaterialRepository,
		_ repository.LedgerRepository,
		orderRepo repository.ProductionOrderRepository,
		productRepo repository.FinishedProductRepository,
		finLedgerRepo repository.FinishedLedgerRepository,
	) error {
		order, err := orderRepo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status == entity.ProductionCancelled || order.Status == entity.ProductionCompleted {
			return domain.ErrInvalidTransition
		}

		stock, err := productRepo.GetStockForUpdate(ctx, order.ProductID)
		if err != nil {
			return err
		}
		stock.CurrentStock = stock.CurrentStock.Add(produced)
		if err := productRepo.UpsertStock(ctx, stock); err != nil {
			return err
		}
		if err := finLedgerRepo.Append(ctx, &entity.FinishedLedgerEntry{
			ProductID:     order.ProductID,
			TxnType:       entity.TxnTypeIN,
			Quantity:      produced,
			Reason:        fmt.Sprintf("Completed production order %s", order.ID),
			ReferenceType: entity.RefProductionOrder,
			ReferenceID:   order.ID,
			CreatedBy:     userID,
			CreatedAt:     time.Now(),
		}); err != nil {
			return err
		}

		now := time.Now()
		order.Status = entity.ProductionCompleted
		order.ProducedQty = produced
		order.ScrapQty = scrap
		order.CompletedBy = userID
		order.CompletedAt = &now
		if err := orderRepo.Update(ctx, order); err != nil {
			return err
		}
		completed = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return completed, nil
}

// Cancel cancela la orden. Si las materias primas ya fueron liberadas, las
// devuelve al stock con entradas IN compensatorias (nunca se edita el ledger).
func (uc *ProductionUseCase) Cancel(ctx context.Context, userID, orderID string) (*entity.ProductionOrder, error) {
	var cancelled *entity.ProductionOrder
	err := uc.txRunner.RunProduction(ctx, func(
		matRepo repository.MaterialRepository,
		ledgerRepo repository.LedgerRepository,
		orderRepo repository.ProductionOrderRepository,
		_ repository.FinishedProductRepository,
		_ repository.FinishedLedgerRepository,
	) error {
		order, err := orderRepo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status == entity.ProductionCancelled || order.Status == entity.ProductionCompleted {
			return domain.ErrInvalidTransition
		}

		if order.RawMaterialReleased {
			reqs, err := orderRepo.ListConsumptions(ctx, orderID)
			if err != nil {
				return err
			}
			ids := make([]string, 0, len(reqs))
			for _, req := range reqs {
				ids = append(ids, req.MaterialID)
			}
			materials, err := matRepo.LockByIDs(ctx, ids)
			if err != nil {
				return err
			}
			now := time.Now()
			for _, req := range reqs {
				material, ok := materials[req.MaterialID]
				if !ok {
					continue
				}
				newStock := material.CurrentStock.Add(req.RequiredQty)
				if err := matRepo.UpdateStock(ctx, material.ID, newStock); err != nil {
					return err
				}
				material.CurrentStock = newStock
				if err := ledgerRepo.Append(ctx, &entity.LedgerEntry{
					MaterialID:    material.ID,
					TxnType:       entity.TxnTypeIN,
					Quantity:      req.RequiredQty,
					Unit:          material.Unit,
					Reason:        fmt.Sprintf("Reverted by cancelling production order %s", order.ID),
					ReferenceType: entity.RefProductionOrder,
					ReferenceID:   order.ID,
					CreatedBy:     userID,
					CreatedAt:     now,
				}); err != nil {
					return err
				}
			}
		}

		order.Status = entity.ProductionCancelled
		if err := orderRepo.Update(ctx, order); err != nil {
			return err
		}
		cancelled = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// GetOrder devuelve una orden por id.
func (uc *ProductionUseCase) GetOrder(ctx context.Context, id string) (*entity.ProductionOrder, error) {
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

// ListOrders lista órdenes con filtros.
func (uc *ProductionUseCase) ListOrders(ctx context.Context, filter repository.ProductionOrderFilter) ([]*entity.ProductionOrder, error) {
	return uc.orderRepo.List(ctx, filter)
}

// ListConsumptions devuelve los requerimientos de material de una orden.
func (uc *ProductionUseCase) ListConsumptions(ctx context.Context, orderID string) ([]entity.ProductionConsumption, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return uc.orderRepo.ListConsumptions(ctx, orderID)
}

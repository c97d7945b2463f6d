package purchasing

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

// PurchasingUseCase orquesta las órdenes de compra: creación con proveedor
// habilitado por material, recepciones parciales atómicas y cancel/reopen.
type PurchasingUseCase struct {
	txRunner     TxRunner
	partnerRepo  repository.PartnerRepository
	materialRepo repository.MaterialRepository
	poRepo       repository.PurchaseOrderRepository
}

// NewPurchasingUseCase construye el caso de uso.
func NewPurchasingUseCase(
	txRunner TxRunner,
	partnerRepo repository.PartnerRepository,
	materialRepo repository.MaterialRepository,
	poRepo repository.PurchaseOrderRepository,
) *PurchasingUseCase {
	return &PurchasingUseCase{
		txRunner:     txRunner,
		partnerRepo:  partnerRepo,
		materialRepo: materialRepo,
		poRepo:       poRepo,
	}
}

// CreateOrder crea una orden de compra. Solo se admiten materiales cuyo material
// tenga al proveedor elegido como habilitado.
func (uc *PurchasingUseCase) CreateOrder(ctx context.Context, userID string, in dto.CreatePurchaseOrderRequest) (*entity.PurchaseOrder, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	orderDate, err := time.Parse("2006-01-02", in.OrderDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	vendor, err := uc.partnerRepo.GetByID(ctx, in.VendorID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, domain.ErrNotFound
	}
	if !vendor.IsSupplier() {
		return nil, domain.ErrVendorNotSupplier
	}

	order := &entity.PurchaseOrder{
		ID:        uuid.New().String(),
		VendorID:  vendor.ID,
		OrderDate: orderDate,
		Status:    entity.PurchaseOpen,
		Notes:     in.Notes,
		CreatedBy: userID,
		CreatedAt: time.Now(),
	}
	for _, line := range in.Lines {
		if !line.Quantity.IsPositive() || line.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		material, err := uc.materialRepo.GetByID(ctx, line.MaterialID)
		if err != nil {
			return nil, err
		}
		if material == nil {
			return nil, domain.ErrNotFound
		}
		if !material.HasVendor(vendor.ID) {
			return nil, domain.ErrMaterialNotFromVendor
		}
		order.Items = append(order.Items, entity.PurchaseOrderItem{
			ID:              uuid.New().String(),
			PurchaseOrderID: order.ID,
			MaterialID:      material.ID,
			Quantity:        line.Quantity,
			Unit:            material.Unit,
			UnitPrice:       line.UnitPrice,
		})
	}

	err = uc.txRunner.RunPurchasing(ctx, func(
		_ repository.MaterialRepository,
		_ repository.LedgerRepository,
		poRepo repository.PurchaseOrderRepository,
	) error {
		return poRepo.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Receive registra una recepción parcial: lines mapea item_id a la cantidad que
// llega ahora; vacío significa recibir todo lo pendiente. Todas las líneas de la
// acción se aplican en una transacción (stock, ledger, línea y estado derivado) o
// ninguna lo hace.
func (uc *PurchasingUseCase) Receive(ctx context.Context, userID, orderID string, lines map[string]decimal.Decimal) (*entity.PurchaseOrder, error) {
	var received *entity.PurchaseOrder
	err := uc.txRunner.RunPurchasing(ctx, func(
		matRepo repository.MaterialRepository,
		ledgerRepo repository.LedgerRepository,
		poRepo repository.PurchaseOrderRepository,
	) error {
		order, err := poRepo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status == entity.PurchaseCancelled || order.Status == entity.PurchaseReceived {
			return domain.ErrInvalidTransition
		}
		if len(order.Items) == 0 {
			return domain.ErrInvalidInput
		}

		itemByID := make(map[string]*entity.PurchaseOrderItem, len(order.Items))
		for i := range order.Items {
			itemByID[order.Items[i].ID] = &order.Items[i]
		}

		// Resolver cantidades: explícitas (solo positivas) o todo lo pendiente.
		quantities := make(map[string]decimal.Decimal)
		for itemID, qty := range lines {
			if !qty.IsPositive() {
				continue
			}
			item, ok := itemByID[itemID]
			if !ok {
				return domain.ErrInvalidInput
			}
			if qty.GreaterThan(item.PendingQuantity()) {
				return domain.ErrOverReceipt
			}
			quantities[itemID] = qty
		}
		if len(lines) > 0 && len(quantities) == 0 {
			return domain.ErrInvalidInput
		}
		if len(lines) == 0 {
			for _, item := range order.Items {
				if item.PendingQuantity().IsPositive() {
					quantities[item.ID] = item.PendingQuantity()
				}
			}
			if len(quantities) == 0 {
				return domain.ErrInvalidInput
			}
		}

		materialIDs := make([]string, 0, len(quantities))
		for itemID := range quantities {
			materialIDs = append(materialIDs, itemByID[itemID].MaterialID)
		}
		materials, err := matRepo.LockByIDs(ctx, materialIDs)
		if err != nil {
			return err
		}

		now := time.Now()
		for i := range order.Items {
			item := &order.Items[i]
			qty, ok := quantities[item.ID]
			if !ok {
				continue
			}
			material, ok := materials[item.MaterialID]
			if !ok {
				return domain.ErrNotFound
			}
			newStock := material.CurrentStock.Add(qty)
			if err := matRepo.UpdateStock(ctx, material.ID, newStock); err != nil {
				return err
			}
			material.CurrentStock = newStock

			item.ReceivedQuantity = item.ReceivedQuantity.Add(qty)
			if err := poRepo.UpdateItemReceived(ctx, item.ID, item.ReceivedQuantity); err != nil {
				return err
			}
			if err := ledgerRepo.Append(ctx, &entity.LedgerEntry{
				MaterialID:    material.ID,
				TxnType:       entity.TxnTypeIN,
				Quantity:      qty,
				Unit:          item.Unit,
				Reason:        fmt.Sprintf("Received against purchase order %s (%s)", order.ID, material.Name),
				ReferenceType: entity.RefPurchaseOrder,
				ReferenceID:   order.ID,
				CreatedBy:     userID,
				CreatedAt:     now,
			}); err != nil {
				return err
			}
		}

		// Estado siempre recalculado de las líneas, nunca almacenado como transición.
		order.Status = entity.DerivePurchaseStatus(order.Items)
		if order.Status == entity.PurchaseReceived {
			order.ReceivedBy = userID
			order.ReceivedAt = &now
		}
		if err := poRepo.UpdateHeader(ctx, order); err != nil {
			return err
		}
		received = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return received, nil
}

// Cancel marca la orden como cancelada. Solo desde open o partially_received.
func (uc *PurchasingUseCase) Cancel(ctx context.Context, userID, orderID string) (*entity.PurchaseOrder, error) {
	var cancelled *entity.PurchaseOrder
	err := uc.txRunner.RunPurchasing(ctx, func(
		_ repository.MaterialRepository,
		_ repository.LedgerRepository,
		poRepo repository.PurchaseOrderRepository,
	) error {
		order, err := poRepo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if !order.CanCancel() {
			return domain.ErrInvalidTransition
		}
		now := time.Now()
		order.Status = entity.PurchaseCancelled
		order.CancelledBy = userID
		order.CancelledAt = &now
		if err := poRepo.UpdateHeader(ctx, order); err != nil {
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

// Reopen revierte una cancelación. El estado no se replaya: se recalcula de las
// líneas actuales, por si hubo deriva entre cancelar y reabrir.
func (uc *PurchasingUseCase) Reopen(ctx context.Context, orderID string) (*entity.PurchaseOrder, error) {
	var reopened *entity.PurchaseOrder
	err := uc.txRunner.RunPurchasing(ctx, func(
		_ repository.MaterialRepository,
		_ repository.LedgerRepository,
		poRepo repository.PurchaseOrderRepository,
	) error {
		order, err := poRepo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if !order.CanReopen() {
			return domain.ErrInvalidTransition
		}
		if len(order.Items) == 0 {
			return domain.ErrInvalidInput
		}
		pending := false
		for i := range order.Items {
			if order.Items[i].PendingQuantity().IsPositive() {
				pending = true
				break
			}
		}
		if !pending {
			return domain.ErrInvalidTransition
		}
		order.Status = entity.DerivePurchaseStatus(order.Items)
		order.CancelledBy = ""
		order.CancelledAt = nil
		if err := poRepo.UpdateHeader(ctx, order); err != nil {
			return err
		}
		reopened = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reopened, nil
}

// GetOrder devuelve una orden por id con sus líneas.
func (uc *PurchasingUseCase) GetOrder(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	order, err := uc.poRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

// ListOrders lista órdenes con filtros (estado, proveedor, fechas, texto libre).
func (uc *PurchasingUseCase) ListOrders(ctx context.Context, filter repository.PurchaseOrderFilter) ([]*entity.PurchaseOrder, error) {
	return uc.poRepo.List(ctx, filter)
}

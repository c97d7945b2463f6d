package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/talegos/bagmfg-api/internal/domain/entity"
)

// ProductRequest body para crear o actualizar un producto terminado con su BOM.
type ProductRequest struct {
	Name string           `json:"name"`
	SKU  string           `json:"sku"`
	BOM  []BOMItemRequest `json:"bom"`
}

// BOMItemRequest línea del BOM en el request.
type BOMItemRequest struct {
	MaterialID string          `json:"material_id"`
	QtyPerUnit decimal.Decimal `json:"qty_per_unit"`
}

// ProductResponse representación HTTP de un producto terminado.
type ProductResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	SKU       string            `json:"sku"`
	BOM       []BOMItemResponse `json:"bom"`
	CreatedAt time.Time         `json:"created_at"`
}

// BOMItemResponse línea del BOM en la respuesta.
type BOMItemResponse struct {
	MaterialID string          `json:"material_id"`
	QtyPerUnit decimal.Decimal `json:"qty_per_unit"`
}

// ProductToResponse convierte la entidad al DTO de salida.
func ProductToResponse(p *entity.FinishedProduct) ProductResponse {
	bom := make([]BOMItemResponse, 0, len(p.BOM))
	for _, item := range p.BOM {
		bom = append(bom, BOMItemResponse{MaterialID: item.MaterialID, QtyPerUnit: item.QtyPerUnit})
	}
	return ProductResponse{ID: p.ID, Name: p.Name, SKU: p.SKU, BOM: bom, CreatedAt: p.CreatedAt}
}

// CreateProductionOrderRequest body para crear una orden de producción.
// Si RequestRMRelease es true, la orden queda en awaiting_rm_release sin descontar stock.
type CreateProductionOrderRequest struct {
	ProductID        string `json:"product_id"`
	Quantity         int64  `json:"quantity"`
	Notes            string `json:"notes,omitempty"`
	RequestRMRelease bool   `json:"request_rm_release,omitempty"`
}

// CompleteProductionOrderRequest body para completar una orden.
type CompleteProductionOrderRequest struct {
	ProducedQty decimal.Decimal `json:"produced_qty"`
	ScrapQty    decimal.Decimal `json:"scrap_qty"`
}

// ShortageDTO describe un faltante reportado al rechazar una orden por stock.
type ShortageDTO struct {
	MaterialID   string          `json:"material_id"`
	MaterialName string          `json:"material_name"`
	Required     decimal.Decimal `json:"required"`
	Available    decimal.Decimal `json:"available"`
	Unit         string          `json:"unit"`
}

// ProductionOrderResponse representación HTTP de una orden de producción.
type ProductionOrderResponse struct {
	ID                  string          `json:"id"`
	ProductID           string          `json:"product_id"`
	Quantity            int64           `json:"quantity"`
	PlannedQty          decimal.Decimal `json:"planned_qty"`
	ProducedQty         decimal.Decimal `json:"produced_qty"`
	ScrapQty            decimal.Decimal `json:"scrap_qty"`
	RawMaterialReleased bool            `json:"raw_material_released"`
	Status              string          `json:"status"`
	Notes               string          `json:"notes,omitempty"`
	CreatedBy           string          `json:"created_by,omitempty"`
	CompletedBy         string          `json:"completed_by,omitempty"`
	CompletedAt         *time.Time      `json:"completed_at,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
}

// ProductionOrderToResponse convierte la entidad al DTO de salida.
func ProductionOrderToResponse(o *entity.ProductionOrder) ProductionOrderResponse {
	return ProductionOrderResponse{
		ID:                  o.ID,
		ProductID:           o.ProductID,
		Quantity:            o.Quantity,
		PlannedQty:          o.PlannedQty,
		ProducedQty:         o.ProducedQty,
		ScrapQty:            o.ScrapQty,
		RawMaterialReleased: o.RawMaterialReleased,
		Status:              o.Status,
		Notes:               o.Notes,
		CreatedBy:           o.CreatedBy,
		CompletedBy:         o.CompletedBy,
		CompletedAt:         o.CompletedAt,
		CreatedAt:           o.CreatedAt,
	}
}

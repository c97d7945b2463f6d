package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/talegos/bagmfg-api/internal/domain/entity"
)

// CreatePurchaseOrderRequest body para crear una orden de compra.
type CreatePurchaseOrderRequest struct {
	VendorID  string                `json:"vendor_id"`
	OrderDate string                `json:"order_date"` // YYYY-MM-DD
	Notes     string                `json:"notes,omitempty"`
	Lines     []PurchaseLineRequest `json:"lines"`
}

// PurchaseLineRequest línea de la orden en el request.
type PurchaseLineRequest struct {
	MaterialID string          `json:"material_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

// ReceivePurchaseOrderRequest body para registrar una recepción parcial.
// Lines vacío = recibir todo lo pendiente.
type ReceivePurchaseOrderRequest struct {
	Lines map[string]decimal.Decimal `json:"lines,omitempty"` // item_id -> cantidad recibida ahora
}

// PurchaseOrderItemResponse línea de la orden en la respuesta.
type PurchaseOrderItemResponse struct {
	ID               string          `json:"id"`
	MaterialID       string          `json:"material_id"`
	Quantity         decimal.Decimal `json:"quantity"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	PendingQuantity  decimal.Decimal `json:"pending_quantity"`
	Unit             string          `json:"unit"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
}

// PurchaseOrderResponse representación HTTP de una orden de compra.
type PurchaseOrderResponse struct {
	ID          string                      `json:"id"`
	VendorID    string                      `json:"vendor_id"`
	OrderDate   string                      `json:"order_date"`
	Status      string                      `json:"status"`
	Notes       string                      `json:"notes,omitempty"`
	Items       []PurchaseOrderItemResponse `json:"items"`
	CreatedBy   string                      `json:"created_by,omitempty"`
	ReceivedBy  string                      `json:"received_by,omitempty"`
	ReceivedAt  *time.Time                  `json:"received_at,omitempty"`
	CancelledBy string                      `json:"cancelled_by,omitempty"`
	CancelledAt *time.Time                  `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time                   `json:"created_at"`
}

// PurchaseOrderToResponse convierte la entidad al DTO de salida.
func PurchaseOrderToResponse(o *entity.PurchaseOrder) PurchaseOrderResponse {
	items := make([]PurchaseOrderItemResponse, 0, len(o.Items))
	for i := range o.Items {
		it := &o.Items[i]
		items = append(items, PurchaseOrderItemResponse{
			ID:               it.ID,
			MaterialID:       it.MaterialID,
			Quantity:         it.Quantity,
			ReceivedQuantity: it.ReceivedQuantity,
			PendingQuantity:  it.PendingQuantity(),
			Unit:             it.Unit,
			UnitPrice:        it.UnitPrice,
		})
	}
	return PurchaseOrderResponse{
		ID:          o.ID,
		VendorID:    o.VendorID,
		OrderDate:   o.OrderDate.Format("2006-01-02"),
		Status:      o.Status,
		Notes:       o.Notes,
		Items:       items,
		CreatedBy:   o.CreatedBy,
		ReceivedBy:  o.ReceivedBy,
		ReceivedAt:  o.ReceivedAt,
		CancelledBy: o.CancelledBy,
		CancelledAt: o.CancelledAt,
		CreatedAt:   o.CreatedAt,
	}
}

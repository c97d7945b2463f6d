package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra. Todos menos cancelled se derivan de las líneas.
const (
	PurchaseOpen              = "open"
	PurchasePartiallyReceived = "partially_received"
	PurchaseReceived          = "received"
	PurchaseCancelled         = "cancelled"
)

// PurchaseOrder es una orden de compra multi-línea contra un proveedor.
type PurchaseOrder struct {
	ID          string
	VendorID    string
	OrderDate   time.Time
	Status      string
	Notes       string
	Items       []PurchaseOrderItem
	CreatedBy   string
	ReceivedBy  string
	ReceivedAt  *time.Time
	CancelledBy string
	CancelledAt *time.Time
	CreatedAt   time.Time
}

// PurchaseOrderItem es una línea de la orden: material, cantidad pedida y recibida.
type PurchaseOrderItem struct {
	ID               string
	PurchaseOrderID  string
	MaterialID       string
	Quantity         decimal.Decimal // > 0
	ReceivedQuantity decimal.Decimal // 0 <= recibido <= pedido
	Unit             string
	UnitPrice        decimal.Decimal
}

// PendingQuantity devuelve lo pendiente por recibir de la línea (nunca negativo).
func (i *PurchaseOrderItem) PendingQuantity() decimal.Decimal {
	pending := i.Quantity.Sub(i.ReceivedQuantity)
	if pending.IsNegative() {
		return decimal.Zero
	}
	return pending
}

// DerivePurchaseStatus calcula el estado de la orden como función pura de sus líneas.
// received si todas las líneas están completas; open si ninguna tiene recibos;
// partially_received en cualquier otro caso. El override cancelled no entra aquí.
func DerivePurchaseStatus(items []PurchaseOrderItem) string {
	allReceived := true
	anyReceived := false
	for i := range items {
		if items[i].ReceivedQuantity.LessThan(items[i].Quantity) {
			allReceived = false
		}
		if items[i].ReceivedQuantity.IsPositive() {
			anyReceived = true
		}
	}
	if len(items) > 0 && allReceived {
		return PurchaseReceived
	}
	if anyReceived {
		return PurchasePartiallyReceived
	}
	return PurchaseOpen
}

// CanReceive indica si la orden admite recepciones.
func (o *PurchaseOrder) CanReceive() bool {
	return o.Status == PurchaseOpen || o.Status == PurchasePartiallyReceived
}

// CanCancel indica si la orden puede cancelarse.
func (o *PurchaseOrder) CanCancel() bool {
	return o.Status == PurchaseOpen || o.Status == PurchasePartiallyReceived
}

// CanReopen indica si la orden puede reabrirse.
func (o *PurchaseOrder) CanReopen() bool {
	return o.Status == PurchaseCancelled
}

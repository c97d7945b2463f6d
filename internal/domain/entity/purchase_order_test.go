package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/talegos/bagmfg-api/internal/domain/entity"
)

func item(ordered, received float64) entity.PurchaseOrderItem {
	return entity.PurchaseOrderItem{
		Quantity:         decimal.NewFromFloat(ordered),
		ReceivedQuantity: decimal.NewFromFloat(received),
	}
}

// TestDerivePurchaseStatus cubre la derivación pura del estado a partir de las
// líneas: open sin recibos, partially_received con recibos parciales y received
// cuando todas las líneas están completas.
func TestDerivePurchaseStatus(t *testing.T) {
	cases := []struct {
		name  string
		items []entity.PurchaseOrderItem
		want  string
	}{
		{"sin líneas", nil, entity.PurchaseOpen},
		{"sin recibos", []entity.PurchaseOrderItem{item(10, 0), item(5, 0)}, entity.PurchaseOpen},
		{"recibo parcial en una línea", []entity.PurchaseOrderItem{item(10, 4), item(5, 0)}, entity.PurchasePartiallyReceived},
		{"una línea completa, otra pendiente", []entity.PurchaseOrderItem{item(10, 10), item(5, 0)}, entity.PurchasePartiallyReceived},
		{"todas completas", []entity.PurchaseOrderItem{item(10, 10), item(5, 5)}, entity.PurchaseReceived},
		{"cantidades fraccionarias completas", []entity.PurchaseOrderItem{item(2.5, 2.5)}, entity.PurchaseReceived},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, entity.DerivePurchaseStatus(tc.items))
		})
	}
}

// TestDerivePurchaseStatus_RecepcionIncremental simula dos recepciones sucesivas
// sobre la misma orden: la primera deja la orden parcial y la segunda la completa.
func TestDerivePurchaseStatus_RecepcionIncremental(t *testing.T) {
	items := []entity.PurchaseOrderItem{item(10, 0), item(5, 0)}

	items[0].ReceivedQuantity = items[0].ReceivedQuantity.Add(decimal.NewFromInt(4))
	items[1].ReceivedQuantity = items[1].ReceivedQuantity.Add(decimal.NewFromInt(5))
	assert.Equal(t, entity.PurchasePartiallyReceived, entity.DerivePurchaseStatus(items))

	items[0].ReceivedQuantity = items[0].ReceivedQuantity.Add(decimal.NewFromInt(6))
	assert.Equal(t, entity.PurchaseReceived, entity.DerivePurchaseStatus(items))
}

func TestPurchaseOrderItem_PendingQuantity(t *testing.T) {
	i := item(10, 4)
	assert.True(t, decimal.NewFromInt(6).Equal(i.PendingQuantity()))

	full := item(5, 5)
	assert.True(t, full.PendingQuantity().IsZero())

	// Nunca negativo aunque el dato esté corrupto.
	over := item(5, 7)
	assert.True(t, over.PendingQuantity().IsZero())
}

func TestPurchaseOrder_Transiciones(t *testing.T) {
	open := &entity.PurchaseOrder{Status: entity.PurchaseOpen}
	assert.True(t, open.CanReceive())
	assert.True(t, open.CanCancel())
	assert.False(t, open.CanReopen())

	partial := &entity.PurchaseOrder{Status: entity.PurchasePartiallyReceived}
	assert.True(t, partial.CanReceive())
	assert.True(t, partial.CanCancel())

	received := &entity.PurchaseOrder{Status: entity.PurchaseReceived}
	assert.False(t, received.CanReceive())
	assert.False(t, received.CanCancel())
	assert.False(t, received.CanReopen())

	cancelled := &entity.PurchaseOrder{Status: entity.PurchaseCancelled}
	assert.False(t, cancelled.CanReceive())
	assert.False(t, cancelled.CanCancel())
	assert.True(t, cancelled.CanReopen())
}

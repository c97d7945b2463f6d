package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción del ledger de inventario.
const (
	TxnTypeIN     = "IN"
	TxnTypeOUT    = "OUT"
	TxnTypeADJUST = "ADJUST"
)

// Tipos de referencia: qué operación originó la entrada.
const (
	RefOpeningStock     = "opening_stock"
	RefManualAdjustment = "manual_adjustment"
	RefProductionOrder  = "production_order"
	RefPurchaseOrder    = "purchase_order"
)

// LedgerEntry es una entrada inmutable del ledger de materias primas.
// Quantity siempre es positiva; el signo lo da TxnType (IN suma, OUT resta).
// Nunca se edita ni se borra: las correcciones son entradas compensatorias nuevas.
type LedgerEntry struct {
	ID            string
	MaterialID    string
	TxnType       string // IN, OUT, ADJUST
	Quantity      decimal.Decimal
	Unit          string
	Reason        string
	ReferenceType string
	ReferenceID   string
	CreatedBy     string
	CreatedAt     time.Time
}

// SignedDelta devuelve la variación de stock con signo que representa la entrada.
func (e *LedgerEntry) SignedDelta() decimal.Decimal {
	if e.TxnType == TxnTypeOUT {
		return e.Quantity.Neg()
	}
	return e.Quantity
}

// FinishedLedgerEntry es el equivalente del ledger para producto terminado.
type FinishedLedgerEntry struct {
	ID            string
	ProductID     string
	TxnType       string
	Quantity      decimal.Decimal
	Reason        string
	ReferenceType string
	ReferenceID   string
	CreatedBy     string
	CreatedAt     time.Time
}

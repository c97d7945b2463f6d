package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de producción.
const (
	ProductionAwaitingRMRelease = "awaiting_rm_release"
	ProductionPlanned           = "planned"
	ProductionInProgress        = "in_progress"
	ProductionCompleted         = "completed"
	ProductionCancelled         = "cancelled"
)

// ProductionOrder es una orden de producción sobre un producto terminado.
// Si RawMaterialReleased es true, las materias primas ya fueron descontadas del stock.
type ProductionOrder struct {
	ID                  string
	ProductID           string
	Quantity            int64 // unidades solicitadas, >= 1
	PlannedQty          decimal.Decimal
	ProducedQty         decimal.Decimal
	ScrapQty            decimal.Decimal
	RawMaterialReleased bool
	Status              string
	Notes               string
	CreatedBy           string
	CompletedBy         string
	CompletedAt         *time.Time
	CreatedAt           time.Time
}

// ProductionConsumption registra la cantidad requerida de un material para la orden.
type ProductionConsumption struct {
	ID                string
	ProductionOrderID string
	MaterialID        string
	RequiredQty       decimal.Decimal
}

// VarianceQty devuelve producido menos planificado.
func (o *ProductionOrder) VarianceQty() decimal.Decimal {
	return o.ProducedQty.Sub(o.PlannedQty)
}

// Shortage describe un faltante de material detectado al verificar disponibilidad.
type Shortage struct {
	MaterialID   string
	MaterialName string
	Required     decimal.Decimal
	Available    decimal.Decimal
	Unit         string
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de material para bolsos y morrales.
const (
	MaterialTypeFabric    = "fabric"
	MaterialTypeMesh      = "mesh"
	MaterialTypeThread    = "thread"
	MaterialTypeHardware  = "hardware"
	MaterialTypeAccessory = "accessory"
	MaterialTypePackaging = "packaging"
	MaterialTypeOther     = "other"
)

// Unidades de medida admitidas.
const (
	UnitKG     = "kg"
	UnitMeter  = "m"
	UnitPieces = "pieces"
	UnitLitre  = "litre"
)

// Material representa una materia prima del inventario.
// CurrentStock es la caché del saldo; el ledger es la fuente de verdad
// (invariante: CurrentStock == suma con signo de las entradas del ledger).
type Material struct {
	ID           string
	Name         string
	RMID         string // identificador de materia prima, ej. "RM-017"
	Code         string // RMID-COLOURCODE si no se indica otro
	MaterialType string
	Colour       string
	ColourCode   string
	Unit         string
	CostPerUnit  decimal.Decimal
	CurrentStock decimal.Decimal
	ReorderLevel decimal.Decimal
	VendorID     string   // proveedor principal
	VendorIDs    []string // proveedores habilitados (incluye el principal)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsLowStock indica si el material está en o por debajo del punto de reorden.
func (m *Material) IsLowStock() bool {
	return m.CurrentStock.LessThanOrEqual(m.ReorderLevel)
}

// HasVendor indica si el vendor está habilitado como proveedor del material.
func (m *Material) HasVendor(vendorID string) bool {
	if m.VendorID == vendorID {
		return true
	}
	for _, id := range m.VendorIDs {
		if id == vendorID {
			return true
		}
	}
	return false
}

// ValidUnit valida la unidad de medida.
func ValidUnit(u string) bool {
	switch u {
	case UnitKG, UnitMeter, UnitPieces, UnitLitre:
		return true
	}
	return false
}

// ValidMaterialType valida el tipo de material.
func ValidMaterialType(t string) bool {
	switch t {
	case MaterialTypeFabric, MaterialTypeMesh, MaterialTypeThread,
		MaterialTypeHardware, MaterialTypeAccessory, MaterialTypePackaging, MaterialTypeOther:
		return true
	}
	return false
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/talegos/bagmfg-api/internal/domain/entity"
)

// CreateMaterialRequest body para crear una materia prima con stock de apertura.
type CreateMaterialRequest struct {
	Name           string          `json:"name"`
	RMID           string          `json:"rm_id"`
	Code           string          `json:"code,omitempty"` // vacío = RMID-COLOURCODE
	MaterialType   string          `json:"material_type"`
	Colour         string          `json:"colour,omitempty"`
	ColourCode     string          `json:"colour_code"`
	Unit           string          `json:"unit"`
	CostPerUnit    decimal.Decimal `json:"cost_per_unit"`
	VendorID       string          `json:"vendor_id"`
	ExtraVendorIDs []string        `json:"extra_vendor_ids,omitempty"`
	OpeningStock   decimal.Decimal `json:"opening_stock"`
	ReorderLevel   decimal.Decimal `json:"reorder_level"`
}

// UpdateMaterialRequest body para actualizar los datos maestros de una materia prima.
// El stock no se toca aquí; solo vía ajustes o recepciones.
type UpdateMaterialRequest struct {
	Name           string          `json:"name"`
	RMID           string          `json:"rm_id"`
	Code           string          `json:"code,omitempty"`
	MaterialType   string          `json:"material_type"`
	Colour         string          `json:"colour,omitempty"`
	ColourCode     string          `json:"colour_code"`
	Unit           string          `json:"unit"`
	CostPerUnit    decimal.Decimal `json:"cost_per_unit"`
	VendorID       string          `json:"vendor_id"`
	ExtraVendorIDs []string        `json:"extra_vendor_ids,omitempty"`
	ReorderLevel   decimal.Decimal `json:"reorder_level"`
}

// AdjustStockRequest body para un ajuste manual de stock.
// Delta negativo descuenta, positivo suma; cero se rechaza.
type AdjustStockRequest struct {
	Delta  decimal.Decimal `json:"delta"`
	Reason string          `json:"reason"`
}

// MaterialResponse representación HTTP de una materia prima.
type MaterialResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	RMID         string          `json:"rm_id"`
	Code         string          `json:"code"`
	MaterialType string          `json:"material_type"`
	Colour       string          `json:"colour,omitempty"`
	ColourCode   string          `json:"colour_code"`
	Unit         string          `json:"unit"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	LowStock     bool            `json:"low_stock"`
	VendorID     string          `json:"vendor_id"`
	VendorIDs    []string        `json:"vendor_ids"`
	CreatedAt    time.Time       `json:"created_at"`
}

// MaterialToResponse convierte la entidad al DTO de salida.
func MaterialToResponse(m *entity.Material) MaterialResponse {
	return MaterialResponse{
		ID:           m.ID,
		Name:         m.Name,
		RMID:         m.RMID,
		Code:         m.Code,
		MaterialType: m.MaterialType,
		Colour:       m.Colour,
		ColourCode:   m.ColourCode,
		Unit:         m.Unit,
		CostPerUnit:  m.CostPerUnit,
		CurrentStock: m.CurrentStock,
		ReorderLevel: m.ReorderLevel,
		LowStock:     m.IsLowStock(),
		VendorID:     m.VendorID,
		VendorIDs:    m.VendorIDs,
		CreatedAt:    m.CreatedAt,
	}
}

// LedgerEntryResponse representación HTTP de una entrada del ledger.
type LedgerEntryResponse struct {
	ID            string          `json:"id"`
	MaterialID    string          `json:"material_id"`
	TxnType       string          `json:"txn_type"`
	Quantity      decimal.Decimal `json:"quantity"`
	SignedDelta   decimal.Decimal `json:"signed_delta"`
	Unit          string          `json:"unit"`
	Reason        string          `json:"reason"`
	ReferenceType string          `json:"reference_type,omitempty"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	CreatedBy     string          `json:"created_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// LedgerEntryToResponse convierte la entrada del ledger al DTO de salida.
func LedgerEntryToResponse(e *entity.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:            e.ID,
		MaterialID:    e.MaterialID,
		TxnType:       e.TxnType,
		Quantity:      e.Quantity,
		SignedDelta:   e.SignedDelta(),
		Unit:          e.Unit,
		Reason:        e.Reason,
		ReferenceType: e.ReferenceType,
		ReferenceID:   e.ReferenceID,
		CreatedBy:     e.CreatedBy,
		CreatedAt:     e.CreatedAt,
	}
}

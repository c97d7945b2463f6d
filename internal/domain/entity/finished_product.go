package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinishedProduct representa un producto terminado (bolso, morral) con su BOM.
type FinishedProduct struct {
	ID        string
	Name      string
	SKU       string // único
	BOM       []BOMItem
	CreatedAt time.Time
}

// BOMItem es una línea del BOM: material y cantidad por unidad producida.
type BOMItem struct {
	MaterialID string
	QtyPerUnit decimal.Decimal // > 0
}

// FinishedStock es la caché de saldo de producto terminado.
type FinishedStock struct {
	ProductID    string
	CurrentStock decimal.Decimal
	UpdatedAt    time.Time
}

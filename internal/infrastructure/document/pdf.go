// Package document genera los documentos descargables de una orden de compra.
//
// Layout de la página A4 del PDF:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Orden de Compra + N°  │  Fecha + Estado             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PROVEEDOR: Nombre + GSTIN + Dirección + Contacto            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Material | Código | Pedido | Recibido |          │
//	│         Pendiente | Unidad | P.Unit                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL + Notas                                               │
//	└─────────────────────────────────────────────────────────────┘
package document

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/talegos/bagmfg-api/internal/application/purchasing"
	"github.com/talegos/bagmfg-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ purchasing.DocumentGenerator = (*Generator)(nil)

// Generator implementa purchasing.DocumentGenerator con Maroto (PDF) y Excelize (XLSX).
type Generator struct{}

// NewGenerator construye el generador.
func NewGenerator() *Generator { return &Generator{} }

// PurchaseOrderPDF genera el PDF de la orden y devuelve sus bytes.
func (g *Generator) PurchaseOrderPDF(
	_ context.Context,
	order *entity.PurchaseOrder,
	vendor *entity.Partner,
	materials map[string]*entity.Material,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Orden de Compra", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(vendorRow(vendor))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for i := range order.Items {
		m.AddRows(itemRow(i, &order.Items[i], materials[order.Items[i].MaterialID]))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(order))
	if order.Notes != "" {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Notas: "+order.Notes, props.Text{Size: 8, Color: colorGray, Top: 2}),
		)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: título + número de orden (izq) y fecha + estado (der).
func headerRow(order *entity.PurchaseOrder) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("ORDEN DE COMPRA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("N° "+order.ID, props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("Fecha: "+order.OrderDate.Format("02/01/2006"), props.Text{
				Size: 9, Align: align.Right, Top: 3,
			}),
			text.New("Estado: "+order.Status, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 10, Color: colorPrimary,
			}),
		),
	)
}

// vendorRow: datos del proveedor.
func vendorRow(vendor *entity.Partner) core.Row {
	return row.New(20).Add(
		col.New(12).Add(
			text.New("PROVEEDOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(vendor.Name+"  ("+vendor.VendorID+")", props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("GSTIN: %s   |   %s", nonEmpty(vendor.GSTNumber, "—"), vendor.FullAddress()),
				props.Text{Size: 8, Top: 12, Color: colorGray}),
			text.New(fmt.Sprintf("Contacto: %s   |   Tel: %s   |   Email: %s",
				nonEmpty(vendor.ContactPerson, "—"),
				nonEmpty(vendor.Phone, "—"),
				nonEmpty(vendor.Email, "—"),
			), props.Text{Size: 8, Top: 17, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Material", 3, align.Left),
		h("Código", 2, align.Left),
		h("Pedido", 1, align.Right),
		h("Recibido", 1, align.Right),
		h("Pendiente", 2, align.Right),
		h("Unidad", 1, align.Center),
		h("P.Unit", 1, align.Right),
	)
}

// itemRow: una fila por línea de la orden.
func itemRow(index int, item *entity.PurchaseOrderItem, material *entity.Material) core.Row {
	name, code := "—", "—"
	if material != nil {
		name, code = material.Name, material.Code
	}
	cell := func(value string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(value, props.Text{
			Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(7).Add(
		cell(fmt.Sprintf("%d", index+1), 1, align.Center),
		cell(name, 3, align.Left),
		cell(code, 2, align.Left),
		cell(item.Quantity.StringFixed(3), 1, align.Right),
		cell(item.ReceivedQuantity.StringFixed(3), 1, align.Right),
		cell(item.PendingQuantity().StringFixed(3), 2, align.Right),
		cell(item.Unit, 1, align.Center),
		cell(item.UnitPrice.StringFixed(2), 1, align.Right),
	)
}

// totalRow: importe total de la orden (pedido × precio unitario).
func totalRow(order *entity.PurchaseOrder) core.Row {
	total := decimal.Zero
	for i := range order.Items {
		total = total.Add(order.Items[i].Quantity.Mul(order.Items[i].UnitPrice))
	}
	return row.New(10).Add(
		col.New(8),
		col.New(2).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2,
		})),
		col.New(2).Add(text.New(total.StringFixed(2), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1,
		})),
	)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

package document

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/talegos/bagmfg-api/internal/domain/entity"
)

// PurchaseOrderExcel genera el XLSX de la orden y devuelve sus bytes.
func (g *Generator) PurchaseOrderExcel(
	_ context.Context,
	order *entity.PurchaseOrder,
	vendor *entity.Partner,
	materials map[string]*entity.Material,
) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"

	// Cabecera de la orden
	f.SetCellValue(sheet, "A1", "Purchase Order")
	f.SetCellValue(sheet, "B1", order.ID)
	f.SetCellValue(sheet, "A2", "Vendor")
	f.SetCellValue(sheet, "B2", fmt.Sprintf("%s (%s)", vendor.Name, vendor.VendorID))
	f.SetCellValue(sheet, "A3", "GSTIN")
	f.SetCellValue(sheet, "B3", vendor.GSTNumber)
	f.SetCellValue(sheet, "A4", "Address")
	f.SetCellValue(sheet, "B4", vendor.FullAddress())
	f.SetCellValue(sheet, "A5", "Order Date")
	f.SetCellValue(sheet, "B5", order.OrderDate.Format("2006-01-02"))
	f.SetCellValue(sheet, "A6", "Status")
	f.SetCellValue(sheet, "B6", order.Status)

	// Encabezados de la tabla de líneas
	headers := []string{"S.No", "Material", "Code", "Ordered", "Received", "Outstanding", "Unit", "Unit Price"}
	headerRow := 8
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		f.SetCellValue(sheet, cell, h)
	}

	// Líneas
	for i := range order.Items {
		item := &order.Items[i]
		name, code := "", ""
		if material := materials[item.MaterialID]; material != nil {
			name, code = material.Name, material.Code
		}
		rowNo := headerRow + 1 + i
		values := []any{
			i + 1,
			name,
			code,
			item.Quantity.InexactFloat64(),
			item.ReceivedQuantity.InexactFloat64(),
			item.PendingQuantity().InexactFloat64(),
			item.Unit,
			item.UnitPrice.InexactFloat64(),
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, rowNo)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("excel: escribir archivo: %w", err)
	}
	return buf.Bytes(), nil
}

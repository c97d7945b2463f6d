package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/talegos/bagmfg-api/internal/application/dto"
	"github.com/talegos/bagmfg-api/internal/application/purchasing"
	"github.com/talegos/bagmfg-api/internal/domain/repository"
)

// PurchasingHandler maneja las peticiones HTTP de órdenes de compra (protegido).
type PurchasingHandler struct {
	uc     *purchasing.PurchasingUseCase
	export *purchasing.ExportUseCase
}

// NewPurchasingHandler construye el handler.
func NewPurchasingHandler(uc *purchasing.PurchasingUseCase, export *purchasing.ExportUseCase) *PurchasingHandler {
	return &PurchasingHandler{uc: uc, export: export}
}

// Create godoc
// @Summary      Crear orden de compra
// @Tags         purchasing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseOrderRequest  true  "vendor_id, order_date, lines"
// @Success      201   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *PurchasingHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.CreateOrder(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PurchaseOrderToResponse(order))
}

// GetByID devuelve una orden con sus líneas.
func (h *PurchasingHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.uc.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.PurchaseOrderToResponse(order))
}

// List lista órdenes con filtros de estado, proveedor, fechas y texto libre.
func (h *PurchasingHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	page.DefaultPage()

	filter := repository.PurchaseOrderFilter{
		Status:   c.Query("status"),
		VendorID: c.Query("vendor_id"),
		Search:   c.Query("search"),
		Limit:    page.Limit,
		Offset:   page.Offset,
	}
	if v := c.Query("date_from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date_from debe ser YYYY-MM-DD"})
		}
		filter.DateFrom = &t
	}
	if v := c.Query("date_to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date_to debe ser YYYY-MM-DD"})
		}
		filter.DateTo = &t
	}

	orders, err := h.uc.ListOrders(c.Context(), filter)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.PurchaseOrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, dto.PurchaseOrderToResponse(o))
	}
	return c.JSON(fiber.Map{"total": len(out), "orders": out})
}

// Receive godoc
// @Summary      Registrar recepción (parcial o total)
// @Description  lines mapea item_id a la cantidad que llega ahora; vacío recibe
//
//	todo lo pendiente. Stock, ledger y estado derivado se actualizan
//	en una transacción.
//
// @Tags         purchasing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                           true  "order id"
// @Param        body  body  dto.ReceivePurchaseOrderRequest  true  "lines"
// @Success      200   {object}  dto.PurchaseOrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/receive [post]
func (h *PurchasingHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceivePurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.Receive(c.Context(), GetUserID(c), c.Params("id"), in.Lines)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.PurchaseOrderToResponse(order))
}

// Cancel marca la orden como cancelada.
func (h *PurchasingHandler) Cancel(c *fiber.Ctx) error {
	order, err := h.uc.Cancel(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.PurchaseOrderToResponse(order))
}

// Reopen revierte una cancelación recalculando el estado de las líneas.
func (h *PurchasingHandler) Reopen(c *fiber.Ctx) error {
	order, err := h.uc.Reopen(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.PurchaseOrderToResponse(order))
}

// ExportPDF descarga la orden como PDF.
func (h *PurchasingHandler) ExportPDF(c *fiber.Ctx) error {
	orderID := c.Params("id")
	data, err := h.export.ExportPDF(c.Context(), orderID)
	if err != nil {
		return respondDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="purchase-order-%s.pdf"`, orderID))
	return c.Send(data)
}

// ExportExcel descarga la orden como XLSX.
func (h *PurchasingHandler) ExportExcel(c *fiber.Ctx) error {
	orderID := c.Params("id")
	data, err := h.export.ExportExcel(c.Context(), orderID)
	if err != nil {
		return respondDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="purchase-order-%s.xlsx"`, orderID))
	return c.Send(data)
}

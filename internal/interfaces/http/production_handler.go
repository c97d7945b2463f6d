package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/talegos/bagmfg-api/internal/application/dto"
	"github.com/talegos/bagmfg-api/internal/application/production"
	"github.com/talegos/bagmfg-api/internal/domain/repository"
)

// ProductionHandler maneja las peticiones HTTP de órdenes de producción (protegido).
type ProductionHandler struct {
	uc *production.ProductionUseCase
}

// NewProductionHandler construye el handler.
func NewProductionHandler(uc *production.ProductionUseCase) *ProductionHandler {
	return &ProductionHandler{uc: uc}
}

// respondShortages responde 409 con la lista completa de faltantes si err es un
// ShortageError; si no, delega en el mapeo genérico.
func respondShortages(c *fiber.Ctx, err error) error {
	var shortageErr *production.ShortageError
	if errors.As(err, &shortageErr) {
		out := make([]dto.ShortageDTO, 0, len(shortageErr.Shortages))
		for _, s := range shortageErr.Shortages {
			out = append(out, dto.ShortageDTO{
				MaterialID:   s.MaterialID,
				MaterialName: s.MaterialName,
				Required:     s.Required,
				Available:    s.Available,
				Unit:         s.Unit,
			})
		}
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"code":      "INSUFFICIENT_STOCK",
			"message":   "stock insuficiente para la orden",
			"shortages": out,
		})
	}
	return respondDomainError(c, err)
}

// Create godoc
// @Summary      Crear orden de producción
// @Description  Expande el BOM (qty_per_unit × cantidad) y descuenta las materias
//
//	primas en la misma transacción: o se descuentan todas o ninguna.
//	Con request_rm_release la orden queda en awaiting_rm_release.
//
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductionOrderRequest  true  "product_id, quantity"
// @Success      201   {object}  dto.ProductionOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/production-orders [post]
func (h *ProductionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductionOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.CreateOrder(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondShortages(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ProductionOrderToResponse(order))
}

// GetByID devuelve una orden.
func (h *ProductionHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.uc.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ProductionOrderToResponse(order))
}

// List lista órdenes con filtros de estado y producto.
func (h *ProductionHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	page.DefaultPage()
	orders, err := h.uc.ListOrders(c.Context(), repository.ProductionOrderFilter{
		Status:    c.Query("status"),
		ProductID: c.Query("product_id"),
		Limit:     page.Limit,
		Offset:    page.Offset,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.ProductionOrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, dto.ProductionOrderToResponse(o))
	}
	return c.JSON(fiber.Map{"total": len(out), "orders": out})
}

// Consumptions lista los requerimientos de material expandidos de la orden.
func (h *ProductionHandler) Consumptions(c *fiber.Ctx) error {
	consumptions, err := h.uc.ListConsumptions(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(consumptions), "consumptions": consumptions})
}

// ReleaseRM libera (descuenta) las materias primas de una orden en awaiting_rm_release.
func (h *ProductionHandler) ReleaseRM(c *fiber.Ctx) error {
	order, err := h.uc.ReleaseRM(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondShortages(c, err)
	}
	return c.JSON(dto.ProductionOrderToResponse(order))
}

// RejectRM rechaza la solicitud de materiales: la orden pasa a cancelled.
func (h *ProductionHandler) RejectRM(c *fiber.Ctx) error {
	order, err := h.uc.RejectRM(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ProductionOrderToResponse(order))
}

// UpdateStatus mueve la orden entre planned e in_progress.
func (h *ProductionHandler) UpdateStatus(c *fiber.Ctx) error {
	var in struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.UpdateStatus(c.Context(), c.Params("id"), in.Status)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ProductionOrderToResponse(order))
}

// Complete cierra la orden sumando lo producido al stock de terminados.
func (h *ProductionHandler) Complete(c *fiber.Ctx) error {
	var in dto.CompleteProductionOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.Complete(c.Context(), GetUserID(c), c.Params("id"), in.ProducedQty, in.ScrapQty)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ProductionOrderToResponse(order))
}

// Cancel cancela la orden; si las materias primas ya estaban liberadas las
// devuelve al stock con entradas compensatorias.
func (h *ProductionHandler) Cancel(c *fiber.Ctx) error {
	order, err := h.uc.Cancel(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ProductionOrderToResponse(order))
}

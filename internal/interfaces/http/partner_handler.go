package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/talegos/bagmfg-api/internal/application/dto"
	"github.com/talegos/bagmfg-api/internal/application/inventory"
	"github.com/talegos/bagmfg-api/internal/application/usecase"
	"github.com/talegos/bagmfg-api/internal/domain/repository"
)

// PartnerHandler maneja las peticiones HTTP de partners (protegido).
type PartnerHandler struct {
	uc         *usecase.PartnerUseCase
	materialUC *inventory.MaterialUseCase
}

// NewPartnerHandler construye el handler.
func NewPartnerHandler(uc *usecase.PartnerUseCase, materialUC *inventory.MaterialUseCase) *PartnerHandler {
	return &PartnerHandler{uc: uc, materialUC: materialUC}
}

// Create godoc
// @Summary      Crear partner
// @Tags         partners
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PartnerRequest  true  "vendor_id, name, type, gst_number, dirección"
// @Success      201   {object}  dto.PartnerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/partners [post]
func (h *PartnerHandler) Create(c *fiber.Ctx) error {
	var in dto.PartnerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	partner, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PartnerToResponse(partner))
}

// Update actualiza un partner.
func (h *PartnerHandler) Update(c *fiber.Ctx) error {
	var in dto.PartnerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	partner, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.PartnerToResponse(partner))
}

// GetByID devuelve un partner.
func (h *PartnerHandler) GetByID(c *fiber.Ctx) error {
	partner, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.PartnerToResponse(partner))
}

// List lista partners con filtros de tipo y búsqueda.
func (h *PartnerHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	page.DefaultPage()
	partners, err := h.uc.List(c.Context(), repository.PartnerFilter{
		Type:   c.Query("type"),
		Search: c.Query("search"),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.PartnerResponse, 0, len(partners))
	for _, p := range partners {
		out = append(out, dto.PartnerToResponse(p))
	}
	return c.JSON(fiber.Map{"total": len(out), "partners": out})
}

// ListMaterials lista los materiales que tienen a este partner como proveedor habilitado.
func (h *PartnerHandler) ListMaterials(c *fiber.Ctx) error {
	vendorID := c.Params("id")
	if _, err := h.uc.GetByID(c.Context(), vendorID); err != nil {
		return respondDomainError(c, err)
	}
	materials, err := h.materialUC.ListByVendor(c.Context(), vendorID)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.MaterialResponse, 0, len(materials))
	for _, m := range materials {
		out = append(out, dto.MaterialToResponse(m))
	}
	return c.JSON(fiber.Map{"total": len(out), "materials": out})
}

package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/talegos/bagmfg-api/internal/application/dto"
	"github.com/talegos/bagmfg-api/internal/application/inventory"
	"github.com/talegos/bagmfg-api/internal/domain/repository"
)

// MaterialHandler maneja las peticiones HTTP de materias primas (protegido).
type MaterialHandler struct {
	uc *inventory.MaterialUseCase
}

// NewMaterialHandler construye el handler.
func NewMaterialHandler(uc *inventory.MaterialUseCase) *MaterialHandler {
	return &MaterialHandler{uc: uc}
}

// Create godoc
// @Summary      Crear materia prima
// @Description  Crea el material; si opening_stock > 0 escribe la entrada
//
//	"Opening stock" del ledger en la misma transacción.
//
// @Tags         materials
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMaterialRequest  true  "name, rm_id, colour_code, unit, material_type, vendor_id"
// @Success      201   {object}  dto.MaterialResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/materials [post]
func (h *MaterialHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMaterialRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	material, err := h.uc.CreateMaterial(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MaterialToResponse(material))
}

// Update actualiza los datos maestros. El stock no se toca por esta vía.
func (h *MaterialHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateMaterialRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	material, err := h.uc.UpdateMaterial(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.MaterialToResponse(material))
}

// GetByID devuelve una materia prima.
func (h *MaterialHandler) GetByID(c *fiber.Ctx) error {
	material, err := h.uc.GetMaterial(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.MaterialToResponse(material))
}

// List lista materias primas con filtros.
func (h *MaterialHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	page.DefaultPage()
	materials, err := h.uc.ListMaterials(c.Context(), repository.MaterialFilter{
		MaterialType: c.Query("material_type"),
		Search:       c.Query("search"),
		LowStockOnly: c.QueryBool("low_stock"),
		Limit:        page.Limit,
		Offset:       page.Offset,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.MaterialResponse, 0, len(materials))
	for _, m := range materials {
		out = append(out, dto.MaterialToResponse(m))
	}
	return c.JSON(fiber.Map{"total": len(out), "materials": out})
}

// AdjustStock godoc
// @Summary      Ajuste manual de stock
// @Description  Delta positivo suma, negativo descuenta. Rechaza ajustes que
//
//	dejarían el saldo negativo. Siempre escribe la entrada del ledger.
//
// @Tags         materials
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "material id"
// @Param        body  body  dto.AdjustStockRequest true  "delta, reason"
// @Success      200   {object}  dto.MaterialResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/materials/{id}/adjust [post]
func (h *MaterialHandler) AdjustStock(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	material, err := h.uc.AdjustStock(c.Context(), GetUserID(c), c.Params("id"), in.Delta, in.Reason)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.MaterialToResponse(material))
}

// Ledger lista el ledger del material, con rango de fechas opcional (YYYY-MM-DD).
func (h *MaterialHandler) Ledger(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	page.DefaultPage()

	var from, to *time.Time
	if v := c.Query("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser YYYY-MM-DD"})
		}
		from = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser YYYY-MM-DD"})
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}

	entries, err := h.uc.ListLedger(c.Context(), c.Params("id"), from, to, page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.LedgerEntryToResponse(e))
	}
	return c.JSON(fiber.Map{"total": len(out), "entries": out})
}

// Audit compara la caché current_stock contra la suma con signo del ledger.
func (h *MaterialHandler) Audit(c *fiber.Ctx) error {
	audit, err := h.uc.AuditStock(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{
		"material_id":  audit.MaterialID,
		"cached_stock": audit.CachedStock,
		"ledger_sum":   audit.LedgerSum,
		"consistent":   audit.Consistent,
	})
}

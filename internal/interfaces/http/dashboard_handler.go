package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/talegos/bagmfg-api/internal/application/usecase"
)

// DashboardHandler maneja el resumen del panel (protegido, solo lectura).
type DashboardHandler struct {
	uc *usecase.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *usecase.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Summary devuelve contadores, materiales bajo mínimo y últimos movimientos.
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.uc.Summary(c.Context())
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(summary)
}

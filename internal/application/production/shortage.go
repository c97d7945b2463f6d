package production

import (
	"fmt"
	"strings"

	"github.com/talegos/bagmfg-api/internal/domain"
	"github.com/talegos/bagmfg-api/internal/domain/entity"
)

// ShortageError reporta todos los faltantes detectados al verificar disponibilidad.
// Envuelve domain.ErrInsufficientStock para que los handlers lo mapeen con errors.Is.
type ShortageError struct {
	Shortages []entity.Shortage
}

// Error describe cada faltante como "material: requerido X unidad, disponible Y".
func (e *ShortageError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("%s: requerido %s %s, disponible %s",
			s.MaterialName, s.Required.String(), s.Unit, s.Available.String()))
	}
	return "stock insuficiente: " + strings.Join(parts, "; ")
}

// Unwrap permite errors.Is(err, domain.ErrInsufficientStock).
func (e *ShortageError) Unwrap() error {
	return domain.ErrInsufficientStock
}

package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrUserNotFound          = errors.New("usuario no encontrado")
	ErrUsernameTaken         = errors.New("el nombre de usuario ya está registrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrDuplicate             = errors.New("recurso duplicado")
	ErrUnauthorized          = errors.New("no autorizado")
	ErrForbidden             = errors.New("acceso denegado")
	ErrConflict              = errors.New("conflicto con el estado actual")
	ErrInsufficientStock     = errors.New("stock insuficiente")
	ErrNegativeStock         = errors.New("el stock no puede quedar negativo")
	ErrOverReceipt           = errors.New("cantidad recibida excede lo pendiente")
	ErrInvalidTransition     = errors.New("transición de estado no permitida")
	ErrVendorNotSupplier     = errors.New("el partner seleccionado no es proveedor")
	ErrMaterialNotFromVendor = errors.New("el material no pertenece al proveedor de la orden")
	ErrEmptyBOM              = errors.New("el producto no tiene BOM definido")
)

package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin             = "admin"
	RoleInventoryManager  = "inventory_manager"
	RoleProductionManager = "production_manager"
	RoleViewer            = "viewer"
)

// User representa un usuario de la aplicación.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	FullName     string
	Role         string
	CreatedAt    time.Time
}

// CanManageInventory indica si el rol permite mutar inventario y partners.
func (u *User) CanManageInventory() bool {
	return u.Role == RoleAdmin || u.Role == RoleInventoryManager
}

// CanManageProduction indica si el rol permite mutar producción y compras.
func (u *User) CanManageProduction() bool {
	return u.Role == RoleAdmin || u.Role == RoleProductionManager
}

// ValidRole valida el rol.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleInventoryManager, RoleProductionManager, RoleViewer:
		return true
	}
	return false
}

package entity

import "time"

// Roles a nivel tenant (independientes de los roles por tender).
const (
	TenantRoleAdmin  = "admin"
	TenantRoleMember = "member"
)

// Estados de un User.
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// User representa un usuario del sistema (pertenece a un Tenant).
// Un admin de tenant recibe capability equivalente a owner sobre todos los
// tenders de su tenant, sin necesidad de una asignación explícita.
type User struct {
	ID           string
	TenantID     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	TenantRole   string // admin, member
	Status       string // active, disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsTenantAdmin indica si el usuario tiene el override de admin de tenant.
func (u *User) IsTenantAdmin() bool {
	return u.TenantRole == TenantRoleAdmin
}

// IsActive indica si el usuario puede operar.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

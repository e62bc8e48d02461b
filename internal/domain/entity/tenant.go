package entity

import "time"

// Estados de un Tenant.
const (
	TenantStatusActive    = "active"
	TenantStatusSuspended = "suspended"
)

// Tenant representa una organización del sistema: la frontera de aislamiento.
// Todas las entidades viven dentro de exactamente un tenant; el acceso
// cross-tenant se niega siempre, sin importar el rol.
type Tenant struct {
	ID        string
	Name      string
	Status    string // active, suspended
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive indica si el tenant puede operar.
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

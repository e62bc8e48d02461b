package access

// Actor es la identidad ya autenticada que ejecuta una operación: el core no
// valida credenciales, solo autoriza (userID, tenantID) contra un tender.
type Actor struct {
	UserID   string
	TenantID string
	IsAdmin  bool // admin de tenant: owner implícito sobre todo tender del tenant
}

// Decision es el resultado de Authorize. Role es el rol almacenado del actor
// ("" si no tiene asignación); EffectiveRole incorpora el override de admin de
// tenant, para que los callers no lo re-deriven. Reason solo se llena en
// denegaciones.
type Decision struct {
	Allowed       bool
	Role          string
	EffectiveRole string
	Reason        string
}

// Razones de denegación expuestas al caller.
const (
	ReasonNotAssigned        = "not assigned"
	ReasonInsufficientPrefix = "insufficient role: "
)

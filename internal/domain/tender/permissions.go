package tender

// Roles por tender, ordenados por privilegio: owner > contributor > viewer.
const (
	RoleOwner       = "owner"
	RoleContributor = "contributor"
	RoleViewer      = "viewer"
)

// Capabilities evaluadas por tender y por actor. No se persisten; se calculan
// bajo demanda a partir del rol efectivo.
const (
	CapabilityRead            = "read"
	CapabilityWrite           = "write"
	CapabilityDelete          = "delete"
	CapabilityManageAssignees = "manage_assignees"
	CapabilityTransitionState = "transition_state"
)

// AllCapabilities en orden estable para respuestas.
func AllCapabilities() []string {
	return []string{
		CapabilityRead,
		CapabilityWrite,
		CapabilityDelete,
		CapabilityManageAssignees,
		CapabilityTransitionState,
	}
}

// roleRank ordena los roles por privilegio. 0 = sin rol.
var roleRank = map[string]int{
	RoleViewer:      1,
	RoleContributor: 2,
	RoleOwner:       3,
}

// IsValidRole indica si role es uno de los roles por tender conocidos.
func IsValidRole(role string) bool {
	_, ok := roleRank[role]
	return ok
}

// RoleAtLeast indica si role alcanza el privilegio mínimo min.
func RoleAtLeast(role, min string) bool {
	return roleRank[role] >= roleRank[min] && roleRank[min] > 0
}

// EffectiveRole calcula el rol efectivo de un actor sobre un tender: el admin
// de tenant se trata como owner implícito (override global, no una asignación
// almacenada). role == "" significa sin asignación. Se evalúa una sola vez por
// request y se propaga explícitamente por la cadena de llamadas.
func EffectiveRole(role string, isTenantAdmin bool) string {
	if isTenantAdmin {
		return RoleOwner
	}
	return role
}

// Allowed es la única fuente de verdad de permisos: traduce (rol o ausencia de
// rol, flag de admin, capability) a permitir/denegar. Pura y total: nunca
// retorna error ni hace pánico; cualquier entrada desconocida deniega.
func Allowed(role string, isTenantAdmin bool, capability string) bool {
	effective := EffectiveRole(role, isTenantAdmin)
	switch capability {
	case CapabilityRead:
		return RoleAtLeast(effective, RoleViewer)
	case CapabilityWrite, CapabilityTransitionState:
		return RoleAtLeast(effective, RoleContributor)
	case CapabilityDelete, CapabilityManageAssignees:
		return RoleAtLeast(effective, RoleOwner)
	default:
		return false
	}
}

// CapabilitySet devuelve el mapa capability → permitido para las cinco
// capabilities, usado para anotar listados.
func CapabilitySet(role string, isTenantAdmin bool) map[string]bool {
	out := make(map[string]bool, 5)
	for _, c := range AllCapabilities() {
		out[c] = Allowed(role, isTenantAdmin, c)
	}
	return out
}

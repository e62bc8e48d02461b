package audit

// Acciones auditables sobre el recurso tender.
const (
	ActionCreate     = "CREATE"
	ActionUpdate     = "UPDATE"
	ActionDelete     = "DELETE"
	ActionAssign     = "ASSIGN"
	ActionUnassign   = "UNASSIGN"
	ActionTransition = "TRANSITION"
)

// Event es el evento estructurado que el core emite tras cada mutación
// exitosa. El core no persiste auditoría: solo publica; el sink es un
// colaborador externo.
type Event struct {
	TenantID    string         `json:"tenant_id"`
	ActorUserID string         `json:"actor_user_id"`
	Action      string         `json:"action"`
	Resource    string         `json:"resource"`
	ResourceID  string         `json:"resource_id"`
	OldValues   map[string]any `json:"old_values,omitempty"`
	NewValues   map[string]any `json:"new_values,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Recorder es el sink de auditoría. Record debe ser fire-and-forget: nunca
// bloquea ni falla la mutación que lo origina.
type Recorder interface {
	Record(event Event)
}

// NopRecorder descarta todos los eventos. Útil en tests.
type NopRecorder struct{}

// Record no hace nada.
func (NopRecorder) Record(Event) {}

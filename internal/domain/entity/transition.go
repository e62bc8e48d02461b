package entity

import "time"

// StateTransition es el registro inmutable de un cambio de estado de un tender.
// Se crea exactamente una vez por transición exitosa, en la misma transacción
// que la mutación del estado. Nunca se actualiza ni se borra.
type StateTransition struct {
	ID          string
	TenderID    string
	FromStatus  string
	ToStatus    string
	TriggeredBy string
	Reason      string         // opcional, motivo humano
	Metadata    map[string]any // opcional, payload estructurado (ej. contractValue)
	CreatedAt   time.Time
}

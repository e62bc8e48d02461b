package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransitionRequest entrada para avanzar el estado de un tender.
type TransitionRequest struct {
	ToStatus string         `json:"to_status" validate:"required"`
	Reason   string         `json:"reason" validate:"omitempty,max=1000"`
	Metadata map[string]any `json:"metadata"`
}

// OutcomeRequest entrada para registrar el resultado de una licitación
// (WON o LOST). Solo válido cuando el tender está en SUBMITTED.
type OutcomeRequest struct {
	Outcome       string           `json:"outcome" validate:"required,oneof=WON LOST"`
	ContractValue *decimal.Decimal `json:"contract_value"`
	DecisionNotes string           `json:"decision_notes" validate:"omitempty,max=2000"`
}

// TransitionResponse salida de un registro de historial.
type TransitionResponse struct {
	ID          string         `json:"id"`
	TenderID    string         `json:"tender_id"`
	FromStatus  string         `json:"from_status"`
	ToStatus    string         `json:"to_status"`
	TriggeredBy string         `json:"triggered_by"`
	Reason      string         `json:"reason,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

package dto

import "time"

// AssignRequest entrada para asignar un usuario a un tender.
type AssignRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Role   string `json:"role" validate:"required,oneof=owner contributor viewer"`
}

// BulkAssignRequest entrada para asignación masiva. Cada entrada se procesa de
// forma independiente: una entrada fallida no aborta el lote.
type BulkAssignRequest struct {
	Entries []AssignRequest `json:"entries" validate:"required,min=1,dive"`
}

// TransferOwnershipRequest entrada para transferir ownership. Solo otorga owner
// al destinatario; no degrada al owner anterior.
type TransferOwnershipRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// AssignmentResponse salida de una asignación.
type AssignmentResponse struct {
	TenderID  string    `json:"tender_id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BulkAssignError error por entrada en una asignación masiva.
type BulkAssignError struct {
	UserID string `json:"user_id"`
	Error  string `json:"error"`
}

// BulkAssignResponse resultado de la asignación masiva: éxitos y errores por
// entrada, nunca un error global.
type BulkAssignResponse struct {
	Created []AssignmentResponse `json:"created"`
	Errors  []BulkAssignError    `json:"errors"`
}

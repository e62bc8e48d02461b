package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTenderRequest entrada para crear un tender. El estado inicial siempre
// es SCRAPED; no lo elige el cliente.
type CreateTenderRequest struct {
	Title          string           `json:"title" validate:"required,max=500"`
	Description    string           `json:"description" validate:"omitempty,max=5000"`
	BuyerName      string           `json:"buyer_name" validate:"omitempty,max=300"`
	Location       string           `json:"location" validate:"omitempty,max=200"`
	Category       string           `json:"category" validate:"omitempty,max=200"`
	SourceURL      string           `json:"source_url" validate:"omitempty,url"`
	EstimatedValue *decimal.Decimal `json:"estimated_value"`
	DeadlineAt     *time.Time       `json:"deadline_at"`
}

// UpdateTenderRequest entrada para actualizar campos de un tender.
// Punteros nil = campo no tocado. El estado nunca se cambia por aquí.
type UpdateTenderRequest struct {
	Title          *string          `json:"title" validate:"omitempty,max=500"`
	Description    *string          `json:"description" validate:"omitempty,max=5000"`
	BuyerName      *string          `json:"buyer_name" validate:"omitempty,max=300"`
	Location       *string          `json:"location" validate:"omitempty,max=200"`
	Category       *string          `json:"category" validate:"omitempty,max=200"`
	SourceURL      *string          `json:"source_url" validate:"omitempty,url"`
	EstimatedValue *decimal.Decimal `json:"estimated_value"`
	DeadlineAt     *time.Time       `json:"deadline_at"`
}

// TenderResponse salida de un tender.
type TenderResponse struct {
	ID             string           `json:"id"`
	TenantID       string           `json:"tenant_id"`
	Title          string           `json:"title"`
	Description    string           `json:"description,omitempty"`
	BuyerName      string           `json:"buyer_name,omitempty"`
	Location       string           `json:"location,omitempty"`
	Category       string           `json:"category,omitempty"`
	SourceURL      string           `json:"source_url,omitempty"`
	EstimatedValue *decimal.Decimal `json:"estimated_value,omitempty"`
	DeadlineAt     *time.Time       `json:"deadline_at,omitempty"`
	Status         string           `json:"status"`
	CreatedBy      string           `json:"created_by"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// TenderWithPermissions tender anotado con el rol efectivo del actor y su
// conjunto de permisos (las cinco capabilities).
type TenderWithPermissions struct {
	Tender      TenderResponse  `json:"tender"`
	Role        string          `json:"role,omitempty"`
	Permissions map[string]bool `json:"permissions"`
}

// ListTendersRequest filtros para el listado de tenders accesibles.
type ListTendersRequest struct {
	Role            string `query:"role" validate:"omitempty,oneof=owner contributor viewer"`
	Status          string `query:"status"`
	IncludeArchived bool   `query:"include_archived"`
	PageRequest
}

// PermissionsResponse resultado de la sonda de permisos sobre un tender.
type PermissionsResponse struct {
	Allowed     bool            `json:"allowed"`
	Role        string          `json:"role,omitempty"`
	Reason      string          `json:"reason,omitempty"`
	Permissions map[string]bool `json:"permissions"`
}

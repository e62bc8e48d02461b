package repository

import (
	"context"

	"github.com/jhoicas/tenders-api/internal/domain/entity"
)

// TenderFilter filtra listados de tenders.
type TenderFilter struct {
	Status          string // opcional: solo este estado
	IncludeArchived bool   // incluir ARCHIVED en los listados
	Limit           int
	Offset          int
}

// TenderRepository define el puerto de persistencia para Tender.
// Todas las lecturas son tenant-scoped y excluyen tenders soft-deleted:
// un tender borrado o de otro tenant se reporta como inexistente (nil).
type TenderRepository interface {
	Create(ctx context.Context, tender *entity.Tender) error
	// GetByID devuelve nil si no existe, está soft-deleted o pertenece a otro tenant.
	GetByID(ctx context.Context, tenantID, id string) (*entity.Tender, error)
	// GetByIDForUpdate bloquea la fila del tender (SELECT ... FOR UPDATE).
	// Solo tiene sentido dentro de una transacción; serializa las mutaciones
	// de ownership y las transiciones de estado sobre el mismo tender.
	GetByIDForUpdate(ctx context.Context, tenantID, id string) (*entity.Tender, error)
	Update(ctx context.Context, tender *entity.Tender) error
	// UpdateStatus escribe solo el campo status (usado por el motor de ciclo de vida).
	UpdateStatus(ctx context.Context, tenderID, status string) error
	// SoftDelete marca deleted_at; el tender desaparece de todos los caminos de lectura.
	SoftDelete(ctx context.Context, tenantID, id string) error
	// ListByTenant lista todos los tenders no borrados del tenant (vista de admin).
	ListByTenant(ctx context.Context, tenantID string, filter TenderFilter) ([]*entity.Tender, error)
	// ListByAssignee lista los tenders donde el usuario tiene asignación,
	// opcionalmente filtrados por rol, junto al rol que el usuario tiene en cada uno.
	ListByAssignee(ctx context.Context, tenantID, userID, role string, filter TenderFilter) ([]AssignedTender, error)
}

// AssignedTender es un tender junto al rol del usuario consultado.
type AssignedTender struct {
	Tender *entity.Tender
	Role   string
}

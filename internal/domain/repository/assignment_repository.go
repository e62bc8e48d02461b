package repository

import (
	"context"

	"github.com/jhoicas/tenders-api/internal/domain/entity"
)

// AssignmentRepository define el puerto de persistencia para TenderAssignment
// (el Role Store). Upsert es crear-o-sobrescribir sin chequeo de conflicto:
// el rechazo de asignaciones duplicadas en la ruta de creación es política del
// facade, no del store. Las mutaciones que afectan el conjunto de owners deben
// ejecutarse dentro de la misma transacción que el chequeo de la invariante.
type AssignmentRepository interface {
	// GetRole devuelve el rol del usuario sobre el tender, o "" si no hay asignación.
	GetRole(ctx context.Context, tenderID, userID string) (string, error)
	Get(ctx context.Context, tenderID, userID string) (*entity.TenderAssignment, error)
	// ListByTender lista asignaciones ordenadas por privilegio (owner primero)
	// y luego por fecha de creación ascendente (listado estable para UI).
	ListByTender(ctx context.Context, tenderID string) ([]*entity.TenderAssignment, error)
	Upsert(ctx context.Context, assignment *entity.TenderAssignment) error
	// Remove borra la asignación; domain.ErrNotFound si no existe.
	Remove(ctx context.Context, tenderID, userID string) error
	CountOwners(ctx context.Context, tenderID string) (int, error)
}

package repository

import (
	"context"

	"github.com/jhoicas/tenders-api/internal/domain/entity"
)

// TransitionRepository define el puerto para el historial de transiciones.
// Append-only: no hay update ni delete.
type TransitionRepository interface {
	Append(ctx context.Context, transition *entity.StateTransition) error
	// ListByTender devuelve el historial, más reciente primero.
	ListByTender(ctx context.Context, tenderID string, limit, offset int) ([]*entity.StateTransition, error)
}

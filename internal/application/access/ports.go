package access

import (
	"context"

	"github.com/jhoicas/tenders-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que el chequeo de la invariante de
// ownership y la mutación que protege sean atómicos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		tenderRepo repository.TenderRepository,
		assignmentRepo repository.AssignmentRepository,
		transitionRepo repository.TransitionRepository,
	) error) error
}

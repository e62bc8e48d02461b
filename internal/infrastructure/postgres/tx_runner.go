package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/tenders-api/internal/application/access"
	"github.com/jhoicas/tenders-api/internal/domain/repository"
)

// Ensure TxRunner implements access.TxRunner.
var _ access.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL, con los
// repositorios de tender, asignación y transición atados a la misma tx. Es la
// unidad atómica del guard de ownership y del motor de ciclo de vida.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Un error de fn aborta sin efecto parcial.
func (r *TxRunner) Run(ctx context.Context, fn func(
	tenderRepo repository.TenderRepository,
	assignmentRepo repository.AssignmentRepository,
	transitionRepo repository.TransitionRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tenderRepo := NewTenderRepository(tx)
	assignmentRepo := NewAssignmentRepository(tx)
	transitionRepo := NewTransitionRepository(tx)

	if err := fn(tenderRepo, assignmentRepo, transitionRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

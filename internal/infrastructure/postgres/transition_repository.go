package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/tenders-api/internal/domain/entity"
	"github.com/jhoicas/tenders-api/internal/domain/repository"
)

var _ repository.TransitionRepository = (*TransitionRepo)(nil)

// TransitionRepo implementación del historial de transiciones sobre
// PostgreSQL (usable con pool o tx). Append-only.
type TransitionRepo struct {
	q Querier
}

// NewTransitionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransitionRepository(q Querier) *TransitionRepo {
	return &TransitionRepo{q: q}
}

// Append agrega el registro de transición. Se invoca en la misma tx que el
// cambio de status del tender.
func (r *TransitionRepo) Append(ctx context.Context, t *entity.StateTransition) error {
	query := `
		INSERT INTO tender_state_transitions
			(id, tender_id, from_status, to_status, triggered_by, reason, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	reason := (*string)(nil)
	if t.Reason != "" {
		reason = &t.Reason
	}
	_, err := r.q.Exec(ctx, query,
		t.ID, t.TenderID, t.FromStatus, t.ToStatus, t.TriggeredBy, reason, t.Metadata, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append transition: %w", err)
	}
	return nil
}

// ListByTender devuelve el historial, más reciente primero.
func (r *TransitionRepo) ListByTender(ctx context.Context, tenderID string, limit, offset int) ([]*entity.StateTransition, error) {
	query := `
		SELECT id, tender_id, from_status, to_status, triggered_by, reason, metadata, created_at
		FROM tender_state_transitions
		WHERE tender_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, tenderID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transitions: %w", err)
	}
	defer rows.Close()
	var list []*entity.StateTransition
	for rows.Next() {
		var t entity.StateTransition
		var reason *string
		if err := rows.Scan(
			&t.ID, &t.TenderID, &t.FromStatus, &t.ToStatus, &t.TriggeredBy,
			&reason, &t.Metadata, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		if reason != nil {
			t.Reason = *reason
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

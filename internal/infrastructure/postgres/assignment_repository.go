package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tenders-api/internal/domain"
	"github.com/jhoicas/tenders-api/internal/domain/entity"
	"github.com/jhoicas/tenders-api/internal/domain/repository"
	"github.com/jhoicas/tenders-api/internal/domain/tender"
)

var _ repository.AssignmentRepository = (*AssignmentRepo)(nil)

// AssignmentRepo implementación del Role Store sobre PostgreSQL (usable con
// pool o tx). El par (tender_id, user_id) es único por constraint.
type AssignmentRepo struct {
	q Querier
}

// NewAssignmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAssignmentRepository(q Querier) *AssignmentRepo {
	return &AssignmentRepo{q: q}
}

// GetRole devuelve el rol del usuario sobre el tender, o "" sin asignación.
func (r *AssignmentRepo) GetRole(ctx context.Context, tenderID, userID string) (string, error) {
	var role string
	err := r.q.QueryRow(ctx,
		`SELECT role FROM tender_assignments WHERE tender_id = $1 AND user_id = $2`,
		tenderID, userID,
	).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("get role: %w", err)
	}
	return role, nil
}

// Get obtiene la asignación completa, o nil si no existe.
func (r *AssignmentRepo) Get(ctx context.Context, tenderID, userID string) (*entity.TenderAssignment, error) {
	var a entity.TenderAssignment
	err := r.q.QueryRow(ctx, `
		SELECT id, tender_id, user_id, role, created_at, updated_at
		FROM tender_assignments WHERE tender_id = $1 AND user_id = $2`,
		tenderID, userID,
	).Scan(&a.ID, &a.TenderID, &a.UserID, &a.Role, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return &a, nil
}

// ListByTender lista asignaciones: owner primero, luego por antigüedad.
func (r *AssignmentRepo) ListByTender(ctx context.Context, tenderID string) ([]*entity.TenderAssignment, error) {
	query := `
		SELECT id, tender_id, user_id, role, created_at, updated_at
		FROM tender_assignments
		WHERE tender_id = $1
		ORDER BY CASE role
			WHEN 'owner' THEN 1
			WHEN 'contributor' THEN 2
			ELSE 3
		END, created_at ASC`
	rows, err := r.q.Query(ctx, query, tenderID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()
	var list []*entity.TenderAssignment
	for rows.Next() {
		var a entity.TenderAssignment
		if err := rows.Scan(&a.ID, &a.TenderID, &a.UserID, &a.Role, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// Upsert crea o sobrescribe la asignación del par (tender, usuario). Sin
// chequeo de conflicto: esa política vive en el facade (ruta de creación).
func (r *AssignmentRepo) Upsert(ctx context.Context, a *entity.TenderAssignment) error {
	query := `
		INSERT INTO tender_assignments (id, tender_id, user_id, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (tender_id, user_id)
		DO UPDATE SET role = EXCLUDED.role, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, a.ID, a.TenderID, a.UserID, a.Role, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert assignment: %w", err)
	}
	return nil
}

// Remove borra la asignación; domain.ErrNotFound si no existía.
func (r *AssignmentRepo) Remove(ctx context.Context, tenderID, userID string) error {
	tag, err := r.q.Exec(ctx,
		`DELETE FROM tender_assignments WHERE tender_id = $1 AND user_id = $2`,
		tenderID, userID,
	)
	if err != nil {
		return fmt.Errorf("remove assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: asignación de %s", domain.ErrNotFound, userID)
	}
	return nil
}

// CountOwners cuenta las asignaciones owner del tender. El índice parcial
// sobre (tender_id, role) lo hace barato.
func (r *AssignmentRepo) CountOwners(ctx context.Context, tenderID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM tender_assignments WHERE tender_id = $1 AND role = $2`,
		tenderID, tender.RoleOwner,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count owners: %w", err)
	}
	return n, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tenders-api/internal/domain/entity"
	"github.com/jhoicas/tenders-api/internal/domain/repository"
	"github.com/jhoicas/tenders-api/internal/domain/tender"
)

var _ repository.TenderRepository = (*TenderRepo)(nil)

const tenderColumns = `id, tenant_id, title, description, buyer_name, location, category,
	source_url, estimated_value, deadline_at, status, created_by, deleted_at, created_at, updated_at`

// TenderRepo implementación del puerto TenderRepository sobre PostgreSQL
// (usable con pool o tx). Toda lectura filtra por tenant y deleted_at IS NULL.
type TenderRepo struct {
	q Querier
}

// NewTenderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTenderRepository(q Querier) *TenderRepo {
	return &TenderRepo{q: q}
}

// Create persiste un nuevo tender.
func (r *TenderRepo) Create(ctx context.Context, t *entity.Tender) error {
	query := `
		INSERT INTO tenders (id, tenant_id, title, description, buyer_name, location, category,
			source_url, estimated_value, deadline_at, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.TenantID, t.Title, t.Description, t.BuyerName, t.Location, t.Category,
		t.SourceURL, t.EstimatedValue, t.DeadlineAt, t.Status, t.CreatedBy, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert tender: %w", err)
	}
	return nil
}

// GetByID obtiene un tender por ID dentro del tenant. Devuelve nil si no
// existe, está soft-deleted o pertenece a otro tenant.
func (r *TenderRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Tender, error) {
	query := `
		SELECT ` + tenderColumns + `
		FROM tenders WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL`
	return r.scanOne(ctx, query, id, tenantID)
}

// GetByIDForUpdate igual que GetByID pero bloqueando la fila (SELECT FOR UPDATE).
// Solo tiene sentido dentro de una transacción.
func (r *TenderRepo) GetByIDForUpdate(ctx context.Context, tenantID, id string) (*entity.Tender, error) {
	query := `
		SELECT ` + tenderColumns + `
		FROM tenders WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL
		FOR UPDATE`
	return r.scanOne(ctx, query, id, tenantID)
}

func (r *TenderRepo) scanOne(ctx context.Context, query string, args ...any) (*entity.Tender, error) {
	var t entity.Tender
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&t.ID, &t.TenantID, &t.Title, &t.Description, &t.BuyerName, &t.Location, &t.Category,
		&t.SourceURL, &t.EstimatedValue, &t.DeadlineAt, &t.Status, &t.CreatedBy,
		&t.DeletedAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tender: %w", err)
	}
	return &t, nil
}

// Update actualiza los campos editables del tender (no el status).
func (r *TenderRepo) Update(ctx context.Context, t *entity.Tender) error {
	query := `
		UPDATE tenders
		SET title = $2, description = $3, buyer_name = $4, location = $5, category = $6,
			source_url = $7, estimated_value = $8, deadline_at = $9, updated_at = $10
		WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.Title, t.Description, t.BuyerName, t.Location, t.Category,
		t.SourceURL, t.EstimatedValue, t.DeadlineAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update tender: %w", err)
	}
	return nil
}

// UpdateStatus escribe solo el status (lo invoca el motor de ciclo de vida,
// dentro de la misma tx que agrega el registro de transición).
func (r *TenderRepo) UpdateStatus(ctx context.Context, tenderID, status string) error {
	query := `UPDATE tenders SET status = $2, updated_at = now() WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.q.Exec(ctx, query, tenderID, status)
	if err != nil {
		return fmt.Errorf("update tender status: %w", err)
	}
	return nil
}

// SoftDelete marca deleted_at. Idempotente sobre tenders ya borrados.
func (r *TenderRepo) SoftDelete(ctx context.Context, tenantID, id string) error {
	query := `UPDATE tenders SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL`
	_, err := r.q.Exec(ctx, query, id, tenantID)
	if err != nil {
		return fmt.Errorf("soft delete tender: %w", err)
	}
	return nil
}

// ListByTenant lista los tenders no borrados del tenant (vista de admin).
func (r *TenderRepo) ListByTenant(ctx context.Context, tenantID string, filter repository.TenderFilter) ([]*entity.Tender, error) {
	query := `
		SELECT ` + tenderColumns + `
		FROM tenders
		WHERE tenant_id = $1 AND deleted_at IS NULL
			AND ($2 = '' OR status = $2)
			AND ($3 OR status <> '` + tender.StatusArchived + `')
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, tenantID, filter.Status, filter.IncludeArchived, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("list tenders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Tender
	for rows.Next() {
		var t entity.Tender
		if err := rows.Scan(
			&t.ID, &t.TenantID, &t.Title, &t.Description, &t.BuyerName, &t.Location, &t.Category,
			&t.SourceURL, &t.EstimatedValue, &t.DeadlineAt, &t.Status, &t.CreatedBy,
			&t.DeletedAt, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan tender: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// ListByAssignee lista los tenders donde el usuario tiene asignación, con el
// rol que tiene en cada uno. role vacío = cualquier rol.
func (r *TenderRepo) ListByAssignee(ctx context.Context, tenantID, userID, role string, filter repository.TenderFilter) ([]repository.AssignedTender, error) {
	query := `
		SELECT t.id, t.tenant_id, t.title, t.description, t.buyer_name, t.location, t.category,
			t.source_url, t.estimated_value, t.deadline_at, t.status, t.created_by,
			t.deleted_at, t.created_at, t.updated_at, a.role
		FROM tenders t
		JOIN tender_assignments a ON a.tender_id = t.id
		WHERE t.tenant_id = $1 AND t.deleted_at IS NULL
			AND a.user_id = $2
			AND ($3 = '' OR a.role = $3)
			AND ($4 = '' OR t.status = $4)
			AND ($5 OR t.status <> '` + tender.StatusArchived + `')
		ORDER BY t.created_at DESC
		LIMIT $6 OFFSET $7`
	rows, err := r.q.Query(ctx, query, tenantID, userID, role, filter.Status, filter.IncludeArchived, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("list tenders by assignee: %w", err)
	}
	defer rows.Close()
	var list []repository.AssignedTender
	for rows.Next() {
		var t entity.Tender
		var assigned string
		if err := rows.Scan(
			&t.ID, &t.TenantID, &t.Title, &t.Description, &t.BuyerName, &t.Location, &t.Category,
			&t.SourceURL, &t.EstimatedValue, &t.DeadlineAt, &t.Status, &t.CreatedBy,
			&t.DeletedAt, &t.CreatedAt, &t.UpdatedAt, &assigned,
		); err != nil {
			return nil, fmt.Errorf("scan tender: %w", err)
		}
		list = append(list, repository.AssignedTender{Tender: &t, Role: assigned})
	}
	return list, rows.Err()
}

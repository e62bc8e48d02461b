package access

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/tenders-api/internal/application/audit"
	"github.com/jhoicas/tenders-api/internal/application/dto"
	"github.com/jhoicas/tenders-api/internal/domain"
	"github.com/jhoicas/tenders-api/internal/domain/entity"
	"github.com/jhoicas/tenders-api/internal/domain/repository"
	"github.com/jhoicas/tenders-api/internal/domain/tender"
)

// Assign crea una asignación nueva (ruta de creación): requiere
// manage_assignees, el usuario objetivo debe pertenecer al tenant del actor y
// no puede existir ya una asignación para ese par (ErrConflict).
func (f *Facade) Assign(ctx context.Context, actor Actor, tenderID, targetUserID, role string) (*dto.AssignmentResponse, error) {
	if !tender.IsValidRole(role) {
		return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, role)
	}
	if _, err := f.RequireCapability(ctx, actor, tenderID, tender.CapabilityManageAssignees); err != nil {
		return nil, err
	}
	if err := f.checkSameTenant(ctx, actor, targetUserID); err != nil {
		return nil, err
	}

	assignment, err := f.assignInTx(ctx, actor, tenderID, targetUserID, role)
	if err != nil {
		return nil, err
	}

	f.emit(audit.Event{
		TenantID:    actor.TenantID,
		ActorUserID: actor.UserID,
		Action:      audit.ActionAssign,
		Resource:    "tender",
		ResourceID:  tenderID,
		NewValues:   map[string]any{"user_id": targetUserID, "role": role},
	})
	return toAssignmentResponse(assignment), nil
}

// UpdateAssignment sobrescribe el rol de una asignación existente (ruta de
// actualización). Degradar a un owner pasa por el guard de ownership.
func (f *Facade) UpdateAssignment(ctx context.Context, actor Actor, tenderID, targetUserID, role string) (*dto.AssignmentResponse, error) {
	if !tender.IsValidRole(role) {
		return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, role)
	}
	if _, err := f.RequireCapability(ctx, actor, tenderID, tender.CapabilityManageAssignees); err != nil {
		return nil, err
	}
	if err := f.checkSameTenant(ctx, actor, targetUserID); err != nil {
		return nil, err
	}

	var updated *entity.TenderAssignment
	var oldRole string
	err := f.tx.Run(ctx, func(
		tenderRepo repository.TenderRepository,
		assignmentRepo repository.AssignmentRepository,
		_ repository.TransitionRepository,
	) error {
		if err := lockTender(ctx, tenderRepo, actor.TenantID, tenderID); err != nil {
			return err
		}
		existing, err := assignmentRepo.Get(ctx, tenderID, targetUserID)
		if err != nil {
			return err
		}
		if existing == nil {
			return fmt.Errorf("%w: asignación de %s", domain.ErrNotFound, targetUserID)
		}
		oldRole = existing.Role
		// Degradar a un owner equivale a removerlo para la invariante.
		if existing.Role == tender.RoleOwner && role != tender.RoleOwner {
			if err := requireAnotherOwner(ctx, assignmentRepo, tenderID, "no se puede degradar al último owner"); err != nil {
				return err
			}
		}
		existing.Role = role
		existing.UpdatedAt = time.Now()
		if err := assignmentRepo.Upsert(ctx, existing); err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	f.emit(audit.Event{
		TenantID:    actor.TenantID,
		ActorUserID: actor.UserID,
		Action:      audit.ActionUpdate,
		Resource:    "tender",
		ResourceID:  tenderID,
		OldValues:   map[string]any{"user_id": targetUserID, "role": oldRole},
		NewValues:   map[string]any{"user_id": targetUserID, "role": role},
	})
	return toAssignmentResponse(updated), nil
}

// Revoke elimina la asignación del usuario objetivo. Remover al último owner
// viola la invariante y aborta la transacción sin efecto parcial.
func (f *Facade) Revoke(ctx context.Context, actor Actor, tenderID, targetUserID string) error {
	if _, err := f.RequireCapability(ctx, actor, tenderID, tender.CapabilityManageAssignees); err != nil {
		return err
	}

	var oldRole string
	err := f.tx.Run(ctx, func(
		tenderRepo repository.TenderRepository,
		assignmentRepo repository.AssignmentRepository,
		_ repository.TransitionRepository,
	) error {
		if err := lockTender(ctx, tenderRepo, actor.TenantID, tenderID); err != nil {
			return err
		}
		existing, err := assignmentRepo.Get(ctx, tenderID, targetUserID)
		if err != nil {
			return err
		}
		if existing == nil {
			return fmt.Errorf("%w: asignación de %s", domain.ErrNotFound, targetUserID)
		}
		oldRole = existing.Role
		if existing.Role == tender.RoleOwner {
			if err := requireAnotherOwner(ctx, assignmentRepo, tenderID, "no se puede eliminar al último owner"); err != nil {
				return err
			}
		}
		return assignmentRepo.Remove(ctx, tenderID, targetUserID)
	})
	if err != nil {
		return err
	}

	f.emit(audit.Event{
		TenantID:    actor.TenantID,
		ActorUserID: actor.UserID,
		Action:      audit.ActionUnassign,
		Resource:    "tender",
		ResourceID:  tenderID,
		OldValues:   map[string]any{"user_id": targetUserID, "role": oldRole},
	})
	return nil
}

// TransferOwnership otorga owner al usuario objetivo. Deliberadamente NO
// degrada al owner anterior: multi-owner es un estado estable válido, así que
// otorgar nunca necesita el guard (el conteo de owners solo puede crecer).
func (f *Facade) TransferOwnership(ctx context.Context, actor Actor, tenderID, targetUserID string) (*dto.AssignmentResponse, error) {
	if _, err := f.RequireCapability(ctx, actor, tenderID, tender.CapabilityManageAssignees); err != nil {
		return nil, err
	}
	if err := f.checkSameTenant(ctx, actor, targetUserID); err != nil {
		return nil, err
	}

	var result *entity.TenderAssignment
	err := f.tx.Run(ctx, func(
		tenderRepo repository.TenderRepository,
		assignmentRepo repository.AssignmentRepository,
		_ repository.TransitionRepository,
	) error {
		if err := lockTender(ctx, tenderRepo, actor.TenantID, tenderID); err != nil {
			return err
		}
		existing, err := assignmentRepo.Get(ctx, tenderID, targetUserID)
		if err != nil {
			return err
		}
		now := time.Now()
		if existing != nil {
			existing.Role = tender.RoleOwner
			existing.UpdatedAt = now
			result = existing
		} else {
			result = &entity.TenderAssignment{
				ID:        uuid.New().String(),
				TenderID:  tenderID,
				UserID:    targetUserID,
				Role:      tender.RoleOwner,
				CreatedAt: now,
				UpdatedAt: now,
			}
		}
		return assignmentRepo.Upsert(ctx, result)
	})
	if err != nil {
		return nil, err
	}

	f.emit(audit.Event{
		TenantID:    actor.TenantID,
		ActorUserID: actor.UserID,
		Action:      audit.ActionAssign,
		Resource:    "tender",
		ResourceID:  tenderID,
		NewValues:   map[string]any{"user_id": targetUserID, "role": tender.RoleOwner},
		Metadata:    map[string]any{"transfer": true},
	})
	return toAssignmentResponse(result), nil
}

// BulkAssign procesa cada entrada en su propia transacción y acumula éxitos y
// errores por entrada: una entrada duplicada o cross-tenant no aborta el lote.
// Best-effort por ítem, nunca all-or-nothing.
func (f *Facade) BulkAssign(ctx context.Context, actor Actor, tenderID string, entries []dto.AssignRequest) (*dto.BulkAssignResponse, error) {
	if _, err := f.RequireCapability(ctx, actor, tenderID, tender.CapabilityManageAssignees); err != nil {
		return nil, err
	}

	out := &dto.BulkAssignResponse{
		Created: []dto.AssignmentResponse{},
		Errors:  []dto.BulkAssignError{},
	}
	for _, entry := range entries {
		created, err := f.bulkAssignOne(ctx, actor, tenderID, entry)
		if err != nil {
			out.Errors = append(out.Errors, dto.BulkAssignError{UserID: entry.UserID, Error: err.Error()})
			continue
		}
		out.Created = append(out.Created, *created)
		f.emit(audit.Event{
			TenantID:    actor.TenantID,
			ActorUserID: actor.UserID,
			Action:      audit.ActionAssign,
			Resource:    "tender",
			ResourceID:  tenderID,
			NewValues:   map[string]any{"user_id": entry.UserID, "role": entry.Role},
		})
	}
	return out, nil
}

func (f *Facade) bulkAssignOne(ctx context.Context, actor Actor, tenderID string, entry dto.AssignRequest) (*dto.AssignmentResponse, error) {
	if !tender.IsValidRole(entry.Role) {
		return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, entry.Role)
	}
	if err := f.checkSameTenant(ctx, actor, entry.UserID); err != nil {
		return nil, err
	}
	assignment, err := f.assignInTx(ctx, actor, tenderID, entry.UserID, entry.Role)
	if err != nil {
		return nil, err
	}
	return toAssignmentResponse(assignment), nil
}

// assignInTx es la ruta de creación compartida por Assign y BulkAssign:
// bloquea el tender, rechaza pares ya asignados y persiste la asignación.
func (f *Facade) assignInTx(ctx context.Context, actor Actor, tenderID, targetUserID, role string) (*entity.TenderAssignment, error) {
	var assignment *entity.TenderAssignment
	err := f.tx.Run(ctx, func(
		tenderRepo repository.TenderRepository,
		assignmentRepo repository.AssignmentRepository,
		_ repository.TransitionRepository,
	) error {
		if err := lockTender(ctx, tenderRepo, actor.TenantID, tenderID); err != nil {
			return err
		}
		existing, err := assignmentRepo.Get(ctx, tenderID, targetUserID)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: el usuario %s ya está asignado", domain.ErrConflict, targetUserID)
		}
		now := time.Now()
		assignment = &entity.TenderAssignment{
			ID:        uuid.New().String(),
			TenderID:  tenderID,
			UserID:    targetUserID,
			Role:      role,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return assignmentRepo.Upsert(ctx, assignment)
	})
	if err != nil {
		return nil, err
	}
	return assignment, nil
}

// ListAssignees lista las asignaciones del tender (requiere read).
func (f *Facade) ListAssignees(ctx context.Context, actor Actor, tenderID string) ([]dto.AssignmentResponse, error) {
	if _, err := f.RequireCapability(ctx, actor, tenderID, tender.CapabilityRead); err != nil {
		return nil, err
	}
	assignments, err := f.assignmentRepo.ListByTender(ctx, tenderID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, *toAssignmentResponse(a))
	}
	return out, nil
}

// checkSameTenant valida que el usuario objetivo exista y pertenezca al tenant
// del actor. Cross-tenant siempre es ErrForbidden, nunca un éxito silencioso.
func (f *Facade) checkSameTenant(ctx context.Context, actor Actor, targetUserID string) error {
	target, err := f.userRepo.GetByID(ctx, targetUserID)
	if err != nil {
		return err
	}
	if target == nil || target.TenantID != actor.TenantID {
		return fmt.Errorf("%w: el usuario %s no pertenece al tenant", domain.ErrForbidden, targetUserID)
	}
	return nil
}

// lockTender bloquea la fila del tender dentro de la tx actual, de modo que
// dos chequeos concurrentes de "último owner" se serialicen.
func lockTender(ctx context.Context, tenderRepo repository.TenderRepository, tenantID, tenderID string) error {
	t, err := tenderRepo.GetByIDForUpdate(ctx, tenantID, tenderID)
	if err != nil {
		return err
	}
	if t == nil {
		return fmt.Errorf("%w: tender %s", domain.ErrNotFound, tenderID)
	}
	return nil
}

// requireAnotherOwner es el guard de ownership: dentro de la misma tx (y con
// la fila del tender bloqueada) exige que quede al menos otro owner.
func requireAnotherOwner(ctx context.Context, assignmentRepo repository.AssignmentRepository, tenderID, msg string) error {
	owners, err := assignmentRepo.CountOwners(ctx, tenderID)
	if err != nil {
		return err
	}
	if owners < 2 {
		return fmt.Errorf("%w: %s", domain.ErrBusinessRule, msg)
	}
	return nil
}

func toAssignmentResponse(a *entity.TenderAssignment) *dto.AssignmentResponse {
	if a == nil {
		return nil
	}
	return &dto.AssignmentResponse{
		TenderID:  a.TenderID,
		UserID:    a.UserID,
		Role:      a.Role,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

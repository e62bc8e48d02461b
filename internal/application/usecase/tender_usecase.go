package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/tenders-api/internal/application/access"
	"github.com/jhoicas/tenders-api/internal/application/audit"
	"github.com/jhoicas/tenders-api/internal/application/dto"
	"github.com/jhoicas/tenders-api/internal/domain"
	"github.com/jhoicas/tenders-api/internal/domain/entity"
	"github.com/jhoicas/tenders-api/internal/domain/repository"
	"github.com/jhoicas/tenders-api/internal/domain/tender"
)

// TenderUseCase aplica reglas de negocio para el CRUD de tenders. Los cambios
// de estado no pasan por aquí: son del motor de ciclo de vida.
type TenderUseCase struct {
	facade     *access.Facade
	tenderRepo repository.TenderRepository
	tx         access.TxRunner
	recorder   audit.Recorder
}

// NewTenderUseCase construye el caso de uso.
func NewTenderUseCase(
	facade *access.Facade,
	tenderRepo repository.TenderRepository,
	tx access.TxRunner,
	recorder audit.Recorder,
) *TenderUseCase {
	if recorder == nil {
		recorder = audit.NopRecorder{}
	}
	return &TenderUseCase{facade: facade, tenderRepo: tenderRepo, tx: tx, recorder: recorder}
}

// Create crea el tender en estado SCRAPED y, en la misma transacción, la
// asignación de owner del creador. Un tender nunca nace sin owner.
func (uc *TenderUseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateTenderRequest) (*dto.TenderResponse, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title es requerido", domain.ErrInvalidInput)
	}
	now := time.Now()
	t := &entity.Tender{
		ID:             uuid.New().String(),
		TenantID:       actor.TenantID,
		Title:          in.Title,
		Description:    in.Description,
		BuyerName:      in.BuyerName,
		Location:       in.Location,
		Category:       in.Category,
		SourceURL:      in.SourceURL,
		EstimatedValue: in.EstimatedValue,
		DeadlineAt:     in.DeadlineAt,
		Status:         tender.StatusScraped,
		CreatedBy:      actor.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err := uc.tx.Run(ctx, func(
		tenderRepo repository.TenderRepository,
		assignmentRepo repository.AssignmentRepository,
		_ repository.TransitionRepository,
	) error {
		if err := tenderRepo.Create(ctx, t); err != nil {
			return err
		}
		return assignmentRepo.Upsert(ctx, &entity.TenderAssignment{
			ID:        uuid.New().String(),
			TenderID:  t.ID,
			UserID:    actor.UserID,
			Role:      tender.RoleOwner,
			CreatedAt: now,
			UpdatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(audit.Event{
		TenantID:    actor.TenantID,
		ActorUserID: actor.UserID,
		Action:      audit.ActionCreate,
		Resource:    "tender",
		ResourceID:  t.ID,
		NewValues:   map[string]any{"title": t.Title, "status": t.Status},
	})
	resp := access.ToTenderResponse(t)
	return &resp, nil
}

// Get obtiene un tender junto al rol y permisos del actor (requiere read).
func (uc *TenderUseCase) Get(ctx context.Context, actor access.Actor, tenderID string) (*dto.TenderWithPermissions, error) {
	decision, err := uc.facade.RequireCapability(ctx, actor, tenderID, tender.CapabilityRead)
	if err != nil {
		return nil, err
	}
	t, err := uc.tenderRepo.GetByID(ctx, actor.TenantID, tenderID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("%w: tender %s", domain.ErrNotFound, tenderID)
	}
	return &dto.TenderWithPermissions{
		Tender:      access.ToTenderResponse(t),
		Role:        decision.EffectiveRole,
		Permissions: tender.CapabilitySet(decision.Role, actor.IsAdmin),
	}, nil
}

// Permissions es la sonda de permisos: el rol del actor y su decisión por
// capability, sin mutar nada. Un tender ausente sigue siendo 404.
func (uc *TenderUseCase) Permissions(ctx context.Context, actor access.Actor, tenderID string) (*dto.PermissionsResponse, error) {
	decision, err := uc.facade.Authorize(ctx, actor, tenderID, tender.CapabilityRead)
	if err != nil {
		return nil, err
	}
	return &dto.PermissionsResponse{
		Allowed:     decision.Allowed,
		Role:        decision.EffectiveRole,
		Reason:      decision.Reason,
		Permissions: tender.CapabilitySet(decision.Role, actor.IsAdmin),
	}, nil
}

// Update actualiza campos del tender (requiere write, contributor+). El estado
// nunca se toca por aquí.
func (uc *TenderUseCase) Update(ctx context.Context, actor access.Actor, tenderID string, in dto.UpdateTenderRequest) (*dto.TenderResponse, error) {
	if _, err := uc.facade.RequireCapability(ctx, actor, tenderID, tender.CapabilityWrite); err != nil {
		return nil, err
	}
	t, err := uc.tenderRepo.GetByID(ctx, actor.TenantID, tenderID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("%w: tender %s", domain.ErrNotFound, tenderID)
	}

	old := map[string]any{}
	changed := map[string]any{}
	applyStr := func(field string, dst *string, src *string) {
		if src != nil && *src != *dst {
			old[field] = *dst
			changed[field] = *src
			*dst = *src
		}
	}
	applyStr("title", &t.Title, in.Title)
	applyStr("description", &t.Description, in.Description)
	applyStr("buyer_name", &t.BuyerName, in.BuyerName)
	applyStr("location", &t.Location, in.Location)
	applyStr("category", &t.Category, in.Category)
	applyStr("source_url", &t.SourceURL, in.SourceURL)
	if in.EstimatedValue != nil {
		if t.EstimatedValue != nil {
			old["estimated_value"] = t.EstimatedValue.String()
		}
		changed["estimated_value"] = in.EstimatedValue.String()
		t.EstimatedValue = in.EstimatedValue
	}
	if in.DeadlineAt != nil {
		if t.DeadlineAt != nil {
			old["deadline_at"] = *t.DeadlineAt
		}
		changed["deadline_at"] = *in.DeadlineAt
		t.DeadlineAt = in.DeadlineAt
	}

	if len(changed) > 0 {
		t.UpdatedAt = time.Now()
		if err := uc.tenderRepo.Update(ctx, t); err != nil {
			return nil, err
		}
		uc.recorder.Record(audit.Event{
			TenantID:    actor.TenantID,
			ActorUserID: actor.UserID,
			Action:      audit.ActionUpdate,
			Resource:    "tender",
			ResourceID:  tenderID,
			OldValues:   old,
			NewValues:   changed,
		})
	}
	resp := access.ToTenderResponse(t)
	return &resp, nil
}

// SoftDelete marca el tender como borrado (requiere delete, owner). A partir
// de aquí es invisible para todo camino de lectura y escritura.
func (uc *TenderUseCase) SoftDelete(ctx context.Context, actor access.Actor, tenderID string) error {
	if _, err := uc.facade.RequireCapability(ctx, actor, tenderID, tender.CapabilityDelete); err != nil {
		return err
	}
	if err := uc.tenderRepo.SoftDelete(ctx, actor.TenantID, tenderID); err != nil {
		return err
	}
	uc.recorder.Record(audit.Event{
		TenantID:    actor.TenantID,
		ActorUserID: actor.UserID,
		Action:      audit.ActionDelete,
		Resource:    "tender",
		ResourceID:  tenderID,
	})
	return nil
}

// List delega en el facade el listado de tenders accesibles.
func (uc *TenderUseCase) List(ctx context.Context, actor access.Actor, in dto.ListTendersRequest) ([]dto.TenderWithPermissions, error) {
	return uc.facade.AccessibleTenders(ctx, actor, in)
}

package access

import (
	"context"
	"fmt"

	"github.com/jhoicas/tenders-api/internal/application/audit"
	"github.com/jhoicas/tenders-api/internal/domain"
	"github.com/jhoicas/tenders-api/internal/domain/entity"
	"github.com/jhoicas/tenders-api/internal/domain/repository"
	"github.com/jhoicas/tenders-api/internal/domain/tender"
)

// Facade es el único componente que consume la capa de transporte: autoriza
// actores contra tenders y gobierna las asignaciones de rol, incluida la
// invariante de que un tender con asignaciones nunca queda sin owner.
// La lógica de permisos vive en el paquete domain/tender; el facade solo la
// compone con el Role Store, nunca la re-deriva.
type Facade struct {
	tenderRepo     repository.TenderRepository
	userRepo       repository.UserRepository
	assignmentRepo repository.AssignmentRepository
	tx             TxRunner
	recorder       audit.Recorder
}

// NewFacade construye el facade con los puertos de persistencia (atados al
// pool, para lecturas), el runner transaccional y el sink de auditoría.
func NewFacade(
	tenderRepo repository.TenderRepository,
	userRepo repository.UserRepository,
	assignmentRepo repository.AssignmentRepository,
	tx TxRunner,
	recorder audit.Recorder,
) *Facade {
	if recorder == nil {
		recorder = audit.NopRecorder{}
	}
	return &Facade{
		tenderRepo:     tenderRepo,
		userRepo:       userRepo,
		assignmentRepo: assignmentRepo,
		tx:             tx,
		recorder:       recorder,
	}
}

// Authorize decide si el actor puede ejecutar capability sobre el tender.
// Lectura pura: no muta estado y con las mismas entradas devuelve lo mismo.
// ErrNotFound (tender ausente, soft-deleted o de otro tenant) tiene prioridad
// sobre cualquier chequeo de permisos.
func (f *Facade) Authorize(ctx context.Context, actor Actor, tenderID, capability string) (Decision, error) {
	if _, err := f.loadTender(ctx, actor, tenderID); err != nil {
		return Decision{}, err
	}
	role, err := f.assignmentRepo.GetRole(ctx, tenderID, actor.UserID)
	if err != nil {
		return Decision{}, err
	}
	effective := tender.EffectiveRole(role, actor.IsAdmin)
	if tender.Allowed(role, actor.IsAdmin, capability) {
		return Decision{Allowed: true, Role: role, EffectiveRole: effective}, nil
	}
	return Decision{Allowed: false, Role: role, EffectiveRole: effective, Reason: denyReason(role)}, nil
}

// RequireRole es la guard clause de conveniencia: falla con ErrForbidden si el
// rol efectivo del actor (override de admin incluido) está por debajo de min.
// Devuelve el rol almacenado del actor.
func (f *Facade) RequireRole(ctx context.Context, actor Actor, tenderID, minimumRole string) (string, error) {
	if _, err := f.loadTender(ctx, actor, tenderID); err != nil {
		return "", err
	}
	role, err := f.assignmentRepo.GetRole(ctx, tenderID, actor.UserID)
	if err != nil {
		return "", err
	}
	effective := tender.EffectiveRole(role, actor.IsAdmin)
	if !tender.RoleAtLeast(effective, minimumRole) {
		return "", fmt.Errorf("%w: %s", domain.ErrForbidden, denyReason(role))
	}
	return role, nil
}

// RequireCapability autoriza y convierte una denegación en ErrForbidden.
func (f *Facade) RequireCapability(ctx context.Context, actor Actor, tenderID, capability string) (Decision, error) {
	decision, err := f.Authorize(ctx, actor, tenderID, capability)
	if err != nil {
		return Decision{}, err
	}
	if !decision.Allowed {
		return decision, fmt.Errorf("%w: %s", domain.ErrForbidden, decision.Reason)
	}
	return decision, nil
}

// loadTender carga el tender tenant-scoped. nil se traduce a ErrNotFound:
// ausente, soft-deleted y cross-tenant son indistinguibles para el caller.
func (f *Facade) loadTender(ctx context.Context, actor Actor, tenderID string) (*entity.Tender, error) {
	t, err := f.tenderRepo.GetByID(ctx, actor.TenantID, tenderID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("%w: tender %s", domain.ErrNotFound, tenderID)
	}
	return t, nil
}

// denyReason arma la razón de denegación: sin asignación o rol insuficiente.
func denyReason(role string) string {
	if role == "" {
		return ReasonNotAssigned
	}
	return ReasonInsufficientPrefix + role
}

func (f *Facade) emit(event audit.Event) {
	f.recorder.Record(event)
}

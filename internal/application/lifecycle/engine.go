package lifecycle

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

// Engine es el motor de ciclo de vida: valida cada cambio de estado contra la
// tabla de transiciones y lo aplica junto con su registro de historial en una
// sola transacción. Un cambio de estado nunca es observable sin su fila de
// historial, ni al revés.
type Engine struct {
	facade         *access.Facade
	transitionRepo repository.TransitionRepository // atado al pool, solo lecturas de historial
	tx             access.TxRunner
	recorder       audit.Recorder
}

// NewEngine construye el motor. La autorización se delega al facade de acceso.
func NewEngine(facade *access.Facade, transitionRepo repository.TransitionRepository, tx access.TxRunner, recorder audit.Recorder) *Engine {
	if recorder == nil {
		recorder = audit.NopRecorder{}
	}
	return &Engine{facade: facade, transitionRepo: transitionRepo, tx: tx, recorder: recorder}
}

// Transition avanza el tender a toStatus si la arista existe en la tabla.
// Requiere transition_state (contributor+). Acepta cualquier destino de la
// tabla, WON y LOST incluidos; MarkOutcome es la variante que además adjunta
// el payload del resultado (valor de contrato, notas).
func (e *Engine) Transition(ctx context.Context, actor access.Actor, tenderID string, in dto.TransitionRequest) (*dto.TenderResponse, error) {
	if !tender.IsValidStatus(in.ToStatus) {
		return nil, fmt.Errorf("%w: estado %q desconocido", domain.ErrInvalidInput, in.ToStatus)
	}
	var guard func(current string) error
	if tender.IsOutcome(in.ToStatus) {
		guard = outcomeGuard(in.ToStatus)
	}
	return e.apply(ctx, actor, tenderID, in.ToStatus, in.Reason, in.Metadata, guard)
}

// MarkOutcome registra el resultado de la licitación (WON o LOST), con el
// valor de contrato y las notas de decisión como metadata del historial.
// Además de la tabla general, exige que el estado actual sea exactamente
// SUBMITTED: los endpoints de resultado no deben ser alcanzables desde ningún
// otro estado, ni siquiera transitoriamente.
func (e *Engine) MarkOutcome(ctx context.Context, actor access.Actor, tenderID string, in dto.OutcomeRequest) (*dto.TenderResponse, error) {
	if !tender.IsOutcome(in.Outcome) {
		return nil, fmt.Errorf("%w: resultado %q", domain.ErrInvalidInput, in.Outcome)
	}
	metadata := map[string]any{}
	if in.ContractValue != nil {
		metadata["contractValue"] = in.ContractValue.String()
	}
	if in.DecisionNotes != "" {
		metadata["decisionNotes"] = in.DecisionNotes
	}
	return e.apply(ctx, actor, tenderID, in.Outcome, "", metadata, outcomeGuard(in.Outcome))
}

// outcomeGuard exige que el estado actual sea exactamente SUBMITTED al momento
// de registrar un resultado, con la fila ya bloqueada. Independiente de la
// tabla de transiciones: la regla se mantiene aunque la tabla cambie.
func outcomeGuard(outcome string) func(current string) error {
	return func(current string) error {
		if current != tender.StatusSubmitted {
			return fmt.Errorf("%w: no se puede registrar %s desde %s, solo desde %s",
				domain.ErrBusinessRule, outcome, current, tender.StatusSubmitted)
		}
		return nil
	}
}

// apply es la operación transaccional compartida: autoriza, bloquea la fila
// del tender, valida la arista (y el guard extra si lo hay), escribe el nuevo
// estado y agrega el registro de transición, todo en una unidad.
func (e *Engine) apply(
	ctx context.Context,
	actor access.Actor,
	tenderID, toStatus, reason string,
	metadata map[string]any,
	extraGuard func(current string) error,
) (*dto.TenderResponse, error) {
	if _, err := e.facade.RequireCapability(ctx, actor, tenderID, tender.CapabilityTransitionState); err != nil {
		return nil, err
	}

	var updated *entity.Tender
	var fromStatus string
	err := e.tx.Run(ctx, func(
		tenderRepo repository.TenderRepository,
		_ repository.AssignmentRepository,
		transitionRepo repository.TransitionRepository,
	) error {
		current, err := tenderRepo.GetByIDForUpdate(ctx, actor.TenantID, tenderID)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("%w: tender %s", domain.ErrNotFound, tenderID)
		}
		fromStatus = current.Status
		if !tender.CanTransition(current.Status, toStatus) {
			return fmt.Errorf("%w: transición inválida de %s a %s",
				domain.ErrBusinessRule, current.Status, toStatus)
		}
		if extraGuard != nil {
			if err := extraGuard(current.Status); err != nil {
				return err
			}
		}
		if err := tenderRepo.UpdateStatus(ctx, tenderID, toStatus); err != nil {
			return err
		}
		if err := transitionRepo.Append(ctx, &entity.StateTransition{
			ID:          uuid.New().String(),
			TenderID:    tenderID,
			FromStatus:  current.Status,
			ToStatus:    toStatus,
			TriggeredBy: actor.UserID,
			Reason:      reason,
			Metadata:    metadata,
			CreatedAt:   time.Now(),
		}); err != nil {
			return err
		}
		current.Status = toStatus
		current.UpdatedAt = time.Now()
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.recorder.Record(audit.Event{
		TenantID:    actor.TenantID,
		ActorUserID: actor.UserID,
		Action:      audit.ActionTransition,
		Resource:    "tender",
		ResourceID:  tenderID,
		OldValues:   map[string]any{"status": fromStatus},
		NewValues:   map[string]any{"status": toStatus},
		Metadata:    metadata,
	})

	resp := access.ToTenderResponse(updated)
	return &resp, nil
}

// History devuelve el historial de transiciones, más reciente primero.
// Solo requiere read.
func (e *Engine) History(ctx context.Context, actor access.Actor, tenderID string, page dto.PageRequest) ([]dto.TransitionResponse, error) {
	page.DefaultPage()
	if _, err := e.facade.RequireCapability(ctx, actor, tenderID, tender.CapabilityRead); err != nil {
		return nil, err
	}
	list, err := e.transitionRepo.ListByTender(ctx, tenderID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransitionResponse, 0, len(list))
	for _, tr := range list {
		out = append(out, dto.TransitionResponse{
			ID:          tr.ID,
			TenderID:    tr.TenderID,
			FromStatus:  tr.FromStatus,
			ToStatus:    tr.ToStatus,
			TriggeredBy: tr.TriggeredBy,
			Reason:      tr.Reason,
			Metadata:    tr.Metadata,
			CreatedAt:   tr.CreatedAt,
		})
	}
	return out, nil
}

package access

import (
	"context"

	"github.com/jhoicas/tenders-api/internal/application/dto"
	"github.com/jhoicas/tenders-api/internal/domain/entity"
	"github.com/jhoicas/tenders-api/internal/domain/repository"
	"github.com/jhoicas/tenders-api/internal/domain/tender"
)

// AccessibleTenders lista los tenders visibles para el actor: los admins de
// tenant ven todos los tenders no borrados del tenant; los demás solo aquellos
// donde tienen asignación (opcionalmente filtrada por rol). Cada resultado se
// anota con el conjunto de permisos efectivo del actor.
func (f *Facade) AccessibleTenders(ctx context.Context, actor Actor, in dto.ListTendersRequest) ([]dto.TenderWithPermissions, error) {
	in.DefaultPage()
	filter := repository.TenderFilter{
		Status:          in.Status,
		IncludeArchived: in.IncludeArchived,
		Limit:           in.Limit,
		Offset:          in.Offset,
	}

	if actor.IsAdmin {
		tenders, err := f.tenderRepo.ListByTenant(ctx, actor.TenantID, filter)
		if err != nil {
			return nil, err
		}
		out := make([]dto.TenderWithPermissions, 0, len(tenders))
		for _, t := range tenders {
			// El admin puede tener además una asignación propia; el rol anotado
			// es el efectivo (owner por override).
			out = append(out, annotate(t, tender.RoleOwner, true))
		}
		return out, nil
	}

	assigned, err := f.tenderRepo.ListByAssignee(ctx, actor.TenantID, actor.UserID, in.Role, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TenderWithPermissions, 0, len(assigned))
	for _, at := range assigned {
		out = append(out, annotate(at.Tender, at.Role, false))
	}
	return out, nil
}

func annotate(t *entity.Tender, role string, isAdmin bool) dto.TenderWithPermissions {
	return dto.TenderWithPermissions{
		Tender:      ToTenderResponse(t),
		Role:        role,
		Permissions: tender.CapabilitySet(role, isAdmin),
	}
}

// ToTenderResponse mapea la entidad al DTO de salida.
func ToTenderResponse(t *entity.Tender) dto.TenderResponse {
	return dto.TenderResponse{
		ID:             t.ID,
		TenantID:       t.TenantID,
		Title:          t.Title,
		Description:    t.Description,
		BuyerName:      t.BuyerName,
		Location:       t.Location,
		Category:       t.Category,
		SourceURL:      t.SourceURL,
		EstimatedValue: t.EstimatedValue,
		DeadlineAt:     t.DeadlineAt,
		Status:         t.Status,
		CreatedBy:      t.CreatedBy,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

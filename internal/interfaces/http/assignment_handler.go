package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tenders-api/internal/application/access"
	"github.com/jhoicas/tenders-api/internal/application/dto"
)

// AssignmentHandler expone la gestión de asignados de un tender.
type AssignmentHandler struct {
	facade *access.Facade
}

func NewAssignmentHandler(facade *access.Facade) *AssignmentHandler {
	return &AssignmentHandler{facade: facade}
}

// List godoc
// @Summary Listar asignados de un tender
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del tender"
// @Success 200 {array} dto.AssignmentResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/tenders/{id}/assignees [get]
func (h *AssignmentHandler) List(c *fiber.Ctx) error {
	resp, err := h.facade.ListAssignees(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Assign godoc
// @Summary Asignar usuario a un tender
// @Description Crea una asignación nueva; falla con 409 si el usuario ya está asignado
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del tender"
// @Param request body dto.AssignRequest true "Usuario y rol"
// @Success 201 {object} dto.AssignmentResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/tenders/{id}/assignees [post]
func (h *AssignmentHandler) Assign(c *fiber.Ctx) error {
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cuerpo de la petición inválido")
	}
	if req.UserID == "" || req.Role == "" {
		return badRequest(c, "user_id y role son requeridos")
	}
	resp, err := h.facade.Assign(c.Context(), GetActor(c), c.Params("id"), req.UserID, req.Role)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Update godoc
// @Summary Cambiar el rol de un asignado
// @Description Sobrescribe el rol; nunca deja al tender sin owner
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del tender"
// @Param userId path string true "ID del usuario asignado"
// @Param request body object true "Nuevo rol"
// @Success 200 {object} dto.AssignmentResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/tenders/{id}/assignees/{userId} [put]
func (h *AssignmentHandler) Update(c *fiber.Ctx) error {
	var req struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cuerpo de la petición inválido")
	}
	if req.Role == "" {
		return badRequest(c, "role es requerido")
	}
	resp, err := h.facade.UpdateAssignment(c.Context(), GetActor(c), c.Params("id"), c.Params("userId"), req.Role)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Revoke godoc
// @Summary Quitar un asignado de un tender
// @Description Elimina la asignación; nunca deja al tender sin owner
// @Tags assignments
// @Security BearerAuth
// @Param id path string true "ID del tender"
// @Param userId path string true "ID del usuario asignado"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/tenders/{id}/assignees/{userId} [delete]
func (h *AssignmentHandler) Revoke(c *fiber.Ctx) error {
	if err := h.facade.Revoke(c.Context(), GetActor(c), c.Params("id"), c.Params("userId")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// BulkAssign godoc
// @Summary Asignación masiva
// @Description Procesa cada entrada de forma independiente y devuelve éxitos y errores por entrada
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del tender"
// @Param request body dto.BulkAssignRequest true "Entradas a asignar"
// @Success 200 {object} dto.BulkAssignResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/tenders/{id}/assignees/bulk [post]
func (h *AssignmentHandler) BulkAssign(c *fiber.Ctx) error {
	var req dto.BulkAssignRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cuerpo de la petición inválido")
	}
	if len(req.Entries) == 0 {
		return badRequest(c, "entries no puede estar vacío")
	}
	resp, err := h.facade.BulkAssign(c.Context(), GetActor(c), c.Params("id"), req.Entries)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// TransferOwnership godoc
// @Summary Transferir ownership
// @Description Otorga rol owner al destinatario sin degradar al owner actual
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del tender"
// @Param request body dto.TransferOwnershipRequest true "Usuario destinatario"
// @Success 200 {object} dto.AssignmentResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/tenders/{id}/assignees/transfer [post]
func (h *AssignmentHandler) TransferOwnership(c *fiber.Ctx) error {
	var req dto.TransferOwnershipRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cuerpo de la petición inválido")
	}
	if req.UserID == "" {
		return badRequest(c, "user_id es requerido")
	}
	resp, err := h.facade.TransferOwnership(c.Context(), GetActor(c), c.Params("id"), req.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tenders-api/internal/application/dto"
	"github.com/jhoicas/tenders-api/internal/application/usecase"
)

// TenderHandler expone el CRUD de tenders y la sonda de permisos.
type TenderHandler struct {
	tenderUseCase *usecase.TenderUseCase
}

func NewTenderHandler(tenderUseCase *usecase.TenderUseCase) *TenderHandler {
	return &TenderHandler{tenderUseCase: tenderUseCase}
}

// Create godoc
// @Summary Crear tender
// @Description Crea un tender en estado SCRAPED; el creador queda como owner
// @Tags tenders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTenderRequest true "Datos del tender"
// @Success 201 {object} dto.TenderResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/tenders [post]
func (h *TenderHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTenderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cuerpo de la petición inválido")
	}
	if req.Title == "" {
		return badRequest(c, "title es requerido")
	}
	resp, err := h.tenderUseCase.Create(c.Context(), GetActor(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// List godoc
// @Summary Listar tenders accesibles
// @Description Devuelve los tenders visibles para el actor, anotados con rol y permisos
// @Tags tenders
// @Produce json
// @Security BearerAuth
// @Param role query string false "Filtro por rol mínimo (owner, contributor, viewer)"
// @Param status query string false "Filtro por estado"
// @Param include_archived query bool false "Incluir tenders archivados"
// @Param limit query int false "Límite de página"
// @Param offset query int false "Desplazamiento"
// @Success 200 {array} dto.TenderWithPermissions
// @Router /api/tenders [get]
func (h *TenderHandler) List(c *fiber.Ctx) error {
	var req dto.ListTendersRequest
	if err := c.QueryParser(&req); err != nil {
		return badRequest(c, "parámetros de consulta inválidos")
	}
	req.DefaultPage()
	resp, err := h.tenderUseCase.List(c.Context(), GetActor(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Get godoc
// @Summary Obtener tender
// @Tags tenders
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del tender"
// @Success 200 {object} dto.TenderWithPermissions
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/tenders/{id} [get]
func (h *TenderHandler) Get(c *fiber.Ctx) error {
	resp, err := h.tenderUseCase.Get(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Permissions godoc
// @Summary Consultar permisos sobre un tender
// @Description Sonda de permisos: devuelve el rol efectivo y las capabilities del actor
// @Tags tenders
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del tender"
// @Success 200 {object} dto.PermissionsResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/tenders/{id}/permissions [get]
func (h *TenderHandler) Permissions(c *fiber.Ctx) error {
	resp, err := h.tenderUseCase.Permissions(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Update godoc
// @Summary Actualizar tender
// @Description Actualización parcial de campos; el estado no se cambia por aquí
// @Tags tenders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del tender"
// @Param request body dto.UpdateTenderRequest true "Campos a actualizar"
// @Success 200 {object} dto.TenderResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/tenders/{id} [patch]
func (h *TenderHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateTenderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cuerpo de la petición inválido")
	}
	resp, err := h.tenderUseCase.Update(c.Context(), GetActor(c), c.Params("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Delete godoc
// @Summary Eliminar tender (soft delete)
// @Tags tenders
// @Security BearerAuth
// @Param id path string true "ID del tender"
// @Success 204
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/tenders/{id} [delete]
func (h *TenderHandler) Delete(c *fiber.Ctx) error {
	if err := h.tenderUseCase.SoftDelete(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

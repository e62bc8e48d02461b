package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tenders-api/internal/application/dto"
	"github.com/jhoicas/tenders-api/internal/application/lifecycle"
)

// LifecycleHandler expone transiciones de estado, resultado e historial.
type LifecycleHandler struct {
	engine *lifecycle.Engine
}

func NewLifecycleHandler(engine *lifecycle.Engine) *LifecycleHandler {
	return &LifecycleHandler{engine: engine}
}

// Transition godoc
// @Summary Avanzar el estado de un tender
// @Description Aplica una transición permitida por el ciclo de vida y registra el historial
// @Tags lifecycle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del tender"
// @Param request body dto.TransitionRequest true "Estado destino y motivo"
// @Success 200 {object} dto.TenderResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/tenders/{id}/transitions [post]
func (h *LifecycleHandler) Transition(c *fiber.Ctx) error {
	var req dto.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cuerpo de la petición inválido")
	}
	if req.ToStatus == "" {
		return badRequest(c, "to_status es requerido")
	}
	resp, err := h.engine.Transition(c.Context(), GetActor(c), c.Params("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Outcome godoc
// @Summary Registrar el resultado de una licitación
// @Description Marca WON o LOST; solo válido cuando el tender está en SUBMITTED
// @Tags lifecycle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del tender"
// @Param request body dto.OutcomeRequest true "Resultado y detalle"
// @Success 200 {object} dto.TenderResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/tenders/{id}/outcome [post]
func (h *LifecycleHandler) Outcome(c *fiber.Ctx) error {
	var req dto.OutcomeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cuerpo de la petición inválido")
	}
	if req.Outcome == "" {
		return badRequest(c, "outcome es requerido")
	}
	resp, err := h.engine.MarkOutcome(c.Context(), GetActor(c), c.Params("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// History godoc
// @Summary Historial de transiciones de un tender
// @Description Lista las transiciones de la más reciente a la más antigua
// @Tags lifecycle
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del tender"
// @Param limit query int false "Límite de página"
// @Param offset query int false "Desplazamiento"
// @Success 200 {array} dto.TransitionResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/tenders/{id}/transitions [get]
func (h *LifecycleHandler) History(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "parámetros de consulta inválidos")
	}
	page.DefaultPage()
	resp, err := h.engine.History(c.Context(), GetActor(c), c.Params("id"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

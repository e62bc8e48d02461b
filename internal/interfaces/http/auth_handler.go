package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tenders-api/internal/application/auth"
	"github.com/jhoicas/tenders-api/internal/application/dto"
)

// AuthHandler expone registro y login.
type AuthHandler struct {
	authUseCase *auth.AuthUseCase
}

func NewAuthHandler(authUseCase *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{authUseCase: authUseCase}
}

// Register godoc
// @Summary Registrar usuario
// @Description Crea un usuario dentro de un tenant existente
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Datos de registro"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cuerpo de la petición inválido")
	}
	if req.Email == "" || req.Password == "" || req.TenantID == "" {
		return badRequest(c, "email, password y tenant_id son requeridos")
	}
	user, err := h.authUseCase.RegisterUser(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login godoc
// @Summary Login
// @Description Autentica un usuario y devuelve un JWT con tenant y rol
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object true "Credenciales (email, password, tenant_id)"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req struct {
		dto.LoginRequest
		TenantID string `json:"tenant_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cuerpo de la petición inválido")
	}
	if req.Email == "" || req.Password == "" || req.TenantID == "" {
		return badRequest(c, "email, password y tenant_id son requeridos")
	}
	resp, err := h.authUseCase.Login(c.Context(), req.TenantID, req.LoginRequest)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/restaurante-inventario/internal/application/auth"
	"github.com/jhoicas/restaurante-inventario/internal/application/dto"
)

// AuthHandler sesiones por rol.
type AuthHandler struct {
	uc     *auth.SessionUseCase
	logger zerolog.Logger
}

// NewAuthHandler construye el handler.
func NewAuthHandler(uc *auth.SessionUseCase, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, logger: logger}
}

// Session godoc
// @Summary      Iniciar sesión con un rol
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SessionRequest  true  "Rol elegido"
// @Success      201   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth/session [post]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	var in dto.SessionRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.logger, err)
	}
	out, err := h.uc.Start(in)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Me godoc
// @Summary      Rol y permisos de la sesión actual
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	caller := GetCaller(c)
	return c.JSON(dto.SessionResponse{
		UserID:      caller.ID,
		Role:        caller.Role,
		Permissions: dto.FromPermissions(caller.Permissions),
	})
}

package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/restaurante-inventario/internal/application/dto"
	"github.com/jhoicas/restaurante-inventario/internal/domain/entity"
)

// LocalCaller key de Fiber Locals con el entity.Caller de la petición.
const LocalCaller = "caller"

// Authenticator valida un token de sesión.
type Authenticator interface {
	Authenticate(token string) (entity.Caller, error)
}

// AuthMiddleware valida el Bearer Token JWT y guarda el llamador (ID, rol y permisos) en c.Locals.
func AuthMiddleware(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		caller, err := auth.Authenticate(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalCaller, caller)
		return c.Next()
	}
}

// GetCaller devuelve el llamador del contexto (después del middleware de auth).
// Sin middleware devuelve un almacenista anónimo.
func GetCaller(c *fiber.Ctx) entity.Caller {
	if caller, ok := c.Locals(LocalCaller).(entity.Caller); ok {
		return caller
	}
	return entity.NewCaller("", entity.RoleAlmacenista)
}

// RequirePermission corta la petición con 403 si el rol no tiene la capacidad.
// Debe usarse DESPUÉS de AuthMiddleware.
func RequirePermission(name string, allowed func(entity.Permissions) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !allowed(GetCaller(c).Permissions) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "el rol no tiene el permiso '" + name + "'",
			})
		}
		return c.Next()
	}
}

package auth

import (
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/restaurante-inventario/internal/application/dto"
	"github.com/jhoicas/restaurante-inventario/internal/domain"
	"github.com/jhoicas/restaurante-inventario/internal/domain/entity"
	"github.com/jhoicas/restaurante-inventario/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// SessionUseCase emite y valida las sesiones por rol. No hay usuarios registrados:
// cada sesión elige su rol y recibe un ID propio.
type SessionUseCase struct {
	jwtCfg JWTConfig
	newID  func() string
}

// NewSessionUseCase construye el caso de uso de sesión.
func NewSessionUseCase(jwtCfg JWTConfig) *SessionUseCase {
	return &SessionUseCase{jwtCfg: jwtCfg, newID: uuid.NewString}
}

// Start abre una sesión para el rol pedido y devuelve el token con sus permisos.
func (uc *SessionUseCase) Start(in dto.SessionRequest) (*dto.SessionResponse, error) {
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if !entity.ValidRole(role) {
		return nil, domain.Invalid("role", "rol desconocido: %q", in.Role)
	}
	userID := uc.newID()
	token, err := jwt.Generate(uc.jwtCfg.Secret, userID, strings.TrimSpace(in.Name), role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.SessionResponse{
		Token:       token,
		UserID:      userID,
		Role:        role,
		Permissions: dto.FromPermissions(entity.PermissionsForRole(role)),
	}, nil
}

// Authenticate valida el token y devuelve el llamador con los permisos de su rol.
// Cualquier token inválido o vencido devuelve domain.ErrUnauthorized.
func (uc *SessionUseCase) Authenticate(token string) (entity.Caller, error) {
	claims, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return entity.Caller{}, domain.ErrUnauthorized
	}
	if claims.UserID == "" || !entity.ValidRole(claims.Role) {
		return entity.Caller{}, domain.ErrUnauthorized
	}
	return entity.NewCaller(claims.UserID, claims.Role), nil
}

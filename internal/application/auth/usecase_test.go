package auth

import (
	"errors"
	"testing"

	"github.com/jhoicas/restaurante-inventario/internal/application/dto"
	"github.com/jhoicas/restaurante-inventario/internal/domain"
	"github.com/jhoicas/restaurante-inventario/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessions() *SessionUseCase {
	return NewSessionUseCase(JWTConfig{Secret: "test-secret", ExpMinutes: 5, Issuer: "test"})
}

func TestStart_EmiteTokenConPermisosDelRol(t *testing.T) {
	uc := newSessions()

	res, err := uc.Start(dto.SessionRequest{Role: "Inventario", Name: "Ana"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.NotEmpty(t, res.UserID)
	assert.Equal(t, entity.RoleInventario, res.Role)
	assert.True(t, res.Permissions.CanDeleteProducts)
	assert.False(t, res.Permissions.CanAccessSettings)

	caller, err := uc.Authenticate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.UserID, caller.ID)
	assert.Equal(t, entity.RoleInventario, caller.Role)
	assert.True(t, caller.Permissions.CanManuallyAdjustStock)
}

func TestStart_RolDesconocido(t *testing.T) {
	_, err := newSessions().Start(dto.SessionRequest{Role: "gerente"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestAuthenticate_TokenInvalido(t *testing.T) {
	uc := newSessions()
	res, err := NewSessionUseCase(JWTConfig{Secret: "otro", ExpMinutes: 5}).Start(dto.SessionRequest{Role: "jefe"})
	require.NoError(t, err)

	_, err = uc.Authenticate(res.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Authenticate("no-es-un-token")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

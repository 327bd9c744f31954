package dto

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// LooseDecimal número que acepta JSON numérico, texto ("15,5" o "15.5") o null.
// Lo que no se pueda leer queda como ausente (Valid=false) y el caso de uso aplica su valor por defecto.
type LooseDecimal struct {
	decimal.NullDecimal
}

// UnmarshalJSON nunca falla.
func (l *LooseDecimal) UnmarshalJSON(b []byte) error {
	l.NullDecimal = decimal.NullDecimal{}
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		return nil
	}
	s = strings.ReplaceAll(strings.TrimSpace(strings.Trim(s, `"`)), ",", ".")
	if v, err := decimal.NewFromString(s); err == nil {
		l.NullDecimal = decimal.NewNullDecimal(v)
	}
	return nil
}

// SessionRequest entrada de POST /api/auth/session.
type SessionRequest struct {
	Role string `json:"role" validate:"required,oneof=jefe inventario almacenista"`
	Name string `json:"name" validate:"omitempty,max=100"`
}

// PermissionsDTO capacidades del rol de la sesión.
type PermissionsDTO struct {
	CanAccessSettings      bool `json:"can_access_settings"`
	CanDeleteProducts      bool `json:"can_delete_products"`
	CanProcessRequisitions bool `json:"can_process_requisitions"`
	CanCreateProductions   bool `json:"can_create_productions"`
	CanManuallyAdjustStock bool `json:"can_manually_adjust_stock"`
	CanViewFullHistory     bool `json:"can_view_full_history"`
}

// SessionResponse token emitido para la sesión.
type SessionResponse struct {
	Token       string         `json:"token,omitempty"`
	UserID      string         `json:"user_id"`
	Role        string         `json:"role"`
	Permissions PermissionsDTO `json:"permissions"`
}

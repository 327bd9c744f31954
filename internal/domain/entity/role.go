package entity

// Roles de sesión.
const (
	RoleJefe        = "jefe"
	RoleInventario  = "inventario"
	RoleAlmacenista = "almacenista"
)

// Permissions capacidades que un llamador trae explícitamente a cada caso de uso.
type Permissions struct {
	CanAccessSettings      bool
	CanDeleteProducts      bool
	CanProcessRequisitions bool
	CanCreateProductions   bool
	CanManuallyAdjustStock bool
	CanViewFullHistory     bool
}

// PermissionsForRole traduce un rol a su conjunto de permisos.
// Un rol desconocido recibe los permisos más restrictivos (almacenista).
func PermissionsForRole(role string) Permissions {
	switch role {
	case RoleJefe:
		return Permissions{
			CanAccessSettings:      true,
			CanDeleteProducts:      true,
			CanProcessRequisitions: true,
			CanCreateProductions:   true,
			CanManuallyAdjustStock: true,
			CanViewFullHistory:     true,
		}
	case RoleInventario:
		return Permissions{
			CanDeleteProducts:      true,
			CanProcessRequisitions: true,
			CanCreateProductions:   true,
			CanManuallyAdjustStock: true,
			CanViewFullHistory:     true,
		}
	default:
		return Permissions{
			CanProcessRequisitions: true,
			CanCreateProductions:   true,
		}
	}
}

// ValidRole indica si el rol es uno de los conocidos.
func ValidRole(role string) bool {
	return role == RoleJefe || role == RoleInventario || role == RoleAlmacenista
}

// Caller identifica quién invoca un caso de uso y con qué permisos.
// Se construye en el borde (HTTP, asistente) y se pasa explícitamente.
type Caller struct {
	ID          string
	Role        string
	Permissions Permissions
}

// NewCaller construye el llamador a partir de su rol.
func NewCaller(id, role string) Caller {
	if !ValidRole(role) {
		role = RoleAlmacenista
	}
	return Caller{ID: id, Role: role, Permissions: PermissionsForRole(role)}
}

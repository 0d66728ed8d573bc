package entity

import "time"

// Role rol de usuario dentro de la jerarquía fija.
type Role string

// Roles válidos para User, del más privilegiado al menos privilegiado.
const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
	RoleViewer  Role = "viewer"
)

// RolesHierarchy orden de privilegio; el índice es el rango (0 = más privilegiado).
var RolesHierarchy = []Role{RoleAdmin, RoleManager, RoleUser, RoleViewer}

// Rank devuelve la posición del rol en la jerarquía, o -1 si no existe.
func (r Role) Rank() int {
	for i, role := range RolesHierarchy {
		if role == r {
			return i
		}
	}
	return -1
}

// Valid indica si el rol pertenece a la jerarquía.
func (r Role) Valid() bool { return r.Rank() >= 0 }

// UserStatus estado de la cuenta.
type UserStatus string

// Estados de usuario.
const (
	StatusActive    UserStatus = "active"
	StatusSuspended UserStatus = "suspended"
)

// Valid indica si el estado es conocido.
func (s UserStatus) Valid() bool { return s == StatusActive || s == StatusSuspended }

// User representa un usuario de la consola.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"passwordHash"` // bcrypt hash, nunca la contraseña en claro
	Role         Role       `json:"role"`
	Status       UserStatus `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// IsActive indica si la cuenta puede operar.
func (u *User) IsActive() bool { return u != nil && u.Status == StatusActive }

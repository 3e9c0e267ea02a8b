package models

import (
	"time"
)

// Admin user roles.
const (
	RolAdmin   = "admin"
	RolSoporte = "soporte"
)

type AdminUser struct {
	ID            int64      `json:"id" db:"id"`
	Nombre        string     `json:"nombre" db:"nombre"`
	Correo        string     `json:"correo" db:"correo"`
	Telefono      *string    `json:"telefono" db:"telefono"`
	Rol           string     `json:"rol" db:"rol"`
	Activo        bool       `json:"activo" db:"activo"`
	PasswordHash  string     `json:"-" db:"contraseña"`
	UltimoIngreso *time.Time `json:"ultimo_ingreso" db:"ultimo_ingreso"`
	FechaCreacion time.Time  `json:"fecha_creacion" db:"fecha_creacion"`
}

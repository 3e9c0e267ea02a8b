package models

import (
	"time"
)

// Tenant is one row of the shared registry table. Esquema points at the
// tenant's own isolated schema; a row with an empty Esquema is treated as
// not-a-tenant by the lifecycle service.
type Tenant struct {
	ID               int64      `json:"id" db:"id"`
	Nombre           string     `json:"nombre" db:"nombre"`
	Nit              *string    `json:"nit" db:"nit"`
	EmailContacto    string     `json:"email_contacto" db:"email_contacto"`
	TelefonoContacto *string    `json:"telefono_contacto" db:"telefono_contacto"`
	Direccion        *string    `json:"direccion" db:"direccion"`
	Estado           bool       `json:"estado" db:"estado"`
	PasswordHash     string     `json:"-" db:"contraseña"`
	UltimoIngreso    *time.Time `json:"ultimo_ingreso" db:"ultimo_ingreso"`
	FechaCreacion    time.Time  `json:"fecha_creacion" db:"fecha_creacion"`
	Esquema          string     `json:"esquema" db:"esquema"`
}

package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"adminplatform/internal/apperrors"
	"adminplatform/internal/models"
)

// RegistryFields carries the registry columns of a tenant update. A nil
// pointer leaves the column untouched. Esquema is set by the tenant service
// after a successful schema rename so the row keeps pointing at the schema
// that actually exists.
type RegistryFields struct {
	Nombre           *string
	EmailContacto    *string
	Estado           *bool
	Nit              *string
	Direccion        *string
	TelefonoContacto *string
	Esquema          *string
}

// TenantRepository persists rows of the shared tenant registry table. It
// knows nothing about the per-tenant schemas; that coordination belongs to
// the tenant service.
type TenantRepository interface {
	Create(ctx context.Context, tenant *models.Tenant) error
	GetByID(ctx context.Context, id int64) (*models.Tenant, error)
	List(ctx context.Context) ([]*models.Tenant, error)
	UpdateRegistryFields(ctx context.Context, id int64, fields RegistryFields) error
	Delete(ctx context.Context, id int64) (int64, error)
}

type tenantRepo struct {
	db Database
}

func NewTenantRepo(db Database) TenantRepository {
	return &tenantRepo{db: db}
}

const tenantColumns = `id, nombre, nit, email_contacto, telefono_contacto, direccion, estado, ultimo_ingreso, fecha_creacion, esquema`

func scanTenant(row pgx.Row) (*models.Tenant, error) {
	t := &models.Tenant{}
	err := row.Scan(&t.ID, &t.Nombre, &t.Nit, &t.EmailContacto, &t.TelefonoContacto,
		&t.Direccion, &t.Estado, &t.UltimoIngreso, &t.FechaCreacion, &t.Esquema)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *tenantRepo) Create(ctx context.Context, tenant *models.Tenant) error {
	query := `
		INSERT INTO admin_platform.tenants (nombre, nit, email_contacto, telefono_contacto, direccion, estado, contraseña, esquema)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, fecha_creacion
	`
	err := r.db.QueryRow(ctx, query,
		tenant.Nombre, tenant.Nit, tenant.EmailContacto, tenant.TelefonoContacto,
		tenant.Direccion, tenant.Estado, tenant.PasswordHash, tenant.Esquema,
	).Scan(&tenant.ID, &tenant.FechaCreacion)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert tenant: %w", apperrors.ErrDuplicateKey)
		}
		return fmt.Errorf("insert tenant: %w", err)
	}
	return nil
}

func (r *tenantRepo) GetByID(ctx context.Context, id int64) (*models.Tenant, error) {
	query := `
		SELECT ` + tenantColumns + `
		FROM admin_platform.tenants
		WHERE id = $1
	`
	t, err := scanTenant(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get tenant %d: %w", id, err)
	}
	return t, nil
}

// List returns all tenants, newest first.
func (r *tenantRepo) List(ctx context.Context) ([]*models.Tenant, error) {
	query := `
		SELECT ` + tenantColumns + `
		FROM admin_platform.tenants
		ORDER BY id DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []*models.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

// UpdateRegistryFields updates registry columns. Each column changes only
// when its pointer is set.
func (r *tenantRepo) UpdateRegistryFields(ctx context.Context, id int64, fields RegistryFields) error {
	query := `
		UPDATE admin_platform.tenants
		SET nombre = CASE WHEN $1 THEN $2 ELSE nombre END,
		    email_contacto = CASE WHEN $3 THEN $4 ELSE email_contacto END,
		    estado = CASE WHEN $5 THEN $6 ELSE estado END,
		    nit = CASE WHEN $7 THEN $8 ELSE nit END,
		    direccion = CASE WHEN $9 THEN $10 ELSE direccion END,
		    telefono_contacto = CASE WHEN $11 THEN $12 ELSE telefono_contacto END,
		    esquema = CASE WHEN $13 THEN $14 ELSE esquema END
		WHERE id = $15
	`
	tag, err := r.db.Exec(ctx, query,
		fields.Nombre != nil, fields.Nombre,
		fields.EmailContacto != nil, fields.EmailContacto,
		fields.Estado != nil, fields.Estado,
		fields.Nit != nil, fields.Nit,
		fields.Direccion != nil, fields.Direccion,
		fields.TelefonoContacto != nil, fields.TelefonoContacto,
		fields.Esquema != nil, fields.Esquema,
		id,
	)
	if err != nil {
		return fmt.Errorf("update tenant %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete removes the registry row and reports how many rows went away. The
// tenant service checks existence beforehand, so zero is not an error here.
func (r *tenantRepo) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM admin_platform.tenants WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete tenant %d: %w", id, err)
	}
	return tag.RowsAffected(), nil
}

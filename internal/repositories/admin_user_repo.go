package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"adminplatform/internal/apperrors"
	"adminplatform/internal/models"
)

type AdminUserRepository interface {
	Create(ctx context.Context, user *models.AdminUser) error
	GetByID(ctx context.Context, id int64) (*models.AdminUser, error)
	GetByCorreo(ctx context.Context, correo string) (*models.AdminUser, error)
	List(ctx context.Context) ([]*models.AdminUser, error)
	Update(ctx context.Context, user *models.AdminUser) error
	Delete(ctx context.Context, id int64) error
	RecordLogin(ctx context.Context, id int64) error
}

type adminUserRepo struct {
	db Database
}

func NewAdminUserRepo(db Database) AdminUserRepository {
	return &adminUserRepo{db: db}
}

const adminUserColumns = `id, nombre, correo, telefono, rol, activo, contraseña, ultimo_ingreso, fecha_creacion`

func scanAdminUser(row pgx.Row) (*models.AdminUser, error) {
	u := &models.AdminUser{}
	err := row.Scan(&u.ID, &u.Nombre, &u.Correo, &u.Telefono, &u.Rol, &u.Activo,
		&u.PasswordHash, &u.UltimoIngreso, &u.FechaCreacion)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *adminUserRepo) Create(ctx context.Context, user *models.AdminUser) error {
	query := `
		INSERT INTO admin_platform.admin_users (nombre, correo, telefono, rol, contraseña, activo)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, fecha_creacion
	`
	err := r.db.QueryRow(ctx, query,
		user.Nombre, user.Correo, user.Telefono, user.Rol, user.PasswordHash, user.Activo,
	).Scan(&user.ID, &user.FechaCreacion)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert admin user: %w", apperrors.ErrDuplicateKey)
		}
		return fmt.Errorf("insert admin user: %w", err)
	}
	return nil
}

func (r *adminUserRepo) GetByID(ctx context.Context, id int64) (*models.AdminUser, error) {
	query := `
		SELECT ` + adminUserColumns + `
		FROM admin_platform.admin_users
		WHERE id = $1
	`
	u, err := scanAdminUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get admin user %d: %w", id, err)
	}
	return u, nil
}

func (r *adminUserRepo) GetByCorreo(ctx context.Context, correo string) (*models.AdminUser, error) {
	query := `
		SELECT ` + adminUserColumns + `
		FROM admin_platform.admin_users
		WHERE correo = $1
	`
	u, err := scanAdminUser(r.db.QueryRow(ctx, query, correo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get admin user by correo: %w", err)
	}
	return u, nil
}

func (r *adminUserRepo) List(ctx context.Context) ([]*models.AdminUser, error) {
	query := `
		SELECT ` + adminUserColumns + `
		FROM admin_platform.admin_users
		ORDER BY id DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list admin users: %w", err)
	}
	defer rows.Close()

	var users []*models.AdminUser
	for rows.Next() {
		u, err := scanAdminUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan admin user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update writes the full row back. The service merges partial input into the
// loaded row first, so every column is present here.
func (r *adminUserRepo) Update(ctx context.Context, user *models.AdminUser) error {
	query := `
		UPDATE admin_platform.admin_users
		SET nombre = $2, correo = $3, telefono = $4, rol = $5, activo = $6, contraseña = $7
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		user.ID, user.Nombre, user.Correo, user.Telefono, user.Rol, user.Activo, user.PasswordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update admin user: %w", apperrors.ErrDuplicateKey)
		}
		return fmt.Errorf("update admin user %d: %w", user.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *adminUserRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM admin_platform.admin_users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete admin user %d: %w", id, err)
	}
	return nil
}

func (r *adminUserRepo) RecordLogin(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `UPDATE admin_platform.admin_users SET ultimo_ingreso = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("record login %d: %w", id, err)
	}
	return nil
}

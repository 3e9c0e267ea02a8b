// Package provisioner manages the per-tenant isolated schemas. It is the
// sole authority that mints and retires schema names; nothing else in the
// codebase issues DDL against tenant schemas.
package provisioner

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"adminplatform/internal/apperrors"
	"adminplatform/internal/repositories"
)

const (
	schemaPrefix    = "tenant_"
	maxSlugLen      = 24
	maxMintAttempts = 5
)

// Schema is the explicit handle for a provisioned resource. The registry
// stores the name; callers pass the handle back for update and teardown.
type Schema struct {
	Name string
}

// Seed is the bootstrap record written inside a freshly provisioned schema,
// letting the tenant authenticate independently against its own partition.
type Seed struct {
	Nombre       string
	Email        string
	Telefono     *string
	PasswordHash string
	Activo       bool
}

// UpdateFields mutates the tenant-internal account record. PasswordHash nil
// keeps the stored hash.
type UpdateFields struct {
	Nombre       string
	Email        string
	Telefono     *string
	PasswordHash *string
	Activo       bool
}

type Provisioner interface {
	Provision(ctx context.Context, seed Seed) (Schema, error)
	Update(ctx context.Context, schema Schema, renameTo string, fields UpdateFields) error
	Deprovision(ctx context.Context, schema Schema) error
	Exists(ctx context.Context, name string) (bool, error)
	ListTenantSchemas(ctx context.Context) ([]string, error)
}

type schemaProvisioner struct {
	db  repositories.Database
	log *zap.Logger
}

func NewSchemaProvisioner(db repositories.Database, log *zap.Logger) Provisioner {
	return &schemaProvisioner{db: db, log: log}
}

// slugify reduces a display name to a safe schema-name fragment.
func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteByte('_')
		}
	}
	slug := strings.Trim(b.String(), "_")
	if slug == "" {
		slug = "org"
	}
	if len(slug) > maxSlugLen {
		slug = slug[:maxSlugLen]
	}
	return slug
}

// mintName derives a unique schema name from the seed. Uniqueness is checked
// against pg_namespace; the random suffix makes collisions rare, the retry
// loop makes them harmless.
func (p *schemaProvisioner) mintName(ctx context.Context, nombre string) (string, error) {
	slug := slugify(nombre)
	for attempt := 0; attempt < maxMintAttempts; attempt++ {
		suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
		name := schemaPrefix + slug + "_" + suffix
		taken, err := p.Exists(ctx, name)
		if err != nil {
			return "", err
		}
		if !taken {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: could not mint a unique schema name for %q", apperrors.ErrSchemaProvisioning, slug)
}

func (p *schemaProvisioner) Exists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := p.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM pg_namespace WHERE nspname = $1)`, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check schema %q: %w", name, err)
	}
	return exists, nil
}

func (p *schemaProvisioner) ListTenantSchemas(ctx context.Context) ([]string, error) {
	rows, err := p.db.Query(ctx,
		`SELECT nspname FROM pg_namespace WHERE nspname LIKE 'tenant\_%' ORDER BY nspname`)
	if err != nil {
		return nil, fmt.Errorf("list tenant schemas: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan schema name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Provision creates the schema, its account table and the bootstrap record
// in a single transaction. On any failure the transaction rolls back and no
// partial schema survives.
func (p *schemaProvisioner) Provision(ctx context.Context, seed Seed) (Schema, error) {
	name, err := p.mintName(ctx, seed.Nombre)
	if err != nil {
		return Schema{}, err
	}

	tx, err := p.db.Begin(ctx)
	if err != nil {
		return Schema{}, fmt.Errorf("%w: begin: %v", apperrors.ErrSchemaProvisioning, err)
	}
	defer tx.Rollback(ctx)

	ident := pgx.Identifier{name}.Sanitize()

	if _, err := tx.Exec(ctx, fmt.Sprintf(`CREATE SCHEMA %s`, ident)); err != nil {
		return Schema{}, fmt.Errorf("%w: create schema: %v", apperrors.ErrSchemaProvisioning, err)
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE %s.cuenta (
			id SERIAL PRIMARY KEY,
			nombre TEXT NOT NULL,
			email TEXT NOT NULL,
			telefono TEXT,
			contraseña TEXT NOT NULL,
			activo BOOLEAN NOT NULL DEFAULT TRUE,
			fecha_creacion TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, ident)
	if _, err := tx.Exec(ctx, createTable); err != nil {
		return Schema{}, fmt.Errorf("%w: create account table: %v", apperrors.ErrSchemaProvisioning, err)
	}

	insert := fmt.Sprintf(`
		INSERT INTO %s.cuenta (nombre, email, telefono, contraseña, activo)
		VALUES ($1, $2, $3, $4, $5)`, ident)
	if _, err := tx.Exec(ctx, insert, seed.Nombre, seed.Email, seed.Telefono, seed.PasswordHash, seed.Activo); err != nil {
		return Schema{}, fmt.Errorf("%w: seed account record: %v", apperrors.ErrSchemaProvisioning, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Schema{}, fmt.Errorf("%w: commit: %v", apperrors.ErrSchemaProvisioning, err)
	}

	p.log.Info("tenant schema provisioned", zap.String("schema", name))
	return Schema{Name: name}, nil
}

// Update mutates the account record and optionally renames the schema. The
// rename and the record update share one transaction, so a rename never
// sticks without the record change and vice versa.
func (p *schemaProvisioner) Update(ctx context.Context, schema Schema, renameTo string, fields UpdateFields) error {
	effective := schema.Name

	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("update schema %q: begin: %w", schema.Name, err)
	}
	defer tx.Rollback(ctx)

	if renameTo != "" && renameTo != schema.Name {
		var taken bool
		err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM pg_namespace WHERE nspname = $1)`, renameTo,
		).Scan(&taken)
		if err != nil {
			return fmt.Errorf("check schema %q: %w", renameTo, err)
		}
		if taken {
			return fmt.Errorf("%w: %q already exists", apperrors.ErrSchemaRename, renameTo)
		}
		rename := fmt.Sprintf(`ALTER SCHEMA %s RENAME TO %s`,
			pgx.Identifier{schema.Name}.Sanitize(), pgx.Identifier{renameTo}.Sanitize())
		if _, err := tx.Exec(ctx, rename); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrSchemaRename, err)
		}
		effective = renameTo
	}

	update := fmt.Sprintf(`
		UPDATE %s.cuenta
		SET nombre = $1,
		    email = $2,
		    telefono = $3,
		    activo = $4,
		    contraseña = COALESCE($5, contraseña)`, pgx.Identifier{effective}.Sanitize())
	if _, err := tx.Exec(ctx, update, fields.Nombre, fields.Email, fields.Telefono, fields.Activo, fields.PasswordHash); err != nil {
		return fmt.Errorf("update account record in %q: %w", effective, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("update schema %q: commit: %w", effective, err)
	}

	if effective != schema.Name {
		p.log.Info("tenant schema renamed",
			zap.String("from", schema.Name), zap.String("to", effective))
	}
	return nil
}

// Deprovision drops the schema and everything inside it. An already absent
// schema is reported distinctly so cleanup paths can treat it as success
// while operators still see it happened. The drop itself uses IF EXISTS so
// a schema vanishing between the check and the drop stays a no-op instead
// of surfacing as a generic error.
func (p *schemaProvisioner) Deprovision(ctx context.Context, schema Schema) error {
	exists, err := p.Exists(ctx, schema.Name)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %q", apperrors.ErrSchemaNotFound, schema.Name)
	}

	drop := fmt.Sprintf(`DROP SCHEMA IF EXISTS %s CASCADE`, pgx.Identifier{schema.Name}.Sanitize())
	if _, err := p.db.Exec(ctx, drop); err != nil {
		return fmt.Errorf("drop schema %q: %w", schema.Name, err)
	}

	p.log.Info("tenant schema dropped", zap.String("schema", schema.Name))
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"adminplatform/internal/apperrors"
	"adminplatform/internal/hashing"
	"adminplatform/internal/models"
	"adminplatform/internal/provisioner"
	"adminplatform/internal/repositories"
)

// TenantService orchestrates the tenant lifecycle: every operation keeps the
// registry row and the tenant's isolated schema consistent with each other.
// It is the only caller of the provisioner.
type TenantService interface {
	Create(ctx context.Context, req *CreateTenantRequest) (*models.Tenant, error)
	GetByID(ctx context.Context, id int64) (*models.Tenant, error)
	List(ctx context.Context) ([]*models.Tenant, error)
	Update(ctx context.Context, id int64, req *UpdateTenantRequest) (*models.Tenant, error)
	Delete(ctx context.Context, id int64) error
}

type CreateTenantRequest struct {
	Nombre           string  `json:"nombre" validate:"required,min=1"`
	Nit              *string `json:"nit" validate:"omitempty,min=3,max=50"`
	EmailContacto    string  `json:"email_contacto" validate:"required,email"`
	TelefonoContacto *string `json:"telefono_contacto" validate:"omitempty,min=3,max=50"`
	Direccion        *string `json:"direccion" validate:"omitempty,min=3,max=200"`
	Contraseña       string  `json:"contraseña" validate:"required,min=4"`
	Estado           *bool   `json:"estado"`
}

// UpdateTenantRequest carries partial changes. Nil means unchanged; there is
// no way to null out a column through this API.
type UpdateTenantRequest struct {
	Nombre           *string `json:"nombre" validate:"omitempty,min=1"`
	Nit              *string `json:"nit" validate:"omitempty,min=3,max=50"`
	EmailContacto    *string `json:"email_contacto" validate:"omitempty,email"`
	TelefonoContacto *string `json:"telefono_contacto" validate:"omitempty,min=3,max=50"`
	Direccion        *string `json:"direccion" validate:"omitempty,min=3,max=200"`
	Contraseña       *string `json:"contraseña" validate:"omitempty,min=4"`
	Estado           *bool   `json:"estado"`
	Esquema          *string `json:"esquema" validate:"omitempty,min=1,max=63"`
}

type tenantService struct {
	repo     repositories.TenantRepository
	prov     provisioner.Provisioner
	hasher   hashing.Hasher
	validate *validator.Validate
	log      *zap.Logger
}

func NewTenantService(repo repositories.TenantRepository, prov provisioner.Provisioner,
	hasher hashing.Hasher, log *zap.Logger) TenantService {
	return &tenantService{
		repo:     repo,
		prov:     prov,
		hasher:   hasher,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

// Create provisions the schema first (the heavier, riskier step) and then
// inserts the registry row. A failed insert triggers a compensating
// deprovision so no orphaned schema remains; if the compensation itself
// fails the caller gets a PartialFailureError that operators must act on.
func (s *tenantService) Create(ctx context.Context, req *CreateTenantRequest) (*models.Tenant, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	hash, err := s.hasher.Hash(req.Contraseña)
	if err != nil {
		return nil, err
	}

	estado := true
	if req.Estado != nil {
		estado = *req.Estado
	}

	schema, err := s.prov.Provision(ctx, provisioner.Seed{
		Nombre:       req.Nombre,
		Email:        req.EmailContacto,
		Telefono:     req.TelefonoContacto,
		PasswordHash: hash,
		Activo:       estado,
	})
	if err != nil {
		return nil, err
	}

	tenant := &models.Tenant{
		Nombre:           req.Nombre,
		Nit:              req.Nit,
		EmailContacto:    req.EmailContacto,
		TelefonoContacto: req.TelefonoContacto,
		Direccion:        req.Direccion,
		Estado:           estado,
		PasswordHash:     hash,
		Esquema:          schema.Name,
	}

	if err := s.repo.Create(ctx, tenant); err != nil {
		if cleanupErr := s.prov.Deprovision(ctx, schema); cleanupErr != nil &&
			!errors.Is(cleanupErr, apperrors.ErrSchemaNotFound) {
			pf := &apperrors.PartialFailureError{Op: "create tenant", Cause: err, CleanupErr: cleanupErr}
			s.log.Error("tenant creation left an orphaned schema",
				zap.String("schema", schema.Name),
				zap.NamedError("cause", err),
				zap.NamedError("cleanup", cleanupErr),
				zap.Bool("partial_failure", true))
			return nil, pf
		}
		return nil, err
	}

	tenant.PasswordHash = ""
	return tenant, nil
}

func (s *tenantService) GetByID(ctx context.Context, id int64) (*models.Tenant, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *tenantService) List(ctx context.Context) ([]*models.Tenant, error) {
	return s.repo.List(ctx)
}

// loadProvisioned fetches the tenant and rejects rows without a schema.
// A registry row that lost its schema pointer is not a tenant as far as
// update and delete are concerned.
func (s *tenantService) loadProvisioned(ctx context.Context, id int64) (*models.Tenant, error) {
	tenant, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tenant.Esquema == "" {
		return nil, fmt.Errorf("tenant %d has no schema: %w", id, apperrors.ErrNotFound)
	}
	return tenant, nil
}

// Update applies schema-internal fields through the provisioner, then writes
// all supplied fields back to the registry row as a second independent step,
// including the new schema name after a rename. The second step is
// deliberately outside the first one's transaction; a failure there leaves
// the schema updated and the registry row stale, which the consistency audit
// surfaces.
func (s *tenantService) Update(ctx context.Context, id int64, req *UpdateTenantRequest) (*models.Tenant, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	tenant, err := s.loadProvisioned(ctx, id)
	if err != nil {
		return nil, err
	}

	var newHash *string
	if req.Contraseña != nil {
		hash, err := s.hasher.Hash(*req.Contraseña)
		if err != nil {
			return nil, err
		}
		newHash = &hash
	}

	nombre := tenant.Nombre
	if req.Nombre != nil {
		nombre = *req.Nombre
	}
	email := tenant.EmailContacto
	if req.EmailContacto != nil {
		email = *req.EmailContacto
	}
	telefono := tenant.TelefonoContacto
	if req.TelefonoContacto != nil {
		telefono = req.TelefonoContacto
	}
	estado := tenant.Estado
	if req.Estado != nil {
		estado = *req.Estado
	}

	renameTo := ""
	if req.Esquema != nil {
		renameTo = *req.Esquema
	}

	err = s.prov.Update(ctx, provisioner.Schema{Name: tenant.Esquema}, renameTo, provisioner.UpdateFields{
		Nombre:       nombre,
		Email:        email,
		Telefono:     telefono,
		PasswordHash: newHash,
		Activo:       estado,
	})
	if err != nil {
		return nil, err
	}

	fields := repositories.RegistryFields{
		Nombre:           req.Nombre,
		EmailContacto:    req.EmailContacto,
		Estado:           req.Estado,
		Nit:              req.Nit,
		Direccion:        req.Direccion,
		TelefonoContacto: req.TelefonoContacto,
	}
	if renameTo != "" && renameTo != tenant.Esquema {
		fields.Esquema = &renameTo
	}
	if fields != (repositories.RegistryFields{}) {
		if err := s.repo.UpdateRegistryFields(ctx, id, fields); err != nil {
			return nil, err
		}
	}

	return s.repo.GetByID(ctx, id)
}

// Delete tears the schema down before removing the registry row. If the
// teardown fails the row survives, the tenant still "exists" and the call
// can be retried safely.
func (s *tenantService) Delete(ctx context.Context, id int64) error {
	tenant, err := s.loadProvisioned(ctx, id)
	if err != nil {
		return err
	}

	if err := s.prov.Deprovision(ctx, provisioner.Schema{Name: tenant.Esquema}); err != nil {
		if !errors.Is(err, apperrors.ErrSchemaNotFound) {
			return err
		}
		// Already gone: log it distinctly and finish the cleanup.
		s.log.Warn("schema already absent during tenant delete",
			zap.Int64("tenant_id", id), zap.String("schema", tenant.Esquema))
	}

	if _, err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return nil
}

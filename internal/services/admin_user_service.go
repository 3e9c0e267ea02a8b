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
	"adminplatform/internal/repositories"
)

// AdminUserService is plain CRUD plus authentication over the shared admin
// user table. No schema coordination happens here.
type AdminUserService interface {
	Create(ctx context.Context, req *CreateAdminUserRequest) (*models.AdminUser, error)
	GetByID(ctx context.Context, id int64) (*models.AdminUser, error)
	List(ctx context.Context) ([]*models.AdminUser, error)
	Update(ctx context.Context, id int64, req *UpdateAdminUserRequest) (*models.AdminUser, error)
	Delete(ctx context.Context, id int64) error
	Authenticate(ctx context.Context, correo, contraseña string) (*models.AdminUser, error)
}

type CreateAdminUserRequest struct {
	Nombre     string  `json:"nombre" validate:"required,min=1"`
	Correo     string  `json:"correo" validate:"required,email"`
	Telefono   *string `json:"telefono" validate:"omitempty,min=3,max=50"`
	Rol        string  `json:"rol" validate:"required,oneof=admin soporte"`
	Contraseña string  `json:"contraseña" validate:"required,min=4"`
	Activo     *bool   `json:"activo"`
}

type UpdateAdminUserRequest struct {
	Nombre     *string `json:"nombre" validate:"omitempty,min=1"`
	Correo     *string `json:"correo" validate:"omitempty,email"`
	Telefono   *string `json:"telefono" validate:"omitempty,min=3,max=50"`
	Rol        *string `json:"rol" validate:"omitempty,oneof=admin soporte"`
	Contraseña *string `json:"contraseña" validate:"omitempty,min=4"`
	Activo     *bool   `json:"activo"`
}

type adminUserService struct {
	repo     repositories.AdminUserRepository
	hasher   hashing.Hasher
	validate *validator.Validate
	log      *zap.Logger
}

func NewAdminUserService(repo repositories.AdminUserRepository, hasher hashing.Hasher, log *zap.Logger) AdminUserService {
	return &adminUserService{
		repo:     repo,
		hasher:   hasher,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

func (s *adminUserService) Create(ctx context.Context, req *CreateAdminUserRequest) (*models.AdminUser, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	hash, err := s.hasher.Hash(req.Contraseña)
	if err != nil {
		return nil, err
	}

	activo := true
	if req.Activo != nil {
		activo = *req.Activo
	}

	user := &models.AdminUser{
		Nombre:       req.Nombre,
		Correo:       req.Correo,
		Telefono:     req.Telefono,
		Rol:          req.Rol,
		Activo:       activo,
		PasswordHash: hash,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *adminUserService) GetByID(ctx context.Context, id int64) (*models.AdminUser, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *adminUserService) List(ctx context.Context) ([]*models.AdminUser, error) {
	return s.repo.List(ctx)
}

// Update merges the partial request into the loaded row and writes the full
// row back. A new secret is hashed; otherwise the stored hash carries over
// unchanged.
func (s *adminUserService) Update(ctx context.Context, id int64, req *UpdateAdminUserRequest) (*models.AdminUser, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Nombre != nil {
		user.Nombre = *req.Nombre
	}
	if req.Correo != nil {
		user.Correo = *req.Correo
	}
	if req.Telefono != nil {
		user.Telefono = req.Telefono
	}
	if req.Rol != nil {
		user.Rol = *req.Rol
	}
	if req.Activo != nil {
		user.Activo = *req.Activo
	}
	if req.Contraseña != nil {
		hash, err := s.hasher.Hash(*req.Contraseña)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *adminUserService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Authenticate collapses unknown correo, wrong secret and inactive account
// into one outward signal so callers cannot probe which accounts exist.
func (s *adminUserService) Authenticate(ctx context.Context, correo, contraseña string) (*models.AdminUser, error) {
	user, err := s.repo.GetByCorreo(ctx, correo)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(contraseña, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.Activo {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.repo.RecordLogin(ctx, user.ID); err != nil {
		// The login itself succeeded; losing the timestamp is not fatal.
		s.log.Warn("failed to record last login", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	user.PasswordHash = ""
	return user, nil
}

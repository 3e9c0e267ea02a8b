package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"adminplatform/internal/apperrors"
	"adminplatform/internal/models"
)

type MockAdminUserRepository struct {
	mock.Mock
}

func (m *MockAdminUserRepository) Create(ctx context.Context, user *models.AdminUser) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockAdminUserRepository) GetByID(ctx context.Context, id int64) (*models.AdminUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminUser), args.Error(1)
}

func (m *MockAdminUserRepository) GetByCorreo(ctx context.Context, correo string) (*models.AdminUser, error) {
	args := m.Called(ctx, correo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminUser), args.Error(1)
}

func (m *MockAdminUserRepository) List(ctx context.Context) ([]*models.AdminUser, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AdminUser), args.Error(1)
}

func (m *MockAdminUserRepository) Update(ctx context.Context, user *models.AdminUser) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockAdminUserRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAdminUserRepository) RecordLogin(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type AdminUserServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAdminUserRepository
	mockHash *MockHasher
	service  AdminUserService
	ctx      context.Context
}

func (suite *AdminUserServiceTestSuite) SetupTest() {
	suite.mockRepo = &MockAdminUserRepository{}
	suite.mockHash = &MockHasher{}
	suite.service = NewAdminUserService(suite.mockRepo, suite.mockHash, zap.NewNop())
	suite.ctx = context.Background()

	suite.mockRepo.Test(suite.T())
	suite.mockHash.Test(suite.T())
}

func (suite *AdminUserServiceTestSuite) TearDownTest() {
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockHash.AssertExpectations(suite.T())
}

func TestAdminUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AdminUserServiceTestSuite))
}

func storedAdminUser() *models.AdminUser {
	return &models.AdminUser{
		ID:            3,
		Nombre:        "Ana",
		Correo:        "ana@example.com",
		Rol:           models.RolAdmin,
		Activo:        true,
		PasswordHash:  "stored-hash",
		FechaCreacion: time.Now(),
	}
}

func (suite *AdminUserServiceTestSuite) TestCreate_HashesSecret() {
	req := &CreateAdminUserRequest{
		Nombre:     "Ana",
		Correo:     "ana@example.com",
		Rol:        models.RolAdmin,
		Contraseña: "pass123",
	}

	suite.mockHash.On("Hash", "pass123").Return("hashed", nil)
	suite.mockRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.AdminUser")).Return(nil).
		Run(func(args mock.Arguments) {
			user := args.Get(1).(*models.AdminUser)
			assert.Equal(suite.T(), "hashed", user.PasswordHash)
			assert.True(suite.T(), user.Activo)
			user.ID = 3
		})

	user, err := suite.service.Create(suite.ctx, req)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(3), user.ID)
	assert.Empty(suite.T(), user.PasswordHash)
}

func (suite *AdminUserServiceTestSuite) TestCreate_InvalidRol() {
	req := &CreateAdminUserRequest{
		Nombre:     "Ana",
		Correo:     "ana@example.com",
		Rol:        "superuser",
		Contraseña: "pass123",
	}

	user, err := suite.service.Create(suite.ctx, req)
	assert.Nil(suite.T(), user)
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func (suite *AdminUserServiceTestSuite) TestCreate_DuplicateCorreo() {
	req := &CreateAdminUserRequest{
		Nombre:     "Ana",
		Correo:     "ana@example.com",
		Rol:        models.RolSoporte,
		Contraseña: "pass123",
	}

	suite.mockHash.On("Hash", "pass123").Return("hashed", nil)
	suite.mockRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.AdminUser")).
		Return(apperrors.ErrDuplicateKey)

	user, err := suite.service.Create(suite.ctx, req)
	assert.Nil(suite.T(), user)
	assert.ErrorIs(suite.T(), err, apperrors.ErrDuplicateKey)
}

func (suite *AdminUserServiceTestSuite) TestUpdate_WithoutSecretKeepsHash() {
	current := storedAdminUser()
	nombre := "Ana María"
	req := &UpdateAdminUserRequest{Nombre: &nombre}

	suite.mockRepo.On("GetByID", suite.ctx, int64(3)).Return(current, nil)
	suite.mockRepo.On("Update", suite.ctx, mock.MatchedBy(func(u *models.AdminUser) bool {
		return u.PasswordHash == "stored-hash" && u.Nombre == "Ana María"
	})).Return(nil)

	user, err := suite.service.Update(suite.ctx, 3, req)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), user.PasswordHash)
	suite.mockHash.AssertNotCalled(suite.T(), "Hash", mock.Anything)
}

func (suite *AdminUserServiceTestSuite) TestUpdate_NewSecretIsHashed() {
	current := storedAdminUser()
	secret := "newpass"
	req := &UpdateAdminUserRequest{Contraseña: &secret}

	suite.mockRepo.On("GetByID", suite.ctx, int64(3)).Return(current, nil)
	suite.mockHash.On("Hash", "newpass").Return("new-hash", nil)
	suite.mockRepo.On("Update", suite.ctx, mock.MatchedBy(func(u *models.AdminUser) bool {
		return u.PasswordHash == "new-hash"
	})).Return(nil)

	_, err := suite.service.Update(suite.ctx, 3, req)
	assert.NoError(suite.T(), err)
}

func (suite *AdminUserServiceTestSuite) TestAuthenticate_Success() {
	current := storedAdminUser()

	suite.mockRepo.On("GetByCorreo", suite.ctx, "ana@example.com").Return(current, nil)
	suite.mockHash.On("Verify", "pass123", "stored-hash").Return(true)
	suite.mockRepo.On("RecordLogin", suite.ctx, int64(3)).Return(nil)

	user, err := suite.service.Authenticate(suite.ctx, "ana@example.com", "pass123")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(3), user.ID)
	assert.Empty(suite.T(), user.PasswordHash)
}

// The three failure modes must be indistinguishable from outside.
func (suite *AdminUserServiceTestSuite) TestAuthenticate_UnknownCorreo() {
	suite.mockRepo.On("GetByCorreo", suite.ctx, "nobody@example.com").Return(nil, apperrors.ErrNotFound)

	user, err := suite.service.Authenticate(suite.ctx, "nobody@example.com", "pass123")
	assert.Nil(suite.T(), user)
	assert.ErrorIs(suite.T(), err, apperrors.ErrInvalidCredentials)
}

func (suite *AdminUserServiceTestSuite) TestAuthenticate_WrongSecret() {
	current := storedAdminUser()

	suite.mockRepo.On("GetByCorreo", suite.ctx, "ana@example.com").Return(current, nil)
	suite.mockHash.On("Verify", "wrong", "stored-hash").Return(false)

	user, err := suite.service.Authenticate(suite.ctx, "ana@example.com", "wrong")
	assert.Nil(suite.T(), user)
	assert.ErrorIs(suite.T(), err, apperrors.ErrInvalidCredentials)
	suite.mockRepo.AssertNotCalled(suite.T(), "RecordLogin", mock.Anything, mock.Anything)
}

func (suite *AdminUserServiceTestSuite) TestAuthenticate_InactiveAccount() {
	current := storedAdminUser()
	current.Activo = false

	suite.mockRepo.On("GetByCorreo", suite.ctx, "ana@example.com").Return(current, nil)
	suite.mockHash.On("Verify", "pass123", "stored-hash").Return(true)

	user, err := suite.service.Authenticate(suite.ctx, "ana@example.com", "pass123")
	assert.Nil(suite.T(), user)
	assert.ErrorIs(suite.T(), err, apperrors.ErrInvalidCredentials)
}

func (suite *AdminUserServiceTestSuite) TestAuthenticate_RecordLoginFailureIsNotFatal() {
	current := storedAdminUser()

	suite.mockRepo.On("GetByCorreo", suite.ctx, "ana@example.com").Return(current, nil)
	suite.mockHash.On("Verify", "pass123", "stored-hash").Return(true)
	suite.mockRepo.On("RecordLogin", suite.ctx, int64(3)).Return(errors.New("timeout"))

	user, err := suite.service.Authenticate(suite.ctx, "ana@example.com", "pass123")
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), user)
}

func (suite *AdminUserServiceTestSuite) TestDelete() {
	suite.mockRepo.On("Delete", suite.ctx, int64(3)).Return(nil)
	assert.NoError(suite.T(), suite.service.Delete(suite.ctx, 3))
}

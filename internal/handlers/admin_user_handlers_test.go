package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"adminplatform/internal/apperrors"
	"adminplatform/internal/common"
	"adminplatform/internal/models"
)

type AdminUserHandlersTestSuite struct {
	suite.Suite
	mockUsers *MockAdminUserService
	handlers  *AdminUserHandlers
	echo      *echo.Echo
}

func (suite *AdminUserHandlersTestSuite) SetupTest() {
	suite.mockUsers = &MockAdminUserService{}
	suite.handlers = NewAdminUserHandlers(suite.mockUsers, zap.NewNop())
	suite.echo = echo.New()

	suite.mockUsers.Test(suite.T())
}

func (suite *AdminUserHandlersTestSuite) TearDownTest() {
	suite.mockUsers.AssertExpectations(suite.T())
}

func TestAdminUserHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(AdminUserHandlersTestSuite))
}

// asCaller builds a request context the way the auth middleware would,
// with the caller's id and rol already resolved.
func (suite *AdminUserHandlersTestSuite) asCaller(method, target string, callerID int64, rol string) echo.Context {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	ctx := context.WithValue(req.Context(), common.UserIDKey, callerID)
	ctx = context.WithValue(ctx, common.RolKey, rol)
	rec := httptest.NewRecorder()
	c := suite.echo.NewContext(req.WithContext(ctx), rec)
	return c
}

func (suite *AdminUserHandlersTestSuite) TestGetAdminUser_Found() {
	c := suite.asCaller(http.MethodGet, "/api/admin-users/3", 1, models.RolAdmin)
	c.SetParamNames("id")
	c.SetParamValues("3")

	user := &models.AdminUser{ID: 3, Nombre: "Ana", Correo: "ana@example.com", Rol: models.RolSoporte, Activo: true}
	suite.mockUsers.On("GetByID", mock.Anything, int64(3)).Return(user, nil)

	err := suite.handlers.GetAdminUser(c)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusOK, c.Response().Status)
}

func (suite *AdminUserHandlersTestSuite) TestGetAdminUser_NotFound() {
	c := suite.asCaller(http.MethodGet, "/api/admin-users/99", 1, models.RolAdmin)
	c.SetParamNames("id")
	c.SetParamValues("99")

	suite.mockUsers.On("GetByID", mock.Anything, int64(99)).Return(nil, apperrors.ErrNotFound)

	err := suite.handlers.GetAdminUser(c)
	httpErr := &echo.HTTPError{}
	assert.ErrorAs(suite.T(), err, &httpErr)
	assert.Equal(suite.T(), http.StatusNotFound, httpErr.Code)
	assert.Equal(suite.T(), "Usuario no encontrado", httpErr.Message)
}

func (suite *AdminUserHandlersTestSuite) TestCreateAdminUser_ForbiddenForSoporte() {
	c := suite.asCaller(http.MethodPost, "/api/admin-users", 1, models.RolSoporte)

	err := suite.handlers.CreateAdminUser(c)
	httpErr := &echo.HTTPError{}
	assert.ErrorAs(suite.T(), err, &httpErr)
	assert.Equal(suite.T(), http.StatusForbidden, httpErr.Code)
	suite.mockUsers.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *AdminUserHandlersTestSuite) TestDeleteAdminUser_Success() {
	c := suite.asCaller(http.MethodDelete, "/api/admin-users/3", 1, models.RolAdmin)
	c.SetParamNames("id")
	c.SetParamValues("3")

	suite.mockUsers.On("Delete", mock.Anything, int64(3)).Return(nil)

	err := suite.handlers.DeleteAdminUser(c)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusOK, c.Response().Status)
}

func (suite *AdminUserHandlersTestSuite) TestDeleteAdminUser_CannotDeleteOwnAccount() {
	c := suite.asCaller(http.MethodDelete, "/api/admin-users/1", 1, models.RolAdmin)
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := suite.handlers.DeleteAdminUser(c)
	httpErr := &echo.HTTPError{}
	assert.ErrorAs(suite.T(), err, &httpErr)
	assert.Equal(suite.T(), http.StatusBadRequest, httpErr.Code)
	suite.mockUsers.AssertNotCalled(suite.T(), "Delete", mock.Anything, mock.Anything)
}

func (suite *AdminUserHandlersTestSuite) TestDeleteAdminUser_ForbiddenForSoporte() {
	c := suite.asCaller(http.MethodDelete, "/api/admin-users/3", 1, models.RolSoporte)
	c.SetParamNames("id")
	c.SetParamValues("3")

	err := suite.handlers.DeleteAdminUser(c)
	httpErr := &echo.HTTPError{}
	assert.ErrorAs(suite.T(), err, &httpErr)
	assert.Equal(suite.T(), http.StatusForbidden, httpErr.Code)
	suite.mockUsers.AssertNotCalled(suite.T(), "Delete", mock.Anything, mock.Anything)
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"adminplatform/internal/apperrors"
	"adminplatform/internal/common"
	"adminplatform/internal/models"
	"adminplatform/internal/services"
)

type AdminUserHandlers struct {
	users services.AdminUserService
	log   *zap.Logger
}

func NewAdminUserHandlers(users services.AdminUserService, log *zap.Logger) *AdminUserHandlers {
	return &AdminUserHandlers{users: users, log: log}
}

// requireAdmin gates the mutating admin-user operations; soporte accounts
// can read the user list but not manage it.
func requireAdmin(c echo.Context) error {
	rol, ok := common.RolFromContext(c.Request().Context())
	if !ok || rol != models.RolAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "No autorizado")
	}
	return nil
}

func (h *AdminUserHandlers) ListAdminUsers(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		h.log.Error("list admin users failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "No se pudieron cargar los usuarios")
	}
	return c.JSON(http.StatusOK, users)
}

func (h *AdminUserHandlers) GetAdminUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	user, err := h.users.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Usuario no encontrado")
		}
		h.log.Error("get admin user failed", zap.Int64("id", id), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "No se pudo cargar el usuario")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AdminUserHandlers) CreateAdminUser(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}

	var req services.CreateAdminUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Datos inválidos")
	}

	user, err := h.users.Create(c.Request().Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "Datos inválidos")
		case errors.Is(err, apperrors.ErrDuplicateKey):
			return echo.NewHTTPError(http.StatusInternalServerError, "Ya existe un usuario con ese correo")
		default:
			h.log.Error("create admin user failed", zap.Error(err))
			return echo.NewHTTPError(http.StatusInternalServerError, "No se pudo crear el usuario")
		}
	}

	return c.JSON(http.StatusCreated, user)
}

func (h *AdminUserHandlers) UpdateAdminUser(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req services.UpdateAdminUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Datos inválidos")
	}

	user, err := h.users.Update(c.Request().Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "Datos inválidos")
		case errors.Is(err, apperrors.ErrNotFound):
			return echo.NewHTTPError(http.StatusInternalServerError, "No se pudo actualizar el usuario")
		default:
			h.log.Error("update admin user failed", zap.Int64("id", id), zap.Error(err))
			return echo.NewHTTPError(http.StatusInternalServerError, "No se pudo actualizar el usuario")
		}
	}

	return c.JSON(http.StatusOK, user)
}

func (h *AdminUserHandlers) DeleteAdminUser(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	if callerID, ok := common.UserIDFromContext(c.Request().Context()); ok && callerID == id {
		return echo.NewHTTPError(http.StatusBadRequest, "No puedes eliminar tu propio usuario")
	}

	if err := h.users.Delete(c.Request().Context(), id); err != nil {
		h.log.Error("delete admin user failed", zap.Int64("id", id), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "No se pudo eliminar el usuario")
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

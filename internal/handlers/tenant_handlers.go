package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"adminplatform/internal/apperrors"
	"adminplatform/internal/services"
)

type TenantHandlers struct {
	tenants services.TenantService
	log     *zap.Logger
}

func NewTenantHandlers(tenants services.TenantService, log *zap.Logger) *TenantHandlers {
	return &TenantHandlers{tenants: tenants, log: log}
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "ID inválido")
	}
	return id, nil
}

func (h *TenantHandlers) ListTenants(c echo.Context) error {
	tenants, err := h.tenants.List(c.Request().Context())
	if err != nil {
		h.log.Error("list tenants failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "No se pudieron cargar los tenants")
	}
	return c.JSON(http.StatusOK, tenants)
}

func (h *TenantHandlers) GetTenant(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	tenant, err := h.tenants.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Tenant no encontrado")
		}
		h.log.Error("get tenant failed", zap.Int64("id", id), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "No se pudo cargar el tenant")
	}
	return c.JSON(http.StatusOK, tenant)
}

func (h *TenantHandlers) CreateTenant(c echo.Context) error {
	var req services.CreateTenantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Datos inválidos")
	}

	tenant, err := h.tenants.Create(c.Request().Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "Datos inválidos")
		case errors.Is(err, apperrors.ErrDuplicateKey):
			return echo.NewHTTPError(http.StatusInternalServerError, "El tenant ya existe con esos datos")
		default:
			h.log.Error("create tenant failed",
				zap.Bool("partial_failure", apperrors.IsPartialFailure(err)), zap.Error(err))
			return echo.NewHTTPError(http.StatusInternalServerError, "No se pudo crear el tenant")
		}
	}

	return c.JSON(http.StatusCreated, tenant)
}

func (h *TenantHandlers) UpdateTenant(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req services.UpdateTenantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Datos inválidos")
	}

	tenant, err := h.tenants.Update(c.Request().Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "Datos inválidos")
		case errors.Is(err, apperrors.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Tenant no encontrado")
		default:
			h.log.Error("update tenant failed", zap.Int64("id", id), zap.Error(err))
			return echo.NewHTTPError(http.StatusInternalServerError,
				map[string]string{"error": "No se pudo actualizar el tenant", "details": err.Error()})
		}
	}

	return c.JSON(http.StatusOK, tenant)
}

func (h *TenantHandlers) DeleteTenant(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.tenants.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Tenant no encontrado")
		default:
			h.log.Error("delete tenant failed", zap.Int64("id", id), zap.Error(err))
			return echo.NewHTTPError(http.StatusInternalServerError,
				map[string]string{"error": "No se pudo eliminar el tenant", "details": err.Error()})
		}
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

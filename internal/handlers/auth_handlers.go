package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"adminplatform/internal/apperrors"
	"adminplatform/internal/caching"
	"adminplatform/internal/common"
	"adminplatform/internal/models"
	"adminplatform/internal/services"
)

type AuthHandlers struct {
	users    services.AdminUserService
	tokens   services.TokenService
	sessions caching.SessionStore
	log      *zap.Logger
}

func NewAuthHandlers(users services.AdminUserService, tokens services.TokenService,
	sessions caching.SessionStore, log *zap.Logger) *AuthHandlers {
	return &AuthHandlers{users: users, tokens: tokens, sessions: sessions, log: log}
}

type LoginRequest struct {
	Correo     string `json:"correo"`
	Contraseña string `json:"contraseña"`
}

type LoginResponse struct {
	User  *models.AdminUser `json:"user"`
	Token string            `json:"token"`
}

// Login authenticates an admin user and opens a server-side session.
// Unknown correo, wrong secret and inactive account all come back as the
// same 401.
func (h *AuthHandlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Datos inválidos")
	}
	if req.Correo == "" || req.Contraseña == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Datos inválidos")
	}

	user, err := h.users.Authenticate(c.Request().Context(), req.Correo, req.Contraseña)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Credenciales inválidas")
		}
		h.log.Error("login failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "No se pudo iniciar sesión")
	}

	sessionID := uuid.NewString()
	token, err := h.tokens.Issue(user, sessionID)
	if err != nil {
		h.log.Error("token issue failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "No se pudo iniciar sesión")
	}

	if err := h.sessions.Store(c.Request().Context(), sessionID, user); err != nil {
		h.log.Error("session store failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "No se pudo iniciar sesión")
	}

	return c.JSON(http.StatusOK, LoginResponse{User: user, Token: token})
}

// Logout clears the caller's session; the token stops working immediately.
func (h *AuthHandlers) Logout(c echo.Context) error {
	sessionID, ok := common.SessionIDFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Sesión inválida")
	}

	if err := h.sessions.Clear(c.Request().Context(), sessionID); err != nil {
		h.log.Error("session clear failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "No se pudo cerrar la sesión")
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

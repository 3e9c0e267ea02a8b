package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"adminplatform/internal/caching"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandlers struct {
	db       Pinger
	sessions caching.SessionStore
}

func NewHealthHandlers(db Pinger, sessions caching.SessionStore) *HealthHandlers {
	return &HealthHandlers{db: db, sessions: sessions}
}

func (h *HealthHandlers) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok", "database": "ok", "redis": "ok"}
	code := http.StatusOK

	if err := h.db.Ping(ctx); err != nil {
		status["status"] = "degraded"
		status["database"] = err.Error()
		code = http.StatusServiceUnavailable
	}
	if err := h.sessions.Ping(ctx); err != nil {
		status["status"] = "degraded"
		status["redis"] = err.Error()
		code = http.StatusServiceUnavailable
	}

	return c.JSON(code, status)
}

package handler

import (
	"crypto/subtle"
	"net/http"

	"github.com/agrivest/agrivest-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// CronHandler exposes the daily-gain sweep to an external scheduler. The
// endpoint is idempotent within a 24h window: investments already settled
// are skipped by the conditional cursor update.
type CronHandler struct {
	investments service.InvestmentService
	key         string
}

func NewCronHandler(investments service.InvestmentService, key string) *CronHandler {
	return &CronHandler{investments: investments, key: key}
}

func (h *CronHandler) DailyGains(c echo.Context) error {
	if h.key == "" || subtle.ConstantTimeCompare([]byte(c.Request().Header.Get("X-Cron-Key")), []byte(h.key)) != 1 {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "invalid cron key"))
	}
	res, err := h.investments.SweepDailyGains(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "sweep failed"))
	}
	return c.JSON(http.StatusOK, res)
}

package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/agrivest/agrivest-backend/internal/catalog"
	"github.com/agrivest/agrivest-backend/internal/middleware"
	"github.com/agrivest/agrivest-backend/internal/model"
	"github.com/agrivest/agrivest-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type InvestmentHandler struct {
	svc service.InvestmentService
}

func NewInvestmentHandler(svc service.InvestmentService) *InvestmentHandler {
	return &InvestmentHandler{svc: svc}
}

type InvestRequest struct {
	PackID uint64 `json:"packId"`
}

type InvestmentResponse struct {
	ID           uint64  `json:"id"`
	PackID       uint64  `json:"packId"`
	PackName     string  `json:"packName,omitempty"`
	Amount       int64   `json:"amount"`
	DailyRate    float64 `json:"dailyRate"`
	DailyGain    int64   `json:"dailyGain,omitempty"`
	Status       string  `json:"status"`
	LastGainDate string  `json:"lastGainDate"`
	CreatedAt    string  `json:"createdAt"`
}

func (h *InvestmentHandler) Invest(c echo.Context) error {
	u := middleware.CurrentUser(c)
	var req InvestRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	inv, err := h.svc.Invest(c.Request().Context(), u.ID, req.PackID)
	if err != nil {
		return respondRequestError(c, err)
	}
	return c.JSON(http.StatusCreated, toInvestmentResponse(inv))
}

func (h *InvestmentHandler) Harvest(c echo.Context) error {
	u := middleware.CurrentUser(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	gain, err := h.svc.Harvest(c.Request().Context(), u.ID, id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"credited": gain})
}

func (h *InvestmentHandler) ListMine(c echo.Context) error {
	u := middleware.CurrentUser(c)
	list, err := h.svc.ListByUser(c.Request().Context(), u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch investments"))
	}
	resp := make([]InvestmentResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toInvestmentResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"investments": resp})
}

func toInvestmentResponse(inv *model.Investment) InvestmentResponse {
	resp := InvestmentResponse{
		ID:           inv.ID,
		PackID:       inv.PackID,
		Amount:       inv.Amount,
		DailyRate:    inv.DailyRate,
		Status:       string(inv.Status),
		LastGainDate: inv.LastGainDate.Format(time.RFC3339),
		CreatedAt:    inv.CreatedAt.Format(time.RFC3339),
	}
	if pack, ok := catalog.ByID(inv.PackID); ok {
		resp.PackName = pack.Name
		resp.DailyGain = pack.DailyGain
	}
	return resp
}

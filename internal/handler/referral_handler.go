package handler

import (
	"net/http"
	"time"

	"github.com/agrivest/agrivest-backend/internal/middleware"
	"github.com/agrivest/agrivest-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type ReferralHandler struct {
	svc service.ReferralService
}

func NewReferralHandler(svc service.ReferralService) *ReferralHandler {
	return &ReferralHandler{svc: svc}
}

type ReferralResponse struct {
	ID            uint64 `json:"id"`
	ReferredName  string `json:"referredName"`
	TotalInvested int64  `json:"totalInvested"`
	TotalBonus    int64  `json:"totalBonus"`
	CreatedAt     string `json:"createdAt"`
}

func (h *ReferralHandler) ListMine(c echo.Context) error {
	u := middleware.CurrentUser(c)
	edges, err := h.svc.ListBySponsor(c.Request().Context(), u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch referrals"))
	}
	resp := make([]ReferralResponse, 0, len(edges))
	for _, e := range edges {
		r := ReferralResponse{
			ID:            e.Referral.ID,
			TotalInvested: e.Referral.TotalInvested,
			TotalBonus:    e.Referral.TotalBonus,
			CreatedAt:     e.Referral.CreatedAt.Format(time.RFC3339),
		}
		if e.Referred != nil {
			r.ReferredName = e.Referred.Name
		}
		resp = append(resp, r)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"referrals": resp})
}

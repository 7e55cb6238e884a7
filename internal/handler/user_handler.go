package handler

import (
	"net/http"
	"time"

	"github.com/agrivest/agrivest-backend/internal/middleware"
	"github.com/agrivest/agrivest-backend/internal/model"
	"github.com/labstack/echo/v4"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

type UserResponse struct {
	ID              uint64  `json:"id"`
	Name            string  `json:"name"`
	Phone           string  `json:"phone"`
	Email           string  `json:"email,omitempty"`
	Balance         int64   `json:"balance"`
	InvestedCapital int64   `json:"investedCapital"`
	ReferralCode    string  `json:"referralCode"`
	ReferredBy      *string `json:"referredBy,omitempty"`
	Role            string  `json:"role"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"createdAt"`
}

func (h *UserHandler) Me(c echo.Context) error {
	u := middleware.CurrentUser(c)
	return c.JSON(http.StatusOK, toUserResponse(u))
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:              u.ID,
		Name:            u.Name,
		Phone:           u.Phone,
		Email:           u.Email,
		Balance:         u.Balance,
		InvestedCapital: u.InvestedCapital,
		ReferralCode:    u.ReferralCode,
		ReferredBy:      u.ReferredBy,
		Role:            string(u.Role),
		Status:          string(u.Status),
		CreatedAt:       u.CreatedAt.Format(time.RFC3339),
	}
}

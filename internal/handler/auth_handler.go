package handler

import (
	"net/http"

	"github.com/agrivest/agrivest-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	users service.UserService
}

func NewAuthHandler(users service.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

type RegisterRequest struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	ReferralCode string `json:"referralCode"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing identity"))
	}
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	u, err := h.users.Register(c.Request().Context(), uid, service.RegisterInput{
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		return respondRequestError(c, err)
	}
	return c.JSON(http.StatusCreated, toUserResponse(u))
}

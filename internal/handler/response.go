package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/agrivest/agrivest-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error errorPayload `json:"error"`
}

func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: errorPayload{
			Code:    code,
			Message: message,
		},
	}
}

func mapServiceError(err error) (int, ErrorResponse, bool) {
	var early *service.HarvestEarlyError
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, NewErrorResponse("not_found", err.Error()), true
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, NewErrorResponse("forbidden", err.Error()), true
	case errors.As(err, &early):
		return http.StatusBadRequest, NewErrorResponse("harvest_too_early", early.Error()), true
	case errors.Is(err, service.ErrAlreadyResolved):
		return http.StatusBadRequest, NewErrorResponse("already_resolved", err.Error()), true
	case errors.Is(err, service.ErrInsufficientBalance):
		return http.StatusBadRequest, NewErrorResponse("insufficient_balance", err.Error()), true
	case errors.Is(err, service.ErrNoActiveInvestment):
		return http.StatusBadRequest, NewErrorResponse("no_active_investment", err.Error()), true
	case errors.Is(err, service.ErrInvestmentNotActive):
		return http.StatusBadRequest, NewErrorResponse("investment_not_active", err.Error()), true
	case errors.Is(err, service.ErrPackNotFound):
		return http.StatusBadRequest, NewErrorResponse("pack_not_found", err.Error()), true
	case errors.Is(err, service.ErrAlreadyRegistered):
		return http.StatusBadRequest, NewErrorResponse("already_registered", err.Error()), true
	case errors.Is(err, service.ErrPhoneTaken):
		return http.StatusBadRequest, NewErrorResponse("phone_taken", err.Error()), true
	}
	return 0, ErrorResponse{}, false
}

// respondServiceError maps known business rejections; anything else is a
// server fault.
func respondServiceError(c echo.Context, err error) error {
	if status, resp, ok := mapServiceError(err); ok {
		return c.JSON(status, resp)
	}
	return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "unexpected error"))
}

// respondRequestError is for create/request endpoints where unmapped errors
// are validation failures, not server faults.
func respondRequestError(c echo.Context, err error) error {
	if status, resp, ok := mapServiceError(err); ok {
		return c.JSON(status, resp)
	}
	return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
}

func pageParams(c echo.Context) (limit, offset int) {
	limit = 20
	offset = 0
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}

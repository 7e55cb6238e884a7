package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/agrivest/agrivest-backend/internal/cache"
	"github.com/agrivest/agrivest-backend/internal/model"
	"github.com/agrivest/agrivest-backend/internal/repository"
	"github.com/agrivest/agrivest-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

type AdminHandler struct {
	users        service.UserService
	transactions service.TransactionService
	settings     service.SettingsService
	rdb          *redis.Client
}

func NewAdminHandler(users service.UserService, transactions service.TransactionService, settings service.SettingsService, rdb *redis.Client) *AdminHandler {
	return &AdminHandler{users: users, transactions: transactions, settings: settings, rdb: rdb}
}

type AdminUserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int64          `json:"total"`
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	limit, offset := pageParams(c)
	key := fmt.Sprintf("admin:users:page=%d:size=%d", offset/limit+1, limit)

	var cached AdminUserListResponse
	if found, err := cache.Get(ctx, h.rdb, key, &cached); err == nil && found {
		return c.JSON(http.StatusOK, cached)
	}

	users, total, err := h.users.List(ctx, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch users"))
	}
	resp := AdminUserListResponse{
		Users: make([]UserResponse, 0, len(users)),
		Total: total,
	}
	for i := range users {
		resp.Users = append(resp.Users, toUserResponse(&users[i]))
	}
	_ = cache.Set(ctx, h.rdb, key, resp, cache.AdminListTTL)
	return c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) BanUser(c echo.Context) error {
	return h.setUserStatus(c, model.UserStatusBanned)
}

func (h *AdminHandler) UnbanUser(c echo.Context) error {
	return h.setUserStatus(c, model.UserStatusActive)
}

func (h *AdminHandler) setUserStatus(c echo.Context, status model.UserStatus) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	if err := h.users.SetStatus(c.Request().Context(), id, status); err != nil {
		return respondServiceError(c, err)
	}
	cache.InvalidateAdminLists(c.Request().Context(), h.rdb)
	return c.JSON(http.StatusOK, map[string]string{"status": string(status)})
}

type AdjustBalanceRequest struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

func (h *AdminHandler) AdjustBalance(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	var req AdjustBalanceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	t, err := h.users.AdjustBalance(c.Request().Context(), id, req.Amount, req.Description)
	if err != nil {
		return respondRequestError(c, err)
	}
	cache.InvalidateAdminLists(c.Request().Context(), h.rdb)
	return c.JSON(http.StatusOK, toTransactionResponse(t))
}

func (h *AdminHandler) ListTransactions(c echo.Context) error {
	ctx := c.Request().Context()
	limit, offset := pageParams(c)
	f := repository.TransactionFilter{
		Type:   model.TransactionType(c.QueryParam("type")),
		Status: model.TransactionStatus(c.QueryParam("status")),
		From:   c.QueryParam("from"),
		To:     c.QueryParam("to"),
		Limit:  limit,
		Offset: offset,
	}
	if v, err := strconv.ParseUint(c.QueryParam("user_id"), 10, 64); err == nil {
		f.UserID = v
	}

	unfiltered := f.UserID == 0 && f.Type == "" && f.Status == "" && f.From == "" && f.To == ""
	key := fmt.Sprintf("admin:txs:page=%d:size=%d", offset/limit+1, limit)
	if unfiltered {
		var cached TransactionListResponse
		if found, err := cache.Get(ctx, h.rdb, key, &cached); err == nil && found {
			return c.JSON(http.StatusOK, cached)
		}
	}

	list, total, err := h.transactions.List(ctx, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch transactions"))
	}
	resp := toTransactionListResponse(list, total)
	if unfiltered {
		_ = cache.Set(ctx, h.rdb, key, resp, cache.AdminListTTL)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) ApproveTransaction(c echo.Context) error {
	return h.resolveTransaction(c, true)
}

func (h *AdminHandler) RejectTransaction(c echo.Context) error {
	return h.resolveTransaction(c, false)
}

func (h *AdminHandler) resolveTransaction(c echo.Context, approve bool) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	var t *model.Transaction
	if approve {
		t, err = h.transactions.Approve(c.Request().Context(), id)
	} else {
		t, err = h.transactions.Reject(c.Request().Context(), id)
	}
	if err != nil {
		return respondServiceError(c, err)
	}
	cache.InvalidateAdminLists(c.Request().Context(), h.rdb)
	return c.JSON(http.StatusOK, toTransactionResponse(t))
}

func (h *AdminHandler) GetSettings(c echo.Context) error {
	all, err := h.settings.All(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch settings"))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"settings": all})
}

type UpdateSettingRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (h *AdminHandler) UpdateSetting(c echo.Context) error {
	var req UpdateSettingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if err := h.settings.Update(c.Request().Context(), req.Key, req.Value); err != nil {
		return respondRequestError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{req.Key: req.Value})
}

package handler

import (
	"net/http"
	"time"

	"github.com/agrivest/agrivest-backend/internal/middleware"
	"github.com/agrivest/agrivest-backend/internal/model"
	"github.com/agrivest/agrivest-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type TransactionHandler struct {
	svc service.TransactionService
}

func NewTransactionHandler(svc service.TransactionService) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

type DepositRequest struct {
	Amount   int64   `json:"amount"`
	Method   string  `json:"method"`
	PackID   *uint64 `json:"packId"`
	ProofURL string  `json:"proofUrl"`
}

type WithdrawalRequest struct {
	Amount int64  `json:"amount"`
	Method string `json:"method"`
	Phone  string `json:"phone"`
}

type TransactionResponse struct {
	ID          uint64  `json:"id"`
	Reference   string  `json:"reference"`
	UserID      uint64  `json:"userId"`
	Type        string  `json:"type"`
	Amount      int64   `json:"amount"`
	Status      string  `json:"status"`
	Method      string  `json:"method,omitempty"`
	PackID      *uint64 `json:"packId,omitempty"`
	ProofURL    string  `json:"proofUrl,omitempty"`
	Description string  `json:"description,omitempty"`
	CreatedAt   string  `json:"createdAt"`
}

type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int64                 `json:"total"`
}

func (h *TransactionHandler) CreateDeposit(c echo.Context) error {
	u := middleware.CurrentUser(c)
	var req DepositRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	t, err := h.svc.RequestDeposit(c.Request().Context(), u.ID, service.DepositInput{
		Amount:   req.Amount,
		Method:   req.Method,
		PackID:   req.PackID,
		ProofURL: req.ProofURL,
	})
	if err != nil {
		return respondRequestError(c, err)
	}
	return c.JSON(http.StatusCreated, toTransactionResponse(t))
}

func (h *TransactionHandler) CreateWithdrawal(c echo.Context) error {
	u := middleware.CurrentUser(c)
	var req WithdrawalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	t, err := h.svc.RequestWithdrawal(c.Request().Context(), u.ID, service.WithdrawalInput{
		Amount: req.Amount,
		Method: req.Method,
		Phone:  req.Phone,
	})
	if err != nil {
		return respondRequestError(c, err)
	}
	return c.JSON(http.StatusCreated, toTransactionResponse(t))
}

func (h *TransactionHandler) ListMine(c echo.Context) error {
	u := middleware.CurrentUser(c)
	limit, offset := pageParams(c)
	typ := model.TransactionType(c.QueryParam("type"))
	list, total, err := h.svc.ListByUser(c.Request().Context(), u.ID, typ, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch transactions"))
	}
	return c.JSON(http.StatusOK, toTransactionListResponse(list, total))
}

func toTransactionResponse(t *model.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		Reference:   t.Reference,
		UserID:      t.UserID,
		Type:        string(t.Type),
		Amount:      t.Amount,
		Status:      string(t.Status),
		Method:      t.Method,
		PackID:      t.PackID,
		ProofURL:    t.ProofURL,
		Description: t.Description,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
}

func toTransactionListResponse(list []model.Transaction, total int64) TransactionListResponse {
	resp := TransactionListResponse{
		Transactions: make([]TransactionResponse, 0, len(list)),
		Total:        total,
	}
	for i := range list {
		resp.Transactions = append(resp.Transactions, toTransactionResponse(&list[i]))
	}
	return resp
}

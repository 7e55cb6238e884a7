package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agrivest/agrivest-backend/internal/catalog"
	"github.com/agrivest/agrivest-backend/internal/model"
	"github.com/agrivest/agrivest-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type DepositInput struct {
	Amount   int64
	Method   string
	PackID   *uint64
	ProofURL string
}

type WithdrawalInput struct {
	Amount int64
	Method string
	Phone  string
}

type TransactionService interface {
	RequestDeposit(ctx context.Context, userID uint64, in DepositInput) (*model.Transaction, error)
	RequestWithdrawal(ctx context.Context, userID uint64, in WithdrawalInput) (*model.Transaction, error)
	Approve(ctx context.Context, id uint64) (*model.Transaction, error)
	Reject(ctx context.Context, id uint64) (*model.Transaction, error)
	ListByUser(ctx context.Context, userID uint64, typ model.TransactionType, limit, offset int) ([]model.Transaction, int64, error)
	List(ctx context.Context, f repository.TransactionFilter) ([]model.Transaction, int64, error)
}

type transactionService struct {
	transactions repository.TransactionRepository
	investments  repository.InvestmentRepository
	tm           repository.TxManager
	now          func() time.Time
}

func NewTransactionService(transactions repository.TransactionRepository, investments repository.InvestmentRepository, tm repository.TxManager) TransactionService {
	return &transactionService{transactions: transactions, investments: investments, tm: tm, now: time.Now}
}

// RequestDeposit records a PENDING deposit with its proof of payment. No
// balance moves until an admin approves it.
func (s *transactionService) RequestDeposit(ctx context.Context, userID uint64, in DepositInput) (*model.Transaction, error) {
	if in.Amount <= 0 {
		return nil, errors.New("invalid amount")
	}
	method := strings.TrimSpace(in.Method)
	if method == "" {
		return nil, errors.New("payment method is required")
	}
	if in.PackID != nil {
		pack, ok := catalog.ByID(*in.PackID)
		if !ok {
			return nil, ErrPackNotFound
		}
		if in.Amount < pack.Price {
			return nil, fmt.Errorf("amount must cover the pack price of %d", pack.Price)
		}
	}

	t := &model.Transaction{
		Reference: uuid.NewString(),
		UserID:    userID,
		Type:      model.TxTypeDeposit,
		Amount:    in.Amount,
		Status:    model.TxStatusPending,
		Method:    method,
		PackID:    in.PackID,
		ProofURL:  strings.TrimSpace(in.ProofURL),
	}
	if err := s.transactions.Create(ctx, t); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"amount":  in.Amount,
		"tx_id":   t.ID,
	}).Info("deposit requested")
	return t, nil
}

// RequestWithdrawal debits the balance optimistically and opens a PENDING
// withdrawal. Rejection refunds the debit; approval just marks it done.
func (s *transactionService) RequestWithdrawal(ctx context.Context, userID uint64, in WithdrawalInput) (*model.Transaction, error) {
	if in.Amount <= 0 {
		return nil, errors.New("invalid amount")
	}
	method := strings.TrimSpace(in.Method)
	if method == "" {
		return nil, errors.New("payment method is required")
	}
	phone := strings.TrimSpace(in.Phone)
	if phone == "" {
		return nil, errors.New("payout phone number is required")
	}

	active, err := s.investments.CountActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if active == 0 {
		return nil, ErrNoActiveInvestment
	}

	t := &model.Transaction{
		Reference:   uuid.NewString(),
		UserID:      userID,
		Type:        model.TxTypeWithdrawal,
		Amount:      in.Amount,
		Status:      model.TxStatusPending,
		Method:      method,
		Description: fmt.Sprintf("Payout to %s", phone),
	}
	err = s.tm.Transact(ctx, func(r repository.Repos) error {
		rows, err := r.Users.DeductBalance(ctx, userID, in.Amount)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrInsufficientBalance
		}
		return r.Transactions.Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"amount":  in.Amount,
		"tx_id":   t.ID,
	}).Info("withdrawal requested")
	return t, nil
}

// Approve resolves a PENDING transaction. Pack deposits create the
// investment, lock the principal, pay out any baked-in bonus as liquid
// balance and cascade the referral bonus; plain deposits just credit the
// balance; withdrawals were already debited at request time.
func (s *transactionService) Approve(ctx context.Context, id uint64) (*model.Transaction, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status != model.TxStatusPending {
		return nil, ErrAlreadyResolved
	}

	switch t.Type {
	case model.TxTypeDeposit:
		err = s.tm.Transact(ctx, func(r repository.Repos) error {
			rows, err := r.Transactions.Resolve(ctx, t.ID, model.TxStatusCompleted)
			if err != nil {
				return err
			}
			if rows == 0 {
				return ErrAlreadyResolved
			}
			if t.PackID == nil {
				return r.Users.AddBalance(ctx, t.UserID, t.Amount)
			}
			return s.settlePackDeposit(ctx, r, t)
		})
	case model.TxTypeWithdrawal:
		err = s.tm.Transact(ctx, func(r repository.Repos) error {
			rows, err := r.Transactions.Resolve(ctx, t.ID, model.TxStatusCompleted)
			if err != nil {
				return err
			}
			if rows == 0 {
				return ErrAlreadyResolved
			}
			return nil
		})
	default:
		return nil, fmt.Errorf("transaction type %s cannot be approved", t.Type)
	}
	if err != nil {
		return nil, err
	}

	t.Status = model.TxStatusCompleted
	logrus.WithFields(logrus.Fields{
		"tx_id":   t.ID,
		"user_id": t.UserID,
		"type":    t.Type,
		"amount":  t.Amount,
	}).Info("transaction approved")
	return t, nil
}

func (s *transactionService) settlePackDeposit(ctx context.Context, r repository.Repos, t *model.Transaction) error {
	pack, ok := catalog.ByID(*t.PackID)
	if !ok {
		return ErrPackNotFound
	}
	inv := &model.Investment{
		UserID:       t.UserID,
		PackID:       pack.ID,
		Amount:       pack.Price,
		DailyRate:    catalog.DailyRatePercent,
		Status:       model.InvestmentStatusActive,
		LastGainDate: s.now(),
	}
	if err := r.Investments.Create(ctx, inv); err != nil {
		return err
	}
	if err := r.Users.AddInvestedCapital(ctx, t.UserID, pack.Price); err != nil {
		return err
	}
	// anything above the pack price was a deposit bonus; it stays liquid
	if surplus := t.Amount - pack.Price; surplus > 0 {
		if err := r.Users.AddBalance(ctx, t.UserID, surplus); err != nil {
			return err
		}
	}
	if err := r.Transactions.Create(ctx, &model.Transaction{
		Reference:   uuid.NewString(),
		UserID:      t.UserID,
		Type:        model.TxTypeInvestment,
		Amount:      pack.Price,
		Status:      model.TxStatusCompleted,
		PackID:      &pack.ID,
		Description: fmt.Sprintf("%s pack investment", pack.Name),
	}); err != nil {
		return err
	}
	return payReferralBonus(ctx, r, t.UserID, pack.Price)
}

// Reject fails a PENDING transaction. Deposits never credited anything, so
// nothing moves; withdrawals refund the amount debited at request time.
func (s *transactionService) Reject(ctx context.Context, id uint64) (*model.Transaction, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status != model.TxStatusPending {
		return nil, ErrAlreadyResolved
	}

	err = s.tm.Transact(ctx, func(r repository.Repos) error {
		rows, err := r.Transactions.Resolve(ctx, t.ID, model.TxStatusFailed)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrAlreadyResolved
		}
		if t.Type == model.TxTypeWithdrawal {
			return r.Users.AddBalance(ctx, t.UserID, t.Amount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	t.Status = model.TxStatusFailed
	logrus.WithFields(logrus.Fields{
		"tx_id":   t.ID,
		"user_id": t.UserID,
		"type":    t.Type,
	}).Info("transaction rejected")
	return t, nil
}

func (s *transactionService) ListByUser(ctx context.Context, userID uint64, typ model.TransactionType, limit, offset int) ([]model.Transaction, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.transactions.ListByUser(ctx, userID, typ, limit, offset)
}

func (s *transactionService) List(ctx context.Context, f repository.TransactionFilter) ([]model.Transaction, int64, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.transactions.List(ctx, f)
}

func (s *transactionService) load(ctx context.Context, id uint64) (*model.Transaction, error) {
	t, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/agrivest/agrivest-backend/internal/catalog"
	"github.com/agrivest/agrivest-backend/internal/model"
	"github.com/agrivest/agrivest-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	harvestWindow = 24 * time.Hour
	// maxSweepDays bounds catch-up crediting when the cron stalls; days
	// beyond the cap are forfeited.
	maxSweepDays = 7
)

type SweepResult struct {
	Scanned     int   `json:"scanned"`
	Credited    int   `json:"credited"`
	DaysPaid    int   `json:"daysPaid"`
	TotalAmount int64 `json:"totalAmount"`
	Failed      int   `json:"failed"`
}

type InvestmentService interface {
	Invest(ctx context.Context, userID, packID uint64) (*model.Investment, error)
	Harvest(ctx context.Context, userID, investmentID uint64) (int64, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Investment, error)
	SweepDailyGains(ctx context.Context) (SweepResult, error)
}

type investmentService struct {
	investments repository.InvestmentRepository
	tm          repository.TxManager
	now         func() time.Time
}

func NewInvestmentService(investments repository.InvestmentRepository, tm repository.TxManager) InvestmentService {
	return &investmentService{investments: investments, tm: tm, now: time.Now}
}

// Invest buys a pack straight from the user's liquid balance.
func (s *investmentService) Invest(ctx context.Context, userID, packID uint64) (*model.Investment, error) {
	pack, ok := catalog.ByID(packID)
	if !ok {
		return nil, ErrPackNotFound
	}

	inv := &model.Investment{
		UserID:       userID,
		PackID:       pack.ID,
		Amount:       pack.Price,
		DailyRate:    catalog.DailyRatePercent,
		Status:       model.InvestmentStatusActive,
		LastGainDate: s.now(),
	}
	err := s.tm.Transact(ctx, func(r repository.Repos) error {
		rows, err := r.Users.DeductBalance(ctx, userID, pack.Price)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrInsufficientBalance
		}
		if err := r.Investments.Create(ctx, inv); err != nil {
			return err
		}
		if err := r.Users.AddInvestedCapital(ctx, userID, pack.Price); err != nil {
			return err
		}
		record := &model.Transaction{
			Reference:   uuid.NewString(),
			UserID:      userID,
			Type:        model.TxTypeInvestment,
			Amount:      pack.Price,
			Status:      model.TxStatusCompleted,
			PackID:      &pack.ID,
			Description: fmt.Sprintf("%s pack investment", pack.Name),
		}
		if err := r.Transactions.Create(ctx, record); err != nil {
			return err
		}
		return payReferralBonus(ctx, r, userID, pack.Price)
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":       userID,
		"pack_id":       pack.ID,
		"amount":        pack.Price,
		"investment_id": inv.ID,
	}).Info("investment created")
	return inv, nil
}

// Harvest credits exactly one day's gain once 24h have elapsed and resets
// the accrual cursor to now. Days missed beyond the first are intentionally
// discarded on this path; only the cron sweep catches up.
func (s *investmentService) Harvest(ctx context.Context, userID, investmentID uint64) (int64, error) {
	inv, err := s.investments.FindByID(ctx, investmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	if inv.UserID != userID {
		return 0, ErrForbidden
	}
	if inv.Status != model.InvestmentStatusActive {
		return 0, ErrInvestmentNotActive
	}
	pack, ok := catalog.ByID(inv.PackID)
	if !ok {
		return 0, ErrPackNotFound
	}

	now := s.now()
	if elapsed := now.Sub(inv.LastGainDate); elapsed < harvestWindow {
		return 0, &HarvestEarlyError{RemainingHours: remainingHours(elapsed)}
	}

	cutoff := now.Add(-harvestWindow)
	err = s.tm.Transact(ctx, func(r repository.Repos) error {
		rows, err := r.Investments.SettleGain(ctx, inv.ID, cutoff, now)
		if err != nil {
			return err
		}
		if rows == 0 {
			// lost the race to a concurrent harvest
			return &HarvestEarlyError{RemainingHours: int(harvestWindow.Hours())}
		}
		if err := r.Users.AddBalance(ctx, userID, pack.DailyGain); err != nil {
			return err
		}
		return r.Transactions.Create(ctx, &model.Transaction{
			Reference:   uuid.NewString(),
			UserID:      userID,
			Type:        model.TxTypeGain,
			Amount:      pack.DailyGain,
			Status:      model.TxStatusCompleted,
			PackID:      &pack.ID,
			Description: fmt.Sprintf("Daily gain, %s pack", pack.Name),
		})
	})
	if err != nil {
		return 0, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":       userID,
		"investment_id": inv.ID,
		"amount":        pack.DailyGain,
	}).Info("gain harvested")
	return pack.DailyGain, nil
}

func (s *investmentService) ListByUser(ctx context.Context, userID uint64) ([]model.Investment, error) {
	return s.investments.ListByUser(ctx, userID)
}

// SweepDailyGains credits every ACTIVE investment whose cursor is older than
// 24h with min(floor(elapsed/24h), 7) days of gain in a single GAIN row,
// then moves the cursor to the sweep time. Each investment settles in its
// own database transaction so one failure doesn't poison the batch.
func (s *investmentService) SweepDailyGains(ctx context.Context) (SweepResult, error) {
	now := s.now()
	cutoff := now.Add(-harvestWindow)

	due, err := s.investments.ListDue(ctx, cutoff)
	if err != nil {
		return SweepResult{}, err
	}

	res := SweepResult{Scanned: len(due)}
	for _, inv := range due {
		pack, ok := catalog.ByID(inv.PackID)
		if !ok {
			logrus.WithFields(logrus.Fields{
				"investment_id": inv.ID,
				"pack_id":       inv.PackID,
			}).Error("sweep: unknown pack, skipping")
			res.Failed++
			continue
		}
		days := int(now.Sub(inv.LastGainDate).Hours()) / 24
		if days > maxSweepDays {
			days = maxSweepDays
		}
		if days < 1 {
			continue
		}
		amount := pack.DailyGain * int64(days)

		err := s.tm.Transact(ctx, func(r repository.Repos) error {
			rows, err := r.Investments.SettleGain(ctx, inv.ID, cutoff, now)
			if err != nil {
				return err
			}
			if rows == 0 {
				// already settled by a harvest or another sweep
				return nil
			}
			if err := r.Users.AddBalance(ctx, inv.UserID, amount); err != nil {
				return err
			}
			return r.Transactions.Create(ctx, &model.Transaction{
				Reference:   uuid.NewString(),
				UserID:      inv.UserID,
				Type:        model.TxTypeGain,
				Amount:      amount,
				Status:      model.TxStatusCompleted,
				PackID:      &pack.ID,
				Description: fmt.Sprintf("Daily gain x%d, %s pack", days, pack.Name),
			})
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"investment_id": inv.ID,
				"error":         err.Error(),
			}).Error("sweep: settlement failed")
			res.Failed++
			continue
		}
		res.Credited++
		res.DaysPaid += days
		res.TotalAmount += amount
	}

	logrus.WithFields(logrus.Fields{
		"scanned":  res.Scanned,
		"credited": res.Credited,
		"amount":   res.TotalAmount,
		"failed":   res.Failed,
	}).Info("daily gain sweep finished")
	return res, nil
}

func remainingHours(elapsed time.Duration) int {
	return int(math.Ceil((harvestWindow - elapsed).Hours()))
}

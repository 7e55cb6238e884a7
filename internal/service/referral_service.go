package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/agrivest/agrivest-backend/internal/model"
	"github.com/agrivest/agrivest-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ReferralWithUser struct {
	Referral model.Referral
	Referred *model.User
}

type ReferralService interface {
	ListBySponsor(ctx context.Context, sponsorID uint64) ([]ReferralWithUser, error)
}

type referralService struct {
	referrals repository.ReferralRepository
	users     repository.UserRepository
}

func NewReferralService(referrals repository.ReferralRepository, users repository.UserRepository) ReferralService {
	return &referralService{referrals: referrals, users: users}
}

func (s *referralService) ListBySponsor(ctx context.Context, sponsorID uint64) ([]ReferralWithUser, error) {
	edges, err := s.referrals.ListBySponsor(ctx, sponsorID)
	if err != nil {
		return nil, err
	}
	out := make([]ReferralWithUser, 0, len(edges))
	for _, e := range edges {
		referred, _ := s.users.FindByID(ctx, e.ReferredID)
		out = append(out, ReferralWithUser{Referral: e, Referred: referred})
	}
	return out, nil
}

// payReferralBonus pays the sponsor 10% of the invested principal. It runs
// inside the investment's database transaction so the sponsor credit, the
// ledger row and the edge counters commit together. One level only; the
// sponsor's own sponsor gets nothing.
func payReferralBonus(ctx context.Context, r repository.Repos, investorID uint64, principal int64) error {
	investor, err := r.Users.FindByID(ctx, investorID)
	if err != nil {
		return err
	}
	if investor.ReferredBy == nil || *investor.ReferredBy == "" {
		return nil
	}
	sponsor, err := r.Users.FindByReferralCode(ctx, *investor.ReferredBy)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithFields(logrus.Fields{
				"user_id": investor.ID,
				"code":    *investor.ReferredBy,
			}).Warn("referral bonus skipped: sponsor code no longer resolves")
			return nil
		}
		return err
	}

	bonus := principal / 10
	if bonus <= 0 {
		return nil
	}
	if err := r.Users.AddBalance(ctx, sponsor.ID, bonus); err != nil {
		return err
	}
	if err := r.Transactions.Create(ctx, &model.Transaction{
		Reference:   uuid.NewString(),
		UserID:      sponsor.ID,
		Type:        model.TxTypeReferralBonus,
		Amount:      bonus,
		Status:      model.TxStatusCompleted,
		Description: fmt.Sprintf("Referral bonus from %s", investor.Name),
	}); err != nil {
		return err
	}

	edge, err := r.Referrals.FindBySponsorAndReferred(ctx, sponsor.ID, investor.ID)
	switch {
	case err == nil:
		if err := r.Referrals.AddTotals(ctx, edge.ID, principal, bonus); err != nil {
			return err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// edge normally exists since registration; recreate if it was lost
		if err := r.Referrals.Create(ctx, &model.Referral{
			SponsorID:     sponsor.ID,
			ReferredID:    investor.ID,
			TotalInvested: principal,
			TotalBonus:    bonus,
		}); err != nil {
			return err
		}
	default:
		return err
	}

	logrus.WithFields(logrus.Fields{
		"sponsor_id": sponsor.ID,
		"user_id":    investor.ID,
		"bonus":      bonus,
	}).Info("referral bonus paid")
	return nil
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/agrivest/agrivest-backend/internal/model"
	"github.com/agrivest/agrivest-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SignupBonus is credited to every new account at registration.
const SignupBonus int64 = 3000

type RegisterInput struct {
	Name         string
	Phone        string
	Email        string
	ReferralCode string
}

type UserService interface {
	Register(ctx context.Context, uid string, in RegisterInput) (*model.User, error)
	GetByUID(ctx context.Context, uid string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	List(ctx context.Context, limit, offset int) ([]model.User, int64, error)
	SetStatus(ctx context.Context, id uint64, status model.UserStatus) error
	AdjustBalance(ctx context.Context, id uint64, amount int64, description string) (*model.Transaction, error)
}

type userService struct {
	users repository.UserRepository
	tm    repository.TxManager
	now   func() time.Time
}

func NewUserService(users repository.UserRepository, tm repository.TxManager) UserService {
	return &userService{users: users, tm: tm, now: time.Now}
}

func (s *userService) Register(ctx context.Context, uid string, in RegisterInput) (*model.User, error) {
	if uid == "" {
		return nil, errors.New("identity is required")
	}
	name := strings.TrimSpace(in.Name)
	phone := strings.TrimSpace(in.Phone)
	if name == "" || len(name) > 100 {
		return nil, errors.New("invalid name")
	}
	if phone == "" || len(phone) > 20 {
		return nil, errors.New("invalid phone number")
	}

	if _, err := s.users.FindByUID(ctx, uid); err == nil {
		return nil, ErrAlreadyRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.users.FindByPhone(ctx, phone); err == nil {
		return nil, ErrPhoneTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var sponsor *model.User
	code := strings.TrimSpace(strings.ToUpper(in.ReferralCode))
	if code != "" {
		found, err := s.users.FindByReferralCode(ctx, code)
		switch {
		case err == nil:
			sponsor = found
		case errors.Is(err, gorm.ErrRecordNotFound):
			// unknown codes are ignored, the account still gets created
			logrus.WithField("referral_code", code).Warn("registration with unknown referral code")
			code = ""
		default:
			return nil, err
		}
	}

	u := &model.User{
		UID:          uid,
		Name:         name,
		Phone:        phone,
		Email:        strings.TrimSpace(in.Email),
		Balance:      SignupBonus,
		ReferralCode: newReferralCode(),
		Role:         model.RoleUser,
		Status:       model.UserStatusActive,
	}
	if sponsor != nil {
		u.ReferredBy = &code
	}

	err := s.tm.Transact(ctx, func(r repository.Repos) error {
		if err := r.Users.Create(ctx, u); err != nil {
			return err
		}
		bonus := &model.Transaction{
			Reference:   uuid.NewString(),
			UserID:      u.ID,
			Type:        model.TxTypeBonus,
			Amount:      SignupBonus,
			Status:      model.TxStatusCompleted,
			Description: "Welcome bonus",
		}
		if err := r.Transactions.Create(ctx, bonus); err != nil {
			return err
		}
		if sponsor != nil {
			return r.Referrals.Create(ctx, &model.Referral{
				SponsorID:  sponsor.ID,
				ReferredID: u.ID,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id": u.ID,
		"uid":     uid,
		"sponsor": sponsor != nil,
	}).Info("user registered")
	return u, nil
}

func (s *userService) GetByUID(ctx context.Context, uid string) (*model.User, error) {
	u, err := s.users.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *userService) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *userService) List(ctx context.Context, limit, offset int) ([]model.User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.users.List(ctx, limit, offset)
}

func (s *userService) SetStatus(ctx context.Context, id uint64, status model.UserStatus) error {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.UpdateStatus(ctx, u.ID, status); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"user_id": u.ID,
		"status":  status,
	}).Info("user status changed")
	return nil
}

// AdjustBalance applies a manual admin credit or debit and records it as a
// completed deposit or withdrawal so the ledger stays in lockstep.
func (s *userService) AdjustBalance(ctx context.Context, id uint64, amount int64, description string) (*model.Transaction, error) {
	if amount == 0 {
		return nil, errors.New("amount must not be zero")
	}
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	t := &model.Transaction{
		Reference:   uuid.NewString(),
		UserID:      u.ID,
		Amount:      amount,
		Status:      model.TxStatusCompleted,
		Method:      "ADMIN",
		Description: description,
	}
	err = s.tm.Transact(ctx, func(r repository.Repos) error {
		if amount > 0 {
			t.Type = model.TxTypeDeposit
			if err := r.Users.AddBalance(ctx, u.ID, amount); err != nil {
				return err
			}
		} else {
			t.Type = model.TxTypeWithdrawal
			t.Amount = -amount
			rows, err := r.Users.DeductBalance(ctx, u.ID, -amount)
			if err != nil {
				return err
			}
			if rows == 0 {
				return ErrInsufficientBalance
			}
		}
		return r.Transactions.Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id": u.ID,
		"amount":  amount,
		"type":    t.Type,
	}).Info("manual balance adjustment")
	return t, nil
}

func newReferralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
}

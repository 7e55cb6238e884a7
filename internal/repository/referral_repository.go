package repository

import (
	"context"

	"github.com/agrivest/agrivest-backend/internal/model"
	"gorm.io/gorm"
)

type ReferralRepository interface {
	Create(ctx context.Context, ref *model.Referral) error
	FindBySponsorAndReferred(ctx context.Context, sponsorID, referredID uint64) (*model.Referral, error)
	ListBySponsor(ctx context.Context, sponsorID uint64) ([]model.Referral, error)
	AddTotals(ctx context.Context, id uint64, invested, bonus int64) error
}

type referralRepository struct {
	db *gorm.DB
}

func NewReferralRepository(db *gorm.DB) ReferralRepository {
	return &referralRepository{db: db}
}

func (r *referralRepository) Create(ctx context.Context, ref *model.Referral) error {
	return r.db.WithContext(ctx).Create(ref).Error
}

func (r *referralRepository) FindBySponsorAndReferred(ctx context.Context, sponsorID, referredID uint64) (*model.Referral, error) {
	var ref model.Referral
	if err := r.db.WithContext(ctx).
		Where("sponsor_id = ? AND referred_id = ?", sponsorID, referredID).
		First(&ref).Error; err != nil {
		return nil, err
	}
	return &ref, nil
}

func (r *referralRepository) ListBySponsor(ctx context.Context, sponsorID uint64) ([]model.Referral, error) {
	var list []model.Referral
	if err := r.db.WithContext(ctx).
		Where("sponsor_id = ?", sponsorID).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *referralRepository) AddTotals(ctx context.Context, id uint64, invested, bonus int64) error {
	return r.db.WithContext(ctx).
		Model(&model.Referral{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_invested": gorm.Expr("total_invested + ?", invested),
			"total_bonus":    gorm.Expr("total_bonus + ?", bonus),
		}).Error
}

package repository

import (
	"context"
	"time"

	"github.com/agrivest/agrivest-backend/internal/model"
	"gorm.io/gorm"
)

type InvestmentRepository interface {
	Create(ctx context.Context, inv *model.Investment) error
	FindByID(ctx context.Context, id uint64) (*model.Investment, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Investment, error)
	CountActiveByUser(ctx context.Context, userID uint64) (int64, error)
	ListDue(ctx context.Context, cutoff time.Time) ([]model.Investment, error)
	SettleGain(ctx context.Context, id uint64, cutoff, now time.Time) (int64, error)
}

type investmentRepository struct {
	db *gorm.DB
}

func NewInvestmentRepository(db *gorm.DB) InvestmentRepository {
	return &investmentRepository{db: db}
}

func (r *investmentRepository) Create(ctx context.Context, inv *model.Investment) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *investmentRepository) FindByID(ctx context.Context, id uint64) (*model.Investment, error) {
	var inv model.Investment
	if err := r.db.WithContext(ctx).First(&inv, id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *investmentRepository) ListByUser(ctx context.Context, userID uint64) ([]model.Investment, error) {
	var list []model.Investment
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *investmentRepository) CountActiveByUser(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Investment{}).
		Where("user_id = ? AND status = ?", userID, model.InvestmentStatusActive).
		Count(&n).Error
	return n, err
}

func (r *investmentRepository) ListDue(ctx context.Context, cutoff time.Time) ([]model.Investment, error) {
	var list []model.Investment
	if err := r.db.WithContext(ctx).
		Where("status = ? AND last_gain_date <= ?", model.InvestmentStatusActive, cutoff).
		Order("id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// SettleGain advances the accrual cursor only if it is still older than the
// cutoff. Concurrent harvests race on the 24h check; making the check part
// of the UPDATE means at most one caller wins, whatever the isolation level.
func (r *investmentRepository) SettleGain(ctx context.Context, id uint64, cutoff, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Investment{}).
		Where("id = ? AND status = ? AND last_gain_date <= ?", id, model.InvestmentStatusActive, cutoff).
		Update("last_gain_date", now)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

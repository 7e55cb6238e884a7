package model

import "time"

// Referral is the edge from a sponsor to a user who signed up with the
// sponsor's code. Totals accumulate across every bonus-paying investment.
type Referral struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement"`
	SponsorID     uint64    `gorm:"column:sponsor_id;index;not null"`
	ReferredID    uint64    `gorm:"column:referred_id;index;not null"`
	TotalInvested int64     `gorm:"column:total_invested;not null;default:0"`
	TotalBonus    int64     `gorm:"column:total_bonus;not null;default:0"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (Referral) TableName() string {
	return "referrals"
}

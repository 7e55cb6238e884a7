package model

import "time"

type InvestmentStatus string

const (
	InvestmentStatusActive    InvestmentStatus = "ACTIVE"
	InvestmentStatusCompleted InvestmentStatus = "COMPLETED"
	InvestmentStatusSuspended InvestmentStatus = "SUSPENDED"
)

type Investment struct {
	ID           uint64           `gorm:"primaryKey;autoIncrement"`
	UserID       uint64           `gorm:"column:user_id;index;not null"`
	PackID       uint64           `gorm:"column:pack_id;not null"`
	Amount       int64            `gorm:"not null"`
	DailyRate    float64          `gorm:"column:daily_rate;not null"`
	Status       InvestmentStatus `gorm:"size:16;index;not null;default:'ACTIVE'"`
	LastGainDate time.Time        `gorm:"column:last_gain_date;index;not null"`
	CreatedAt    time.Time        `gorm:"autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"autoUpdateTime"`
}

func (Investment) TableName() string {
	return "investments"
}

package model

import "time"

type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusBanned    UserStatus = "BANNED"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

type User struct {
	ID              uint64     `gorm:"primaryKey;autoIncrement"`
	UID             string     `gorm:"column:uid;size:128;uniqueIndex;not null"`
	Name            string     `gorm:"size:100;not null"`
	Phone           string     `gorm:"size:20;uniqueIndex;not null"`
	Email           string     `gorm:"size:191"`
	Balance         int64      `gorm:"not null;default:0"`
	InvestedCapital int64      `gorm:"column:invested_capital;not null;default:0"`
	ReferralCode    string     `gorm:"column:referral_code;size:12;uniqueIndex;not null"`
	ReferredBy      *string    `gorm:"column:referred_by;size:12"`
	Role            UserRole   `gorm:"size:16;not null;default:'USER'"`
	Status          UserStatus `gorm:"size:16;not null;default:'ACTIVE'"`
	CreatedAt       time.Time  `gorm:"autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

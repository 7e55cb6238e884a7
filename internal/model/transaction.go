package model

import "time"

type TransactionType string

const (
	TxTypeDeposit       TransactionType = "DEPOSIT"
	TxTypeWithdrawal    TransactionType = "WITHDRAWAL"
	TxTypeInvestment    TransactionType = "INVESTMENT"
	TxTypeGain          TransactionType = "GAIN"
	TxTypeReferralBonus TransactionType = "REFERRAL_BONUS"
	TxTypeBonus         TransactionType = "BONUS"
)

type TransactionStatus string

const (
	TxStatusPending   TransactionStatus = "PENDING"
	TxStatusCompleted TransactionStatus = "COMPLETED"
	TxStatusFailed    TransactionStatus = "FAILED"
)

// Transactions are an append-only ledger. A PENDING row resolves to
// COMPLETED or FAILED exactly once; resolved rows are never mutated.
type Transaction struct {
	ID          uint64            `gorm:"primaryKey;autoIncrement"`
	Reference   string            `gorm:"size:64;uniqueIndex;not null"`
	UserID      uint64            `gorm:"column:user_id;index;not null"`
	Type        TransactionType   `gorm:"size:24;index;not null"`
	Amount      int64             `gorm:"not null"`
	Status      TransactionStatus `gorm:"size:16;index;not null;default:'PENDING'"`
	Method      string            `gorm:"size:32"`
	PackID      *uint64           `gorm:"column:pack_id"`
	ProofURL    string            `gorm:"column:proof_url;size:512"`
	Description string            `gorm:"size:255"`
	CreatedAt   time.Time         `gorm:"autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"autoUpdateTime"`
}

func (Transaction) TableName() string {
	return "transactions"
}

package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repos bundles the repositories bound to a single database transaction.
type Repos struct {
	Users        UserRepository
	Investments  InvestmentRepository
	Transactions TransactionRepository
	Referrals    ReferralRepository
}

// TxManager runs a closure against transaction-bound repositories. Every
// multi-step balance mutation goes through this so the ledger row and the
// balance delta commit or roll back together.
type TxManager interface {
	Transact(ctx context.Context, fn func(r Repos) error) error
}

type gormTxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxManager {
	return &gormTxManager{db: db}
}

func (m *gormTxManager) Transact(ctx context.Context, fn func(r Repos) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Repos{
			Users:        NewUserRepository(tx),
			Investments:  NewInvestmentRepository(tx),
			Transactions: NewTransactionRepository(tx),
			Referrals:    NewReferralRepository(tx),
		})
	})
}

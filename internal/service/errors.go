package service

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")
var ErrForbidden = errors.New("forbidden")

var (
	ErrAlreadyRegistered   = errors.New("account already exists")
	ErrPhoneTaken          = errors.New("phone number already registered")
	ErrPackNotFound        = errors.New("pack not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNoActiveInvestment  = errors.New("withdrawals require an active investment")
	ErrInvestmentNotActive = errors.New("investment is not active")
	ErrAlreadyResolved     = errors.New("transaction already resolved")
)

// HarvestEarlyError rejects a harvest attempted inside the 24h window and
// tells the user how long is left.
type HarvestEarlyError struct {
	RemainingHours int
}

func (e *HarvestEarlyError) Error() string {
	return fmt.Sprintf("next harvest available in %dh", e.RemainingHours)
}

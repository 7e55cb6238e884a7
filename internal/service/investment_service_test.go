package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agrivest/agrivest-backend/internal/model"
)

func newInvestmentTestService(store *memStore, now time.Time) *investmentService {
	svc := NewInvestmentService(&memInvestmentRepo{store}, &memTxManager{store}).(*investmentService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestHarvestCreditsExactlyOneDay(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newMemStore()
	u := store.addUser(model.User{UID: "u1", Phone: "p1", ReferralCode: "AAAA1111"})
	// pack 3: dailyGain 875, 30 hours elapsed
	inv := store.addInvestment(model.Investment{
		UserID:       u.ID,
		PackID:       3,
		Amount:       25000,
		Status:       model.InvestmentStatusActive,
		LastGainDate: now.Add(-30 * time.Hour),
	})
	svc := newInvestmentTestService(store, now)

	gain, err := svc.Harvest(context.Background(), u.ID, inv.ID)
	if err != nil {
		t.Fatalf("harvest failed: %v", err)
	}
	if gain != 875 {
		t.Fatalf("gain=%d want 875", gain)
	}
	if u.Balance != 875 {
		t.Fatalf("balance=%d want 875", u.Balance)
	}
	if got := store.investments[inv.ID].LastGainDate; !got.Equal(now) {
		t.Fatalf("lastGainDate=%v want %v", got, now)
	}
	if n := len(store.transactionsOfType(u.ID, model.TxTypeGain)); n != 1 {
		t.Fatalf("gain transactions=%d want 1", n)
	}

	// second attempt inside the fresh 24h window must not move anything
	_, err = svc.Harvest(context.Background(), u.ID, inv.ID)
	var early *HarvestEarlyError
	if !errors.As(err, &early) {
		t.Fatalf("expected HarvestEarlyError, got %v", err)
	}
	if u.Balance != 875 {
		t.Fatalf("balance changed on rejected harvest: %d", u.Balance)
	}
}

func TestHarvestDiscardsMissedDays(t *testing.T) {
	// 5 days elapsed still pays a single day on the on-demand path
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newMemStore()
	u := store.addUser(model.User{UID: "u1", Phone: "p1", ReferralCode: "AAAA1111"})
	inv := store.addInvestment(model.Investment{
		UserID:       u.ID,
		PackID:       2,
		Amount:       10000,
		Status:       model.InvestmentStatusActive,
		LastGainDate: now.Add(-5 * 24 * time.Hour),
	})
	svc := newInvestmentTestService(store, now)

	gain, err := svc.Harvest(context.Background(), u.ID, inv.ID)
	if err != nil {
		t.Fatalf("harvest failed: %v", err)
	}
	if gain != 350 {
		t.Fatalf("gain=%d want 350", gain)
	}
	if got := store.investments[inv.ID].LastGainDate; !got.Equal(now) {
		t.Fatalf("cursor not reset to now: %v", got)
	}
}

func TestHarvestTooEarlyRemainingHours(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newMemStore()
	u := store.addUser(model.User{UID: "u1", Phone: "p1", ReferralCode: "AAAA1111"})
	inv := store.addInvestment(model.Investment{
		UserID:       u.ID,
		PackID:       1,
		Amount:       5000,
		Status:       model.InvestmentStatusActive,
		LastGainDate: now.Add(-10 * time.Hour),
	})
	svc := newInvestmentTestService(store, now)

	_, err := svc.Harvest(context.Background(), u.ID, inv.ID)
	var early *HarvestEarlyError
	if !errors.As(err, &early) {
		t.Fatalf("expected HarvestEarlyError, got %v", err)
	}
	if early.RemainingHours != 14 {
		t.Fatalf("remainingHours=%d want 14", early.RemainingHours)
	}
}

func TestHarvestRejections(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newMemStore()
	owner := store.addUser(model.User{UID: "u1", Phone: "p1", ReferralCode: "AAAA1111"})
	other := store.addUser(model.User{UID: "u2", Phone: "p2", ReferralCode: "BBBB2222"})
	inv := store.addInvestment(model.Investment{
		UserID:       owner.ID,
		PackID:       2,
		Amount:       10000,
		Status:       model.InvestmentStatusActive,
		LastGainDate: now.Add(-48 * time.Hour),
	})
	suspended := store.addInvestment(model.Investment{
		UserID:       owner.ID,
		PackID:       2,
		Amount:       10000,
		Status:       model.InvestmentStatusSuspended,
		LastGainDate: now.Add(-48 * time.Hour),
	})
	svc := newInvestmentTestService(store, now)

	if _, err := svc.Harvest(context.Background(), other.ID, inv.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign harvest: got %v want ErrForbidden", err)
	}
	if _, err := svc.Harvest(context.Background(), owner.ID, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing investment: got %v want ErrNotFound", err)
	}
	if _, err := svc.Harvest(context.Background(), owner.ID, suspended.ID); !errors.Is(err, ErrInvestmentNotActive) {
		t.Fatalf("suspended investment: got %v want ErrInvestmentNotActive", err)
	}
}

func TestSweepCreditsPerElapsedWindow(t *testing.T) {
	tests := []struct {
		name     string
		hours    int
		packID   uint64
		wantDays int64
	}{
		{"one day", 25, 2, 1},
		{"just under two", 47, 2, 1},
		{"two days", 48, 2, 2},
		{"capped at seven", 240, 2, 7},
		{"exactly seven", 168, 3, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
			store := newMemStore()
			u := store.addUser(model.User{UID: "u1", Phone: "p1", ReferralCode: "AAAA1111"})
			inv := store.addInvestment(model.Investment{
				UserID:       u.ID,
				PackID:       tt.packID,
				Status:       model.InvestmentStatusActive,
				LastGainDate: now.Add(-time.Duration(tt.hours) * time.Hour),
			})
			svc := newInvestmentTestService(store, now)

			res, err := svc.SweepDailyGains(context.Background())
			if err != nil {
				t.Fatalf("sweep failed: %v", err)
			}
			if res.Credited != 1 {
				t.Fatalf("credited=%d want 1", res.Credited)
			}
			var gain int64
			switch tt.packID {
			case 2:
				gain = 350
			case 3:
				gain = 875
			}
			if u.Balance != tt.wantDays*gain {
				t.Fatalf("balance=%d want %d", u.Balance, tt.wantDays*gain)
			}
			if got := store.investments[inv.ID].LastGainDate; !got.Equal(now) {
				t.Fatalf("cursor=%v want sweep time %v", got, now)
			}
			txs := store.transactionsOfType(u.ID, model.TxTypeGain)
			if len(txs) != 1 || txs[0].Amount != tt.wantDays*gain {
				t.Fatalf("expected one gain tx of %d, got %+v", tt.wantDays*gain, txs)
			}
		})
	}
}

func TestSweepSkipsFreshInvestments(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newMemStore()
	u := store.addUser(model.User{UID: "u1", Phone: "p1", ReferralCode: "AAAA1111"})
	store.addInvestment(model.Investment{
		UserID:       u.ID,
		PackID:       2,
		Status:       model.InvestmentStatusActive,
		LastGainDate: now.Add(-2 * time.Hour),
	})
	svc := newInvestmentTestService(store, now)

	res, err := svc.SweepDailyGains(context.Background())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if res.Scanned != 0 || res.Credited != 0 {
		t.Fatalf("fresh investment swept: %+v", res)
	}
	if u.Balance != 0 {
		t.Fatalf("balance=%d want 0", u.Balance)
	}
}

func TestInvestFromBalance(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newMemStore()
	u := store.addUser(model.User{UID: "u1", Phone: "p1", ReferralCode: "AAAA1111", Balance: 10000})
	svc := newInvestmentTestService(store, now)

	inv, err := svc.Invest(context.Background(), u.ID, 2)
	if err != nil {
		t.Fatalf("invest failed: %v", err)
	}
	if u.Balance != 0 {
		t.Fatalf("balance=%d want 0", u.Balance)
	}
	if u.InvestedCapital != 10000 {
		t.Fatalf("investedCapital=%d want 10000", u.InvestedCapital)
	}
	if inv.Status != model.InvestmentStatusActive || inv.Amount != 10000 {
		t.Fatalf("unexpected investment: %+v", inv)
	}
	if n := len(store.transactionsOfType(u.ID, model.TxTypeInvestment)); n != 1 {
		t.Fatalf("investment transactions=%d want 1", n)
	}

	if _, err := svc.Invest(context.Background(), u.ID, 2); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("broke invest: got %v want ErrInsufficientBalance", err)
	}
	if _, err := svc.Invest(context.Background(), u.ID, 99); !errors.Is(err, ErrPackNotFound) {
		t.Fatalf("unknown pack: got %v want ErrPackNotFound", err)
	}
}

func TestInvestPaysSponsorBonus(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newMemStore()
	sponsor := store.addUser(model.User{UID: "s1", Phone: "p1", ReferralCode: "SPON1234"})
	code := sponsor.ReferralCode
	investor := store.addUser(model.User{UID: "u2", Phone: "p2", ReferralCode: "CCCC3333", ReferredBy: &code, Balance: 10000})
	edge := store.addReferral(model.Referral{SponsorID: sponsor.ID, ReferredID: investor.ID})
	svc := newInvestmentTestService(store, now)

	if _, err := svc.Invest(context.Background(), investor.ID, 2); err != nil {
		t.Fatalf("invest failed: %v", err)
	}
	if sponsor.Balance != 1000 {
		t.Fatalf("sponsor balance=%d want 1000", sponsor.Balance)
	}
	got := store.referrals[edge.ID]
	if got.TotalInvested != 10000 || got.TotalBonus != 1000 {
		t.Fatalf("edge totals=%d/%d want 10000/1000", got.TotalInvested, got.TotalBonus)
	}
	if n := len(store.transactionsOfType(sponsor.ID, model.TxTypeReferralBonus)); n != 1 {
		t.Fatalf("referral bonus transactions=%d want 1", n)
	}
}

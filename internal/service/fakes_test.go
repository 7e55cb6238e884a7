package service

import (
	"context"
	"time"

	"github.com/agrivest/agrivest-backend/internal/model"
	"github.com/agrivest/agrivest-backend/internal/repository"
	"gorm.io/gorm"
)

// In-memory repositories backing the service tests. They honor the same
// contracts as the gorm implementations: gorm.ErrRecordNotFound for misses
// and RowsAffected-style results for conditional updates.

type memStore struct {
	users        map[uint64]*model.User
	investments  map[uint64]*model.Investment
	transactions map[uint64]*model.Transaction
	referrals    map[uint64]*model.Referral
	nextID       uint64
}

func newMemStore() *memStore {
	return &memStore{
		users:        make(map[uint64]*model.User),
		investments:  make(map[uint64]*model.Investment),
		transactions: make(map[uint64]*model.Transaction),
		referrals:    make(map[uint64]*model.Referral),
	}
}

func (s *memStore) id() uint64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) repos() repository.Repos {
	return repository.Repos{
		Users:        &memUserRepo{s},
		Investments:  &memInvestmentRepo{s},
		Transactions: &memTransactionRepo{s},
		Referrals:    &memReferralRepo{s},
	}
}

type memTxManager struct {
	store *memStore
}

func (m *memTxManager) Transact(_ context.Context, fn func(r repository.Repos) error) error {
	return fn(m.store.repos())
}

type memUserRepo struct {
	store *memStore
}

func (r *memUserRepo) Create(_ context.Context, u *model.User) error {
	u.ID = r.store.id()
	r.store.users[u.ID] = u
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id uint64) (*model.User, error) {
	u, ok := r.store.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *memUserRepo) FindByUID(_ context.Context, uid string) (*model.User, error) {
	for _, u := range r.store.users {
		if u.UID == uid {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) FindByPhone(_ context.Context, phone string) (*model.User, error) {
	for _, u := range r.store.users {
		if u.Phone == phone {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) FindByReferralCode(_ context.Context, code string) (*model.User, error) {
	for _, u := range r.store.users {
		if u.ReferralCode == code {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) List(_ context.Context, limit, offset int) ([]model.User, int64, error) {
	out := make([]model.User, 0, len(r.store.users))
	for _, u := range r.store.users {
		out = append(out, *u)
	}
	return out, int64(len(r.store.users)), nil
}

func (r *memUserRepo) UpdateStatus(_ context.Context, id uint64, status model.UserStatus) error {
	u, ok := r.store.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Status = status
	return nil
}

func (r *memUserRepo) AddBalance(_ context.Context, id uint64, delta int64) error {
	u, ok := r.store.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Balance += delta
	return nil
}

func (r *memUserRepo) DeductBalance(_ context.Context, id uint64, amount int64) (int64, error) {
	u, ok := r.store.users[id]
	if !ok || u.Balance < amount {
		return 0, nil
	}
	u.Balance -= amount
	return 1, nil
}

func (r *memUserRepo) AddInvestedCapital(_ context.Context, id uint64, delta int64) error {
	u, ok := r.store.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.InvestedCapital += delta
	return nil
}

type memInvestmentRepo struct {
	store *memStore
}

func (r *memInvestmentRepo) Create(_ context.Context, inv *model.Investment) error {
	inv.ID = r.store.id()
	r.store.investments[inv.ID] = inv
	return nil
}

func (r *memInvestmentRepo) FindByID(_ context.Context, id uint64) (*model.Investment, error) {
	inv, ok := r.store.investments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *inv
	return &cp, nil
}

func (r *memInvestmentRepo) ListByUser(_ context.Context, userID uint64) ([]model.Investment, error) {
	var out []model.Investment
	for _, inv := range r.store.investments {
		if inv.UserID == userID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *memInvestmentRepo) CountActiveByUser(_ context.Context, userID uint64) (int64, error) {
	var n int64
	for _, inv := range r.store.investments {
		if inv.UserID == userID && inv.Status == model.InvestmentStatusActive {
			n++
		}
	}
	return n, nil
}

func (r *memInvestmentRepo) ListDue(_ context.Context, cutoff time.Time) ([]model.Investment, error) {
	var out []model.Investment
	for _, inv := range r.store.investments {
		if inv.Status == model.InvestmentStatusActive && !inv.LastGainDate.After(cutoff) {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *memInvestmentRepo) SettleGain(_ context.Context, id uint64, cutoff, now time.Time) (int64, error) {
	inv, ok := r.store.investments[id]
	if !ok || inv.Status != model.InvestmentStatusActive || inv.LastGainDate.After(cutoff) {
		return 0, nil
	}
	inv.LastGainDate = now
	return 1, nil
}

type memTransactionRepo struct {
	store *memStore
}

func (r *memTransactionRepo) Create(_ context.Context, t *model.Transaction) error {
	t.ID = r.store.id()
	r.store.transactions[t.ID] = t
	return nil
}

func (r *memTransactionRepo) FindByID(_ context.Context, id uint64) (*model.Transaction, error) {
	t, ok := r.store.transactions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *memTransactionRepo) ListByUser(_ context.Context, userID uint64, typ model.TransactionType, limit, offset int) ([]model.Transaction, int64, error) {
	var out []model.Transaction
	for _, t := range r.store.transactions {
		if t.UserID == userID && (typ == "" || t.Type == typ) {
			out = append(out, *t)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memTransactionRepo) List(_ context.Context, f repository.TransactionFilter) ([]model.Transaction, int64, error) {
	var out []model.Transaction
	for _, t := range r.store.transactions {
		if f.UserID != 0 && t.UserID != f.UserID {
			continue
		}
		if f.Type != "" && t.Type != f.Type {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

func (r *memTransactionRepo) Resolve(_ context.Context, id uint64, status model.TransactionStatus) (int64, error) {
	t, ok := r.store.transactions[id]
	if !ok || t.Status != model.TxStatusPending {
		return 0, nil
	}
	t.Status = status
	return 1, nil
}

type memReferralRepo struct {
	store *memStore
}

func (r *memReferralRepo) Create(_ context.Context, ref *model.Referral) error {
	ref.ID = r.store.id()
	r.store.referrals[ref.ID] = ref
	return nil
}

func (r *memReferralRepo) FindBySponsorAndReferred(_ context.Context, sponsorID, referredID uint64) (*model.Referral, error) {
	for _, ref := range r.store.referrals {
		if ref.SponsorID == sponsorID && ref.ReferredID == referredID {
			return ref, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memReferralRepo) ListBySponsor(_ context.Context, sponsorID uint64) ([]model.Referral, error) {
	var out []model.Referral
	for _, ref := range r.store.referrals {
		if ref.SponsorID == sponsorID {
			out = append(out, *ref)
		}
	}
	return out, nil
}

func (r *memReferralRepo) AddTotals(_ context.Context, id uint64, invested, bonus int64) error {
	ref, ok := r.store.referrals[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	ref.TotalInvested += invested
	ref.TotalBonus += bonus
	return nil
}

// test helpers

func (s *memStore) addUser(u model.User) *model.User {
	u.ID = s.id()
	cp := u
	s.users[cp.ID] = &cp
	return &cp
}

func (s *memStore) addInvestment(inv model.Investment) *model.Investment {
	inv.ID = s.id()
	cp := inv
	s.investments[cp.ID] = &cp
	return &cp
}

func (s *memStore) addTransaction(t model.Transaction) *model.Transaction {
	t.ID = s.id()
	cp := t
	s.transactions[cp.ID] = &cp
	return &cp
}

func (s *memStore) addReferral(ref model.Referral) *model.Referral {
	ref.ID = s.id()
	cp := ref
	s.referrals[cp.ID] = &cp
	return &cp
}

func (s *memStore) transactionsOfType(userID uint64, typ model.TransactionType) []*model.Transaction {
	var out []*model.Transaction
	for _, t := range s.transactions {
		if t.UserID == userID && t.Type == typ {
			out = append(out, t)
		}
	}
	return out
}

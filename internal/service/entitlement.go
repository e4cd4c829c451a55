package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"smart-job-bot/internal/model"
	"smart-job-bot/internal/repository"
)

// Decision is the outcome of a quota check.
type Decision int

const (
	Denied Decision = iota
	Allowed
)

// Free applications granted when a premium subscription is active. The
// counter is bypassed while premium lasts; the sentinel only backs the
// post-expiry fallback.
const premiumApplicationsSentinel = 999

// Quota reports the entitlement state for presentation: whether apply
// can be offered and how many free slots remain.
type Quota struct {
	Premium   bool
	Remaining int
}

func (q Quota) CanApply() bool {
	return q.Premium || q.Remaining > 0
}

// EntitlementService is the ledger for the billable apply action. All
// mutations for one user run under a per-user lock; the decrement itself
// is additionally guarded inside a single conditional statement.
type EntitlementService struct {
	entitlements *repository.EntitlementRepository
	payments     *repository.PaymentRepository
	locks        *userLocks
	now          func() time.Time
	log          *zap.Logger
}

func NewEntitlementService(entitlements *repository.EntitlementRepository, payments *repository.PaymentRepository, log *zap.Logger) *EntitlementService {
	return &EntitlementService{
		entitlements: entitlements,
		payments:     payments,
		locks:        newUserLocks(),
		now:          time.Now,
		log:          log,
	}
}

// CheckAndConsume decides whether a billable apply is permitted and, for
// non-premium users, spends exactly one quota slot. Premium users pass
// through without mutation; an expired premium falls back to the free
// counter and the stale flag is cleared opportunistically.
func (s *EntitlementService) CheckAndConsume(ctx context.Context, telegramID int64) (Decision, error) {
	unlock := s.locks.lock(telegramID)
	defer unlock()

	ent, err := s.entitlements.GetOrCreate(ctx, telegramID)
	if err != nil {
		return Denied, err
	}

	if ent.PremiumActive(s.now()) {
		return Allowed, nil
	}
	if ent.IsPremium {
		if err := s.entitlements.ClearPremium(ctx, telegramID); err != nil {
			s.log.Warn("clear expired premium", zap.Int64("user", telegramID), zap.Error(err))
		}
	}

	consumed, err := s.entitlements.ConsumeFreeApplication(ctx, telegramID)
	if err != nil {
		return Denied, err
	}
	if !consumed {
		return Denied, nil
	}
	return Allowed, nil
}

// Peek reads the entitlement without consuming anything; used when the
// feed decides whether to offer the apply button.
func (s *EntitlementService) Peek(ctx context.Context, telegramID int64) (Quota, error) {
	ent, err := s.entitlements.GetOrCreate(ctx, telegramID)
	if err != nil {
		return Quota{}, err
	}
	return s.quotaOf(ent), nil
}

// GrantPremium activates (or extends) premium for the given duration and
// records the purchase. Idempotent: a repeated grant overwrites the
// window, it does not stack.
func (s *EntitlementService) GrantPremium(ctx context.Context, telegramID int64, duration time.Duration, amount float64) (Quota, error) {
	unlock := s.locks.lock(telegramID)
	defer unlock()

	if _, err := s.entitlements.GetOrCreate(ctx, telegramID); err != nil {
		return Quota{}, err
	}

	until := s.now().Add(duration)
	if err := s.entitlements.SetPremium(ctx, telegramID, until, premiumApplicationsSentinel); err != nil {
		return Quota{}, err
	}

	if err := s.payments.Record(ctx, &model.Payment{
		TelegramID: telegramID,
		Amount:     amount,
		Currency:   "USD",
		Status:     "completed",
	}); err != nil {
		return Quota{}, err
	}

	s.log.Info("premium granted",
		zap.Int64("user", telegramID),
		zap.Time("until", until))

	return Quota{Premium: true, Remaining: premiumApplicationsSentinel}, nil
}

func (s *EntitlementService) quotaOf(ent *model.Entitlement) Quota {
	return Quota{
		Premium:   ent.PremiumActive(s.now()),
		Remaining: ent.FreeApplications,
	}
}

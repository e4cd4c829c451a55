package model

import "time"

// Entitlement holds a user's premium status and remaining free quota for
// the billable apply action. Created lazily on first access.
type Entitlement struct {
	ID               uint  `gorm:"primaryKey"`
	TelegramID       int64 `gorm:"uniqueIndex"`
	IsPremium        bool  `gorm:"default:false"`
	PremiumUntil     *time.Time
	FreeApplications int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PremiumActive reports whether the premium flag is set and not expired
// at the given moment. Expiry is evaluated lazily; callers may refresh
// the stored flag when this returns false while IsPremium is still set.
func (e *Entitlement) PremiumActive(now time.Time) bool {
	if !e.IsPremium {
		return false
	}
	if e.PremiumUntil != nil && e.PremiumUntil.Before(now) {
		return false
	}
	return true
}

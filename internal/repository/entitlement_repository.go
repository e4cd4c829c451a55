package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"smart-job-bot/internal/model"
)

// EntitlementRepository is the sole writer of entitlement records.
type EntitlementRepository struct {
	db           *gorm.DB
	defaultQuota int
}

func NewEntitlementRepository(db *gorm.DB, defaultQuota int) *EntitlementRepository {
	return &EntitlementRepository{db: db, defaultQuota: defaultQuota}
}

// GetOrCreate lazily creates the record with the default free quota.
func (r *EntitlementRepository) GetOrCreate(ctx context.Context, telegramID int64) (*model.Entitlement, error) {
	var ent model.Entitlement
	db := r.db.WithContext(ctx)
	err := db.Where("telegram_id = ?", telegramID).First(&ent).Error
	switch {
	case err == nil:
		return &ent, nil
	case err == gorm.ErrRecordNotFound:
		ent = model.Entitlement{
			TelegramID:       telegramID,
			FreeApplications: r.defaultQuota,
		}
		if err := db.Create(&ent).Error; err != nil {
			return nil, fmt.Errorf("create entitlement: %w", err)
		}
		return &ent, nil
	default:
		return nil, fmt.Errorf("find entitlement: %w", err)
	}
}

// ConsumeFreeApplication decrements the counter by exactly one, but only
// when it is still positive. The guard lives in the statement itself, so
// two racing calls can never both decrement past zero.
func (r *EntitlementRepository) ConsumeFreeApplication(ctx context.Context, telegramID int64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Entitlement{}).
		Where("telegram_id = ? AND free_applications > 0", telegramID).
		UpdateColumn("free_applications", gorm.Expr("free_applications - 1"))
	if result.Error != nil {
		return false, fmt.Errorf("consume application: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

// SetPremium overwrites the premium window and resets the counter; a
// repeated grant extends, it does not stack.
func (r *EntitlementRepository) SetPremium(ctx context.Context, telegramID int64, until time.Time, quota int) error {
	updates := map[string]interface{}{
		"is_premium":        true,
		"premium_until":     until,
		"free_applications": quota,
	}
	if err := r.db.WithContext(ctx).Model(&model.Entitlement{}).
		Where("telegram_id = ?", telegramID).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("set premium: %w", err)
	}
	return nil
}

// ClearPremium drops an expired premium flag. Opportunistic: the ledger
// already treats expired premium as inactive on read.
func (r *EntitlementRepository) ClearPremium(ctx context.Context, telegramID int64) error {
	if err := r.db.WithContext(ctx).Model(&model.Entitlement{}).
		Where("telegram_id = ?", telegramID).
		Update("is_premium", false).Error; err != nil {
		return fmt.Errorf("clear premium: %w", err)
	}
	return nil
}

func (r *EntitlementRepository) CountPremium(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Entitlement{}).
		Where("is_premium = ?", true).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"smart-job-bot/internal/model"
)

// ProfileRepository handles CRUD for user profiles. It is the only
// writer of profile records.
type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// UpsertIdentity finds or creates a profile by TelegramID and refreshes
// the identity fields. Preference fields collected during onboarding are
// never touched here.
func (r *ProfileRepository) UpsertIdentity(ctx context.Context, telegramID int64, firstName, lastName, username string) (*model.UserProfile, error) {
	var profile model.UserProfile
	db := r.db.WithContext(ctx)
	err := db.Where("telegram_id = ?", telegramID).First(&profile).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"first_name": firstName,
			"last_name":  lastName,
			"username":   username,
		}
		if err := db.Model(&profile).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
		return &profile, nil
	case err == gorm.ErrRecordNotFound:
		profile = model.UserProfile{
			TelegramID:   telegramID,
			FirstName:    firstName,
			LastName:     lastName,
			Username:     username,
			SearchActive: true,
		}
		if err := db.Create(&profile).Error; err != nil {
			return nil, fmt.Errorf("create profile: %w", err)
		}
		return &profile, nil
	default:
		return nil, fmt.Errorf("find profile: %w", err)
	}
}

func (r *ProfileRepository) FindByTelegramID(ctx context.Context, telegramID int64) (*model.UserProfile, error) {
	var profile model.UserProfile
	if err := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// SaveOnboarding writes the collected preference fields in a single
// update, so a failed unit of work never leaves the profile half-set.
func (r *ProfileRepository) SaveOnboarding(ctx context.Context, telegramID int64, draft *model.UserProfile) error {
	updates := map[string]interface{}{
		"role":        draft.Role,
		"level":       draft.Level,
		"work_format": draft.WorkFormat,
		"location":    draft.Location,
		"salary_min":  draft.SalaryMin,
		"salary_max":  draft.SalaryMax,
		"currency":    draft.Currency,
		"resume_text": draft.ResumeText,
	}
	if err := r.db.WithContext(ctx).Model(&model.UserProfile{}).
		Where("telegram_id = ?", telegramID).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("save onboarding: %w", err)
	}
	return nil
}

func (r *ProfileRepository) SetConsent(ctx context.Context, telegramID int64, given bool) error {
	if err := r.db.WithContext(ctx).Model(&model.UserProfile{}).
		Where("telegram_id = ?", telegramID).
		Update("consent_given", given).Error; err != nil {
		return fmt.Errorf("set consent: %w", err)
	}
	return nil
}

func (r *ProfileRepository) SetSearchActive(ctx context.Context, telegramID int64, active bool) error {
	if err := r.db.WithContext(ctx).Model(&model.UserProfile{}).
		Where("telegram_id = ?", telegramID).
		Update("search_active", active).Error; err != nil {
		return fmt.Errorf("set search active: %w", err)
	}
	return nil
}

// ListTelegramIDs returns every known user id, for broadcast fan-outs.
func (r *ProfileRepository) ListTelegramIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := r.db.WithContext(ctx).Model(&model.UserProfile{}).
		Pluck("telegram_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ListSearchEligible returns profiles that are complete, consented and
// not paused, for the periodic digest.
func (r *ProfileRepository) ListSearchEligible(ctx context.Context) ([]model.UserProfile, error) {
	var profiles []model.UserProfile
	if err := r.db.WithContext(ctx).
		Where("role <> '' AND level <> '' AND work_format <> '' AND consent_given = ? AND search_active = ?", true, true).
		Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *ProfileRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.UserProfile{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"smart-job-bot/internal/model"
)

// ActionRepository appends and reads the per-user action log. Entries
// are never updated or deleted.
type ActionRepository struct {
	db *gorm.DB
}

func NewActionRepository(db *gorm.DB) *ActionRepository {
	return &ActionRepository{db: db}
}

func (r *ActionRepository) Record(ctx context.Context, telegramID int64, vacancyID uint, kind string) error {
	action := model.Action{
		TelegramID: telegramID,
		VacancyID:  vacancyID,
		Kind:       kind,
	}
	if err := r.db.WithContext(ctx).Create(&action).Error; err != nil {
		return fmt.Errorf("record action: %w", err)
	}
	return nil
}

// HiddenVacancyIDs returns the set of vacancies the user has ever hidden.
func (r *ActionRepository) HiddenVacancyIDs(ctx context.Context, telegramID int64) (map[uint]struct{}, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&model.Action{}).
		Where("telegram_id = ? AND kind = ?", telegramID, model.ActionHidden).
		Pluck("vacancy_id", &ids).Error; err != nil {
		return nil, err
	}
	hidden := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		hidden[id] = struct{}{}
	}
	return hidden, nil
}

// SavedVacancyIDs returns vacancy ids whose latest saved/unsaved entry
// is "saved", most recently saved first, up to limit.
func (r *ActionRepository) SavedVacancyIDs(ctx context.Context, telegramID int64, limit int) ([]uint, error) {
	var actions []model.Action
	if err := r.db.WithContext(ctx).
		Where("telegram_id = ? AND kind IN ?", telegramID, []string{model.ActionSaved, model.ActionUnsaved}).
		Order("created_at DESC, id DESC").
		Find(&actions).Error; err != nil {
		return nil, err
	}

	seen := make(map[uint]struct{}, len(actions))
	var ids []uint
	for _, action := range actions {
		if _, ok := seen[action.VacancyID]; ok {
			continue
		}
		seen[action.VacancyID] = struct{}{}
		if action.Kind == model.ActionSaved {
			ids = append(ids, action.VacancyID)
		}
		if limit > 0 && len(ids) >= limit {
			break
		}
	}
	return ids, nil
}

func (r *ActionRepository) CountApplied(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Action{}).
		Where("kind = ?", model.ActionApplied).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

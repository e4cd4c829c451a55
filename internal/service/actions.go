package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"smart-job-bot/internal/model"
	"smart-job-bot/internal/repository"
)

// ApplyResult carries the contact payload handed out after a successful
// application, plus the remaining quota for the confirmation message.
type ApplyResult struct {
	Vacancy model.Vacancy
	Quota   Quota
}

// ActionService implements the apply/save/hide operations on top of the
// catalog, the ledger and the action log.
type ActionService struct {
	vacancies    *repository.VacancyRepository
	actions      *repository.ActionRepository
	entitlements *EntitlementService
	log          *zap.Logger
}

func NewActionService(vacancies *repository.VacancyRepository, actions *repository.ActionRepository, entitlements *EntitlementService, log *zap.Logger) *ActionService {
	return &ActionService{
		vacancies:    vacancies,
		actions:      actions,
		entitlements: entitlements,
		log:          log,
	}
}

// Apply spends one quota slot and records the application. On
// ErrQuotaExceeded nothing is recorded and nothing was spent; on
// ErrVacancyNotFound the quota is untouched.
func (s *ActionService) Apply(ctx context.Context, telegramID int64, vacancyID uint) (*ApplyResult, error) {
	vacancy, err := s.vacancies.FindByID(ctx, vacancyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVacancyNotFound
		}
		return nil, fmt.Errorf("load vacancy: %w", err)
	}

	decision, err := s.entitlements.CheckAndConsume(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if decision != Allowed {
		return nil, ErrQuotaExceeded
	}

	if err := s.actions.Record(ctx, telegramID, vacancyID, model.ActionApplied); err != nil {
		return nil, err
	}

	quota, err := s.entitlements.Peek(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	s.log.Info("application sent",
		zap.Int64("user", telegramID),
		zap.Uint("vacancy", vacancyID))

	return &ApplyResult{Vacancy: *vacancy, Quota: quota}, nil
}

// Save records the vacancy in the user's saved list. No quota involved.
func (s *ActionService) Save(ctx context.Context, telegramID int64, vacancyID uint) error {
	return s.actions.Record(ctx, telegramID, vacancyID, model.ActionSaved)
}

// Unsave appends an unsaved entry; the original saved record stays in
// the log for analytics.
func (s *ActionService) Unsave(ctx context.Context, telegramID int64, vacancyID uint) error {
	return s.actions.Record(ctx, telegramID, vacancyID, model.ActionUnsaved)
}

// Hide excludes the vacancy from every future feed page for this user.
func (s *ActionService) Hide(ctx context.Context, telegramID int64, vacancyID uint) error {
	return s.actions.Record(ctx, telegramID, vacancyID, model.ActionHidden)
}

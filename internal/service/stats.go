package service

import (
	"context"

	"smart-job-bot/internal/repository"
)

// Stats is the admin-panel summary.
type Stats struct {
	Users        int64
	Vacancies    int64
	Premium      int64
	Applications int64
}

// StatsService aggregates counters for the admin surface.
type StatsService struct {
	profiles     *repository.ProfileRepository
	vacancies    *repository.VacancyRepository
	entitlements *repository.EntitlementRepository
	actions      *repository.ActionRepository
}

func NewStatsService(profiles *repository.ProfileRepository, vacancies *repository.VacancyRepository, entitlements *repository.EntitlementRepository, actions *repository.ActionRepository) *StatsService {
	return &StatsService{
		profiles:     profiles,
		vacancies:    vacancies,
		entitlements: entitlements,
		actions:      actions,
	}
}

func (s *StatsService) Collect(ctx context.Context) (*Stats, error) {
	users, err := s.profiles.Count(ctx)
	if err != nil {
		return nil, err
	}
	vacancies, err := s.vacancies.Count(ctx)
	if err != nil {
		return nil, err
	}
	premium, err := s.entitlements.CountPremium(ctx)
	if err != nil {
		return nil, err
	}
	applications, err := s.actions.CountApplied(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{
		Users:        users,
		Vacancies:    vacancies,
		Premium:      premium,
		Applications: applications,
	}, nil
}

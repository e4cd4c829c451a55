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

// RedactedPlaceholder replaces company and contact fields for
// non-premium users. A pure presentation decision: the stored vacancy is
// never mutated.
const RedactedPlaceholder = "Premium only"

// FeedItem is one vacancy prepared for rendering.
type FeedItem struct {
	Vacancy  model.Vacancy
	CanApply bool
}

// FeedPage is the outbound page for one user.
type FeedPage struct {
	Items   []FeedItem
	Page    int
	HasMore bool
	Premium bool
}

// FeedService composes the profile filters, the catalog, the action log
// and an entitlement peek into the outbound feed.
type FeedService struct {
	profiles     *repository.ProfileRepository
	vacancies    *repository.VacancyRepository
	actions      *repository.ActionRepository
	entitlements *EntitlementService
	pageSize     int
	log          *zap.Logger
}

func NewFeedService(
	profiles *repository.ProfileRepository,
	vacancies *repository.VacancyRepository,
	actions *repository.ActionRepository,
	entitlements *EntitlementService,
	pageSize int,
	log *zap.Logger,
) *FeedService {
	return &FeedService{
		profiles:     profiles,
		vacancies:    vacancies,
		actions:      actions,
		entitlements: entitlements,
		pageSize:     pageSize,
		log:          log,
	}
}

// BuildPage returns one page of the feed for the user. Hidden vacancies
// are excluded permanently; the apply offer comes from a read-only peek
// at the ledger, so viewing never spends quota.
func (s *FeedService) BuildPage(ctx context.Context, telegramID int64, page int) (*FeedPage, error) {
	profile, err := s.profiles.FindByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileIncomplete
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if !profile.SearchEligible() {
		return nil, ErrProfileIncomplete
	}

	filters := repository.VacancyFilters{
		Role:       profile.Role,
		Level:      profile.Level,
		WorkFormat: profile.WorkFormat,
	}
	vacancies, err := s.vacancies.Query(ctx, filters, page, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("query vacancies: %w", err)
	}

	hidden, err := s.actions.HiddenVacancyIDs(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("load hidden: %w", err)
	}

	quota, err := s.entitlements.Peek(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("peek entitlement: %w", err)
	}

	result := &FeedPage{
		Page: page,
		// A full pre-filter page hints at a next one; concurrent
		// ingestion can shift offsets, so it stays a hint.
		HasMore: len(vacancies) == s.pageSize,
		Premium: quota.Premium,
	}

	for _, vacancy := range vacancies {
		if _, isHidden := hidden[vacancy.ID]; isHidden {
			continue
		}
		result.Items = append(result.Items, FeedItem{
			Vacancy:  s.present(vacancy, quota.Premium),
			CanApply: quota.CanApply(),
		})
	}

	s.log.Debug("feed page built",
		zap.Int64("user", telegramID),
		zap.Int("page", page),
		zap.Int("items", len(result.Items)))

	return result, nil
}

// SavedPage returns the user's saved vacancies, most recently saved
// first, bounded by limit.
func (s *FeedService) SavedPage(ctx context.Context, telegramID int64, limit int) ([]FeedItem, error) {
	ids, err := s.actions.SavedVacancyIDs(ctx, telegramID, limit)
	if err != nil {
		return nil, fmt.Errorf("load saved ids: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	vacancies, err := s.vacancies.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load saved vacancies: %w", err)
	}
	byID := make(map[uint]model.Vacancy, len(vacancies))
	for _, vacancy := range vacancies {
		byID[vacancy.ID] = vacancy
	}

	quota, err := s.entitlements.Peek(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("peek entitlement: %w", err)
	}

	var items []FeedItem
	for _, id := range ids {
		vacancy, ok := byID[id]
		if !ok {
			continue
		}
		items = append(items, FeedItem{
			Vacancy:  s.present(vacancy, quota.Premium),
			CanApply: quota.CanApply(),
		})
	}
	return items, nil
}

func (s *FeedService) present(vacancy model.Vacancy, premium bool) model.Vacancy {
	if premium {
		return vacancy
	}
	vacancy.Company = RedactedPlaceholder
	vacancy.Contacts = RedactedPlaceholder
	return vacancy
}

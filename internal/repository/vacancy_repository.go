package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"smart-job-bot/internal/model"
)

// VacancyFilters is a conjunction over profile-derived fields; empty
// values impose no constraint.
type VacancyFilters struct {
	Role       string
	Level      string
	WorkFormat string
}

// VacancyRepository stores postings deduplicated by their natural key.
type VacancyRepository struct {
	db *gorm.DB
}

func NewVacancyRepository(db *gorm.DB) *VacancyRepository {
	return &VacancyRepository{db: db}
}

// Ingest inserts the vacancy unless a record with the same
// (title, company, source) already exists. Re-ingestion is a no-op, not
// an error; the returned flag reports whether a row was created.
func (r *VacancyRepository) Ingest(ctx context.Context, vacancy *model.Vacancy) (bool, error) {
	db := r.db.WithContext(ctx)

	var existing model.Vacancy
	err := db.Where("title = ? AND company = ? AND source = ?",
		vacancy.Title, vacancy.Company, vacancy.Source).First(&existing).Error
	switch {
	case err == nil:
		*vacancy = existing
		return false, nil
	case err == gorm.ErrRecordNotFound:
		if err := db.Create(vacancy).Error; err != nil {
			return false, fmt.Errorf("create vacancy: %w", err)
		}
		return true, nil
	default:
		return false, fmt.Errorf("find vacancy: %w", err)
	}
}

func (r *VacancyRepository) FindByID(ctx context.Context, id uint) (*model.Vacancy, error) {
	var vacancy model.Vacancy
	if err := r.db.WithContext(ctx).First(&vacancy, id).Error; err != nil {
		return nil, err
	}
	return &vacancy, nil
}

// Query returns one page of vacancies matching the filters, newest
// first. A full page hints that another page may exist; concurrent
// ingestion can shift offsets between requests, so callers must treat
// it as a hint only.
func (r *VacancyRepository) Query(ctx context.Context, filters VacancyFilters, page, pageSize int) ([]model.Vacancy, error) {
	if page < 0 {
		page = 0
	}

	db := r.db.WithContext(ctx).Model(&model.Vacancy{})
	if filters.Role != "" {
		db = db.Where("role = ?", filters.Role)
	}
	if filters.Level != "" {
		db = db.Where("level = ?", filters.Level)
	}
	if filters.WorkFormat != "" {
		db = db.Where("work_format = ?", filters.WorkFormat)
	}

	var vacancies []model.Vacancy
	if err := db.Order("created_at DESC, id DESC").
		Offset(page * pageSize).
		Limit(pageSize).
		Find(&vacancies).Error; err != nil {
		return nil, err
	}
	return vacancies, nil
}

// FindByIDs fetches vacancies preserving no particular order; callers
// reorder as needed.
func (r *VacancyRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Vacancy, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var vacancies []model.Vacancy
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&vacancies).Error; err != nil {
		return nil, err
	}
	return vacancies, nil
}

// CountSince counts matching vacancies created after the given moment,
// for the periodic digest.
func (r *VacancyRepository) CountSince(ctx context.Context, filters VacancyFilters, since time.Time) (int64, error) {
	db := r.db.WithContext(ctx).Model(&model.Vacancy{}).Where("created_at > ?", since)
	if filters.Role != "" {
		db = db.Where("role = ?", filters.Role)
	}
	if filters.Level != "" {
		db = db.Where("level = ?", filters.Level)
	}
	if filters.WorkFormat != "" {
		db = db.Where("work_format = ?", filters.WorkFormat)
	}
	var count int64
	if err := db.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *VacancyRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Vacancy{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

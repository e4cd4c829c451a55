package model

import "time"

// Vacancy is a job posting ingested from an operator or an external feed.
// The (title, company, source) triple is the natural key: re-ingesting
// the same posting is a no-op.
type Vacancy struct {
	ID           uint   `gorm:"primaryKey"`
	Title        string `gorm:"index:idx_vacancy_natural,unique"`
	Company      string `gorm:"index:idx_vacancy_natural,unique"`
	Source       string `gorm:"index:idx_vacancy_natural,unique"`
	SalaryMin    *int
	SalaryMax    *int
	Currency     string
	Location     string
	WorkFormat   string `gorm:"index"`
	Description  string
	Requirements string
	ApplyURL     string
	Contacts     string
	Tags         string
	Industry     string
	Role         string `gorm:"index"`
	Level        string `gorm:"index"`
	CreatedAt    time.Time
}

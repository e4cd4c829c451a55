package model

import "time"

// UserProfile stores Telegram identity plus the job-search preferences
// collected during onboarding. Preference fields stay empty until the
// corresponding onboarding step completes.
type UserProfile struct {
	ID         uint  `gorm:"primaryKey"`
	TelegramID int64 `gorm:"uniqueIndex"`
	Username   string
	FirstName  string
	LastName   string

	Role       string
	Level      string
	WorkFormat string
	Location   string
	SalaryMin  *int
	SalaryMax  *int
	Currency   string
	ResumeText string

	ConsentGiven bool `gorm:"default:false"`
	SearchActive bool `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Complete reports whether the profile can drive a vacancy feed.
func (p *UserProfile) Complete() bool {
	return p.Role != "" && p.Level != "" && p.WorkFormat != ""
}

// SearchEligible reports whether the feed may be served: the profile is
// complete and the user consented to data processing.
func (p *UserProfile) SearchEligible() bool {
	return p.Complete() && p.ConsentGiven
}

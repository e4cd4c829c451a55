package model

import "time"

// Action kinds. The log is append-only: "unsave" is a new entry, not a
// deletion of the original saved record.
const (
	ActionApplied = "applied"
	ActionSaved   = "saved"
	ActionHidden  = "hidden"
	ActionUnsaved = "unsaved"
)

// Action records a single user decision about a vacancy.
type Action struct {
	ID         uint   `gorm:"primaryKey"`
	TelegramID int64  `gorm:"index:idx_action_user_kind"`
	VacancyID  uint   `gorm:"index"`
	Kind       string `gorm:"index:idx_action_user_kind"`
	CreatedAt  time.Time
}

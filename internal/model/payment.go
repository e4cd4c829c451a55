package model

import "time"

// Payment keeps a record of premium purchases. Actual processing happens
// outside this service; only the outcome is stored.
type Payment struct {
	ID         uint  `gorm:"primaryKey"`
	TelegramID int64 `gorm:"index"`
	Amount     float64
	Currency   string `gorm:"default:USD"`
	Status     string
	CreatedAt  time.Time
}

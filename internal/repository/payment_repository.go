package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"smart-job-bot/internal/model"
)

// PaymentRepository records premium purchases for bookkeeping.
type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Record(ctx context.Context, payment *model.Payment) error {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return fmt.Errorf("record payment: %w", err)
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"testing"
)

func TestApplyUnknownVacancyKeepsQuota(t *testing.T) {
	f := newFixture(t, 5, 5)
	ctx := context.Background()
	const userID int64 = 400

	f.seedEligibleProfile(t, userID)

	_, err := f.action.Apply(ctx, userID, 9999)
	if !errors.Is(err, ErrVacancyNotFound) {
		t.Fatalf("err = %v, want ErrVacancyNotFound", err)
	}

	quota, err := f.entitlement.Peek(ctx, userID)
	if err != nil {
		t.Fatalf("peek: %v", err)
	}
	if quota.Remaining != 5 {
		t.Fatalf("remaining = %d, quota spent on a missing vacancy", quota.Remaining)
	}
}

func TestApplySpendsQuotaAndRecordsAction(t *testing.T) {
	f := newFixture(t, 5, 5)
	ctx := context.Background()
	const userID int64 = 401

	f.seedEligibleProfile(t, userID)
	vacancyID := f.seedVacancy(t, "Go Developer")

	result, err := f.action.Apply(ctx, userID, vacancyID)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if result.Vacancy.ApplyURL != "https://example.com/apply" {
		t.Fatalf("apply url = %q", result.Vacancy.ApplyURL)
	}
	if result.Quota.Remaining != 4 {
		t.Fatalf("remaining = %d, want 4", result.Quota.Remaining)
	}

	applied, err := f.actions.CountApplied(ctx)
	if err != nil {
		t.Fatalf("count applied: %v", err)
	}
	if applied != 1 {
		t.Fatalf("applied count = %d, want 1", applied)
	}
}

func TestApplyOverQuotaRecordsNothing(t *testing.T) {
	f := newFixture(t, 1, 5)
	ctx := context.Background()
	const userID int64 = 402

	f.seedEligibleProfile(t, userID)
	firstID := f.seedVacancy(t, "Go Developer")
	secondID := f.seedVacancy(t, "Rust Developer")

	if _, err := f.action.Apply(ctx, userID, firstID); err != nil {
		t.Fatalf("first apply: %v", err)
	}

	_, err := f.action.Apply(ctx, userID, secondID)
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("err = %v, want ErrQuotaExceeded", err)
	}

	applied, err := f.actions.CountApplied(ctx)
	if err != nil {
		t.Fatalf("count applied: %v", err)
	}
	if applied != 1 {
		t.Fatalf("applied count = %d, denied apply left a record", applied)
	}
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFeedRequiresEligibleProfile(t *testing.T) {
	f := newFixture(t, 10, 5)
	ctx := context.Background()
	const userID int64 = 300

	// Unknown user.
	if _, err := f.feed.BuildPage(ctx, userID, 0); !errors.Is(err, ErrProfileIncomplete) {
		t.Fatalf("err = %v, want ErrProfileIncomplete", err)
	}

	// Known, but without consent.
	if _, err := f.profiles.UpsertIdentity(ctx, userID, "Test", "User", "testuser"); err != nil {
		t.Fatalf("upsert identity: %v", err)
	}
	if _, err := f.feed.BuildPage(ctx, userID, 0); !errors.Is(err, ErrProfileIncomplete) {
		t.Fatalf("err = %v, want ErrProfileIncomplete", err)
	}
}

func TestFeedExcludesHiddenVacancies(t *testing.T) {
	f := newFixture(t, 10, 10)
	ctx := context.Background()
	const userID int64 = 301

	f.seedEligibleProfile(t, userID)
	keepID := f.seedVacancy(t, "Go Developer")
	hideID := f.seedVacancy(t, "Java Developer")

	if err := f.action.Hide(ctx, userID, hideID); err != nil {
		t.Fatalf("hide: %v", err)
	}

	page, err := f.feed.BuildPage(ctx, userID, 0)
	if err != nil {
		t.Fatalf("build page: %v", err)
	}

	seen := make(map[uint]bool)
	for _, item := range page.Items {
		seen[item.Vacancy.ID] = true
	}
	if seen[hideID] {
		t.Fatal("hidden vacancy returned to the feed")
	}
	if !seen[keepID] {
		t.Fatal("visible vacancy missing from the feed")
	}
}

func TestFeedRedactsCompanyForFreeUsers(t *testing.T) {
	f := newFixture(t, 10, 5)
	ctx := context.Background()
	const userID int64 = 302

	f.seedEligibleProfile(t, userID)
	f.seedVacancy(t, "Go Developer")

	page, err := f.feed.BuildPage(ctx, userID, 0)
	if err != nil {
		t.Fatalf("build page: %v", err)
	}
	if len(page.Items) == 0 {
		t.Fatal("empty feed")
	}
	item := page.Items[0]
	if item.Vacancy.Company != RedactedPlaceholder {
		t.Fatalf("company = %q, want %q", item.Vacancy.Company, RedactedPlaceholder)
	}
	if item.Vacancy.Contacts != RedactedPlaceholder {
		t.Fatalf("contacts = %q, want %q", item.Vacancy.Contacts, RedactedPlaceholder)
	}

	// The stored record is untouched by presentation.
	stored, err := f.vacancies.FindByID(ctx, item.Vacancy.ID)
	if err != nil {
		t.Fatalf("find vacancy: %v", err)
	}
	if stored.Company != "Acme" {
		t.Fatalf("stored company = %q, redaction leaked into storage", stored.Company)
	}

	if _, err := f.entitlement.GrantPremium(ctx, userID, 30*24*time.Hour, 4.99); err != nil {
		t.Fatalf("grant premium: %v", err)
	}
	page, err = f.feed.BuildPage(ctx, userID, 0)
	if err != nil {
		t.Fatalf("build page: %v", err)
	}
	if page.Items[0].Vacancy.Company != "Acme" {
		t.Fatalf("premium company = %q, want Acme", page.Items[0].Vacancy.Company)
	}
}

func TestFeedViewingDoesNotSpendQuota(t *testing.T) {
	f := newFixture(t, 2, 5)
	ctx := context.Background()
	const userID int64 = 303

	f.seedEligibleProfile(t, userID)
	f.seedVacancy(t, "Go Developer")

	for i := 0; i < 3; i++ {
		if _, err := f.feed.BuildPage(ctx, userID, 0); err != nil {
			t.Fatalf("build page %d: %v", i, err)
		}
	}

	quota, err := f.entitlement.Peek(ctx, userID)
	if err != nil {
		t.Fatalf("peek: %v", err)
	}
	if quota.Remaining != 2 {
		t.Fatalf("remaining = %d after viewing, want 2", quota.Remaining)
	}
}

func TestSavedPageOrderAndUnsave(t *testing.T) {
	f := newFixture(t, 10, 5)
	ctx := context.Background()
	const userID int64 = 304

	f.seedEligibleProfile(t, userID)
	firstID := f.seedVacancy(t, "Go Developer")
	secondID := f.seedVacancy(t, "Rust Developer")

	if err := f.action.Save(ctx, userID, firstID); err != nil {
		t.Fatalf("save first: %v", err)
	}
	if err := f.action.Save(ctx, userID, secondID); err != nil {
		t.Fatalf("save second: %v", err)
	}
	if err := f.action.Unsave(ctx, userID, firstID); err != nil {
		t.Fatalf("unsave first: %v", err)
	}

	items, err := f.feed.SavedPage(ctx, userID, 10)
	if err != nil {
		t.Fatalf("saved page: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("saved count = %d, want 1", len(items))
	}
	if items[0].Vacancy.ID != secondID {
		t.Fatalf("saved id = %d, want %d", items[0].Vacancy.ID, secondID)
	}

	// Saving again after unsave brings it back.
	if err := f.action.Save(ctx, userID, firstID); err != nil {
		t.Fatalf("re-save: %v", err)
	}
	items, err = f.feed.SavedPage(ctx, userID, 10)
	if err != nil {
		t.Fatalf("saved page: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("saved count = %d, want 2", len(items))
	}
	if items[0].Vacancy.ID != firstID {
		t.Fatalf("latest saved id = %d, want %d first", items[0].Vacancy.ID, firstID)
	}
}

package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"smart-job-bot/internal/model"
	"smart-job-bot/internal/repository"
)

// newTestDB opens a private in-memory database. The shared-cache DSN
// plus a single pooled connection keeps every query on the same memory
// database for the lifetime of the test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := repository.NewDB(dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	return db
}

type fixture struct {
	db           *gorm.DB
	profiles     *repository.ProfileRepository
	vacancies    *repository.VacancyRepository
	entitlements *repository.EntitlementRepository
	actions      *repository.ActionRepository
	payments     *repository.PaymentRepository

	onboarding  *OnboardingService
	entitlement *EntitlementService
	catalog     *CatalogService
	feed        *FeedService
	action      *ActionService
}

func newFixture(t *testing.T, freeQuota, pageSize int) *fixture {
	t.Helper()

	db := newTestDB(t)
	log := zap.NewNop()

	f := &fixture{
		db:           db,
		profiles:     repository.NewProfileRepository(db),
		vacancies:    repository.NewVacancyRepository(db),
		entitlements: repository.NewEntitlementRepository(db, freeQuota),
		actions:      repository.NewActionRepository(db),
		payments:     repository.NewPaymentRepository(db),
	}
	f.onboarding = NewOnboardingService(NewSessionStore(0), f.profiles, log)
	f.entitlement = NewEntitlementService(f.entitlements, f.payments, log)
	f.catalog = NewCatalogService(f.vacancies, log)
	f.feed = NewFeedService(f.profiles, f.vacancies, f.actions, f.entitlement, pageSize, log)
	f.action = NewActionService(f.vacancies, f.actions, f.entitlement, log)
	return f
}

// seedEligibleProfile creates a user whose profile is complete and
// consented, matching backend/middle/remote vacancies.
func (f *fixture) seedEligibleProfile(t *testing.T, telegramID int64) {
	t.Helper()
	ctx := context.Background()

	if _, err := f.profiles.UpsertIdentity(ctx, telegramID, "Test", "User", "testuser"); err != nil {
		t.Fatalf("upsert identity: %v", err)
	}
	draft := &model.UserProfile{
		Role:       "backend",
		Level:      "middle",
		WorkFormat: "remote",
		Location:   "Remote",
		ResumeText: "resume",
	}
	if err := f.profiles.SaveOnboarding(ctx, telegramID, draft); err != nil {
		t.Fatalf("save onboarding: %v", err)
	}
	if err := f.profiles.SetConsent(ctx, telegramID, true); err != nil {
		t.Fatalf("set consent: %v", err)
	}
}

// seedVacancy ingests a backend/middle/remote vacancy with a unique
// title and returns its id.
func (f *fixture) seedVacancy(t *testing.T, title string) uint {
	t.Helper()

	vacancy := &model.Vacancy{
		Title:      title,
		Company:    "Acme",
		Source:     "test",
		Role:       "backend",
		Level:      "middle",
		WorkFormat: "remote",
		Location:   "Remote",
		ApplyURL:   "https://example.com/apply",
		Contacts:   "hr@acme.test",
	}
	created, err := f.vacancies.Ingest(context.Background(), vacancy)
	if err != nil {
		t.Fatalf("ingest vacancy: %v", err)
	}
	if !created {
		t.Fatalf("vacancy %q already existed", title)
	}
	return vacancy.ID
}

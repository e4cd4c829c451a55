package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"smart-job-bot/internal/bot"
	"smart-job-bot/internal/config"
	"smart-job-bot/internal/logger"
	"smart-job-bot/internal/repository"
	"smart-job-bot/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(cfg.LogJSON, cfg.LogDebug)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("open database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	profileRepo := repository.NewProfileRepository(db)
	vacancyRepo := repository.NewVacancyRepository(db)
	entitlementRepo := repository.NewEntitlementRepository(db, cfg.FreeApplications)
	actionRepo := repository.NewActionRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	sessions := service.NewSessionStore(cfg.SessionTTL)
	onboardingSvc := service.NewOnboardingService(sessions, profileRepo, zlog)
	entitlementSvc := service.NewEntitlementService(entitlementRepo, paymentRepo, zlog)
	catalogSvc := service.NewCatalogService(vacancyRepo, zlog)
	feedSvc := service.NewFeedService(profileRepo, vacancyRepo, actionRepo, entitlementSvc, cfg.FeedPageSize, zlog)
	actionSvc := service.NewActionService(vacancyRepo, actionRepo, entitlementSvc, zlog)
	statsSvc := service.NewStatsService(profileRepo, vacancyRepo, entitlementRepo, actionRepo)

	if cfg.SeedSamples {
		if err := catalogSvc.SeedSamples(ctx); err != nil {
			zlog.Fatal("seed vacancies", zap.Error(err))
		}
	}

	telegramBot, err := bot.New(&cfg, profileRepo, vacancyRepo, sessions, onboardingSvc, entitlementSvc, catalogSvc, feedSvc, actionSvc, statsSvc, zlog)
	if err != nil {
		zlog.Fatal("create bot", zap.Error(err))
	}

	scheduler := service.NewSchedulerService(time.Local)
	if cfg.DigestInterval > 0 {
		if _, err := scheduler.ScheduleInterval(cfg.DigestInterval, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			if err := telegramBot.SendVacancyDigests(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
				zlog.Error("vacancy digest", zap.Error(err))
			}
		}); err != nil {
			zlog.Fatal("schedule digest", zap.Error(err))
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	zlog.Info("smart job bot started")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		zlog.Fatal("bot stopped with error", zap.Error(err))
	}
	zlog.Info("shutdown complete")
}

package main

import (
	"context"
	"flag"
	"log"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Thomas-lee31/Bucky-s-Menu/config"
	"github.com/Thomas-lee31/Bucky-s-Menu/routes"
	"github.com/Thomas-lee31/Bucky-s-Menu/services"
)

func main() {
	job := flag.String("job", "", "run a single job (ingest|notify) and exit")
	date := flag.String("date", "", "target date for -job notify (YYYY-MM-DD, default today)")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	cfg := config.Load()

	db, err := config.InitDB(cfg)
	if err != nil {
		sugar.Fatalw("database init failed", "error", err)
	}

	ctx := context.Background()

	mailer, err := services.NewSESMailer(ctx, cfg.AWSRegion, cfg.SESFrom)
	if err != nil {
		sugar.Fatalw("mailer init failed", "error", err)
	}

	store, err := services.NewS3Store(ctx, cfg.AWSRegion, cfg.S3Bucket)
	if err != nil {
		sugar.Fatalw("object store init failed", "error", err)
	}

	menuSvc := services.NewMenuService(db)
	subSvc := services.NewSubscriptionService(db)
	settingsSvc := services.NewSettingsService(db)
	matcherSvc := services.NewMatcherService(subSvc, menuSvc)
	emailSvc := services.NewEmailService(mailer, sugar)
	sourceSvc := services.NewNutrisliceService(cfg.MenuAPIBaseURL, sugar)
	jobSvc := services.NewJobService(sourceSvc, menuSvc, matcherSvc, emailSvc, settingsSvc, cfg.IngestDaysAhead, sugar)
	backupSvc := services.NewBackupService(db, store, menuSvc, sugar)
	authSvc := services.NewAuthService(db, cfg.SupabaseJWTSecret, cfg.SupabaseURL, cfg.SupabaseAnonKey)

	// One-shot mode for external schedulers; both runs are safe to
	// repeat.
	switch *job {
	case "ingest":
		if _, err := jobSvc.RunIngestion(ctx); err != nil {
			sugar.Fatalw("ingestion run failed", "error", err)
		}
		return
	case "notify":
		if _, err := jobSvc.RunNotifications(ctx, *date); err != nil {
			sugar.Fatalw("notification run failed", "error", err)
		}
		return
	case "":
	default:
		sugar.Fatalw("unknown job", "job", *job)
	}

	scheduler := cron.New()
	if cfg.IngestSchedule != "" {
		if _, err := scheduler.AddFunc(cfg.IngestSchedule, func() {
			if _, err := jobSvc.RunIngestion(context.Background()); err != nil {
				sugar.Errorw("scheduled ingestion failed", "error", err)
			}
		}); err != nil {
			sugar.Fatalw("invalid ingest schedule", "schedule", cfg.IngestSchedule, "error", err)
		}
	}
	if cfg.NotifySchedule != "" {
		if _, err := scheduler.AddFunc(cfg.NotifySchedule, func() {
			if _, err := jobSvc.RunNotifications(context.Background(), ""); err != nil {
				sugar.Errorw("scheduled notification run failed", "error", err)
			}
		}); err != nil {
			sugar.Fatalw("invalid notify schedule", "schedule", cfg.NotifySchedule, "error", err)
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	r := routes.SetupRouter(routes.Deps{
		Auth:          authSvc,
		Menu:          menuSvc,
		Subscriptions: subSvc,
		Settings:      settingsSvc,
		Jobs:          jobSvc,
		Backup:        backupSvc,
		AdminToken:    cfg.AdminToken,
	})

	if err := r.Run(":" + cfg.Port); err != nil {
		sugar.Fatalw("server exited", "error", err)
	}
}

package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/sk4ndal-commits/UGCMarketPlace/internal/auth"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/config"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/db"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/events"
	apphttp "github.com/sk4ndal-commits/UGCMarketPlace/internal/http"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/http/handlers"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/metrics"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/notify"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/repositories"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/services"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/storage"
	"github.com/sk4ndal-commits/UGCMarketPlace/migrations"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, db.DefaultPoolOptions(), log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	// Run migrations
	if err := db.RunMigrations(ctx, pool, migrationSource(cfg.MigrationsDir), log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	campaignRepo := repositories.NewCampaignRepo(pool)
	campaignApplicationRepo := repositories.NewCampaignApplicationRepo(pool)
	templateRepo := repositories.NewTemplateRepo(pool)
	applicationRepo := repositories.NewApplicationRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)

	files, err := storage.NewFileStore(cfg.MediaRoot, cfg.MediaURL)
	if err != nil {
		log.Fatal("failed to open media root", zap.Error(err))
	}

	// Events and notifications
	m := metrics.New()
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	renderer, err := notify.NewRenderer()
	if err != nil {
		log.Fatal("failed to parse email templates", zap.Error(err))
	}
	var mailer notify.Mailer = notify.NewLogMailer(log)
	if cfg.MailEnabled() {
		mailer = notify.NewSMTPMailer(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
	}
	dispatcher := notify.NewDispatcher(mailer, renderer, publisher, notify.Options{
		Timeout:   cfg.MailTimeout,
		PerSecond: cfg.MailPerSecond,
		Burst:     cfg.MailBurst,
		Counter:   m.NotificationsTotal,
	}, log)

	// Services
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authService := services.NewAuthService(
		userRepo, tokens,
		auth.NewRedisRevocationStore(rdb), auth.NewRedisResetTokenStore(rdb),
		files, dispatcher, auditRepo,
		services.PasswordResetConfig{TTL: cfg.PasswordResetTTL, LinkURL: cfg.PasswordResetURL},
		log,
	)
	campaignService := services.NewCampaignService(campaignRepo, files, auditRepo, m, log)
	campaignApplicationService := services.NewCampaignApplicationService(campaignApplicationRepo, campaignRepo, dispatcher, auditRepo, m, log)
	templateService := services.NewTemplateService(templateRepo, cfg.TemplateCacheTTL, m, log)
	if err := templateService.WatchInvalidations(ctx, subscriber); err != nil {
		log.Warn("template cache invalidation disabled", zap.Error(err))
	}
	applicationService := services.NewApplicationService(applicationRepo, templateService, auditRepo, m, log)

	// Handlers
	wsHub := handlers.NewWSHub(authService, subscriber, log)
	wsHub.Start(ctx)

	app := apphttp.NewApp(cfg, log)
	apphttp.SetupRouter(app, cfg, log, rdb, m, authService, apphttp.Handlers{
		Auth:                 handlers.NewAuthHandler(authService, log),
		Campaigns:            handlers.NewCampaignHandler(campaignService, log),
		CampaignApplications: handlers.NewCampaignApplicationHandler(campaignApplicationService, log),
		Templates:            handlers.NewTemplateHandler(templateService, log),
		Applications:         handlers.NewApplicationHandler(applicationService, dispatcher, log),
		Meta:                 handlers.NewMetaHandler(),
		WSHub:                wsHub,
	})

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Error("server error", zap.Error(err))
	}

	// let queued emails and events go out before the connections close
	dispatcher.Wait()
	cancel()
}

// migrationSource prefers an on-disk directory and falls back to the
// migrations built into the binary.
func migrationSource(dir string) fs.FS {
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return os.DirFS(dir)
		}
	}
	return migrations.FS
}

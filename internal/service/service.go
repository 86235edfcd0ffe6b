package service

import (
	"log/slog"

	"github.com/redis/go-redis/v9"

	"onboarding-portal/internal/config"
	"onboarding-portal/internal/repository"
	"onboarding-portal/internal/service/audit"
	"onboarding-portal/internal/service/auth"
	"onboarding-portal/internal/service/dashboard"
	"onboarding-portal/internal/service/dispatch"
	"onboarding-portal/internal/service/document"
	"onboarding-portal/internal/service/email"
	"onboarding-portal/internal/service/notification"
	"onboarding-portal/internal/service/user"
	"onboarding-portal/internal/storage"
)

type Services struct {
	Auth         auth.Service
	User         user.Service
	Document     document.Service
	Email        email.Service
	Audit        audit.Service
	Notification notification.Service
	Dashboard    dashboard.Service
	Dispatcher   dispatch.Dispatcher
}

func NewServices(repos *repository.Repositories, redis *redis.Client, store storage.ObjectStore, cfg *config.Config, logger *slog.Logger) (*Services, error) {
	dispatcher := dispatch.New(cfg.DispatchTimeout, logger)

	emailService, err := email.NewService(cfg, logger)
	if err != nil {
		return nil, err
	}
	authService := auth.NewService(repos.User, repos.Session, cfg)
	auditService := audit.NewService(repos.AuditLog)
	notificationService := notification.NewService(repos.Notification, repos.User, emailService, cfg.DefaultLocale)
	dashboardService := dashboard.NewService(repos.Document, repos.User, redis, cfg.DashboardCacheTTL, logger)

	documentService := document.NewService(
		repos.Document,
		repos.User,
		store,
		notificationService,
		auditService,
		dispatcher,
		logger,
		document.Options{
			UploadURLTTL:   cfg.UploadURLTTL,
			DownloadURLTTL: cfg.DownloadURLTTL,
			MaxUploadSize:  cfg.MaxUploadSize,
			AllowedTypes:   cfg.AllowedUploadTypes,
		},
	)
	documentService.SetStatsInvalidator(dashboardService)

	userService := user.NewService(repos.User, repos.Document, store, auditService, dispatcher, logger)

	return &Services{
		Auth:         authService,
		User:         userService,
		Document:     documentService,
		Email:        emailService,
		Audit:        auditService,
		Notification: notificationService,
		Dashboard:    dashboardService,
		Dispatcher:   dispatcher,
	}, nil
}

package handler

import "onboarding-portal/internal/service"

type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Document     *DocumentHandler
	Admin        *AdminHandler
	Notification *NotificationHandler
	Dashboard    *DashboardHandler
	Audit        *AuditHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth),
		User:         NewUserHandler(services.User),
		Document:     NewDocumentHandler(services.Document),
		Admin:        NewAdminHandler(services.Document),
		Notification: NewNotificationHandler(services.Notification),
		Dashboard:    NewDashboardHandler(services.Dashboard),
		Audit:        NewAuditHandler(services.Audit),
	}
}

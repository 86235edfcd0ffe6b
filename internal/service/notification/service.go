package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"onboarding-portal/internal/domain"
	"onboarding-portal/internal/pkg/i18n"
	"onboarding-portal/internal/repository"
	"onboarding-portal/internal/service/email"
)

type Service interface {
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error

	NotifyDocumentUploaded(ctx context.Context, doc *domain.Document, uploader *domain.User) error
	NotifyDocumentReviewed(ctx context.Context, doc *domain.Document, owner *domain.User) error
}

type service struct {
	notifRepo repository.NotificationRepository
	userRepo  repository.UserRepository
	emailSvc  email.Service
	locale    string
}

func NewService(
	notifRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	emailSvc email.Service,
	locale string,
) Service {
	if locale == "" {
		locale = i18n.DefaultLocale
	}
	return &service{
		notifRepo: notifRepo,
		userRepo:  userRepo,
		emailSvc:  emailSvc,
		locale:    locale,
	}
}

func (s *service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	notifications, total, err := s.notifRepo.ListByUser(ctx, userID, unreadOnly, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, domain.DependencyFailure("list notifications", err)
	}

	return domain.NewPaginatedResponse(notifications, params, total), nil
}

func (s *service) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.notifRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, domain.DependencyFailure("count unread notifications", err)
	}
	return count, nil
}

func (s *service) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	ok, err := s.notifRepo.MarkAsRead(ctx, id, userID)
	if err != nil {
		return domain.DependencyFailure("mark notification read", err)
	}
	if !ok {
		return domain.NotFound("notification")
	}
	return nil
}

func (s *service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.notifRepo.MarkAllAsRead(ctx, userID)
	if err != nil {
		return 0, domain.DependencyFailure("mark all notifications read", err)
	}
	return n, nil
}

func (s *service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	ok, err := s.notifRepo.Delete(ctx, id, userID)
	if err != nil {
		return domain.DependencyFailure("delete notification", err)
	}
	if !ok {
		return domain.NotFound("notification")
	}
	return nil
}

// NotifyDocumentUploaded tells every admin, in app and by email, that doc is
// waiting for review. Each recipient is attempted even if an earlier one fails.
func (s *service) NotifyDocumentUploaded(ctx context.Context, doc *domain.Document, uploader *domain.User) error {
	admins, err := s.userRepo.ListByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to get admins: %w", err)
	}

	uploaderName := displayName(uploader)
	link := "/admin/documents?user_id=" + doc.UserID.String()

	var errs []error
	for _, admin := range admins {
		notif := s.newDocumentNotification(admin.ID, doc, domain.NotifDocumentUploaded, link,
			i18n.Format(s.locale, "document_uploaded.message", uploaderName, doc.DocumentType.Label()))
		if err := s.notifRepo.Create(ctx, notif); err != nil {
			errs = append(errs, fmt.Errorf("notify admin %s: %w", admin.ID, err))
		}

		if s.emailSvc != nil && admin.Email != "" {
			if err := s.emailSvc.SendDocumentUploadedEmail(ctx, admin.Email, displayName(&admin), uploaderName, doc.DocumentType); err != nil {
				errs = append(errs, fmt.Errorf("email admin %s: %w", admin.ID, err))
			}
		}
	}

	return errors.Join(errs...)
}

// NotifyDocumentReviewed tells the owner the outcome of a review.
func (s *service) NotifyDocumentReviewed(ctx context.Context, doc *domain.Document, owner *domain.User) error {
	var (
		notifType domain.NotificationType
		message   string
		link      string
	)
	switch doc.Status {
	case domain.DocumentApproved:
		notifType = domain.NotifDocumentApproved
		message = i18n.Format(s.locale, "document_approved.message", doc.DocumentType.Label())
		link = "/documents"
	case domain.DocumentRejected:
		notifType = domain.NotifDocumentRejected
		message = i18n.Format(s.locale, "document_rejected.message", doc.DocumentType.Label(), notesOf(doc))
		link = "/documents?reupload=" + string(doc.DocumentType)
	default:
		return fmt.Errorf("document %s has not been reviewed", doc.ID)
	}

	var errs []error
	notif := s.newDocumentNotification(doc.UserID, doc, notifType, link, message)
	if err := s.notifRepo.Create(ctx, notif); err != nil {
		errs = append(errs, fmt.Errorf("notify owner: %w", err))
	}

	if s.emailSvc != nil && owner != nil && owner.Email != "" {
		var err error
		if doc.Status == domain.DocumentApproved {
			err = s.emailSvc.SendDocumentApprovedEmail(ctx, owner.Email, displayName(owner), doc.DocumentType)
		} else {
			err = s.emailSvc.SendDocumentRejectedEmail(ctx, owner.Email, displayName(owner), doc.DocumentType, notesOf(doc))
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("email owner: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (s *service) newDocumentNotification(userID uuid.UUID, doc *domain.Document, notifType domain.NotificationType, link, message string) *domain.Notification {
	docID := doc.ID
	docType := doc.DocumentType
	return &domain.Notification{
		ID:           uuid.New(),
		UserID:       userID,
		Type:         notifType,
		Title:        i18n.Translate(s.locale, string(notifType)+".title"),
		Message:      message,
		DocumentID:   &docID,
		DocumentType: &docType,
		Link:         &link,
	}
}

func displayName(u *domain.User) string {
	if u == nil {
		return "An employee"
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

func notesOf(doc *domain.Document) string {
	if doc.Notes == nil {
		return ""
	}
	return *doc.Notes
}

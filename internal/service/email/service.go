package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/resend/resend-go/v3"

	"onboarding-portal/internal/config"
	"onboarding-portal/internal/domain"
	"onboarding-portal/internal/pkg/i18n"
)

//go:embed templates/*.html
var templateFiles embed.FS

const (
	colorNeutral = "#2563eb"
	colorSuccess = "#10b981"
	colorDanger  = "#ef4444"
)

type Service interface {
	SendDocumentUploadedEmail(ctx context.Context, toEmail, recipientName, uploaderName string, docType domain.DocumentType) error
	SendDocumentApprovedEmail(ctx context.Context, toEmail, recipientName string, docType domain.DocumentType) error
	SendDocumentRejectedEmail(ctx context.Context, toEmail, recipientName string, docType domain.DocumentType, notes string) error
}

// Sender is the part of the Resend client the service needs.
type Sender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type service struct {
	sender    Sender
	config    *config.Config
	templates map[string]*template.Template
	logger    *slog.Logger
}

// NewService sends through Resend. Without an API key emails are logged and dropped.
func NewService(cfg *config.Config, logger *slog.Logger) (Service, error) {
	var sender Sender
	if cfg.ResendAPIKey != "" {
		sender = resend.NewClient(cfg.ResendAPIKey).Emails
	}
	return NewServiceWithSender(cfg, sender, logger)
}

func NewServiceWithSender(cfg *config.Config, sender Sender, logger *slog.Logger) (Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	templates := make(map[string]*template.Template)
	for _, name := range []string{"document_uploaded.html", "document_approved.html", "document_rejected.html"} {
		tmpl, err := template.ParseFS(templateFiles, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse email template %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return &service{sender: sender, config: cfg, templates: templates, logger: logger}, nil
}

type emailData struct {
	Title         string
	Greeting      string
	Action        string
	Link          string
	Footer        string
	Color         string
	DocumentLabel string
	UploaderName  string
	Notes         string
}

func (s *service) newData(recipientName string, docType domain.DocumentType) emailData {
	locale := s.config.DefaultLocale
	return emailData{
		Greeting:      i18n.Format(locale, "email.greeting", recipientName),
		Footer:        i18n.Translate(locale, "email.footer"),
		DocumentLabel: docType.Label(),
	}
}

func (s *service) sendEmail(ctx context.Context, toEmail, subject, templateName string, data emailData) error {
	tmpl, ok := s.templates[templateName]
	if !ok {
		return fmt.Errorf("unknown email template %s", templateName)
	}

	var body bytes.Buffer
	if err := tmpl.ExecuteTemplate(&body, "layout", data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	if s.sender == nil {
		s.logger.Info("email delivery disabled, dropping message", "to", toEmail, "subject", subject)
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("Onboarding Portal <%s>", s.config.FromEmail),
		To:      []string{toEmail},
		Html:    body.String(),
		Subject: subject,
	}

	if _, err := s.sender.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("send email to %s: %w", toEmail, err)
	}
	return nil
}

func (s *service) SendDocumentUploadedEmail(ctx context.Context, toEmail, recipientName, uploaderName string, docType domain.DocumentType) error {
	locale := s.config.DefaultLocale
	data := s.newData(recipientName, docType)
	data.Title = i18n.Translate(locale, "email.document_uploaded.heading")
	data.Action = i18n.Translate(locale, "email.action.review")
	data.Link = s.config.AppBaseURL + "/admin/documents"
	data.Color = colorNeutral
	data.UploaderName = uploaderName

	subject := i18n.Format(locale, "email.document_uploaded.subject", uploaderName, docType.Label())
	return s.sendEmail(ctx, toEmail, subject, "document_uploaded.html", data)
}

func (s *service) SendDocumentApprovedEmail(ctx context.Context, toEmail, recipientName string, docType domain.DocumentType) error {
	locale := s.config.DefaultLocale
	data := s.newData(recipientName, docType)
	data.Title = i18n.Translate(locale, "email.document_approved.heading")
	data.Action = i18n.Translate(locale, "email.action.view")
	data.Link = s.config.AppBaseURL + "/documents"
	data.Color = colorSuccess

	subject := i18n.Format(locale, "email.document_approved.subject", docType.Label())
	return s.sendEmail(ctx, toEmail, subject, "document_approved.html", data)
}

func (s *service) SendDocumentRejectedEmail(ctx context.Context, toEmail, recipientName string, docType domain.DocumentType, notes string) error {
	locale := s.config.DefaultLocale
	data := s.newData(recipientName, docType)
	data.Title = i18n.Translate(locale, "email.document_rejected.heading")
	data.Action = i18n.Translate(locale, "email.action.reupload")
	data.Link = s.config.AppBaseURL + "/documents?reupload=" + string(docType)
	data.Color = colorDanger
	data.Notes = notes

	subject := i18n.Format(locale, "email.document_rejected.subject", docType.Label())
	return s.sendEmail(ctx, toEmail, subject, "document_rejected.html", data)
}

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"onboarding-portal/internal/domain"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendDocumentUploadedEmail(ctx context.Context, toEmail, recipientName, uploaderName string, docType domain.DocumentType) error {
	args := m.Called(ctx, toEmail, recipientName, uploaderName, docType)
	return args.Error(0)
}

func (m *EmailService) SendDocumentApprovedEmail(ctx context.Context, toEmail, recipientName string, docType domain.DocumentType) error {
	args := m.Called(ctx, toEmail, recipientName, docType)
	return args.Error(0)
}

func (m *EmailService) SendDocumentRejectedEmail(ctx context.Context, toEmail, recipientName string, docType domain.DocumentType, notes string) error {
	args := m.Called(ctx, toEmail, recipientName, docType, notes)
	return args.Error(0)
}

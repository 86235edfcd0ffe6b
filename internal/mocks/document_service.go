package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"onboarding-portal/internal/domain"
	"onboarding-portal/internal/service/document"
)

type DocumentService struct {
	mock.Mock
}

func (m *DocumentService) InitiateUpload(ctx context.Context, callerID uuid.UUID, input domain.UploadInput) (*domain.InitiateUploadResult, error) {
	args := m.Called(ctx, callerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InitiateUploadResult), args.Error(1)
}

func (m *DocumentService) Upload(ctx context.Context, callerID uuid.UUID, input domain.UploadInput, body io.Reader) (*domain.Document, error) {
	args := m.Called(ctx, callerID, input, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *DocumentService) ConfirmUpload(ctx context.Context, id, callerID uuid.UUID) (*domain.Document, error) {
	args := m.Called(ctx, id, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *DocumentService) Review(ctx context.Context, id, callerID uuid.UUID, input domain.ReviewInput, meta *domain.RequestMeta) (*domain.Document, error) {
	args := m.Called(ctx, id, callerID, input, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *DocumentService) Get(ctx context.Context, id, callerID uuid.UUID) (*domain.DocumentWithURL, error) {
	args := m.Called(ctx, id, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentWithURL), args.Error(1)
}

func (m *DocumentService) Delete(ctx context.Context, id, callerID uuid.UUID, meta *domain.RequestMeta) error {
	args := m.Called(ctx, id, callerID, meta)
	return args.Error(0)
}

func (m *DocumentService) ListForUser(ctx context.Context, userID, callerID uuid.UUID) ([]domain.Document, error) {
	args := m.Called(ctx, userID, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *DocumentService) ListAll(ctx context.Context, callerID uuid.UUID, filter domain.DocumentFilter) (domain.PaginatedResponse[domain.Document], error) {
	args := m.Called(ctx, callerID, filter)
	return args.Get(0).(domain.PaginatedResponse[domain.Document]), args.Error(1)
}

func (m *DocumentService) SetStatsInvalidator(inv document.StatsInvalidator) {
	m.Called(inv)
}

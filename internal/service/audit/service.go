package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"onboarding-portal/internal/domain"
	"onboarding-portal/internal/repository"
)

// Entry describes one audited action. OldValue and NewValue are stored as JSON.
type Entry struct {
	ActorID    uuid.UUID
	Action     domain.AuditAction
	EntityType string
	EntityID   uuid.UUID
	OldValue   any
	NewValue   any
	Meta       *domain.RequestMeta
}

type Service interface {
	Record(ctx context.Context, entry Entry) error
	List(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[domain.AuditLog], error)
	ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.AuditLog], error)
	GetRecentActivities(ctx context.Context, limit int) ([]domain.AuditLog, error)
}

type service struct {
	auditRepo repository.AuditLogRepository
}

func NewService(auditRepo repository.AuditLogRepository) Service {
	return &service{
		auditRepo: auditRepo,
	}
}

func (s *service) Record(ctx context.Context, entry Entry) error {
	oldValue, err := marshalValue(entry.OldValue)
	if err != nil {
		return fmt.Errorf("marshal old value: %w", err)
	}
	newValue, err := marshalValue(entry.NewValue)
	if err != nil {
		return fmt.Errorf("marshal new value: %w", err)
	}

	log := &domain.AuditLog{
		ID:         uuid.New(),
		UserID:     entry.ActorID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		OldValue:   oldValue,
		NewValue:   newValue,
	}
	if entry.Meta != nil {
		log.IPAddress = optional(entry.Meta.IPAddress)
		log.UserAgent = optional(entry.Meta.UserAgent)
	}

	return s.auditRepo.Create(ctx, log)
}

func (s *service) List(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[domain.AuditLog], error) {
	logs, total, err := s.auditRepo.List(ctx, params)
	if err != nil {
		return domain.PaginatedResponse[domain.AuditLog]{}, domain.DependencyFailure("list audit logs", err)
	}
	return domain.NewPaginatedResponse(logs, params, total), nil
}

func (s *service) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.AuditLog], error) {
	logs, total, err := s.auditRepo.ListByEntity(ctx, entityType, entityID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.AuditLog]{}, domain.DependencyFailure("list audit logs", err)
	}
	return domain.NewPaginatedResponse(logs, params, total), nil
}

func (s *service) GetRecentActivities(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	params := domain.PaginationParams{
		Page:     1,
		PageSize: limit,
	}

	logs, _, err := s.auditRepo.List(ctx, params)
	if err != nil {
		return nil, domain.DependencyFailure("list recent activity", err)
	}
	return logs, nil
}

func marshalValue(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

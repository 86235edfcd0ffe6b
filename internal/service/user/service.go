package user

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"onboarding-portal/internal/domain"
	"onboarding-portal/internal/repository"
	"onboarding-portal/internal/service/audit"
	"onboarding-portal/internal/service/dispatch"
	"onboarding-portal/internal/storage"
)

const entityUser = "USER"

var ErrCannotModifySelf = domain.Forbidden("cannot change your own role or delete yourself")

type Service interface {
	GetProfile(ctx context.Context, callerID uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, callerID uuid.UUID, input domain.UpdateProfileInput) (*domain.User, error)
	SetTourCompleted(ctx context.Context, callerID uuid.UUID, completed bool) (*domain.User, error)

	List(ctx context.Context, callerID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.User], error)
	GetByID(ctx context.Context, callerID, id uuid.UUID) (*domain.User, error)
	AdminUpdate(ctx context.Context, callerID, id uuid.UUID, input domain.AdminUpdateUserInput, meta *domain.RequestMeta) (*domain.User, error)
	Delete(ctx context.Context, callerID, id uuid.UUID, meta *domain.RequestMeta) error
}

type service struct {
	userRepo   repository.UserRepository
	docRepo    repository.DocumentRepository
	store      storage.ObjectStore
	auditSvc   audit.Service
	dispatcher dispatch.Dispatcher
	logger     *slog.Logger
}

func NewService(
	userRepo repository.UserRepository,
	docRepo repository.DocumentRepository,
	store storage.ObjectStore,
	auditSvc audit.Service,
	dispatcher dispatch.Dispatcher,
	logger *slog.Logger,
) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		userRepo:   userRepo,
		docRepo:    docRepo,
		store:      store,
		auditSvc:   auditSvc,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (s *service) GetProfile(ctx context.Context, callerID uuid.UUID) (*domain.User, error) {
	return s.load(ctx, callerID)
}

func (s *service) UpdateProfile(ctx context.Context, callerID uuid.UUID, input domain.UpdateProfileInput) (*domain.User, error) {
	user, err := s.load(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if err := applyProfile(user, input); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, domain.DependencyFailure("update user", err)
	}
	return user, nil
}

func (s *service) SetTourCompleted(ctx context.Context, callerID uuid.UUID, completed bool) (*domain.User, error) {
	user, err := s.load(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.SetTourCompleted(ctx, callerID, completed); err != nil {
		return nil, domain.DependencyFailure("update tour", err)
	}
	user.TourCompleted = completed
	return user, nil
}

func (s *service) List(ctx context.Context, callerID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.User], error) {
	if _, err := s.requireAdmin(ctx, callerID); err != nil {
		return domain.PaginatedResponse[domain.User]{}, err
	}
	users, total, err := s.userRepo.List(ctx, params)
	if err != nil {
		return domain.PaginatedResponse[domain.User]{}, domain.DependencyFailure("list users", err)
	}
	return domain.NewPaginatedResponse(users, params, total), nil
}

func (s *service) GetByID(ctx context.Context, callerID, id uuid.UUID) (*domain.User, error) {
	if _, err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

func (s *service) AdminUpdate(ctx context.Context, callerID, id uuid.UUID, input domain.AdminUpdateUserInput, meta *domain.RequestMeta) (*domain.User, error) {
	caller, err := s.requireAdmin(ctx, callerID)
	if err != nil {
		return nil, err
	}
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *user

	if err := applyProfile(user, input.UpdateProfileInput); err != nil {
		return nil, err
	}
	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, domain.ValidationError("unknown role %q", *input.Role)
		}
		if caller.ID == user.ID && *input.Role != user.Role {
			return nil, ErrCannotModifySelf
		}
		user.Role = *input.Role
	}
	if input.OnboardingStatus != nil {
		if !input.OnboardingStatus.IsValid() {
			return nil, domain.ValidationError("unknown onboarding status %q", *input.OnboardingStatus)
		}
		user.OnboardingStatus = *input.OnboardingStatus
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, domain.DependencyFailure("update user", err)
	}

	s.recordAudit(audit.Entry{
		ActorID:    caller.ID,
		Action:     domain.AuditUpdateUser,
		EntityType: entityUser,
		EntityID:   user.ID,
		OldValue:   before,
		NewValue:   user,
		Meta:       meta,
	})
	return user, nil
}

// Delete removes the user with their documents. Stored bytes are removed
// after the rows are gone.
func (s *service) Delete(ctx context.Context, callerID, id uuid.UUID, meta *domain.RequestMeta) error {
	caller, err := s.requireAdmin(ctx, callerID)
	if err != nil {
		return err
	}
	if caller.ID == id {
		return ErrCannotModifySelf
	}
	user, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	docs, err := s.docRepo.ListByUser(ctx, id)
	if err != nil {
		return domain.DependencyFailure("list documents", err)
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return domain.DependencyFailure("delete user", err)
	}

	for _, doc := range docs {
		if err := s.store.Delete(ctx, doc.StorageKey); err != nil {
			s.logger.Error("failed to delete document object", "document_id", doc.ID, "user_id", id, "error", err)
		}
	}

	s.logger.Info("user deleted", "user_id", id, "deleted_by", caller.ID, "documents", len(docs))
	s.recordAudit(audit.Entry{
		ActorID:    caller.ID,
		Action:     domain.AuditDeleteUser,
		EntityType: entityUser,
		EntityID:   user.ID,
		OldValue:   user,
		Meta:       meta,
	})
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.DependencyFailure("load user", err)
	}
	if user == nil {
		return nil, domain.NotFound("user")
	}
	return user, nil
}

func (s *service) requireAdmin(ctx context.Context, callerID uuid.UUID) (*domain.User, error) {
	caller, err := s.load(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() {
		return nil, domain.Forbidden("admin role required")
	}
	return caller, nil
}

func (s *service) recordAudit(entry audit.Entry) {
	if s.auditSvc == nil || s.dispatcher == nil {
		return
	}
	s.dispatcher.Go("record_audit", func(ctx context.Context) error {
		return s.auditSvc.Record(ctx, entry)
	}, "user_id", entry.EntityID)
}

func applyProfile(user *domain.User, input domain.UpdateProfileInput) error {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return domain.ValidationError("name cannot be empty")
		}
		user.Name = name
	}
	if input.LinkedInURL != nil && *input.LinkedInURL != "" {
		u, err := url.Parse(*input.LinkedInURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return domain.ValidationError("linkedin_url must be an http(s) URL")
		}
	}

	user.Phone = merge(user.Phone, input.Phone)
	user.Address = merge(user.Address, input.Address)
	user.BloodGroup = merge(user.BloodGroup, input.BloodGroup)
	user.LinkedInURL = merge(user.LinkedInURL, input.LinkedInURL)
	user.SlackID = merge(user.SlackID, input.SlackID)
	user.TeamBio = merge(user.TeamBio, input.TeamBio)
	user.TeamImageKey = merge(user.TeamImageKey, input.TeamImageKey)
	return nil
}

// merge applies an optional edit: nil keeps current, blank clears it.
func merge(current, edit *string) *string {
	if edit == nil {
		return current
	}
	v := strings.TrimSpace(*edit)
	if v == "" {
		return nil
	}
	return &v
}

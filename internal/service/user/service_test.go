package user_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"onboarding-portal/internal/domain"
	"onboarding-portal/internal/mocks"
	"onboarding-portal/internal/repository"
	"onboarding-portal/internal/service/dispatch"
	"onboarding-portal/internal/service/user"
	"onboarding-portal/internal/storage"
)

func strPtr(s string) *string { return &s }

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("Applies And Clears Fields", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		svc := user.NewService(userRepo, repository.NewMemoryDocumentRepository(), storage.NewMemoryStore(), nil, nil, nil)

		me := &domain.User{ID: uuid.New(), Name: "Asha", Phone: strPtr("123"), SlackID: strPtr("U1")}
		userRepo.On("GetByID", ctx, me.ID).Return(me, nil).Once()
		userRepo.On("Update", ctx, me).Return(nil).Once()

		got, err := svc.UpdateProfile(ctx, me.ID, domain.UpdateProfileInput{
			Name:        strPtr("  Asha Rao "),
			Phone:       strPtr(""),
			BloodGroup:  strPtr("O+"),
			LinkedInURL: strPtr("https://linkedin.com/in/asha"),
		})

		require.NoError(t, err)
		assert.Equal(t, "Asha Rao", got.Name)
		assert.Nil(t, got.Phone)
		assert.Equal(t, "O+", *got.BloodGroup)
		assert.Equal(t, "U1", *got.SlackID)
		userRepo.AssertExpectations(t)
	})

	t.Run("Rejects Invalid Input", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		svc := user.NewService(userRepo, repository.NewMemoryDocumentRepository(), storage.NewMemoryStore(), nil, nil, nil)

		me := &domain.User{ID: uuid.New(), Name: "Asha"}
		userRepo.On("GetByID", ctx, me.ID).Return(me, nil)

		_, err := svc.UpdateProfile(ctx, me.ID, domain.UpdateProfileInput{Name: strPtr(" ")})
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = svc.UpdateProfile(ctx, me.ID, domain.UpdateProfileInput{LinkedInURL: strPtr("javascript:alert(1)")})
		assert.ErrorIs(t, err, domain.ErrValidation)

		userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestUserService_AdminUpdate(t *testing.T) {
	ctx := context.Background()
	admin := &domain.User{ID: uuid.New(), Name: "HR", Role: domain.RoleAdmin}

	t.Run("Changes Role And Onboarding Status", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		auditSvc := new(mocks.AuditService)
		svc := user.NewService(userRepo, repository.NewMemoryDocumentRepository(), storage.NewMemoryStore(), auditSvc, dispatch.Inline{}, nil)

		target := &domain.User{ID: uuid.New(), Name: "Asha", Role: domain.RoleUser, OnboardingStatus: domain.OnboardingInProgress}
		userRepo.On("GetByID", ctx, admin.ID).Return(admin, nil)
		userRepo.On("GetByID", ctx, target.ID).Return(target, nil)
		userRepo.On("Update", ctx, target).Return(nil).Once()
		auditSvc.On("Record", mock.Anything, mock.Anything).Return(nil).Once()

		role := domain.RoleAdmin
		status := domain.OnboardingCompleted
		got, err := svc.AdminUpdate(ctx, admin.ID, target.ID, domain.AdminUpdateUserInput{Role: &role, OnboardingStatus: &status}, nil)

		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, got.Role)
		assert.Equal(t, domain.OnboardingCompleted, got.OnboardingStatus)
		auditSvc.AssertExpectations(t)
	})

	t.Run("Cannot Change Own Role", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		svc := user.NewService(userRepo, repository.NewMemoryDocumentRepository(), storage.NewMemoryStore(), nil, nil, nil)

		self := &domain.User{ID: admin.ID, Role: domain.RoleAdmin}
		userRepo.On("GetByID", ctx, admin.ID).Return(self, nil)

		role := domain.RoleUser
		_, err := svc.AdminUpdate(ctx, admin.ID, admin.ID, domain.AdminUpdateUserInput{Role: &role}, nil)

		assert.ErrorIs(t, err, user.ErrCannotModifySelf)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("Non Admin Forbidden", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		svc := user.NewService(userRepo, repository.NewMemoryDocumentRepository(), storage.NewMemoryStore(), nil, nil, nil)

		employee := &domain.User{ID: uuid.New(), Role: domain.RoleUser}
		userRepo.On("GetByID", ctx, employee.ID).Return(employee, nil)

		_, err := svc.AdminUpdate(ctx, employee.ID, uuid.New(), domain.AdminUpdateUserInput{}, nil)
		assert.ErrorIs(t, err, domain.ErrForbidden)

		_, err = svc.List(ctx, employee.ID, domain.DefaultPagination())
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()
	admin := &domain.User{ID: uuid.New(), Role: domain.RoleAdmin}

	t.Run("Removes Documents After User Row", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		docs := repository.NewMemoryDocumentRepository()
		store := storage.NewMemoryStore()
		svc := user.NewService(userRepo, docs, store, nil, nil, nil)

		target := &domain.User{ID: uuid.New(), Role: domain.RoleUser}
		doc := &domain.Document{ID: uuid.New(), UserID: target.ID, DocumentType: domain.DocPANCard, StorageKey: "documents/pan.pdf", Status: domain.DocumentPending}
		_, err := docs.Replace(ctx, doc)
		require.NoError(t, err)
		require.NoError(t, store.Put(ctx, doc.StorageKey, bytes.NewReader([]byte("pan")), 3, "application/pdf"))

		userRepo.On("GetByID", ctx, admin.ID).Return(admin, nil)
		userRepo.On("GetByID", ctx, target.ID).Return(target, nil)
		userRepo.On("Delete", ctx, target.ID).Return(nil).Once()

		require.NoError(t, svc.Delete(ctx, admin.ID, target.ID, nil))

		assert.Empty(t, store.Keys())
		userRepo.AssertExpectations(t)
	})

	t.Run("Cannot Delete Self", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		svc := user.NewService(userRepo, repository.NewMemoryDocumentRepository(), storage.NewMemoryStore(), nil, nil, nil)
		userRepo.On("GetByID", ctx, admin.ID).Return(admin, nil)

		err := svc.Delete(ctx, admin.ID, admin.ID, nil)

		assert.ErrorIs(t, err, user.ErrCannotModifySelf)
		userRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

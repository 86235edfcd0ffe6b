package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"onboarding-portal/internal/domain"
	"onboarding-portal/internal/service/auth"
)

type AuthService struct {
	mock.Mock
}

func (m *AuthService) Register(ctx context.Context, input domain.RegisterInput, meta *domain.RequestMeta) (*domain.User, *domain.TokenPair, error) {
	args := m.Called(ctx, input, meta)
	return userAndTokens(args)
}

func (m *AuthService) Login(ctx context.Context, input domain.LoginInput, meta *domain.RequestMeta) (*domain.User, *domain.TokenPair, error) {
	args := m.Called(ctx, input, meta)
	return userAndTokens(args)
}

func (m *AuthService) ExchangeIdentityToken(ctx context.Context, input domain.IdentityTokenInput, meta *domain.RequestMeta) (*domain.User, *domain.TokenPair, error) {
	args := m.Called(ctx, input, meta)
	return userAndTokens(args)
}

func (m *AuthService) RefreshToken(ctx context.Context, refreshToken string, meta *domain.RequestMeta) (*domain.TokenPair, error) {
	args := m.Called(ctx, refreshToken, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TokenPair), args.Error(1)
}

func (m *AuthService) Logout(ctx context.Context, refreshToken string, everywhere bool) error {
	args := m.Called(ctx, refreshToken, everywhere)
	return args.Error(0)
}

func (m *AuthService) ValidateAccessToken(token string) (*auth.Claims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Claims), args.Error(1)
}

func (m *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func userAndTokens(args mock.Arguments) (*domain.User, *domain.TokenPair, error) {
	var (
		user   *domain.User
		tokens *domain.TokenPair
	)
	if v := args.Get(0); v != nil {
		user = v.(*domain.User)
	}
	if v := args.Get(1); v != nil {
		tokens = v.(*domain.TokenPair)
	}
	return user, tokens, args.Error(2)
}

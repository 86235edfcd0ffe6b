package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"onboarding-portal/internal/config"
	"onboarding-portal/internal/domain"
	"onboarding-portal/internal/repository"
)

const minPasswordLength = 8

var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", domain.ErrUnauthenticated)
	ErrInvalidToken       = fmt.Errorf("%w: invalid or expired token", domain.ErrUnauthenticated)
	ErrEmailExists        = fmt.Errorf("%w: email already registered", domain.ErrConflict)
	ErrIdentityDisabled   = fmt.Errorf("%w: identity provider sign-in is not configured", domain.ErrUnauthenticated)
)

type Service interface {
	Register(ctx context.Context, input domain.RegisterInput, meta *domain.RequestMeta) (*domain.User, *domain.TokenPair, error)
	Login(ctx context.Context, input domain.LoginInput, meta *domain.RequestMeta) (*domain.User, *domain.TokenPair, error)
	// ExchangeIdentityToken signs in with an ID token issued by the identity
	// provider. The first sign-in for an email creates the user.
	ExchangeIdentityToken(ctx context.Context, input domain.IdentityTokenInput, meta *domain.RequestMeta) (*domain.User, *domain.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string, meta *domain.RequestMeta) (*domain.TokenPair, error)
	// Logout revokes the session behind refreshToken, or every session of its
	// user when everywhere is set.
	Logout(ctx context.Context, refreshToken string, everywhere bool) error
	ValidateAccessToken(token string) (*Claims, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	jwt.RegisteredClaims
}

// IdentityClaims are the claims read from an identity provider ID token.
type IdentityClaims struct {
	Email         string `json:"email"`
	Name          string `json:"name"`
	EmailVerified *bool  `json:"email_verified,omitempty"`
	jwt.RegisteredClaims
}

type service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	cfg         *config.Config
}

func NewService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, cfg *config.Config) Service {
	return &service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		cfg:         cfg,
	}
}

func (s *service) Register(ctx context.Context, input domain.RegisterInput, meta *domain.RequestMeta) (*domain.User, *domain.TokenPair, error) {
	email := domain.NormalizeEmail(input.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, nil, domain.ValidationError("invalid email address")
	}
	if len(input.Password) < minPasswordLength {
		return nil, nil, domain.ValidationError("password must be at least %d characters", minPasswordLength)
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, nil, domain.ValidationError("name is required")
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, nil, domain.DependencyFailure("check email", err)
	}
	if exists {
		return nil, nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}
	hash := string(hashedPassword)

	user := s.newUser(email, name)
	user.PasswordHash = &hash
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, domain.DependencyFailure("create user", err)
	}

	tokens, err := s.generateTokenPair(ctx, user, meta)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

func (s *service) Login(ctx context.Context, input domain.LoginInput, meta *domain.RequestMeta) (*domain.User, *domain.TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, nil, domain.DependencyFailure("load user", err)
	}
	if user == nil || user.PasswordHash == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if err := s.syncAdminRole(ctx, user); err != nil {
		return nil, nil, err
	}

	tokens, err := s.generateTokenPair(ctx, user, meta)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

func (s *service) ExchangeIdentityToken(ctx context.Context, input domain.IdentityTokenInput, meta *domain.RequestMeta) (*domain.User, *domain.TokenPair, error) {
	if s.cfg.IdPJWTSecret == "" {
		return nil, nil, ErrIdentityDisabled
	}

	claims, err := s.verifyIdentityToken(input.IDToken)
	if err != nil {
		return nil, nil, err
	}

	email := domain.NormalizeEmail(claims.Email)
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, domain.DependencyFailure("load user", err)
	}

	if user == nil {
		name := strings.TrimSpace(claims.Name)
		if name == "" {
			name = strings.Split(email, "@")[0]
		}
		user = s.newUser(email, name)
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, nil, domain.DependencyFailure("create user", err)
		}
	} else if err := s.syncAdminRole(ctx, user); err != nil {
		return nil, nil, err
	}

	tokens, err := s.generateTokenPair(ctx, user, meta)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

func (s *service) verifyIdentityToken(raw string) (*IdentityClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()}
	if s.cfg.IdPIssuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.IdPIssuer))
	}

	token, err := jwt.ParseWithClaims(raw, &IdentityClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.IdPJWTSecret), nil
	}, opts...)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("%w: identity token has no email", domain.ErrUnauthenticated)
	}
	if claims.EmailVerified != nil && !*claims.EmailVerified {
		return nil, fmt.Errorf("%w: identity provider email is not verified", domain.ErrUnauthenticated)
	}
	return claims, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string, meta *domain.RequestMeta) (*domain.TokenPair, error) {
	session, err := s.sessionRepo.GetByTokenHash(ctx, hashToken(refreshToken))
	if err != nil {
		return nil, domain.DependencyFailure("load session", err)
	}
	if session == nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, domain.DependencyFailure("load user", err)
	}
	if user == nil {
		return nil, ErrInvalidToken
	}

	revoked, err := s.sessionRepo.Revoke(ctx, session.ID)
	if err != nil {
		return nil, domain.DependencyFailure("revoke session", err)
	}
	if !revoked {
		return nil, ErrInvalidToken
	}

	return s.generateTokenPair(ctx, user, meta)
}

func (s *service) Logout(ctx context.Context, refreshToken string, everywhere bool) error {
	session, err := s.sessionRepo.GetByTokenHash(ctx, hashToken(refreshToken))
	if err != nil {
		return domain.DependencyFailure("load session", err)
	}
	if session == nil {
		return nil
	}
	if everywhere {
		if _, err := s.sessionRepo.RevokeAllForUser(ctx, session.UserID); err != nil {
			return domain.DependencyFailure("revoke sessions", err)
		}
		return nil
	}
	if _, err := s.sessionRepo.Revoke(ctx, session.ID); err != nil {
		return domain.DependencyFailure("revoke session", err)
	}
	return nil
}

func (s *service) ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *service) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.DependencyFailure("load user", err)
	}
	return user, nil
}

func (s *service) newUser(email, name string) *domain.User {
	role := domain.RoleUser
	if s.cfg.IsAdminEmail(email) {
		role = domain.RoleAdmin
	}
	return &domain.User{
		ID:               uuid.New(),
		Email:            email,
		Name:             name,
		Role:             role,
		OnboardingStatus: domain.OnboardingInProgress,
	}
}

// syncAdminRole promotes a configured admin email that is not yet ADMIN.
func (s *service) syncAdminRole(ctx context.Context, user *domain.User) error {
	if user.Role == domain.RoleAdmin || !s.cfg.IsAdminEmail(user.Email) {
		return nil
	}
	if err := s.userRepo.AssignRole(ctx, user.ID, domain.RoleAdmin); err != nil {
		return domain.DependencyFailure("promote admin", err)
	}
	user.Role = domain.RoleAdmin
	return nil
}

func (s *service) generateTokenPair(ctx context.Context, user *domain.User, meta *domain.RequestMeta) (*domain.TokenPair, error) {
	now := time.Now()
	accessClaims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTAccessExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   user.ID.String(),
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	accessTokenString, err := accessToken.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, err
	}

	refreshTokenRaw := uuid.New().String()
	session := &repository.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken(refreshTokenRaw),
		ExpiresAt: now.Add(s.cfg.JWTRefreshExpiry),
	}
	if meta != nil {
		if meta.UserAgent != "" {
			session.UserAgent = &meta.UserAgent
		}
		if meta.IPAddress != "" {
			session.IPAddress = &meta.IPAddress
		}
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, domain.DependencyFailure("create session", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessTokenString,
		RefreshToken: refreshTokenRaw,
		ExpiresIn:    int64(s.cfg.JWTAccessExpiry.Seconds()),
	}, nil
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

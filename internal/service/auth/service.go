package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"online-voting/internal/config"
	"online-voting/internal/domain"
	"online-voting/internal/repository"
	"online-voting/internal/service/email"
)

const (
	minPasswordLength = 8
	// sessionRetention is how long expired or revoked sessions are kept
	// before PruneSessions deletes them.
	sessionRetention = 24 * time.Hour
)

type Service interface {
	Register(ctx context.Context, input domain.CreateUserInput) (*domain.LoginResult, error)
	Login(ctx context.Context, input domain.LoginInput) (*domain.LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context, userID uuid.UUID) (int64, error)
	ActiveSessions(ctx context.Context, userID uuid.UUID) ([]repository.Session, error)
	PruneSessions(ctx context.Context) (int64, error)
	ValidateAccessToken(token string) (*Claims, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetRole(ctx context.Context, userID uuid.UUID) (domain.Role, error)
	FederatedAuthURL(state string) (string, error)
	FederatedLogin(ctx context.Context, code string) (*domain.LoginResult, error)
}

type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	jwt.RegisteredClaims
}

type service struct {
	userRepo     repository.UserRepository
	sessionRepo  repository.SessionRepository
	roleRepo     repository.RoleRepository
	emailService email.Service
	provider     IdentityProvider
	cfg          *config.Config
	logger       *slog.Logger
}

// NewService builds the auth service. provider may be nil, which disables
// federated sign-in.
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	roleRepo repository.RoleRepository,
	emailService email.Service,
	provider IdentityProvider,
	cfg *config.Config,
	logger *slog.Logger,
) Service {
	return &service{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		roleRepo:     roleRepo,
		emailService: emailService,
		provider:     provider,
		cfg:          cfg,
		logger:       logger,
	}
}

func (s *service) Register(ctx context.Context, input domain.CreateUserInput) (*domain.LoginResult, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return nil, domain.NewValidationError("email", "must be a valid email address")
	}
	if len(input.Password) < minPasswordLength {
		return nil, domain.NewValidationError("password", "must be at least 8 characters")
	}
	if strings.TrimSpace(input.FirstName) == "" {
		return nil, domain.NewValidationError("first_name", "is required")
	}
	if input.Role == "" {
		input.Role = domain.RoleVoter
	}
	if !input.Role.IsValid() {
		return nil, domain.NewValidationError("role", "must be 'admin' or 'voter'")
	}
	if input.Role == domain.RoleAdmin && (s.cfg.AdminSignupCode == "" || input.AdminCode != s.cfg.AdminSignupCode) {
		return nil, domain.ErrAdminSignupForbidden
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Provider:     domain.ProviderPassword,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	if err := s.writeRole(ctx, user, input.Role); err != nil {
		return nil, err
	}

	go func() {
		err := s.emailService.SendWelcomeEmail(context.Background(), user.Email, user.FirstName, string(input.Role))
		if err != nil {
			s.logger.Error("failed to send welcome email", "to", user.Email, "error", err)
		}
	}()

	return s.signIn(ctx, user, input.Role)
}

func (s *service) Login(ctx context.Context, input domain.LoginInput) (*domain.LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	role, err := s.GetRole(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.signIn(ctx, user, role)
}

func (s *service) FederatedAuthURL(state string) (string, error) {
	if s.provider == nil {
		return "", domain.ErrFederatedDisabled
	}
	return s.provider.AuthCodeURL(state), nil
}

// FederatedLogin completes an external sign-in. First-time users get an
// account and a voter role record.
func (s *service) FederatedLogin(ctx context.Context, code string) (*domain.LoginResult, error) {
	if s.provider == nil {
		return nil, domain.ErrFederatedDisabled
	}
	identity, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, identity.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user = &domain.User{
			ID:        uuid.New(),
			Email:     identity.Email,
			FirstName: identity.FirstName,
			LastName:  identity.LastName,
			Provider:  identity.Provider,
			IsActive:  true,
			CreatedAt: time.Now().UTC(),
		}
		if identity.Picture != "" {
			picture := identity.Picture
			user.ProfileImage = &picture
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
		if err := s.writeRole(ctx, user, domain.RoleVoter); err != nil {
			return nil, err
		}
		s.logger.Info("federated account created", "user_id", user.ID, "provider", identity.Provider)
		return s.signIn(ctx, user, domain.RoleVoter)
	}

	role, found, err := s.roleRepo.GetRole(ctx, user.ID.String())
	if err != nil {
		return nil, err
	}
	if !found {
		role = domain.RoleVoter
		if err := s.roleRepo.SetRole(ctx, user.ID.String(), role); err != nil {
			return nil, err
		}
	}
	return s.signIn(ctx, user, role)
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	session, err := s.sessionRepo.GetByTokenHash(ctx, hashToken(refreshToken))
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	role, err := s.GetRole(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if role != session.Role {
		revoked, err := s.sessionRepo.RevokeAllForUser(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		s.logger.Warn("role changed since sign-in, sessions revoked",
			"user_id", user.ID, "issued_role", session.Role, "role", role, "revoked", revoked)
		return nil, domain.ErrInvalidToken
	}

	if err := s.sessionRepo.Revoke(ctx, session.ID); err != nil {
		return nil, err
	}

	return s.generateTokenPair(ctx, user, role)
}

func (s *service) Logout(ctx context.Context, refreshToken string) error {
	session, err := s.sessionRepo.GetByTokenHash(ctx, hashToken(refreshToken))
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}
	return s.sessionRepo.Revoke(ctx, session.ID)
}

func (s *service) LogoutAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.sessionRepo.RevokeAllForUser(ctx, userID)
}

func (s *service) ActiveSessions(ctx context.Context, userID uuid.UUID) ([]repository.Session, error) {
	return s.sessionRepo.ListActiveForUser(ctx, userID)
}

func (s *service) PruneSessions(ctx context.Context) (int64, error) {
	return s.sessionRepo.DeleteExpired(ctx, time.Now().Add(-sessionRetention))
}

func (s *service) ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}

func (s *service) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetRole returns the stored role; users without a role record are voters.
func (s *service) GetRole(ctx context.Context, userID uuid.UUID) (domain.Role, error) {
	role, found, err := s.roleRepo.GetRole(ctx, userID.String())
	if err != nil {
		return "", err
	}
	if !found {
		return domain.RoleVoter, nil
	}
	return role, nil
}

func (s *service) writeRole(ctx context.Context, user *domain.User, role domain.Role) error {
	profile := domain.UserProfile{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Role:      role,
		CreatedAt: user.CreatedAt,
	}
	if user.ProfileImage != nil {
		profile.ProfileImage = *user.ProfileImage
	}
	if err := s.roleRepo.SaveProfile(ctx, user.ID.String(), role, profile); err != nil {
		return err
	}
	return s.roleRepo.SetRole(ctx, user.ID.String(), role)
}

func (s *service) signIn(ctx context.Context, user *domain.User, role domain.Role) (*domain.LoginResult, error) {
	tokens, err := s.generateTokenPair(ctx, user, role)
	if err != nil {
		return nil, err
	}
	if s.cfg.MaxSessionsPerUser > 0 {
		revoked, err := s.sessionRepo.RevokeBeyondLimit(ctx, user.ID, s.cfg.MaxSessionsPerUser)
		if err != nil {
			s.logger.Warn("failed to trim old sessions", "user_id", user.ID, "error", err)
		} else if revoked > 0 {
			s.logger.Info("old sessions revoked", "user_id", user.ID, "revoked", revoked)
		}
	}
	return &domain.LoginResult{
		User:     user,
		Tokens:   tokens,
		Role:     role,
		Redirect: role.Redirect(),
	}, nil
}

func (s *service) generateTokenPair(ctx context.Context, user *domain.User, role domain.Role) (*domain.TokenPair, error) {
	accessClaims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.cfg.JWTAccessExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
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
		Role:      role,
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}
	if info, ok := domain.ClientInfoFrom(ctx); ok {
		if info.IP != "" {
			session.IPAddress = &info.IP
		}
		if info.UserAgent != "" {
			session.UserAgent = &info.UserAgent
		}
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
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

package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/EgehanKilicarslan/bookreview/internal/auth"
	"github.com/EgehanKilicarslan/bookreview/internal/database/models"
	"github.com/EgehanKilicarslan/bookreview/internal/database/repository"
)

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, *SessionToken, error)
	Authenticate(tokenString string) (auth.Identity, error)
}

// SessionToken is a signed token and the moment it stops being accepted
type SessionToken struct {
	Token     string
	ExpiresAt time.Time
}

type authService struct {
	userRepo repository.UserRepository
	hasher   auth.PasswordHasher
	tokens   auth.TokenService
	logger   *slog.Logger

	// compared against on unknown emails so both login failures cost one bcrypt check
	dummyHash string
}

// NewAuthService creates a new authentication service instance
func NewAuthService(
	userRepo repository.UserRepository,
	hasher auth.PasswordHasher,
	tokens auth.TokenService,
	logger *slog.Logger,
) AuthService {
	dummyHash, err := hasher.Hash("bookreview-dummy-password")
	if err != nil {
		logger.Error("❌ [AuthService] Failed to prepare dummy hash", "error", err)
	}

	return &authService{
		userRepo:  userRepo,
		hasher:    hasher,
		tokens:    tokens,
		logger:    logger,
		dummyHash: dummyHash,
	}
}

// NormalizeEmail trims and lowercases an address so lookups are stable
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Signup(ctx context.Context, name, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)
	s.logger.Info("📝 [AuthService] Signup attempt", "email", email)

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		s.logger.Error("❌ [AuthService] Database error", "error", err)
		return nil, err
	}
	if existing != nil {
		s.logger.Warn("⚠️ [AuthService] Email already registered", "email", email)
		return nil, ErrEmailAlreadyExists
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to hash password", "error", err)
		return nil, err
	}

	user := &models.User{
		Name:     strings.TrimSpace(name),
		Email:    email,
		Password: hashed,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			s.logger.Warn("⚠️ [AuthService] Email registered concurrently", "email", email)
			return nil, ErrEmailAlreadyExists
		}
		s.logger.Error("❌ [AuthService] Failed to create user", "error", err)
		return nil, err
	}

	s.logger.Info("✅ [AuthService] User registered successfully", "user_id", user.ID)
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, *SessionToken, error) {
	email = NormalizeEmail(email)
	s.logger.Info("🔐 [AuthService] Login attempt", "email", email)

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			s.logger.Warn("⚠️ [AuthService] User not found", "email", email)
			return nil, nil, ErrInvalidCredentials
		}
		s.logger.Error("❌ [AuthService] Database error", "error", err)
		return nil, nil, err
	}

	if !s.hasher.Verify(password, user.Password) {
		s.logger.Warn("⚠️ [AuthService] Invalid password", "email", email)
		return nil, nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(auth.Identity{UserID: user.ID, Email: user.Email})
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to issue token", "error", err)
		return nil, nil, err
	}

	s.logger.Info("✅ [AuthService] User logged in successfully", "user_id", user.ID)
	return user, &SessionToken{Token: token, ExpiresAt: expiresAt}, nil
}

func (s *authService) Authenticate(tokenString string) (auth.Identity, error) {
	return s.tokens.Verify(tokenString)
}

// Service errors for authentication
var (
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

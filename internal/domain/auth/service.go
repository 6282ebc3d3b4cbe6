package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/listify/listify-api/internal/domain/user"
	"github.com/listify/listify-api/internal/pkg/jwt"
	"github.com/listify/listify-api/internal/pkg/password"
)

// CreditSeeder creates the zero balance row for a new account.
type CreditSeeder interface {
	EnsureBalance(ctx context.Context, userID uuid.UUID) error
}

// Service handles authentication business logic
type Service struct {
	userRepo   user.Repository
	jwtService *jwt.Service
	credits    CreditSeeder
}

func NewService(userRepo user.Repository, jwtService *jwt.Service, credits CreditSeeder) *Service {
	return &Service{
		userRepo:   userRepo,
		jwtService: jwtService,
		credits:    credits,
	}
}

// Register creates new user account
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.credits.EnsureBalance(ctx, u.ID); err != nil {
		// The balance row is also upserted on first purchase; a miss here is
		// recoverable, so registration still succeeds.
		log.Error().Err(err).Str("user_id", u.ID.String()).Msg("failed to seed credit balance")
	}

	return s.respond(u)
}

// Login authenticates an existing user
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)

	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !password.Verify(req.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.respond(u)
}

// Me returns the authenticated user's profile
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &UserInfo{ID: u.ID.String(), Email: u.Email, CreatedAt: u.CreatedAt}, nil
}

func (s *Service) respond(u *user.User) (*AuthResponse, error) {
	token, err := s.jwtService.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &AuthResponse{
		User:        UserInfo{ID: u.ID.String(), Email: u.Email, CreatedAt: u.CreatedAt},
		AccessToken: token,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gearbox-rentals/service-rental/internal/auth"
	"github.com/gearbox-rentals/service-rental/internal/domain"
	userDomain "github.com/gearbox-rentals/service-rental/internal/domain/user"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// RegisterRequest is the request DTO for account registration.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest is the request DTO for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateImageRequest carries a new profile image reference.
type UpdateImageRequest struct {
	ImageURL string `json:"image_url" binding:"required,url"`
}

// UserDTO is the API response representation of an account. The credential
// hash is never included.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResult bundles the issued tokens with the account representation.
type AuthResult struct {
	Tokens auth.TokenPair `json:"tokens"`
	User   UserDTO        `json:"user"`
}

// UserService is the application service for account use cases.
type UserService struct {
	users      userDomain.UserRepository
	jwtManager *auth.JWTManager
	logger     *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users userDomain.UserRepository, jwtManager *auth.JWTManager, logger *zap.Logger) *UserService {
	return &UserService{
		users:      users,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

// Register creates a renter account and issues its first token pair.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.NewConflictError("an account with this email already exists")
	} else if !domain.IsKind(err, domain.KindNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u, err := userDomain.NewUser(req.Name, email, string(hash))
	if err != nil {
		return nil, err
	}

	if err := s.users.Save(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.logger.Info("user registered", zap.String("user_id", u.ID().String()))
	return s.authResult(u)
}

// Login verifies the credential and issues a token pair. Lookup and
// password failures are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, domain.NewUnauthorizedError("invalid email or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash()), []byte(req.Password)); err != nil {
		return nil, domain.NewUnauthorizedError("invalid email or password")
	}

	return s.authResult(u)
}

// GetProfile retrieves the account representation for the actor.
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := toUserDTO(u)
	return &dto, nil
}

// PromoteToOwner upgrades the actor's account so it can list cars, and
// issues a fresh token pair carrying the new role.
func (s *UserService) PromoteToOwner(ctx context.Context, userID uuid.UUID) (*AuthResult, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	u.PromoteToOwner()
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user promoted to owner", zap.String("user_id", userID.String()))
	return s.authResult(u)
}

// UpdateProfileImage stores a new profile image reference.
func (s *UserService) UpdateProfileImage(ctx context.Context, userID uuid.UUID, req UpdateImageRequest) (*UserDTO, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	u.SetImageURL(req.ImageURL)
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}

	dto := toUserDTO(u)
	return &dto, nil
}

func (s *UserService) authResult(u *userDomain.User) (*AuthResult, error) {
	tokens, err := s.jwtManager.GenerateTokenPair(u.ID(), string(u.Role()))
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return &AuthResult{Tokens: tokens, User: toUserDTO(u)}, nil
}

func toUserDTO(u *userDomain.User) UserDTO {
	return UserDTO{
		ID:        u.ID(),
		Name:      u.Name(),
		Email:     u.Email(),
		Role:      string(u.Role()),
		ImageURL:  u.ImageURL(),
		CreatedAt: u.CreatedAt(),
	}
}

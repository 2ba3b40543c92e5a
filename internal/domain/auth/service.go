package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/greenledger/greenledger-api/internal/domain/user"
	"github.com/greenledger/greenledger-api/internal/pkg/jwt"
	"github.com/greenledger/greenledger-api/internal/pkg/password"
)

// Service handles authentication business logic
type Service struct {
	userRepo        user.Repository
	jwtService      *jwt.Service
	startingCredits float64
	startingWallet  float64
}

// NewService creates auth service
func NewService(userRepo user.Repository, jwtService *jwt.Service, startingCredits, startingWallet float64) *Service {
	return &Service{
		userRepo:        userRepo,
		jwtService:      jwtService,
		startingCredits: startingCredits,
		startingWallet:  startingWallet,
	}
}

// Register creates new user account with the starting balances
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	username := normalizeUsername(req.Username)

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &user.User{
		ID:            uuid.New(),
		Username:      username,
		PasswordHash:  hash,
		Role:          user.RoleUser,
		Credits:       s.startingCredits,
		WalletBalance: s.startingWallet,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}

	return s.buildAuthResponse(u)
}

// Login verifies credentials and issues an access token
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	username := normalizeUsername(req.Username)

	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}

	if !password.Verify(req.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.buildAuthResponse(u)
}

// Me returns the authenticated user's profile with current balances
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	resp := NewUserResponse(u.ID, u.Username, string(u.Role), u.Credits, u.WalletBalance, u.CreatedAt)
	return &resp, nil
}

func (s *Service) buildAuthResponse(u *user.User) (*AuthResponse, error) {
	token, err := s.jwtService.GenerateAccessToken(u.ID, u.Username, string(u.Role))
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User: NewUserResponse(u.ID, u.Username, string(u.Role), u.Credits, u.WalletBalance, u.CreatedAt),
		Token: TokenResponse{
			AccessToken: token,
			ExpiresIn:   int(s.jwtService.GetAccessTTL().Seconds()),
			TokenType:   "Bearer",
		},
	}, nil
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

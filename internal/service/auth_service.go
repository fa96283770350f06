package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rajkumar/portfolio-site/internal/config"
	"github.com/rajkumar/portfolio-site/internal/domain"
	"github.com/rajkumar/portfolio-site/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotAuthorized      = errors.New("not authorized")
)

// Claims is the verified identity carried by a session token.
type Claims struct {
	UserID   uuid.UUID
	Username string
	Role     domain.Role
}

func (c *Claims) IsAdmin() bool {
	return c != nil && c.Role == domain.RoleAdmin
}

// RequireAdmin is the single authorization decision every admin-gated
// operation goes through. A nil caller is anonymous.
func RequireAdmin(caller *Claims) error {
	if !caller.IsAdmin() {
		return ErrNotAuthorized
	}
	return nil
}

type AuthService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

type LoginInput struct {
	Username string
	Password string
}

type AuthResult struct {
	User  *domain.User
	Token string
}

// Login verifies the credentials and issues a fresh session token. Unknown
// username and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token}, nil
}

// IssueToken signs a token carrying the user's identity and role. Tokens are
// stateless: nothing is stored server-side and logout cannot revoke them.
func (s *AuthService) IssueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"name": user.Username,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.TokenTTL()).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ValidateToken checks signature and expiry. Verification is all-or-nothing:
// any malformed, tampered or expired token fails with ErrInvalidToken.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, _ := mapClaims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, ErrInvalidToken
	}
	name, _ := mapClaims["name"].(string)
	role, _ := mapClaims["role"].(string)
	if role != string(domain.RoleAdmin) && role != string(domain.RoleUser) {
		return nil, ErrInvalidToken
	}

	return &Claims{
		UserID:   userID,
		Username: name,
		Role:     domain.Role(role),
	}, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *AuthService) CookieSecure() bool {
	return s.cfg.IsProduction()
}

func (s *AuthService) CookieMaxAge() time.Duration {
	return s.cfg.TokenTTL()
}

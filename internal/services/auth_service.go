package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"marketplace/internal/models"
	"marketplace/internal/repositories"
)

// PasswordHasher turns plaintext passwords into one-way digests.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}

// BcryptHasher hashes with bcrypt at Cost (bcrypt.DefaultCost when zero).
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(plain string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h BcryptHasher) Compare(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

// AuthService handles registration, login and token verification.
type AuthService struct {
	users      repositories.UserRepository
	hasher     PasswordHasher
	jwtSecret  []byte
	tokenDurat time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repositories.UserRepository, hasher PasswordHasher, jwtSecret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{
		users:      users,
		hasher:     hasher,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: ttl,
	}
}

// RegisterUser creates a shopper account.
func (s *AuthService) RegisterUser(ctx context.Context, in models.Registration) (*models.User, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	return createUser(ctx, s.users, s.hasher, models.NewUser{
		Username: in.Username,
		Email:    in.Email,
		Password: in.Password,
		Role:     models.RoleShopper,
	})
}

// LoginUser checks the credentials and returns a signed token.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", fmt.Errorf("%w: invalid credentials", models.ErrUnauthenticated)
		}
		return "", err
	}
	if err := s.hasher.Compare(user.Password, password); err != nil {
		return "", fmt.Errorf("%w: invalid credentials", models.ErrUnauthenticated)
	}
	return s.IssueToken(*user)
}

// IssueToken signs a token for user.
func (s *AuthService) IssueToken(user models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"email":    user.Email,
		"role":     string(user.Role),
		"jti":      uuid.New().String(),
		"exp":      now.Add(s.tokenDurat).Unix(),
		"iat":      now.Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: invalid token: %v", models.ErrUnauthenticated, err)
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("%w: invalid token", models.ErrUnauthenticated)
}

// Verify returns the identity carried by a valid token. The account must still
// exist under the token's id with the same email and role, so tokens issued
// before a delete, renumbering or role change stop working.
func (s *AuthService) Verify(ctx context.Context, tokenString string) (models.Identity, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return models.Identity{}, err
	}
	id, ok := claims["user_id"].(float64)
	if !ok || id <= 0 {
		return models.Identity{}, fmt.Errorf("%w: token has no user", models.ErrUnauthenticated)
	}
	role, _ := claims["role"].(string)
	if !models.Role(role).Valid() {
		return models.Identity{}, fmt.Errorf("%w: token has no role", models.ErrUnauthenticated)
	}
	email, _ := claims["email"].(string)

	user, err := s.users.GetByID(ctx, int(id))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.Identity{}, fmt.Errorf("%w: account no longer exists", models.ErrUnauthenticated)
		}
		return models.Identity{}, err
	}
	if user.Role != models.Role(role) || !strings.EqualFold(user.Email, email) {
		return models.Identity{}, fmt.Errorf("%w: token no longer matches account", models.ErrUnauthenticated)
	}
	return models.Identity{ID: user.ID, Role: user.Role}, nil
}

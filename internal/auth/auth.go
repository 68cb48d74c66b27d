// Package auth provides JWT-backed authentication for case reviewers.
// Anyone can read public run output; suppressing or annotating a
// contradiction requires a reviewer token.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrReviewerExists     = errors.New("reviewer already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrReviewerNotFound   = errors.New("reviewer not found")
)

// Reviewer roles. Admins can register other reviewers; both roles can
// suppress and annotate.
const (
	RoleReviewer = "reviewer"
	RoleAdmin    = "admin"
)

// Reviewer is an account allowed to curate analysis output.
type Reviewer struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Claims represents the JWT claims issued on login.
type Claims struct {
	ReviewerID string `json:"reviewer_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// ReviewerRepository defines the interface for reviewer persistence.
type ReviewerRepository interface {
	Create(ctx context.Context, reviewer *Reviewer) error
	GetByID(ctx context.Context, id string) (*Reviewer, error)
	GetByEmail(ctx context.Context, email string) (*Reviewer, error)
}

// Service defines the authentication service interface.
type Service interface {
	Register(ctx context.Context, email, name, password string) (*Reviewer, error)
	Login(ctx context.Context, email, password string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Config holds authentication configuration.
type Config struct {
	SecretKey     string
	TokenDuration time.Duration
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		SecretKey:     "change-me-in-production",
		TokenDuration: 24 * time.Hour,
	}
}

// JWTService implements the Service interface.
type JWTService struct {
	config Config
	repo   ReviewerRepository
}

// NewJWTService creates a new JWT-based authentication service.
func NewJWTService(config Config, repo ReviewerRepository) *JWTService {
	return &JWTService{
		config: config,
		repo:   repo,
	}
}

// Register creates a new reviewer with a hashed password.
func (s *JWTService) Register(ctx context.Context, email, name, password string) (*Reviewer, error) {
	existing, _ := s.repo.GetByEmail(ctx, email)
	if existing != nil {
		return nil, ErrReviewerExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	reviewer := &Reviewer{
		Email:        email,
		Name:         name,
		Role:         RoleReviewer,
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, reviewer); err != nil {
		return nil, err
	}

	return reviewer, nil
}

// Login authenticates a reviewer and returns a JWT token.
func (s *JWTService) Login(ctx context.Context, email, password string) (string, error) {
	reviewer, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(reviewer.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.generateToken(reviewer)
}

// ValidateToken validates a JWT token and returns the claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.SecretKey), nil
	})

	if err != nil {
		return nil, ErrInvalidToken
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *JWTService) generateToken(reviewer *Reviewer) (string, error) {
	claims := &Claims{
		ReviewerID: reviewer.ID,
		Email:      reviewer.Email,
		Role:       reviewer.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.config.TokenDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.SecretKey))
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a password with a hash.
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

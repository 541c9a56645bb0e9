package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"marketplace/internal/domain"
	shopperrepo "marketplace/internal/repository/shopper"
	tokenrepo "marketplace/internal/repository/token"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
)

// Service handles shopper signup/login and bearer-token resolution.
type Service struct {
	repo        shopperrepo.Repository
	tokens      *tokenManager
	accessTTL   time.Duration
	refreshTTL  time.Duration
	passwordMin int
}

// New creates a Service with sane defaults.
func New(repo shopperrepo.Repository, tokens tokenrepo.Repository) *Service {
	return &Service{
		repo:        repo,
		tokens:      newTokenManager(tokens),
		accessTTL:   48 * time.Hour,
		refreshTTL:  30 * 24 * time.Hour,
		passwordMin: 8,
	}
}

// SignupInput captures fields expected by the signup endpoint. Role is
// fixed to client; managers and admins are provisioned out of band.
type SignupInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

// Signup registers a new shopper.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.Shopper, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, errors.New("email required")
	}
	password := strings.TrimSpace(in.Password)
	if len(password) < s.passwordMin {
		return nil, errors.New("password too short")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, shopperrepo.CreateInput{
		Email:        email,
		PasswordHash: string(hashed),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Phone:        strings.TrimSpace(in.Phone),
		Role:         domain.RoleClient,
	})
}

// Login verifies credentials and issues access and refresh tokens.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.Shopper, string, string, error) {
	shopper, err := s.repo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(shopper.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCredentials
	}
	access, err := s.tokens.Issue(ctx, shopper.ID, "access", s.accessTTL)
	if err != nil {
		return nil, "", "", err
	}
	refresh, err := s.tokens.Issue(ctx, shopper.ID, "refresh", s.refreshTTL)
	if err != nil {
		return nil, "", "", err
	}
	return shopper, access, refresh, nil
}

// LookupByToken resolves an access token into the shopper it belongs to.
func (s *Service) LookupByToken(ctx context.Context, token string) (*domain.Shopper, error) {
	meta, ok := s.tokens.Validate(ctx, token)
	if !ok {
		return nil, ErrInvalidToken
	}
	return s.repo.GetByID(ctx, meta.ShopperID)
}

// AccessTTLSeconds reports the lifetime of issued access tokens.
func (s *Service) AccessTTLSeconds() int {
	return int(s.accessTTL / time.Second)
}

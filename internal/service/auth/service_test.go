package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"marketplace/internal/domain"
	shopperrepo "marketplace/internal/repository/shopper"
	tokenrepo "marketplace/internal/repository/token"
	"golang.org/x/crypto/bcrypt"
)

type stubShopperRepo struct {
	created    *domain.Shopper
	createErr  error
	lastCreate shopperrepo.CreateInput
	byEmail    *domain.Shopper
	byEmailErr error
	byID       *domain.Shopper
	byIDErr    error
}

func (s *stubShopperRepo) Create(_ context.Context, in shopperrepo.CreateInput) (*domain.Shopper, error) {
	s.lastCreate = in
	return s.created, s.createErr
}

func (s *stubShopperRepo) GetByID(_ context.Context, _ string) (*domain.Shopper, error) {
	return s.byID, s.byIDErr
}

func (s *stubShopperRepo) GetByEmail(_ context.Context, _ string) (*domain.Shopper, error) {
	return s.byEmail, s.byEmailErr
}

type memTokenRepo struct {
	tokens  map[string]tokenrepo.Token
	deleted []string
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{tokens: map[string]tokenrepo.Token{}}
}

func (m *memTokenRepo) Create(_ context.Context, t tokenrepo.Token) error {
	if _, ok := m.tokens[t.Token]; ok {
		return domain.ErrAlreadyExists
	}
	m.tokens[t.Token] = t
	return nil
}

func (m *memTokenRepo) Get(_ context.Context, token string) (tokenrepo.Token, error) {
	t, ok := m.tokens[token]
	if !ok {
		return tokenrepo.Token{}, domain.ErrNotFound
	}
	return t, nil
}

func (m *memTokenRepo) Delete(_ context.Context, token string) error {
	delete(m.tokens, token)
	m.deleted = append(m.deleted, token)
	return nil
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return string(h)
}

func TestSignupValidation(t *testing.T) {
	svc := New(&stubShopperRepo{}, newMemTokenRepo())

	if _, err := svc.Signup(context.Background(), SignupInput{Email: "  ", Password: "longenough"}); err == nil {
		t.Fatalf("expected error for blank email")
	}
	if _, err := svc.Signup(context.Background(), SignupInput{Email: "a@b.fr", Password: "short"}); err == nil {
		t.Fatalf("expected error for short password")
	}
}

func TestSignupForcesClientRole(t *testing.T) {
	repo := &stubShopperRepo{created: &domain.Shopper{ID: "sh1"}}
	svc := New(repo, newMemTokenRepo())

	if _, err := svc.Signup(context.Background(), SignupInput{Email: "A@B.FR", Password: "longenough"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastCreate.Role != domain.RoleClient {
		t.Fatalf("signup must always create clients, got %q", repo.lastCreate.Role)
	}
	if repo.lastCreate.Email != "a@b.fr" {
		t.Fatalf("email must be lowercased, got %q", repo.lastCreate.Email)
	}
	if repo.lastCreate.PasswordHash == "longenough" {
		t.Fatalf("password must be hashed")
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	repo := &stubShopperRepo{createErr: domain.ErrAlreadyExists}
	svc := New(repo, newMemTokenRepo())

	_, err := svc.Signup(context.Background(), SignupInput{Email: "a@b.fr", Password: "longenough"})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc := New(&stubShopperRepo{byEmailErr: domain.ErrNotFound}, newMemTokenRepo())
	if _, _, _, err := svc.Login(context.Background(), "a@b.fr", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email must look like bad credentials, got %v", err)
	}

	repo := &stubShopperRepo{byEmail: &domain.Shopper{ID: "sh1", PasswordHash: hashOf(t, "rightpass")}}
	svc = New(repo, newMemTokenRepo())
	if _, _, _, err := svc.Login(context.Background(), "a@b.fr", "wrongpass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginIssuesTokens(t *testing.T) {
	repo := &stubShopperRepo{byEmail: &domain.Shopper{ID: "sh1", PasswordHash: hashOf(t, "rightpass")}}
	tokens := newMemTokenRepo()
	svc := New(repo, tokens)

	shopper, access, refresh, err := svc.Login(context.Background(), "a@b.fr", "rightpass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shopper.ID != "sh1" || access == "" || refresh == "" || access == refresh {
		t.Fatalf("expected distinct access and refresh tokens")
	}
	if tokens.tokens[access].Kind != "access" || tokens.tokens[refresh].Kind != "refresh" {
		t.Fatalf("token kinds not recorded")
	}
}

func TestLookupByToken(t *testing.T) {
	repo := &stubShopperRepo{
		byEmail: &domain.Shopper{ID: "sh1", PasswordHash: hashOf(t, "rightpass")},
		byID:    &domain.Shopper{ID: "sh1", Email: "a@b.fr"},
	}
	tokens := newMemTokenRepo()
	svc := New(repo, tokens)

	_, access, refresh, err := svc.Login(context.Background(), "a@b.fr", "rightpass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	shopper, err := svc.LookupByToken(context.Background(), access)
	if err != nil || shopper.ID != "sh1" {
		t.Fatalf("access token lookup failed: %v", err)
	}

	if _, err := svc.LookupByToken(context.Background(), refresh); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh tokens must not authenticate requests, got %v", err)
	}
	if _, err := svc.LookupByToken(context.Background(), "garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestExpiredTokenIsDeleted(t *testing.T) {
	tokens := newMemTokenRepo()
	tokens.tokens["stale"] = tokenrepo.Token{
		Token:     "stale",
		ShopperID: "sh1",
		Kind:      "access",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	svc := New(&stubShopperRepo{byID: &domain.Shopper{ID: "sh1"}}, tokens)

	if _, err := svc.LookupByToken(context.Background(), "stale"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if len(tokens.deleted) != 1 || tokens.deleted[0] != "stale" {
		t.Fatalf("expired token must be deleted, got %v", tokens.deleted)
	}
}

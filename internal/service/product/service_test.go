package product

import (
	"context"
	"errors"
	"testing"

	"marketplace/internal/domain"
	productrepo "marketplace/internal/repository/product"
)

type stubRepo struct {
	product      *domain.Product
	getErr       error
	created      *domain.Product
	createErr    error
	lastCreate   productrepo.CreateInput
	updated      *domain.Product
	updateErr    error
	lastUpdate   productrepo.UpdateInput
	deleteErr    error
	deletedID    string
	rated        *domain.Product
	rateErr      error
	lastRating   int
	deletedStore string
}

func (s *stubRepo) List(_ context.Context, _ productrepo.ListFilter, _, _ int) ([]domain.Product, int, error) {
	return nil, 0, nil
}

func (s *stubRepo) GetByID(_ context.Context, _ string) (*domain.Product, error) {
	return s.product, s.getErr
}

func (s *stubRepo) Create(_ context.Context, in productrepo.CreateInput) (*domain.Product, error) {
	s.lastCreate = in
	return s.created, s.createErr
}

func (s *stubRepo) Update(_ context.Context, _ string, in productrepo.UpdateInput) (*domain.Product, error) {
	s.lastUpdate = in
	return s.updated, s.updateErr
}

func (s *stubRepo) Delete(_ context.Context, id string) error {
	s.deletedID = id
	return s.deleteErr
}

func (s *stubRepo) DeleteByStore(_ context.Context, storeID string) (int, error) {
	s.deletedStore = storeID
	return 0, nil
}

func (s *stubRepo) Rate(_ context.Context, _ string, rating int) (*domain.Product, error) {
	s.lastRating = rating
	return s.rated, s.rateErr
}

type stubStoreRepo struct {
	store *domain.Store
	err   error
}

func (s *stubStoreRepo) GetByID(_ context.Context, _ string) (*domain.Store, error) {
	return s.store, s.err
}

type stubCache struct {
	stored      map[string]*domain.Product
	getCalls    int
	setCalls    int
	invalidated []string
}

func newStubCache() *stubCache {
	return &stubCache{stored: map[string]*domain.Product{}}
}

func (s *stubCache) Get(_ context.Context, productID string) (*domain.Product, error) {
	s.getCalls++
	if p, ok := s.stored[productID]; ok {
		return p, nil
	}
	return nil, errors.New("cache miss")
}

func (s *stubCache) Set(_ context.Context, product *domain.Product) error {
	s.setCalls++
	s.stored[product.ID] = product
	return nil
}

func (s *stubCache) Invalidate(_ context.Context, productID string) error {
	s.invalidated = append(s.invalidated, productID)
	delete(s.stored, productID)
	return nil
}

var (
	managerPrincipal = domain.Principal{ShopperID: "mgr", Role: domain.RoleManager}
	adminPrincipal   = domain.Principal{ShopperID: "root", Role: domain.RoleAdmin}
)

func TestCreateValidation(t *testing.T) {
	svc := &Service{repo: &stubRepo{}, stores: &stubStoreRepo{store: &domain.Store{ID: "st1", ManagerID: "mgr"}}}

	cases := []struct {
		name string
		in   CreateInput
	}{
		{"blank name", CreateInput{StoreID: "st1", Name: "  ", PriceCents: 100}},
		{"negative price", CreateInput{StoreID: "st1", Name: "Brie", PriceCents: -1}},
		{"negative stock", CreateInput{StoreID: "st1", Name: "Brie", PriceCents: 100, Stock: -1}},
		{"unknown category", CreateInput{StoreID: "st1", Name: "Brie", PriceCents: 100, Category: "electronics"}},
	}
	for _, tc := range cases {
		if _, err := svc.Create(context.Background(), managerPrincipal, tc.in); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestCreateDefaultsCategory(t *testing.T) {
	repo := &stubRepo{created: &domain.Product{ID: "p1"}}
	svc := &Service{repo: repo, stores: &stubStoreRepo{store: &domain.Store{ID: "st1", ManagerID: "mgr"}}}

	if _, err := svc.Create(context.Background(), managerPrincipal, CreateInput{StoreID: "st1", Name: "Brie", PriceCents: 100}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastCreate.Category != "other" {
		t.Fatalf("expected default category other, got %q", repo.lastCreate.Category)
	}
}

func TestCreateForeignStoreForbidden(t *testing.T) {
	svc := &Service{repo: &stubRepo{}, stores: &stubStoreRepo{store: &domain.Store{ID: "st1", ManagerID: "someone-else"}}}

	_, err := svc.Create(context.Background(), managerPrincipal, CreateInput{StoreID: "st1", Name: "Brie", PriceCents: 100})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCreateAdminBypassesStoreCheck(t *testing.T) {
	repo := &stubRepo{created: &domain.Product{ID: "p1"}}
	svc := &Service{repo: repo, stores: &stubStoreRepo{err: errors.New("must not be called")}}

	if _, err := svc.Create(context.Background(), adminPrincipal, CreateInput{StoreID: "st1", Name: "Brie", PriceCents: 100}); err != nil {
		t.Fatalf("admin create failed: %v", err)
	}
}

func TestGetReadThrough(t *testing.T) {
	repo := &stubRepo{product: &domain.Product{ID: "p1", Name: "Brie"}}
	c := newStubCache()
	svc := &Service{repo: repo, cache: c}

	first, err := svc.Get(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.setCalls != 1 {
		t.Fatalf("miss must populate the cache, got %d sets", c.setCalls)
	}

	repo.product = nil
	repo.getErr = domain.ErrNotFound
	second, err := svc.Get(context.Background(), "p1")
	if err != nil {
		t.Fatalf("expected cache hit, got %v", err)
	}
	if first.Name != second.Name {
		t.Fatalf("cache returned a different product")
	}
}

func TestGetWithoutCache(t *testing.T) {
	repo := &stubRepo{product: &domain.Product{ID: "p1"}}
	svc := &Service{repo: repo}

	if _, err := svc.Get(context.Background(), "p1"); err != nil {
		t.Fatalf("nil cache must be tolerated: %v", err)
	}
}

func TestUpdateInvalidatesCache(t *testing.T) {
	name := "Comté"
	repo := &stubRepo{
		product: &domain.Product{ID: "p1", StoreID: "st1"},
		updated: &domain.Product{ID: "p1", Name: name},
	}
	c := newStubCache()
	c.stored["p1"] = &domain.Product{ID: "p1", Name: "Brie"}
	svc := &Service{repo: repo, stores: &stubStoreRepo{store: &domain.Store{ID: "st1", ManagerID: "mgr"}}, cache: c}

	if _, err := svc.Update(context.Background(), managerPrincipal, "p1", UpdateInput{Name: &name}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.invalidated) != 1 || c.invalidated[0] != "p1" {
		t.Fatalf("update must invalidate the cached product, got %v", c.invalidated)
	}
}

func TestDeleteInvalidatesCache(t *testing.T) {
	repo := &stubRepo{product: &domain.Product{ID: "p1", StoreID: "st1"}}
	c := newStubCache()
	svc := &Service{repo: repo, stores: &stubStoreRepo{store: &domain.Store{ID: "st1", ManagerID: "mgr"}}, cache: c}

	if err := svc.Delete(context.Background(), managerPrincipal, "p1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.deletedID != "p1" || len(c.invalidated) != 1 {
		t.Fatalf("expected delete plus invalidation")
	}
}

func TestRateBounds(t *testing.T) {
	svc := &Service{repo: &stubRepo{}}

	if _, err := svc.Rate(context.Background(), "p1", 6); err == nil {
		t.Fatalf("expected error for rating above 5")
	}
	if _, err := svc.Rate(context.Background(), "p1", -1); err == nil {
		t.Fatalf("expected error for negative rating")
	}
}

func TestRate(t *testing.T) {
	repo := &stubRepo{rated: &domain.Product{ID: "p1", Rating: 4.5}}
	svc := &Service{repo: repo}

	p, err := svc.Rate(context.Background(), "p1", 5)
	if err != nil || repo.lastRating != 5 || p.Rating != 4.5 {
		t.Fatalf("unexpected result: %v %v", p, err)
	}
}

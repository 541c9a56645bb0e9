package cart

import (
	"context"
	"testing"

	"marketplace/internal/domain"
)

type stubCartRepo struct {
	cart           *domain.Cart
	cartErr        error
	addLineErr     error
	setQtyErr      error
	removeErr      error
	clearErr       error
	addLineCalls   int
	lastAddCartID  string
	lastAddProduct domain.Product
	lastAddQty     int
	lastAddStoreID string
	lastSetCartID  string
	lastSetProduct string
	lastSetQty     int
	lastRemoved    string
	clearedCartID  string
}

func (s *stubCartRepo) GetOrCreateByShopper(_ context.Context, _ string) (*domain.Cart, error) {
	return s.cart, s.cartErr
}

func (s *stubCartRepo) GetByShopper(_ context.Context, _ string) (*domain.Cart, error) {
	return s.cart, s.cartErr
}

func (s *stubCartRepo) AddLine(_ context.Context, cartID string, product domain.Product, quantity int, storeID string) error {
	s.addLineCalls++
	s.lastAddCartID = cartID
	s.lastAddProduct = product
	s.lastAddQty = quantity
	s.lastAddStoreID = storeID
	return s.addLineErr
}

func (s *stubCartRepo) SetLineQuantity(_ context.Context, cartID, productID string, quantity int) error {
	s.lastSetCartID = cartID
	s.lastSetProduct = productID
	s.lastSetQty = quantity
	return s.setQtyErr
}

func (s *stubCartRepo) RemoveLine(_ context.Context, _, productID string) error {
	s.lastRemoved = productID
	return s.removeErr
}

func (s *stubCartRepo) Clear(_ context.Context, cartID string) error {
	s.clearedCartID = cartID
	return s.clearErr
}

type stubProductRepo struct {
	product *domain.Product
	err     error
	lastID  string
}

func (s *stubProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	s.lastID = id
	return s.product, s.err
}

func TestAddItemValidation(t *testing.T) {
	svc := &Service{repo: &stubCartRepo{}, products: &stubProductRepo{}}

	if _, err := svc.AddItem(context.Background(), "sh1", AddItemInput{ProductID: "  ", Quantity: 1}); err == nil {
		t.Fatalf("expected error for blank productId")
	}
	if _, err := svc.AddItem(context.Background(), "sh1", AddItemInput{ProductID: "p1", Quantity: 0}); err == nil {
		t.Fatalf("expected error for zero quantity")
	}
	if _, err := svc.AddItem(context.Background(), "sh1", AddItemInput{ProductID: "p1", Quantity: -2}); err == nil {
		t.Fatalf("expected error for negative quantity")
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	repo := &stubCartRepo{}
	svc := &Service{repo: repo, products: &stubProductRepo{err: domain.ErrNotFound}}

	_, err := svc.AddItem(context.Background(), "sh1", AddItemInput{ProductID: "missing", Quantity: 1})
	if err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if repo.addLineCalls != 0 {
		t.Fatalf("cart must not be touched for unknown product")
	}
}

func TestAddItemInsufficientStock(t *testing.T) {
	repo := &stubCartRepo{}
	products := &stubProductRepo{product: &domain.Product{ID: "p1", StoreID: "st1", Stock: 2}}
	svc := &Service{repo: repo, products: products}

	_, err := svc.AddItem(context.Background(), "sh1", AddItemInput{ProductID: "p1", Quantity: 3})
	if !domain.IsInsufficientStock(err) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if repo.addLineCalls != 0 {
		t.Fatalf("cart must be left unchanged when stock is insufficient")
	}
}

func TestAddItemStoreMismatch(t *testing.T) {
	products := &stubProductRepo{product: &domain.Product{ID: "p1", StoreID: "st1", Stock: 10}}
	svc := &Service{repo: &stubCartRepo{}, products: products}

	_, err := svc.AddItem(context.Background(), "sh1", AddItemInput{ProductID: "p1", Quantity: 1, StoreID: "st2"})
	if err == nil {
		t.Fatalf("expected error when storeId does not match the product's store")
	}
}

func TestAddItemDefaultsStoreFromProduct(t *testing.T) {
	repo := &stubCartRepo{cart: &domain.Cart{ID: "c1"}}
	products := &stubProductRepo{product: &domain.Product{ID: "p1", StoreID: "st1", PriceCents: 450, Stock: 10}}
	svc := &Service{repo: repo, products: products}

	got, err := svc.AddItem(context.Background(), "sh1", AddItemInput{ProductID: "p1", Quantity: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.ID != "c1" {
		t.Fatalf("expected refreshed cart, got %+v", got)
	}
	if repo.lastAddCartID != "c1" || repo.lastAddQty != 2 {
		t.Fatalf("AddLine called with cart=%s qty=%d", repo.lastAddCartID, repo.lastAddQty)
	}
	if repo.lastAddStoreID != "st1" {
		t.Fatalf("store must default to the product's store, got %s", repo.lastAddStoreID)
	}
	if repo.lastAddProduct.PriceCents != 450 {
		t.Fatalf("the live product price must be handed to the repository for snapshotting")
	}
}

func TestSetQuantityChecksStock(t *testing.T) {
	repo := &stubCartRepo{cart: &domain.Cart{ID: "c1"}}
	products := &stubProductRepo{product: &domain.Product{ID: "p1", StoreID: "st1", Stock: 1}}
	svc := &Service{repo: repo, products: products}

	_, err := svc.SetQuantity(context.Background(), "sh1", "p1", 5)
	if !domain.IsInsufficientStock(err) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if repo.lastSetQty != 0 {
		t.Fatalf("line must not be changed when stock is insufficient")
	}
}

func TestSetQuantityMissingLine(t *testing.T) {
	repo := &stubCartRepo{cart: &domain.Cart{ID: "c1"}, setQtyErr: domain.ErrNotFound}
	products := &stubProductRepo{product: &domain.Product{ID: "p1", StoreID: "st1", Stock: 10}}
	svc := &Service{repo: repo, products: products}

	_, err := svc.SetQuantity(context.Background(), "sh1", "p1", 2)
	if err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound for a line not in the cart, got %v", err)
	}
}

func TestRemoveItemAbsentLineIsNoop(t *testing.T) {
	repo := &stubCartRepo{cart: &domain.Cart{ID: "c1"}}
	svc := &Service{repo: repo, products: &stubProductRepo{}}

	got, err := svc.RemoveItem(context.Background(), "sh1", "nope")
	if err != nil {
		t.Fatalf("removing an absent line must not fail: %v", err)
	}
	if got == nil || repo.lastRemoved != "nope" {
		t.Fatalf("expected delegation to the repository")
	}
}

func TestClear(t *testing.T) {
	repo := &stubCartRepo{cart: &domain.Cart{ID: "c1"}}
	svc := &Service{repo: repo, products: &stubProductRepo{}}

	if _, err := svc.Clear(context.Background(), "sh1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.clearedCartID != "c1" {
		t.Fatalf("expected Clear on cart c1, got %q", repo.clearedCartID)
	}
}

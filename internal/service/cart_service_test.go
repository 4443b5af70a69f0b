package service

import (
	"errors"
	"testing"

	"github.com/ezlab-crm/internal/models"
	"github.com/ezlab-crm/internal/repository"

	"gorm.io/gorm"
)

func newTestCartService(db *gorm.DB) *CartService {
	return NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
}

func TestCartGetOrCreateIsIdempotent(t *testing.T) {
	db := setupServiceDB(t)
	svc := newTestCartService(db)

	first, err := svc.GetOrCreateCart(11)
	if err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	second, err := svc.GetOrCreateCart(11)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("cart id changed: %d vs %d", first.ID, second.ID)
	}
	var count int64
	db.Model(&models.Cart{}).Where("user_id = ?", 11).Count(&count)
	if count != 1 {
		t.Fatalf("cart count want 1 got %d", count)
	}
}

func TestCartAddItemBoundedByStock(t *testing.T) {
	db := setupServiceDB(t)
	svc := newTestCartService(db)
	product := createTestProduct(t, db, "Drill", "30.00", 5)

	if _, err := svc.AddItem(1, product.ID, 3); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := svc.AddItem(1, product.ID, 3); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got: %v", err)
	}

	cart, err := svc.Get(1)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 3 {
		t.Fatalf("rejected add must leave cart unchanged, got %+v", cart.Items)
	}
	if cart.Items[0].ProductStock != 5 || productStock(t, db, product.ID) != 5 {
		t.Fatalf("cart must not reserve stock")
	}

	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).Update("price", "35.00").Error; err != nil {
		t.Fatalf("update price failed: %v", err)
	}
	item, err := svc.AddItem(1, product.ID, 2)
	if err != nil {
		t.Fatalf("top up failed: %v", err)
	}
	if item.Quantity != 5 || item.PriceAtAdd.String() != "35.00" {
		t.Fatalf("top up should merge and refresh price, got qty=%d price=%s", item.Quantity, item.PriceAtAdd.String())
	}
}

func TestCartAddItemUnknownProduct(t *testing.T) {
	db := setupServiceDB(t)
	svc := newTestCartService(db)

	if _, err := svc.AddItem(1, 999, 1); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected product not found, got: %v", err)
	}
	if _, err := svc.AddItem(1, 999, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity, got: %v", err)
	}
}

func TestCartUpdateAndRemoveScopedToOwner(t *testing.T) {
	db := setupServiceDB(t)
	svc := newTestCartService(db)
	product := createTestProduct(t, db, "Saw", "8.00", 4)

	item, err := svc.AddItem(1, product.ID, 1)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := svc.UpdateItemQuantity(2, item.ID, 2); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("other user update should be not found, got: %v", err)
	}
	if err := svc.UpdateItemQuantity(1, item.ID, 5); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got: %v", err)
	}
	if err := svc.UpdateItemQuantity(1, item.ID, 4); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if err := svc.RemoveItem(2, item.ID); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("other user remove should be not found, got: %v", err)
	}
	if err := svc.UpdateItemQuantity(1, item.ID, 0); err != nil {
		t.Fatalf("zero update failed: %v", err)
	}
	if err := svc.RemoveItem(1, item.ID); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("item should already be gone, got: %v", err)
	}
}

func TestCartClear(t *testing.T) {
	db := setupServiceDB(t)
	svc := newTestCartService(db)
	a := createTestProduct(t, db, "A", "1.00", 9)
	b := createTestProduct(t, db, "B", "1.00", 9)

	for _, id := range []uint{a.ID, b.ID} {
		if _, err := svc.AddItem(3, id, 1); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}
	if _, err := svc.AddItem(4, a.ID, 1); err != nil {
		t.Fatalf("add for other user failed: %v", err)
	}
	if err := svc.Clear(3); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	mine, err := svc.Get(3)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(mine.Items) != 0 {
		t.Fatalf("cart should be empty, got %d items", len(mine.Items))
	}
	theirs, err := svc.Get(4)
	if err != nil {
		t.Fatalf("get other failed: %v", err)
	}
	if len(theirs.Items) != 1 {
		t.Fatalf("other cart must be untouched, got %d items", len(theirs.Items))
	}
}

package service

import (
	"errors"
	"testing"

	"github.com/ezlab-crm/internal/constants"
	"github.com/ezlab-crm/internal/models"
	"github.com/ezlab-crm/internal/repository"

	"gorm.io/gorm"
)

func newTestOrderService(db *gorm.DB) *OrderService {
	return NewOrderService(repository.NewOrderRepository(db), repository.NewProductRepository(db))
}

func TestOrderItemLifecycleKeepsStockAndTotal(t *testing.T) {
	db := setupServiceDB(t)
	svc := newTestOrderService(db)
	product := createTestProduct(t, db, "Sensor", "12.50", 10)
	order := createTestOrder(t, db, constants.OrderStatusPending)

	updated, err := svc.AddItem(order.ID, product.ID, 4)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if got := productStock(t, db, product.ID); got != 6 {
		t.Fatalf("stock after add want 6 got %d", got)
	}
	if updated.TotalAmount.String() != "50.00" || orderTotal(t, db, order.ID) != "50.00" {
		t.Fatalf("total after add want 50.00 got %s", updated.TotalAmount.String())
	}
	if len(updated.Items) != 1 {
		t.Fatalf("items want 1 got %d", len(updated.Items))
	}
	itemID := updated.Items[0].ID

	if _, err := svc.UpdateItemQuantity(order.ID, itemID, 6); err != nil {
		t.Fatalf("update quantity failed: %v", err)
	}
	if got := productStock(t, db, product.ID); got != 4 {
		t.Fatalf("stock after update want 4 got %d", got)
	}
	if got := orderTotal(t, db, order.ID); got != "75.00" {
		t.Fatalf("total after update want 75.00 got %s", got)
	}

	if _, err := svc.RemoveItem(order.ID, itemID); err != nil {
		t.Fatalf("remove item failed: %v", err)
	}
	if got := productStock(t, db, product.ID); got != 10 {
		t.Fatalf("stock after remove want 10 got %d", got)
	}
	if got := orderTotal(t, db, order.ID); got != "0.00" {
		t.Fatalf("total after remove want 0.00 got %s", got)
	}
}

func TestOrderAddItemMergesSameProduct(t *testing.T) {
	db := setupServiceDB(t)
	svc := newTestOrderService(db)
	product := createTestProduct(t, db, "Cable", "3.00", 5)
	order := createTestOrder(t, db, constants.OrderStatusPending)

	if _, err := svc.AddItem(order.ID, product.ID, 2); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	updated, err := svc.AddItem(order.ID, product.ID, 3)
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	if len(updated.Items) != 1 || updated.Items[0].Quantity != 5 {
		t.Fatalf("items should merge into quantity 5, got %+v", updated.Items)
	}
	if got := productStock(t, db, product.ID); got != 0 {
		t.Fatalf("stock want 0 got %d", got)
	}
	if updated.TotalAmount.String() != "15.00" {
		t.Fatalf("total want 15.00 got %s", updated.TotalAmount.String())
	}
}

func TestOrderAddItemInsufficientStockLeavesStateUntouched(t *testing.T) {
	db := setupServiceDB(t)
	svc := newTestOrderService(db)
	product := createTestProduct(t, db, "Relay", "9.99", 2)
	order := createTestOrder(t, db, constants.OrderStatusPending)

	_, err := svc.AddItem(order.ID, product.ID, 3)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got: %v", err)
	}
	if got := productStock(t, db, product.ID); got != 2 {
		t.Fatalf("stock want 2 got %d", got)
	}
	var count int64
	db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&count)
	if count != 0 {
		t.Fatalf("no order item should be written, got %d", count)
	}
}

func TestOrderUpdateItemQuantityValidation(t *testing.T) {
	db := setupServiceDB(t)
	svc := newTestOrderService(db)
	product := createTestProduct(t, db, "Valve", "1.00", 3)
	order := createTestOrder(t, db, constants.OrderStatusPending)
	other := createTestOrder(t, db, constants.OrderStatusPending)

	updated, err := svc.AddItem(order.ID, product.ID, 2)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	itemID := updated.Items[0].ID

	if _, err := svc.UpdateItemQuantity(order.ID, itemID, 4); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock for diff 2 with stock 1, got: %v", err)
	}
	if _, err := svc.UpdateItemQuantity(other.ID, itemID, 1); !errors.Is(err, ErrOrderItemNotFound) {
		t.Fatalf("expected item not found on other order, got: %v", err)
	}
	if _, err := svc.UpdateItemQuantity(order.ID, itemID, -1); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity, got: %v", err)
	}

	final, err := svc.UpdateItemQuantity(order.ID, itemID, 0)
	if err != nil {
		t.Fatalf("zero quantity update failed: %v", err)
	}
	if len(final.Items) != 0 || final.TotalAmount.String() != "0.00" {
		t.Fatalf("zero quantity should delete item, got %+v total=%s", final.Items, final.TotalAmount.String())
	}
	if got := productStock(t, db, product.ID); got != 3 {
		t.Fatalf("stock want 3 got %d", got)
	}
}

func TestOrderCancelRoundTripRestoresStock(t *testing.T) {
	db := setupServiceDB(t)
	svc := newTestOrderService(db)
	a := createTestProduct(t, db, "A", "2.00", 10)
	b := createTestProduct(t, db, "B", "5.00", 4)
	order := createTestOrder(t, db, constants.OrderStatusPending)

	if _, err := svc.AddItem(order.ID, a.ID, 3); err != nil {
		t.Fatalf("add a failed: %v", err)
	}
	if _, err := svc.AddItem(order.ID, b.ID, 4); err != nil {
		t.Fatalf("add b failed: %v", err)
	}

	if _, err := svc.UpdateStatus(order.ID, constants.OrderStatusCancelled); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if productStock(t, db, a.ID) != 10 || productStock(t, db, b.ID) != 4 {
		t.Fatalf("cancel should credit stock back")
	}
	if _, err := svc.UpdateStatus(order.ID, constants.OrderStatusCancelled); err != nil {
		t.Fatalf("cancel twice failed: %v", err)
	}
	if productStock(t, db, a.ID) != 10 {
		t.Fatalf("repeat cancel must not credit again")
	}

	if _, err := svc.UpdateStatus(order.ID, constants.OrderStatusConfirmed); err != nil {
		t.Fatalf("uncancel failed: %v", err)
	}
	if productStock(t, db, a.ID) != 7 || productStock(t, db, b.ID) != 0 {
		t.Fatalf("uncancel should debit stock again, got a=%d b=%d", productStock(t, db, a.ID), productStock(t, db, b.ID))
	}
	if _, err := svc.UpdateStatus(order.ID, constants.OrderStatusShipped); err != nil {
		t.Fatalf("ship failed: %v", err)
	}
	if productStock(t, db, a.ID) != 7 {
		t.Fatalf("non-cancel transition must not touch stock")
	}
}

func TestOrderCancelledRejectsItemChanges(t *testing.T) {
	db := setupServiceDB(t)
	svc := newTestOrderService(db)
	product := createTestProduct(t, db, "Patch Cable", "3.00", 10)
	order := createTestOrder(t, db, constants.OrderStatusPending)

	updated, err := svc.AddItem(order.ID, product.ID, 4)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	itemID := updated.Items[0].ID
	if _, err := svc.UpdateStatus(order.ID, constants.OrderStatusCancelled); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	if _, err := svc.RemoveItem(order.ID, itemID); !errors.Is(err, ErrOrderCancelled) {
		t.Fatalf("remove on cancelled order want ErrOrderCancelled got %v", err)
	}
	if _, err := svc.UpdateItemQuantity(order.ID, itemID, 1); !errors.Is(err, ErrOrderCancelled) {
		t.Fatalf("update on cancelled order want ErrOrderCancelled got %v", err)
	}
	if _, err := svc.AddItem(order.ID, product.ID, 2); !errors.Is(err, ErrOrderCancelled) {
		t.Fatalf("add on cancelled order want ErrOrderCancelled got %v", err)
	}
	if got := productStock(t, db, product.ID); got != 10 {
		t.Fatalf("stock after rejected changes want 10 got %d", got)
	}
	if got := orderTotal(t, db, order.ID); got != "12.00" {
		t.Fatalf("total must stay 12.00 got %s", got)
	}
}

func TestOrderCancelledAddThenDeleteConservesStock(t *testing.T) {
	db := setupServiceDB(t)
	svc := newTestOrderService(db)
	product := createTestProduct(t, db, "Gauge", "5.00", 10)
	order := createTestOrder(t, db, constants.OrderStatusCancelled)

	if _, err := svc.AddItem(order.ID, product.ID, 4); !errors.Is(err, ErrOrderCancelled) {
		t.Fatalf("add on cancelled order want ErrOrderCancelled got %v", err)
	}
	if err := svc.Delete(order.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if got := productStock(t, db, product.ID); got != 10 {
		t.Fatalf("stock after delete want 10 got %d", got)
	}
}

func TestOrderCancelledAddThenUncancelDebitsOnce(t *testing.T) {
	db := setupServiceDB(t)
	svc := newTestOrderService(db)
	product := createTestProduct(t, db, "Valve", "1.50", 10)
	order := createTestOrder(t, db, constants.OrderStatusPending)

	if _, err := svc.AddItem(order.ID, product.ID, 4); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if _, err := svc.UpdateStatus(order.ID, constants.OrderStatusCancelled); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if _, err := svc.AddItem(order.ID, product.ID, 4); !errors.Is(err, ErrOrderCancelled) {
		t.Fatalf("add on cancelled order want ErrOrderCancelled got %v", err)
	}
	if _, err := svc.UpdateStatus(order.ID, constants.OrderStatusPending); err != nil {
		t.Fatalf("uncancel failed: %v", err)
	}
	if got := productStock(t, db, product.ID); got != 6 {
		t.Fatalf("stock after uncancel want 6 got %d", got)
	}
	if got := orderTotal(t, db, order.ID); got != "6.00" {
		t.Fatalf("total after uncancel want 6.00 got %s", got)
	}
}

func TestOrderUncancelRejectsWhenStockConsumed(t *testing.T) {
	db := setupServiceDB(t)
	svc := newTestOrderService(db)
	product := createTestProduct(t, db, "Chip", "1.50", 5)
	order := createTestOrder(t, db, constants.OrderStatusPending)
	rival := createTestOrder(t, db, constants.OrderStatusPending)

	if _, err := svc.AddItem(order.ID, product.ID, 4); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if _, err := svc.UpdateStatus(order.ID, constants.OrderStatusCancelled); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if _, err := svc.AddItem(rival.ID, product.ID, 3); err != nil {
		t.Fatalf("rival add failed: %v", err)
	}

	_, err := svc.UpdateStatus(order.ID, constants.OrderStatusPending)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock on uncancel, got: %v", err)
	}
	if got := productStock(t, db, product.ID); got != 2 {
		t.Fatalf("stock want 2 got %d", got)
	}
	var reloaded models.Order
	db.First(&reloaded, order.ID)
	if reloaded.Status != constants.OrderStatusCancelled {
		t.Fatalf("status should stay Cancelled, got %s", reloaded.Status)
	}
}

func TestOrderUpdateStatusRejectsUnknown(t *testing.T) {
	db := setupServiceDB(t)
	svc := newTestOrderService(db)
	order := createTestOrder(t, db, constants.OrderStatusPending)

	if _, err := svc.UpdateStatus(order.ID, "Lost"); !errors.Is(err, ErrInvalidOrderStatus) {
		t.Fatalf("expected invalid status, got: %v", err)
	}
	if _, err := svc.UpdateStatus(order.ID+100, constants.OrderStatusDraft); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected order not found, got: %v", err)
	}
}

func TestOrderDeleteCreditsStock(t *testing.T) {
	db := setupServiceDB(t)
	svc := newTestOrderService(db)
	product := createTestProduct(t, db, "Motor", "20.00", 6)
	live := createTestOrder(t, db, constants.OrderStatusPending)
	cancelled := createTestOrder(t, db, constants.OrderStatusPending)

	if _, err := svc.AddItem(live.ID, product.ID, 2); err != nil {
		t.Fatalf("add live failed: %v", err)
	}
	if _, err := svc.AddItem(cancelled.ID, product.ID, 3); err != nil {
		t.Fatalf("add cancelled failed: %v", err)
	}
	if _, err := svc.UpdateStatus(cancelled.ID, constants.OrderStatusCancelled); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if got := productStock(t, db, product.ID); got != 4 {
		t.Fatalf("stock want 4 got %d", got)
	}

	if err := svc.Delete(cancelled.ID); err != nil {
		t.Fatalf("delete cancelled failed: %v", err)
	}
	if got := productStock(t, db, product.ID); got != 4 {
		t.Fatalf("deleting a cancelled order must not credit twice, got %d", got)
	}
	if err := svc.Delete(live.ID); err != nil {
		t.Fatalf("delete live failed: %v", err)
	}
	if got := productStock(t, db, product.ID); got != 6 {
		t.Fatalf("stock want 6 got %d", got)
	}
	var items int64
	db.Model(&models.OrderItem{}).Count(&items)
	if items != 0 {
		t.Fatalf("order items should be removed, got %d", items)
	}
	if err := svc.Delete(live.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected not found on second delete, got: %v", err)
	}
}

func TestOrderCreateAndList(t *testing.T) {
	db := setupServiceDB(t)
	svc := newTestOrderService(db)

	if _, err := svc.Create(CreateOrderInput{UserID: 1, CustomerName: "  "}); !errors.Is(err, ErrCustomerNameRequired) {
		t.Fatalf("expected customer name required, got: %v", err)
	}
	first, err := svc.Create(CreateOrderInput{UserID: 1, CustomerName: "First"})
	if err != nil {
		t.Fatalf("create first failed: %v", err)
	}
	if first.Status != constants.OrderStatusPending {
		t.Fatalf("status want Pending got %s", first.Status)
	}
	second, err := svc.Create(CreateOrderInput{UserID: 1, CustomerName: "Second"})
	if err != nil {
		t.Fatalf("create second failed: %v", err)
	}
	if err := db.Model(&models.Order{}).Where("id = ?", second.ID).Update("customer_name", "").Error; err != nil {
		t.Fatalf("clear name failed: %v", err)
	}

	orders, err := svc.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(orders) != 2 || orders[0].ID != second.ID {
		t.Fatalf("newest order should be first, got %+v", orders)
	}
	if orders[0].CustomerName != constants.UnknownCustomerName {
		t.Fatalf("empty customer should render as %s, got %s", constants.UnknownCustomerName, orders[0].CustomerName)
	}
}

func TestOrderDetailIncludesOrderedImages(t *testing.T) {
	db := setupServiceDB(t)
	svc := newTestOrderService(db)
	product := createTestProduct(t, db, "Lamp", "4.00", 3)
	for _, url := range []string{"/uploads/images/b.png", "/uploads/images/a.png"} {
		if err := db.Create(&models.ProductImage{ProductID: product.ID, ImageURL: url}).Error; err != nil {
			t.Fatalf("create image failed: %v", err)
		}
	}
	order := createTestOrder(t, db, constants.OrderStatusPending)
	if _, err := svc.AddItem(order.ID, product.ID, 1); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	detail, err := svc.GetDetail(order.ID)
	if err != nil {
		t.Fatalf("get detail failed: %v", err)
	}
	if len(detail.Items) != 1 || detail.Items[0].Name != "Lamp" {
		t.Fatalf("unexpected items: %+v", detail.Items)
	}
	urls := detail.Items[0].ImageURLs
	if len(urls) != 2 || urls[0] != "/uploads/images/b.png" {
		t.Fatalf("images should keep insertion order, got %v", urls)
	}
	if _, err := svc.GetDetail(order.ID + 50); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected order not found, got: %v", err)
	}
}

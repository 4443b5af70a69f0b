package service

import (
	"fmt"
	"sort"

	"github.com/ezlab-crm/internal/models"
	"github.com/ezlab-crm/internal/repository"
)

// stockLine 单个商品的库存变动量
type stockLine struct {
	ProductID uint
	Quantity  int
}

// summarizeStockByProduct 按商品汇总订单项数量，结果按商品 ID 升序
func summarizeStockByProduct(items []models.OrderItem) []stockLine {
	totals := make(map[uint]int)
	for _, item := range items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			continue
		}
		totals[item.ProductID] += item.Quantity
	}
	lines := make([]stockLine, 0, len(totals))
	for productID, quantity := range totals {
		lines = append(lines, stockLine{ProductID: productID, Quantity: quantity})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines
}

// debitStock 扣减单个商品库存，库存不足返回 ErrInsufficientStock
func debitStock(productRepo repository.ProductRepository, productID uint, quantity int) error {
	if quantity <= 0 {
		return nil
	}
	affected, err := productRepo.DebitStock(productID, quantity)
	if err != nil {
		return fmt.Errorf("debit stock for product %d: %w", productID, err)
	}
	if affected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// creditStock 回补单个商品库存，商品已删除时忽略
func creditStock(productRepo repository.ProductRepository, productID uint, quantity int) error {
	if quantity <= 0 {
		return nil
	}
	if _, err := productRepo.CreditStock(productID, quantity); err != nil {
		return fmt.Errorf("credit stock for product %d: %w", productID, err)
	}
	return nil
}

// adjustStock 按差值调整库存：正数扣减，负数回补
func adjustStock(productRepo repository.ProductRepository, productID uint, diff int) error {
	switch {
	case diff > 0:
		return debitStock(productRepo, productID, diff)
	case diff < 0:
		return creditStock(productRepo, productID, -diff)
	default:
		return nil
	}
}

// debitStockByItems 按订单项批量扣减库存，任一不足即失败
func debitStockByItems(productRepo repository.ProductRepository, items []models.OrderItem) error {
	lines := summarizeStockByProduct(items)
	if err := lockProducts(productRepo, lines); err != nil {
		return err
	}
	for _, line := range lines {
		if err := debitStock(productRepo, line.ProductID, line.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// creditStockByItems 按订单项批量回补库存
func creditStockByItems(productRepo repository.ProductRepository, items []models.OrderItem) error {
	lines := summarizeStockByProduct(items)
	if err := lockProducts(productRepo, lines); err != nil {
		return err
	}
	for _, line := range lines {
		if err := creditStock(productRepo, line.ProductID, line.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func lockProducts(productRepo repository.ProductRepository, lines []stockLine) error {
	if len(lines) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	if _, err := productRepo.ListByIDsForUpdate(ids); err != nil {
		return fmt.Errorf("lock products: %w", err)
	}
	return nil
}

// sumOrderItems 计算订单项合计 Σ(quantity × price_at_order)
func sumOrderItems(items []models.OrderItem) models.Money {
	total := models.Money{}
	for _, item := range items {
		total = total.Add(item.PriceAtOrder.Times(item.Quantity))
	}
	return total
}

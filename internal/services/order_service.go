package services

import (
	"fmt"

	"aurelia/internal/domain"
	"aurelia/internal/repos"

	"github.com/google/uuid"
)

type Contact struct {
	Name  string
	Email string
}

type OrderService struct {
	Carts    *repos.CartRepo
	Prods    *repos.ProductRepo
	Orders   *repos.OrderRepo
	Shipping domain.ShippingPolicy
}

func NewOrderService(carts *repos.CartRepo, prods *repos.ProductRepo, orders *repos.OrderRepo, shipping domain.ShippingPolicy) *OrderService {
	return &OrderService{Carts: carts, Prods: prods, Orders: orders, Shipping: shipping}
}

// Checkout freezes the session cart into a PENDING order and clears the
// cart, all in one transaction, so a cart can never check out twice.
// Line names and prices are copied by value from the catalog at this
// moment; client-supplied amounts are never trusted.
func (s *OrderService) Checkout(sessionID string, contact Contact, address, payment string) (string, error) {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return "", err
	}
	if err := s.Carts.PruneInactive(cartID); err != nil {
		return "", err
	}
	lines, err := s.Carts.Lines(cartID)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", domain.ErrEmptyCart
	}

	// Snapshot + totals from the live catalog price
	var subtotal domain.Money
	items := make([]repos.SnapshotItem, 0, len(lines))
	for _, l := range lines {
		p, err := s.Prods.Get(l.ProductID)
		if err != nil {
			return "", err
		}
		subtotal += domain.Money(l.Qty) * p.Price
		items = append(items, repos.SnapshotItem{
			ProductID: p.ID,
			Name:      p.Name,
			Qty:       l.Qty,
			Price:     p.Price,
		})
	}
	shipping := s.Shipping.Cost(subtotal)
	total := subtotal + shipping

	orderID := uuid.NewString()
	if err := s.Orders.CreateWithItems(orderID, sessionID, cartID,
		contact.Name, contact.Email, address, payment,
		subtotal, shipping, total, items); err != nil {
		return "", err
	}
	return orderID, nil
}

// Transition moves an order along the status machine. The edge is checked
// against the closed table before anything is written; this is the only
// mutation an order permits after creation.
func (s *OrderService) Transition(orderID string, target domain.OrderStatus) (domain.OrderStatus, error) {
	current, err := s.Orders.GetStatus(orderID)
	if err != nil {
		return "", err
	}
	if err := domain.CheckTransition(current, target); err != nil {
		return current, err
	}
	if err := s.Orders.UpdateStatus(orderID, current, target); err != nil {
		return current, fmt.Errorf("update status: %w", err)
	}
	return target, nil
}

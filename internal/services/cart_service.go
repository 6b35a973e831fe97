package services

import (
	"fmt"

	"aurelia/internal/domain"
	"aurelia/internal/repos"

	"github.com/google/uuid"
)

type CartService struct {
	Carts    *repos.CartRepo
	Prods    *repos.ProductRepo
	Shipping domain.ShippingPolicy
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo, shipping domain.ShippingPolicy) *CartService {
	return &CartService{Carts: carts, Prods: prods, Shipping: shipping}
}

// Add merges qty into the session's line for the product, creating the line
// if needed. Adds are always positive, and an out-of-stock product may be
// browsed but never added.
func (s *CartService) Add(sessionID, productID string, qty int) error {
	if qty < 1 {
		return fmt.Errorf("%w: add of %d", domain.ErrInvalidQuantity, qty)
	}
	p, err := s.Prods.Get(productID)
	if err != nil {
		return err
	}
	if !p.InStock || !p.Active {
		return fmt.Errorf("%w: %s is out of stock", domain.ErrInvalidQuantity, productID)
	}
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	return s.Carts.UpsertLine(uuid.NewString(), cartID, productID, qty, p.Price)
}

// SetQuantity overwrites a line's quantity; zero or below removes the line.
func (s *CartService) SetQuantity(sessionID, lineID string, qty int) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	if qty <= 0 {
		return s.Carts.DeleteLine(cartID, lineID)
	}
	return s.Carts.SetLineQty(cartID, lineID, qty)
}

// RemoveLine is idempotent: removing an absent line is a no-op.
func (s *CartService) RemoveLine(sessionID, lineID string) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	return s.Carts.DeleteLine(cartID, lineID)
}

type CartView struct {
	Lines    []repos.CartLineRow
	Subtotal domain.Money
	Shipping domain.Money
	Total    domain.Money
}

func (v CartView) IsEmpty() bool { return len(v.Lines) == 0 }

// Remaining is how much more the shopper needs for free shipping; zero once
// the threshold is cleared.
func (v CartView) Remaining(p domain.ShippingPolicy) domain.Money {
	if v.Shipping == 0 {
		return 0
	}
	return p.Threshold - v.Subtotal + 1
}

// View recomputes totals from scratch on every call: line totals from the
// live catalog price, shipping from the threshold policy. Lines whose
// product was deactivated are pruned first.
func (s *CartService) View(sessionID string) (CartView, error) {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return CartView{}, err
	}
	if err := s.Carts.PruneInactive(cartID); err != nil {
		return CartView{}, err
	}
	lines, err := s.Carts.Lines(cartID)
	if err != nil {
		return CartView{}, err
	}
	var subtotal domain.Money
	for _, l := range lines {
		subtotal += l.LineTotal
	}
	shipping := s.Shipping.Cost(subtotal)
	return CartView{
		Lines:    lines,
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal + shipping,
	}, nil
}
